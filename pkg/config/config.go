package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	Telegram      TelegramConfig
	Notifications NotificationsConfig
	Purchases     PurchasesConfig
	Analytics     AnalyticsConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Notifications.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"PHARMOPS_APP_ENV" required:"true"`
	Port           string   `envconfig:"PHARMOPS_APP_PORT" default:"8080"`
	LogLevel       string   `envconfig:"PHARMOPS_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"PHARMOPS_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"PHARMOPS_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"PHARMOPS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PHARMOPS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PHARMOPS_DB_DSN"`
	Driver string `envconfig:"PHARMOPS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PHARMOPS_DB_HOST"`
	Port     int    `envconfig:"PHARMOPS_DB_PORT" default:"5432"`
	User     string `envconfig:"PHARMOPS_DB_USER"`
	Password string `envconfig:"PHARMOPS_DB_PASSWORD"`
	Name     string `envconfig:"PHARMOPS_DB_NAME"`
	SSLMode  string `envconfig:"PHARMOPS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PHARMOPS_SQLITE_PATH" default:"pharmops.db"`

	MaxOpenConns    int           `envconfig:"PHARMOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHARMOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHARMOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHARMOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: without a URL or address the API falls back to
// in-process locking and skips idempotency replay.
type RedisConfig struct {
	URL          string        `envconfig:"PHARMOPS_REDIS_URL"`
	Address      string        `envconfig:"PHARMOPS_REDIS_ADDR"`
	Password     string        `envconfig:"PHARMOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHARMOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHARMOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHARMOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHARMOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHARMOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHARMOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type TelegramConfig struct {
	BotToken      string  `envconfig:"PHARMOPS_TELEGRAM_BOT_TOKEN"`
	ChatID        int64   `envconfig:"PHARMOPS_TELEGRAM_CHAT_ID"`
	DigestChatIDs []int64 `envconfig:"PHARMOPS_TELEGRAM_DIGEST_CHAT_IDS"`
	WebhookSecret string  `envconfig:"PHARMOPS_TELEGRAM_WEBHOOK_SECRET"`
	APIEndpoint   string  `envconfig:"PHARMOPS_TELEGRAM_API_ENDPOINT"`
	Debug         bool    `envconfig:"PHARMOPS_TELEGRAM_DEBUG" default:"false"`
}

// Enabled reports whether outbound Telegram delivery is configured.
func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && t.ChatID != 0
}

// DigestChats returns the chats receiving the replenishment digest, falling
// back to the purchase chat.
func (t TelegramConfig) DigestChats() []int64 {
	if len(t.DigestChatIDs) > 0 {
		return t.DigestChatIDs
	}
	if t.ChatID != 0 {
		return []int64{t.ChatID}
	}
	return nil
}

type NotificationsConfig struct {
	Locale   string        `envconfig:"PHARMOPS_NOTIFICATIONS_LOCALE" default:"ru"`
	Timezone string        `envconfig:"PHARMOPS_NOTIFICATIONS_TIMEZONE" default:"Europe/Moscow"`
	Timeout  time.Duration `envconfig:"PHARMOPS_NOTIFICATIONS_TIMEOUT" default:"10s"`
}

// Location resolves the fixed timezone used for notification timestamps.
func (n NotificationsConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(n.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading notifications timezone %q: %w", n.Timezone, err)
	}
	return loc, nil
}

type PurchasesConfig struct {
	LockTTL     time.Duration `envconfig:"PHARMOPS_PURCHASES_LOCK_TTL" default:"10s"`
	Idempotency time.Duration `envconfig:"PHARMOPS_PURCHASES_IDEMPOTENCY_TTL" default:"24h"`
}

type AnalyticsConfig struct {
	LowStockDays int `envconfig:"PHARMOPS_ANALYTICS_LOW_STOCK_DAYS" default:"14"`
	Workers      int `envconfig:"PHARMOPS_ANALYTICS_WORKERS" default:"4"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PHARMOPS_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"PHARMOPS_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PHARMOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PHARMOPS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dsnPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
