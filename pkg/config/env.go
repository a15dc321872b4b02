package config

const EnvPrefix = "PHARMOPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv           = "PHARMOPS_APP_ENV"
	EnvPort             = "PHARMOPS_APP_PORT"
	EnvDBDSN            = "PHARMOPS_DB_DSN"
	EnvDBHost           = "PHARMOPS_DB_HOST"
	EnvDBUser           = "PHARMOPS_DB_USER"
	EnvDBName           = "PHARMOPS_DB_NAME"
	EnvUseSQLite        = "PHARMOPS_USE_SQLITE"
	EnvRedisURL         = "PHARMOPS_REDIS_URL"
	EnvTelegramToken    = "PHARMOPS_TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID   = "PHARMOPS_TELEGRAM_CHAT_ID"
	EnvTelegramDigest   = "PHARMOPS_TELEGRAM_DIGEST_CHAT_IDS"
	EnvNotificationsTZ  = "PHARMOPS_NOTIFICATIONS_TIMEZONE"
	EnvNotificationsLoc = "PHARMOPS_NOTIFICATIONS_LOCALE"
)

var dsnPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
