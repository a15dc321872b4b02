package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/angelmondragon/pharmops-backend/pkg/config"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
)

const defaultHTTPTimeout = 15 * time.Second

// Button is one inline keyboard button. Data is echoed back in the callback.
type Button struct {
	Text string
	Data string
}

// Client sends and edits HTML messages through the Bot API.
type Client struct {
	bot *tgbotapi.BotAPI
}

// New authenticates the bot token against the Bot API.
func New(ctx context.Context, cfg config.TelegramConfig, logg *logger.Logger) (*Client, error) {
	return NewWithHTTPClient(ctx, cfg, &http.Client{Timeout: defaultHTTPTimeout}, logg)
}

// NewWithHTTPClient is New with a caller-supplied transport.
func NewWithHTTPClient(ctx context.Context, cfg config.TelegramConfig, httpClient *http.Client, logg *logger.Logger) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("telegram bot token is required")
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	bot.Debug = cfg.Debug
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bot", bot.Self.UserName), "telegram bot authorized")
	}
	return &Client{bot: bot}, nil
}

// Send posts a new message and returns its message id.
func (c *Client) Send(ctx context.Context, chatID int64, text string, buttons []Button) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup := keyboard(buttons); markup != nil {
		msg.ReplyMarkup = *markup
	}
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("telegram send: %w", err)
	}
	return sent.MessageID, nil
}

// Edit replaces the text of an existing message. An empty button list removes
// the keyboard.
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, buttons []Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard(buttons)
	if _, err := c.bot.Request(edit); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("telegram edit: %w", err)
	}
	return nil
}

// isNotModified matches the Bot API rejection for an edit that changes
// nothing, which happens when a refresh is replayed.
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Message, "message is not modified")
	}
	return false
}

// AnswerCallback acknowledges a button press with a short toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram answer callback: %w", err)
	}
	return nil
}

func keyboard(buttons []Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}
