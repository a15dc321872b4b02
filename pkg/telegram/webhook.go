package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Callback is the subset of an inline button press the service acts on.
type Callback struct {
	ID        string
	Data      string
	ChatID    int64
	MessageID int
}

// VerifySecret reports whether the request carries the configured webhook
// secret. An empty secret disables the check.
func VerifySecret(r *http.Request, secret string) bool {
	if secret == "" {
		return true
	}
	got := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}

// DecodeCallback parses a webhook update. Updates that are not callback
// queries return (nil, nil).
func DecodeCallback(body io.Reader) (*Callback, error) {
	var update tgbotapi.Update
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		return nil, fmt.Errorf("decode telegram update: %w", err)
	}
	query := update.CallbackQuery
	if query == nil {
		return nil, nil
	}
	cb := &Callback{ID: query.ID, Data: query.Data}
	if query.Message != nil {
		cb.MessageID = query.Message.MessageID
		if query.Message.Chat != nil {
			cb.ChatID = query.Message.Chat.ID
		}
	}
	return cb, nil
}
