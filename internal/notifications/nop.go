package notifications

import (
	"context"

	"github.com/angelmondragon/pharmops-backend/pkg/telegram"
)

// NopMessenger drops every delivery. It stands in when no bot token is set.
type NopMessenger struct{}

func (NopMessenger) Send(context.Context, int64, string, []telegram.Button) (int, error) {
	return 0, nil
}

func (NopMessenger) Edit(context.Context, int64, int, string, []telegram.Button) error {
	return nil
}

func (NopMessenger) AnswerCallback(context.Context, string, string) error {
	return nil
}
