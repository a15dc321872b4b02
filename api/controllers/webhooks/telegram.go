package webhooks

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pharmops-backend/api/responses"
	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/telegram"
)

type callbackHandler interface {
	HandleCallback(ctx context.Context, cb purchases.Callback) (*purchases.Purchase, error)
}

type telegramWebhookResult struct {
	Handled    bool   `json:"handled"`
	PurchaseID string `json:"purchaseId,omitempty"`
	Status     string `json:"status,omitempty"`
	Rejected   string `json:"rejected,omitempty"`
}

// TelegramWebhook applies inline button presses. Rejected actions are answered
// in the chat and acknowledged with 200 so the Bot API does not redeliver them.
func TelegramWebhook(svc callbackHandler, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		if !telegram.VerifySecret(r, secret) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook secret"))
			return
		}

		cb, err := telegram.DecodeCallback(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid telegram update"))
			return
		}
		if cb == nil {
			responses.WriteSuccess(w, telegramWebhookResult{Handled: false})
			return
		}
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"callback_id": cb.ID,
				"chat_id":     cb.ChatID,
				"message_id":  cb.MessageID,
			})
		}

		purchase, err := svc.HandleCallback(ctx, purchases.Callback{ID: cb.ID, Data: cb.Data})
		if err != nil {
			if rejection, ok := purchases.RejectionOf(err); ok {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "reason", rejection.Reason), "telegram callback rejected")
				}
				responses.WriteSuccess(w, telegramWebhookResult{Handled: true, Rejected: rejection.Reason})
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, telegramWebhookResult{
			Handled:    true,
			PurchaseID: purchase.ID,
			Status:     string(purchase.Status),
		})
	}
}
