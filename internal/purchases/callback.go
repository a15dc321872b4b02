package purchases

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

const callbackSeparator = "_"

// EncodeCallbackData builds the "<token>_<purchaseId>" button payload.
func EncodeCallbackData(event enums.PurchaseEvent, purchaseID string) string {
	return event.CallbackToken() + callbackSeparator + purchaseID
}

// DecodeCallbackData splits a button payload on its first separator. The
// purchase id keeps any separators of its own. An unknown token is reported
// with ok=false but still returns the purchase id.
func DecodeCallbackData(data string) (event enums.PurchaseEvent, purchaseID string, ok bool, err error) {
	token, id, found := strings.Cut(strings.TrimSpace(data), callbackSeparator)
	if !found || token == "" || id == "" {
		return "", "", false, fmt.Errorf("malformed callback data %q", data)
	}
	event, ok = enums.PurchaseEventFromToken(token)
	return event, id, ok, nil
}
