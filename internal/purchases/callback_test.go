package purchases

import (
	"testing"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

func TestCallbackDataRoundTrip(t *testing.T) {
	id := "purchase_1736500000000_ab12cd34"
	data := EncodeCallbackData(enums.PurchaseEventRequestPayment, id)
	if data != "payment_"+id {
		t.Fatalf("unexpected payload %q", data)
	}

	event, got, ok, err := DecodeCallbackData(data)
	if err != nil || !ok {
		t.Fatalf("decode failed: ok=%v err=%v", ok, err)
	}
	if event != enums.PurchaseEventRequestPayment || got != id {
		t.Fatalf("decoded %s/%s", event, got)
	}
}

func TestDecodeCallbackDataRejectsMalformed(t *testing.T) {
	for _, data := range []string{"", "accept", "accept_", "_purchase_1"} {
		if _, _, _, err := DecodeCallbackData(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestDecodeCallbackDataUnknownToken(t *testing.T) {
	_, id, ok, err := DecodeCallbackData("launch_purchase_1_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected unknown token")
	}
	if id != "purchase_1_x" {
		t.Fatalf("expected id to be reassembled, got %q", id)
	}
}
