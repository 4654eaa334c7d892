package request

import (
	"encoding/json"
	"errors"
	"testing"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

func TestCreatePaymentRequest_Decode(t *testing.T) {
	var r CreatePaymentRequest
	body := `{"amount":"46.60","payment_method":" Card ","transaction_id":"123","payment_details":{"last4":"4242"}}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Amount.Cents() != 4660 {
		t.Fatalf("expected 4660 cents, got %d", r.Amount.Cents())
	}
	if r.Method() != entities.PaymentMethodCard {
		t.Fatalf("expected card, got %q", r.Method())
	}
	if r.PaymentDetails["last4"] != "4242" {
		t.Fatalf("unexpected details: %+v", r.PaymentDetails)
	}

	var n CreatePaymentRequest
	if err := json.Unmarshal([]byte(`{"amount":28.66,"payment_method":"cash"}`), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Amount.Cents() != 2866 {
		t.Fatalf("expected 2866 cents, got %d", n.Amount.Cents())
	}
}

func TestCreatePaymentRequest_DecodeInvalidAmount(t *testing.T) {
	for _, body := range []string{
		`{"amount":"abc","payment_method":"cash"}`,
		`{"amount":10.005,"payment_method":"cash"}`,
		`{"amount":null,"payment_method":"cash"}`,
	} {
		var r CreatePaymentRequest
		err := json.Unmarshal([]byte(body), &r)
		if !errors.Is(err, money.ErrInvalidAmount) {
			t.Fatalf("body %s: expected ErrInvalidAmount, got %v", body, err)
		}
	}
}

func TestSplitPaymentRequest_Normalize(t *testing.T) {
	var r SplitPaymentRequest
	if err := json.Unmarshal([]byte(`{"split_type":" EQUAL ","number_of_payers":3,"payment_method":"Digital_Wallet","split_amounts":["10.00",5]}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Type() != "equal" || r.NumberOfPayers != 3 {
		t.Fatalf("unexpected split: %+v", r)
	}
	if r.Method() != entities.PaymentMethodDigitalWallet {
		t.Fatalf("expected digital_wallet, got %q", r.Method())
	}
	if len(r.SplitAmounts) != 2 || r.SplitAmounts[0].Cents() != 1000 || r.SplitAmounts[1].Cents() != 500 {
		t.Fatalf("unexpected split amounts: %v", r.SplitAmounts)
	}
}

func TestOrderRequests_Status(t *testing.T) {
	if got := (UpdateOrderStatusRequest{Status: " Served "}).OrderStatus(); got != entities.OrderStatusServed {
		t.Fatalf("expected served, got %q", got)
	}
	if got := (CreateOrderRequest{}).OrderStatus(); got != "" {
		t.Fatalf("expected empty status, got %q", got)
	}
}
