package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
	ErrInvalidTransactionID            = errors.New("transaction_id is not a mercado pago payment id")
)

const mockApprovedStatus = "approved"

// MercadoPagoGateway confirms card charges made on Mercado Pago by looking
// up the payment id the client submitted as transaction_id.
type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) ConfirmPayment(ctx context.Context, transactionID string, expected money.Money) (interfaces.GatewayConfirmation, error) {
	if g != nil && g.mockMode {
		raw, err := json.Marshal(map[string]any{
			"id":                 transactionID,
			"status":             mockApprovedStatus,
			"status_detail":      "accredited",
			"transaction_amount": expected.Decimal(),
			"date_approved":      time.Now().UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return interfaces.GatewayConfirmation{}, err
		}
		log.Printf("[payment][gateway] mock confirm transaction_id=%s amount=%s", transactionID, expected)
		return interfaces.GatewayConfirmation{
			ProviderPaymentID: transactionID,
			Status:            mockApprovedStatus,
			Amount:            expected,
			Raw:               raw,
		}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.GatewayConfirmation{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimSpace(transactionID))
	if err != nil || id <= 0 {
		return interfaces.GatewayConfirmation{}, fmt.Errorf("%w: %q", ErrInvalidTransactionID, transactionID)
	}
	log.Printf("[payment][gateway] lookup start provider_payment_id=%d", id)

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		log.Printf("[payment][gateway] sdk get failed provider_payment_id=%d err=%v", id, err)
		return interfaces.GatewayConfirmation{}, err
	}

	amount, err := money.FromDecimal(decimal.NewFromFloat(resp.TransactionAmount).Round(2))
	if err != nil {
		return interfaces.GatewayConfirmation{}, fmt.Errorf("provider amount %v: %w", resp.TransactionAmount, err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[payment][gateway] response marshal failed err=%v", err)
		return interfaces.GatewayConfirmation{}, err
	}
	log.Printf("[payment][gateway] lookup success provider_payment_id=%d provider_status=%s amount=%s", resp.ID, resp.Status, amount)

	return interfaces.GatewayConfirmation{
		ProviderPaymentID: strconv.Itoa(resp.ID),
		Status:            resp.Status,
		Amount:            amount,
		Raw:               raw,
	}, nil
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
