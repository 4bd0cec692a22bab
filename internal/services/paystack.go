package services

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rpip/paystack-go"
	"github.com/shopspring/decimal"

	"MimiPlatform/internal/config"
)

// PaymentGateway collects money from outside the platform into a wallet.
type PaymentGateway interface {
	// Initialize returns the checkout URL the customer pays at.
	Initialize(email string, amount decimal.Decimal, reference string) (string, error)
	// Verify returns the amount paid for reference, or ErrPaymentNotVerified.
	Verify(reference string) (decimal.Decimal, error)
}

// NewPaymentGateway returns Paystack when a secret key is configured and a
// simulated gateway otherwise.
func NewPaymentGateway(cfg config.PaystackConfig, log *slog.Logger) PaymentGateway {
	if cfg.SecretKey == "" {
		log.Warn("PAYSTACK_SECRET_KEY is empty, deposits use the simulated gateway")
		return NewSimulatedGateway()
	}
	log.Info("payment gateway initialized", "provider", "paystack", "secret_key", config.Mask(cfg.SecretKey))
	return &PaystackGateway{
		client:      paystack.NewClient(cfg.SecretKey, &http.Client{Timeout: 30 * time.Second}),
		callbackURL: cfg.CallbackURL,
	}
}

type PaystackGateway struct {
	client      *paystack.Client
	callbackURL string
}

func (g *PaystackGateway) Initialize(email string, amount decimal.Decimal, reference string) (string, error) {
	req := &paystack.TransactionRequest{
		Email:       email,
		Amount:      toKobo(amount),
		Reference:   reference,
		CallbackURL: g.callbackURL,
		Currency:    "NGN",
	}
	resp, err := g.client.Transaction.Initialize(req)
	if err != nil {
		return "", fmt.Errorf("paystack initialize: %w", err)
	}
	url, ok := resp["authorization_url"].(string)
	if !ok || url == "" {
		return "", fmt.Errorf("paystack initialize: missing authorization_url")
	}
	return url, nil
}

func (g *PaystackGateway) Verify(reference string) (decimal.Decimal, error) {
	txn, err := g.client.Transaction.Verify(reference)
	if err != nil {
		return decimal.Zero, fmt.Errorf("paystack verify: %w", err)
	}
	if txn.Status != "success" {
		return decimal.Zero, ErrPaymentNotVerified
	}
	// Paystack reports amounts in kobo.
	return decimal.NewFromFloat32(txn.Amount).Div(decimal.NewFromInt(100)).Round(2), nil
}

// toKobo converts to the float32 kobo paystack-go carries. Above 2^24 kobo
// float32 no longer holds every integer, so callers compare in this unit.
func toKobo(amount decimal.Decimal) float32 {
	kobo, _ := amount.Mul(decimal.NewFromInt(100)).Round(0).Float64()
	return float32(kobo)
}

// paidInFull compares a verified payment with the expected amount after both
// pass through the same kobo conversion as the checkout request.
func paidInFull(paid, expected decimal.Decimal) bool {
	return toKobo(paid) >= toKobo(expected)
}

// SimulatedGateway marks every initialized reference as paid. It is used in
// development and tests when no Paystack key is configured.
type SimulatedGateway struct {
	payments sync.Map // reference -> decimal.Decimal
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Initialize(email string, amount decimal.Decimal, reference string) (string, error) {
	g.payments.Store(reference, amount)
	return "https://checkout.local/pay/" + reference, nil
}

func (g *SimulatedGateway) Verify(reference string) (decimal.Decimal, error) {
	v, ok := g.payments.Load(reference)
	if !ok {
		return decimal.Zero, ErrPaymentNotVerified
	}
	return v.(decimal.Decimal), nil
}
