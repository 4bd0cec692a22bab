package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MimiPlatform/internal/models"
)

func TestDepositFlow(t *testing.T) {
	f := newFixture(t)

	_, err := f.wallet.InitiateDeposit(f.customer, decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)

	deposit, err := f.wallet.InitiateDeposit(f.customer, decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	require.NotEmpty(t, deposit.AuthorizationURL)
	require.True(t, f.balance(t, f.customer.UserID).IsZero())

	txn, err := f.wallet.VerifyDeposit(f.customer, deposit.Reference)
	require.NoError(t, err)
	require.Equal(t, models.TransactionCompleted, txn.Status)
	require.True(t, decimal.RequireFromString("120.50").Equal(f.balance(t, f.customer.UserID)))

	_, err = f.wallet.VerifyDeposit(f.customer, deposit.Reference)
	require.ErrorIs(t, err, ErrDepositNotPending)

	_, err = f.wallet.VerifyDeposit(f.provider, deposit.Reference)
	require.ErrorIs(t, err, ErrTransactionNotFound)

	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", f.customer.UserID, models.NotificationDepositSuccess))
}

func TestVerifyUnknownPayment(t *testing.T) {
	f := newFixture(t)
	wallet, err := f.wallet.GetWallet(f.customer)
	require.NoError(t, err)

	// A pending deposit the gateway never saw.
	require.NoError(t, f.db.Create(&models.Transaction{
		WalletID:  wallet.ID,
		Type:      models.TransactionDeposit,
		Status:    models.TransactionPending,
		Amount:    decimal.NewFromInt(10),
		Reference: "DEP-UNKNOWN",
	}).Error)

	_, err = f.wallet.VerifyDeposit(f.customer, "DEP-UNKNOWN")
	require.ErrorIs(t, err, ErrPaymentNotVerified)
	require.True(t, f.balance(t, f.customer.UserID).IsZero())
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	f.priceMilestone(t, job.Milestones[0].ID, 10)
	f.priceMilestone(t, job.Milestones[1].ID, 20)
	f.setBalance(t, f.customer.UserID, 100)

	_, err := f.escrow.FundMilestone(f.customer, job.Milestones[0].ID)
	require.NoError(t, err)
	_, err = f.escrow.FundMilestone(f.customer, job.Milestones[1].ID)
	require.NoError(t, err)
	_, err = f.wallet.InitiateDeposit(f.customer, decimal.NewFromInt(5))
	require.NoError(t, err)

	all, total, err := f.wallet.ListTransactions(f.customer, "", 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, all, 3)

	debits, total, err := f.wallet.ListTransactions(f.customer, models.TransactionDebit, 1, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, debits, 1)
}

// kobo32Gateway reports payments the way paystack-go does, as float32 kobo.
type kobo32Gateway struct {
	payments sync.Map
}

func (g *kobo32Gateway) Initialize(email string, amount decimal.Decimal, reference string) (string, error) {
	g.payments.Store(reference, toKobo(amount))
	return "https://checkout.local/pay/" + reference, nil
}

func (g *kobo32Gateway) Verify(reference string) (decimal.Decimal, error) {
	v, ok := g.payments.Load(reference)
	if !ok {
		return decimal.Zero, ErrPaymentNotVerified
	}
	return decimal.NewFromFloat32(v.(float32)).Div(decimal.NewFromInt(100)).Round(2), nil
}

func TestVerifyLargeDepositInKobo(t *testing.T) {
	f := newFixture(t)
	wallet := NewWalletService(f.db, &kobo32Gateway{}, f.notify, discardLogger())

	amount := decimal.RequireFromString("200000.01")
	deposit, err := wallet.InitiateDeposit(f.customer, amount)
	require.NoError(t, err)

	txn, err := wallet.VerifyDeposit(f.customer, deposit.Reference)
	require.NoError(t, err)
	require.Equal(t, models.TransactionCompleted, txn.Status)
	require.True(t, amount.Equal(f.balance(t, f.customer.UserID)))
}

func TestPaidInFull(t *testing.T) {
	require.True(t, paidInFull(decimal.RequireFromString("200000"), decimal.RequireFromString("200000.01")))
	require.True(t, paidInFull(decimal.RequireFromString("10.50"), decimal.RequireFromString("10.5")))
	require.False(t, paidInFull(decimal.RequireFromString("10.49"), decimal.RequireFromString("10.50")))
}

type failingGateway struct{}

func (failingGateway) Initialize(string, decimal.Decimal, string) (string, error) {
	return "", errors.New("gateway down")
}

func (failingGateway) Verify(string) (decimal.Decimal, error) {
	return decimal.Zero, ErrPaymentNotVerified
}

func TestInitiateDepositGatewayFailure(t *testing.T) {
	f := newFixture(t)
	wallet := NewWalletService(f.db, failingGateway{}, f.notify, discardLogger())

	_, err := wallet.InitiateDeposit(f.customer, decimal.NewFromInt(50))
	require.Error(t, err)
	require.EqualValues(t, 1, f.count(t, &models.Transaction{}, "type = ? AND status = ?", models.TransactionDeposit, models.TransactionFailed))
}
