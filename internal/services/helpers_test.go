package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/database"
	"MimiPlatform/internal/models"
)

type fixture struct {
	db *gorm.DB

	customer authz.Principal
	provider authz.Principal
	profile  models.ProviderProfile
	service  models.ProviderService

	accounts *AccountService
	catalog  *CatalogService
	jobs     *JobService
	escrow   *EscrowService
	wallet   *WalletService
	bookings *BookingService
	chat     *ChatService
	notify   *NotificationService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture registers one customer and one provider offering one service.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := discardLogger()
	notify := NewNotificationService(db, NewLogMailer(log), log)
	f := &fixture{
		db:       db,
		accounts: NewAccountService(db),
		catalog:  NewCatalogService(db, nil, log),
		jobs:     NewJobService(db, notify),
		escrow:   NewEscrowService(db, notify),
		wallet:   NewWalletService(db, NewSimulatedGateway(), notify, log),
		bookings: NewBookingService(db),
		chat:     NewChatService(db, notify),
		notify:   notify,
	}

	customer, err := f.accounts.Register(RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "secret123", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	provider, err := f.accounts.Register(RegisterInput{
		Username: "paul", Email: "paul@example.com", Password: "secret123", Role: models.RoleProvider,
	})
	require.NoError(t, err)
	f.customer = authz.FromUser(customer)
	f.provider = authz.FromUser(provider)

	require.NoError(t, db.Where("user_id = ?", provider.ID).First(&f.profile).Error)

	category := models.ServiceCategory{Name: "Plumbing"}
	require.NoError(t, db.Create(&category).Error)
	svc, err := f.catalog.CreateService(f.provider, ServiceInput{
		CategoryID: category.ID,
		Title:      "Fix a leak",
		Price:      decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	f.service = *svc
	return f
}

func (f *fixture) newJob(t *testing.T) *models.Job {
	t.Helper()
	job, err := f.jobs.CreateJob(f.customer, f.service.ID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	return job
}

func (f *fixture) setBalance(t *testing.T, userID uint, amount int64) {
	t.Helper()
	err := f.db.Model(&models.Wallet{}).Where("user_id = ?", userID).Update("balance", decimal.NewFromInt(amount)).Error
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	var wallet models.Wallet
	require.NoError(t, f.db.Where("user_id = ?", userID).First(&wallet).Error)
	return wallet.Balance
}

func (f *fixture) priceMilestone(t *testing.T, id uint, amount int64) {
	t.Helper()
	price := decimal.NewFromInt(amount)
	_, err := f.jobs.UpdateMilestone(f.provider, id, MilestoneUpdate{Amount: &price})
	require.NoError(t, err)
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func requireAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}
