package services

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

func TestFundMilestone(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 100)
	f.setBalance(t, f.customer.UserID, 150)

	escrow, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)
	require.Equal(t, models.EscrowHeld, escrow.Status)
	require.Equal(t, f.provider.UserID, escrow.ProviderID)
	requireAmount(t, 100, escrow.Amount)
	requireAmount(t, 50, f.balance(t, f.customer.UserID))

	var stored models.JobMilestone
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	require.True(t, stored.Funded)

	var txn models.Transaction
	require.NoError(t, f.db.Where("escrow_id = ?", escrow.ID).First(&txn).Error)
	require.Equal(t, models.TransactionDebit, txn.Type)
	requireAmount(t, 100, txn.Amount)
	require.NotEmpty(t, txn.Reference)

	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", f.provider.UserID, models.NotificationMilestoneFunded))
}

func TestFundMilestoneTwice(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 40)
	f.setBalance(t, f.customer.UserID, 100)

	_, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)
	_, err = f.escrow.FundMilestone(f.customer, m.ID)
	require.ErrorIs(t, err, ErrAlreadyFunded)

	requireAmount(t, 60, f.balance(t, f.customer.UserID))
	require.EqualValues(t, 1, f.count(t, &models.Escrow{}, "milestone_id = ?", m.ID))
	require.EqualValues(t, 1, f.count(t, &models.Transaction{}, "type = ?", models.TransactionDebit))
}

func TestFundMilestoneConcurrent(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 10)
	f.setBalance(t, f.customer.UserID, 100)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.escrow.FundMilestone(f.customer, m.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyFunded)
	}
	require.Equal(t, 1, ok)
	requireAmount(t, 90, f.balance(t, f.customer.UserID))
	require.EqualValues(t, 1, f.count(t, &models.Escrow{}, "milestone_id = ?", m.ID))
}

func TestFundMilestoneInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 100)
	f.setBalance(t, f.customer.UserID, 99)

	_, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	requireAmount(t, 99, f.balance(t, f.customer.UserID))
	require.EqualValues(t, 0, f.count(t, &models.Escrow{}, "1 = 1"))
	require.EqualValues(t, 0, f.count(t, &models.Transaction{}, "1 = 1"))

	var stored models.JobMilestone
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	require.False(t, stored.Funded)
}

func TestFundMilestoneErrors(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]

	_, err := f.escrow.FundMilestone(f.customer, 9999)
	require.ErrorIs(t, err, ErrMilestoneNotFound)

	_, err = f.escrow.FundMilestone(f.provider, m.ID)
	require.ErrorIs(t, err, ErrForbidden)

	other, err := f.accounts.Register(RegisterInput{
		Username: "mallory", Email: "mallory@example.com", Password: "secret123", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	f.setBalance(t, other.ID, 1000)
	_, err = f.escrow.FundMilestone(authz.FromUser(other), m.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// A zero-amount milestone can be funded.
	escrow, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)
	require.True(t, escrow.Amount.IsZero())

	// Already funded is reported before ownership.
	_, err = f.escrow.FundMilestone(authz.FromUser(other), m.ID)
	require.ErrorIs(t, err, ErrAlreadyFunded)
}

func TestFundingStopsAtBalance(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	for _, m := range job.Milestones {
		f.priceMilestone(t, m.ID, 100)
	}
	f.setBalance(t, f.customer.UserID, 250)

	_, err := f.escrow.FundMilestone(f.customer, job.Milestones[0].ID)
	require.NoError(t, err)
	requireAmount(t, 150, f.balance(t, f.customer.UserID))

	_, err = f.escrow.FundMilestone(f.customer, job.Milestones[1].ID)
	require.NoError(t, err)
	requireAmount(t, 50, f.balance(t, f.customer.UserID))

	_, err = f.escrow.FundMilestone(f.customer, job.Milestones[2].ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	requireAmount(t, 50, f.balance(t, f.customer.UserID))

	require.EqualValues(t, 2, f.count(t, &models.Escrow{}, "job_id = ?", job.ID))
}

func TestReleaseEscrow(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 100)
	f.setBalance(t, f.customer.UserID, 100)

	escrow, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)

	_, err = f.escrow.ReleaseEscrow(f.customer, escrow.ID)
	require.ErrorIs(t, err, ErrMilestoneIncomplete)

	_, err = f.jobs.CompleteMilestone(f.provider, m.ID)
	require.NoError(t, err)

	_, err = f.escrow.ReleaseEscrow(f.provider, escrow.ID)
	require.ErrorIs(t, err, ErrForbidden)

	released, err := f.escrow.ReleaseEscrow(f.customer, escrow.ID)
	require.NoError(t, err)
	require.Equal(t, models.EscrowReleased, released.Status)
	require.NotNil(t, released.ReleasedAt)
	requireAmount(t, 100, f.balance(t, f.provider.UserID))

	_, err = f.escrow.ReleaseEscrow(f.customer, escrow.ID)
	require.ErrorIs(t, err, ErrEscrowNotHeld)
	requireAmount(t, 100, f.balance(t, f.provider.UserID))
	require.EqualValues(t, 1, f.count(t, &models.Transaction{}, "type = ?", models.TransactionCredit))
}

func TestRefundEscrow(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	m := job.Milestones[0]
	f.priceMilestone(t, m.ID, 70)
	f.setBalance(t, f.customer.UserID, 100)

	escrow, err := f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)

	_, err = f.escrow.RefundEscrow(f.customer, escrow.ID)
	require.ErrorIs(t, err, ErrForbidden)

	refunded, err := f.escrow.RefundEscrow(f.provider, escrow.ID)
	require.NoError(t, err)
	require.Equal(t, models.EscrowRefunded, refunded.Status)
	requireAmount(t, 100, f.balance(t, f.customer.UserID))

	_, err = f.escrow.RefundEscrow(f.provider, escrow.ID)
	require.ErrorIs(t, err, ErrEscrowNotHeld)

	// The milestone can be funded again after a refund.
	_, err = f.escrow.FundMilestone(f.customer, m.ID)
	require.NoError(t, err)
	requireAmount(t, 30, f.balance(t, f.customer.UserID))

	list, err := f.escrow.ListEscrows(f.customer, job.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestFundMilestoneFractionalAmounts(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	a, b := job.Milestones[0], job.Milestones[1]

	for id, price := range map[uint]string{a.ID: "0.10", b.ID: "0.2"} {
		amount := decimal.RequireFromString(price)
		_, err := f.jobs.UpdateMilestone(f.provider, id, MilestoneUpdate{Amount: &amount})
		require.NoError(t, err)
	}
	err := f.db.Model(&models.Wallet{}).Where("user_id = ?", f.customer.UserID).
		Update("balance", decimal.RequireFromString("0.30")).Error
	require.NoError(t, err)

	escrowA, err := f.escrow.FundMilestone(f.customer, a.ID)
	require.NoError(t, err)
	require.Equal(t, "0.2", f.balance(t, f.customer.UserID).String())

	_, err = f.escrow.FundMilestone(f.customer, b.ID)
	require.NoError(t, err)
	require.True(t, f.balance(t, f.customer.UserID).IsZero())

	_, err = f.escrow.RefundEscrow(f.provider, escrowA.ID)
	require.NoError(t, err)
	require.Equal(t, "0.1", f.balance(t, f.customer.UserID).String())
}

func TestUpdateMilestoneRoundsAmount(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	amount := decimal.RequireFromString("12.345")
	m, err := f.jobs.UpdateMilestone(f.provider, job.Milestones[0].ID, MilestoneUpdate{Amount: &amount})
	require.NoError(t, err)
	require.Equal(t, "12.35", m.Amount.StringFixed(2))

	var stored models.JobMilestone
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	require.True(t, decimal.RequireFromString("12.35").Equal(stored.Amount))
}
