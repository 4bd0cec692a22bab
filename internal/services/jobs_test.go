package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

func TestCreateJobDefaultMilestones(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	require.Equal(t, models.JobCreated, job.Status)
	require.Equal(t, f.profile.ID, job.ProviderID)
	require.Equal(t, f.customer.UserID, job.CustomerID)

	var milestones []models.JobMilestone
	require.NoError(t, f.db.Where("job_id = ?", job.ID).Order("id").Find(&milestones).Error)
	require.Len(t, milestones, 3)
	for i, m := range milestones {
		require.Equal(t, DefaultMilestones[i], m.Title)
		require.True(t, m.Amount.IsZero())
		require.False(t, m.Funded)
		require.False(t, m.Completed)
	}
	require.EqualValues(t, 1, f.count(t, &models.JobStatusLog{}, "job_id = ? AND status = ?", job.ID, models.JobCreated))
}

func TestCreateJobRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.jobs.CreateJob(f.provider, f.service.ID, time.Now())
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.jobs.CreateJob(f.customer, 9999, time.Now())
	require.ErrorIs(t, err, ErrServiceNotFound)
	require.EqualValues(t, 0, f.count(t, &models.Job{}, "1 = 1"))
	require.EqualValues(t, 0, f.count(t, &models.JobMilestone{}, "1 = 1"))
}

func TestCompletingAllMilestonesCompletesJob(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	for i, m := range job.Milestones {
		_, err := f.jobs.CompleteMilestone(f.provider, m.ID)
		require.NoError(t, err)

		got, err := f.jobs.GetJob(f.customer, job.ID)
		require.NoError(t, err)
		if i < len(job.Milestones)-1 {
			require.Equal(t, models.JobCreated, got.Status)
		} else {
			require.Equal(t, models.JobCompleted, got.Status)
		}
	}
	require.EqualValues(t, 1, f.count(t, &models.JobStatusLog{}, "job_id = ? AND status = ?", job.ID, models.JobCompleted))
	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", f.customer.UserID, models.NotificationJobCompleted))

	// Un-marking a milestone leaves the job completed.
	undone := false
	m, err := f.jobs.UpdateMilestone(f.provider, job.Milestones[0].ID, MilestoneUpdate{Completed: &undone})
	require.NoError(t, err)
	require.False(t, m.Completed)
	got, err := f.jobs.GetJob(f.customer, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobCompleted, got.Status)
}

func TestMilestonePermissions(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	id := job.Milestones[0].ID

	_, err := f.jobs.CompleteMilestone(f.customer, id)
	require.ErrorIs(t, err, ErrForbidden)

	other, err := f.accounts.Register(RegisterInput{
		Username: "otto", Email: "otto@example.com", Password: "secret123", Role: models.RoleProvider,
	})
	require.NoError(t, err)
	_, err = f.jobs.CompleteMilestone(authz.FromUser(other), id)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.jobs.CompleteMilestone(f.provider, 9999)
	require.ErrorIs(t, err, ErrMilestoneNotFound)
}

func TestMilestoneAmountLockedAfterFunding(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)
	id := job.Milestones[0].ID
	f.priceMilestone(t, id, 100)
	f.setBalance(t, f.customer.UserID, 100)

	_, err := f.escrow.FundMilestone(f.customer, id)
	require.NoError(t, err)

	price := decimal.NewFromInt(50)
	_, err = f.jobs.UpdateMilestone(f.provider, id, MilestoneUpdate{Amount: &price})
	require.ErrorIs(t, err, ErrMilestoneLocked)

	title := "Assessment visit"
	m, err := f.jobs.UpdateMilestone(f.provider, id, MilestoneUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, m.Title)
	requireAmount(t, 100, m.Amount)
}

func TestUpdateJobStatus(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	_, err := f.jobs.UpdateJobStatus(f.customer, job.ID, "paused")
	require.ErrorIs(t, err, ErrInvalidStatus)

	got, err := f.jobs.UpdateJobStatus(f.provider, job.ID, models.JobInProgress)
	require.NoError(t, err)
	require.Equal(t, models.JobInProgress, got.Status)

	history, err := f.jobs.StatusHistory(f.customer, job.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.JobInProgress, history[1].Status)
}

func TestJobVisibility(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	outsider, err := f.accounts.Register(RegisterInput{
		Username: "eve", Email: "eve@example.com", Password: "secret123", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	_, err = f.jobs.GetJob(authz.FromUser(outsider), job.ID)
	require.ErrorIs(t, err, ErrForbidden)

	list, err := f.jobs.ListJobs(authz.FromUser(outsider))
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = f.jobs.ListJobs(f.provider)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Milestones, 3)
}

func TestBookings(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	_, err := f.bookings.CreateBooking(f.provider, job.ID)
	require.ErrorIs(t, err, ErrForbidden)

	booking, err := f.bookings.CreateBooking(f.customer, job.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", booking.PaymentStatus)

	_, err = f.bookings.CreateBooking(f.customer, job.ID)
	require.ErrorIs(t, err, ErrBookingExists)

	confirmed, err := f.bookings.ConfirmBooking(f.provider, booking.ID)
	require.NoError(t, err)
	require.True(t, confirmed.Confirmed)
	require.Equal(t, models.JobAccepted, confirmed.Job.Status)

	_, err = f.bookings.ConfirmBooking(f.provider, booking.ID)
	require.ErrorIs(t, err, ErrBookingConfirmed)

	list, err := f.bookings.ListBookings(f.provider)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.CreateService(f.provider, ServiceInput{
		CategoryID: f.service.CategoryID,
		Title:      f.service.Title,
		Price:      decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrServiceExists)

	_, err = f.catalog.CreateCategory(f.customer, "Cleaning", "")
	require.ErrorIs(t, err, ErrForbidden)

	profile, err := f.catalog.GetProviderBySlug("paul")
	require.NoError(t, err)
	require.Len(t, profile.Services, 1)

	bio := "Licensed plumber"
	updated, err := f.catalog.UpdateProfile(f.provider, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, bio, updated.Bio)

	_, err = f.catalog.SetAvatar(context.Background(), f.provider, nil)
	require.ErrorIs(t, err, ErrMediaUnavailable)
}
