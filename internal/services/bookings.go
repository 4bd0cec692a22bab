package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// ListBookings returns the customer's bookings, or for providers the
// bookings of jobs they were hired for.
func (s *BookingService) ListBookings(p authz.Principal) ([]models.Booking, error) {
	query := s.db.Preload("Job").Order("created_at DESC, id DESC")
	jobs := s.db.Model(&models.Job{}).Select("id")
	switch {
	case p.IsStaff:
	case p.IsProvider():
		profileID, err := providerProfileID(s.db, p.UserID)
		if err != nil {
			return nil, err
		}
		query = query.Where("job_id IN (?)", jobs.Where("provider_id = ?", profileID))
	default:
		query = query.Where("job_id IN (?)", jobs.Where("customer_id = ?", p.UserID))
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking books a job the customer owns. A job has at most one booking.
func (s *BookingService) CreateBooking(p authz.Principal, jobID uint) (*models.Booking, error) {
	if !p.Can(authz.BookingCreate) {
		return nil, ErrForbidden
	}
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.CustomerID != p.UserID {
		return nil, ErrForbidden
	}

	var count int64
	if err := s.db.Model(&models.Booking{}).Where("job_id = ?", job.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrBookingExists
	}

	booking := models.Booking{JobID: job.ID, PaymentStatus: "pending"}
	if err := s.db.Omit("Job").Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	booking.Job = job
	return &booking, nil
}

// ConfirmBooking lets the hired provider accept a booking. The job moves to
// accepted if it had not progressed yet.
func (s *BookingService) ConfirmBooking(p authz.Principal, id uint) (*models.Booking, error) {
	if !p.Can(authz.BookingConfirm) {
		return nil, ErrForbidden
	}
	var booking models.Booking
	if err := s.db.Preload("Job").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	profileID, err := providerProfileID(s.db, p.UserID)
	if err != nil {
		return nil, err
	}
	if profileID == 0 || booking.Job.ProviderID != profileID {
		return nil, ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).Where("id = ? AND confirmed = ?", booking.ID, false).Update("confirmed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingConfirmed
		}
		res = tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", booking.JobID, models.JobCreated).
			Update("status", models.JobAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			booking.Job.Status = models.JobAccepted
			return tx.Create(&models.JobStatusLog{JobID: booking.JobID, Status: models.JobAccepted}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	booking.Confirmed = true
	return &booking, nil
}
