package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

// DefaultMilestones are created, in order, for every new job.
var DefaultMilestones = []string{"Initial Assessment", "Work In Progress", "Final Review"}

type JobService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewJobService(db *gorm.DB, notify *NotificationService) *JobService {
	return &JobService{db: db, notify: notify}
}

// MilestoneUpdate carries the optional fields of a milestone PATCH.
type MilestoneUpdate struct {
	Title     *string
	Amount    *decimal.Decimal
	Completed *bool
}

// CreateJob books a provider's service for the customer. The job, its first
// status log entry and the default milestones are written atomically.
func (s *JobService) CreateJob(p authz.Principal, serviceID uint, scheduledFor time.Time) (*models.Job, error) {
	if !p.Can(authz.JobCreate) {
		return nil, ErrForbidden
	}

	var service models.ProviderService
	if err := s.db.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	job := models.Job{
		CustomerID:   p.UserID,
		ProviderID:   service.ProviderID,
		ServiceID:    service.ID,
		Status:       models.JobCreated,
		ScheduledFor: scheduledFor,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.JobStatusLog{JobID: job.ID, Status: models.JobCreated}).Error; err != nil {
			return err
		}
		milestones := make([]models.JobMilestone, 0, len(DefaultMilestones))
		for _, title := range DefaultMilestones {
			milestones = append(milestones, models.JobMilestone{
				JobID:  job.ID,
				Title:  title,
				Amount: decimal.Zero,
			})
		}
		if err := tx.Create(&milestones).Error; err != nil {
			return err
		}
		job.Milestones = milestones
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job, nil
}

// ListJobs returns the jobs the principal takes part in; staff see every job.
func (s *JobService) ListJobs(p authz.Principal) ([]models.Job, error) {
	query := s.db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Service").Order("created_at DESC, id DESC")

	switch {
	case p.IsStaff:
	case p.IsProvider():
		profileID, err := providerProfileID(s.db, p.UserID)
		if err != nil {
			return nil, err
		}
		query = query.Where("provider_id = ?", profileID)
	default:
		query = query.Where("customer_id = ?", p.UserID)
	}

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob loads a job with its milestones for one of its participants.
func (s *JobService) GetJob(p authz.Principal, id uint) (*models.Job, error) {
	var job models.Job
	err := s.db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Service.Category").Preload("Provider").First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	ok, err := isParticipant(s.db, p, &job)
	if err != nil {
		return nil, err
	}
	if !ok && !p.IsStaff {
		return nil, ErrForbidden
	}
	return &job, nil
}

// UpdateJobStatus sets an explicit status. Only membership in the status set
// is checked; any participant may move the job.
func (s *JobService) UpdateJobStatus(p authz.Principal, id uint, status models.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	job, err := s.GetJob(p, id)
	if err != nil {
		return nil, err
	}
	if job.Status == status {
		return job, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).Where("id = ?", job.ID).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.JobStatusLog{JobID: job.ID, Status: status}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	job.Status = status
	return job, nil
}

// StatusHistory returns the status log of a job, oldest first.
func (s *JobService) StatusHistory(p authz.Principal, id uint) ([]models.JobStatusLog, error) {
	if _, err := s.GetJob(p, id); err != nil {
		return nil, err
	}
	var logs []models.JobStatusLog
	if err := s.db.Where("job_id = ?", id).Order("timestamp ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// UpdateMilestone applies a PATCH from the job's provider. Setting completed
// may complete the job; clearing it never reopens one.
func (s *JobService) UpdateMilestone(p authz.Principal, id uint, in MilestoneUpdate) (*models.JobMilestone, error) {
	milestone, err := s.managedMilestone(p, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Amount != nil {
		rounded := in.Amount.Round(2)
		in.Amount = &rounded
	}
	if in.Amount != nil && !in.Amount.Equal(milestone.Amount) {
		if milestone.Funded {
			return nil, ErrMilestoneLocked
		}
		if in.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
		updates["amount"] = *in.Amount
	}
	if in.Completed != nil {
		updates["completed"] = *in.Completed
	}

	var jobCompleted bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&models.JobMilestone{}).Where("id = ?", milestone.ID)
			if _, ok := updates["amount"]; ok {
				// A concurrent funding must not be followed by a price change.
				res = res.Where("funded = ?", false)
			}
			res = res.Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrMilestoneLocked
			}
		}
		if in.Completed == nil || !*in.Completed {
			return nil
		}
		done, err := completeJobIfDone(tx, milestone.JobID)
		jobCompleted = done
		return err
	})
	if err != nil {
		return nil, err
	}

	wasCompleted := milestone.Completed
	if err := s.db.First(milestone, milestone.ID).Error; err != nil {
		return nil, err
	}
	if milestone.Completed && !wasCompleted {
		s.notify.NotifyMilestoneCompleted(milestone.Job.CustomerID, milestone)
	}
	if jobCompleted {
		s.notify.NotifyJobCompleted(milestone.Job.CustomerID, milestone.JobID)
	}
	return milestone, nil
}

// CompleteMilestone marks the milestone completed.
func (s *JobService) CompleteMilestone(p authz.Principal, id uint) (*models.JobMilestone, error) {
	done := true
	return s.UpdateMilestone(p, id, MilestoneUpdate{Completed: &done})
}

// managedMilestone loads the milestone with its job and checks that p is the
// provider of that job.
func (s *JobService) managedMilestone(p authz.Principal, id uint) (*models.JobMilestone, error) {
	var milestone models.JobMilestone
	if err := s.db.Preload("Job").First(&milestone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}
	if !p.Can(authz.MilestoneManage) {
		return nil, ErrForbidden
	}
	profileID, err := providerProfileID(s.db, p.UserID)
	if err != nil {
		return nil, err
	}
	if milestone.Job == nil || milestone.Job.ProviderID != profileID {
		return nil, ErrForbidden
	}
	return &milestone, nil
}

// completeJobIfDone moves the job to completed once no milestone is left open.
// It reports whether the job changed.
func completeJobIfDone(tx *gorm.DB, jobID uint) (bool, error) {
	var open int64
	if err := tx.Model(&models.JobMilestone{}).Where("job_id = ? AND completed = ?", jobID, false).Count(&open).Error; err != nil {
		return false, err
	}
	if open > 0 {
		return false, nil
	}
	res := tx.Model(&models.Job{}).
		Where("id = ? AND status NOT IN ?", jobID, []models.JobStatus{models.JobCompleted, models.JobClosed}).
		Update("status", models.JobCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := tx.Create(&models.JobStatusLog{JobID: jobID, Status: models.JobCompleted}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// providerProfileID returns the profile id of a provider user, or 0 when the
// user has none.
func providerProfileID(db *gorm.DB, userID uint) (uint, error) {
	var profile models.ProviderProfile
	err := db.Select("id").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.ID, nil
}

// providerUserID resolves a provider profile id to its user id.
func providerUserID(db *gorm.DB, profileID uint) (uint, error) {
	var profile models.ProviderProfile
	if err := db.Select("id", "user_id").First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProviderNotFound
		}
		return 0, err
	}
	return profile.UserID, nil
}

// isParticipant reports whether p is the customer or the provider of job.
func isParticipant(db *gorm.DB, p authz.Principal, job *models.Job) (bool, error) {
	if p.UserID == 0 {
		return false, nil
	}
	if job.CustomerID == p.UserID {
		return true, nil
	}
	profileID, err := providerProfileID(db, p.UserID)
	if err != nil {
		return false, err
	}
	return profileID != 0 && job.ProviderID == profileID, nil
}
