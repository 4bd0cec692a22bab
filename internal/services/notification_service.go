package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MimiPlatform/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	mailer Mailer
	log    *slog.Logger
}

func NewNotificationService(db *gorm.DB, mailer Mailer, log *slog.Logger) *NotificationService {
	return &NotificationService{db: db, mailer: mailer, log: log}
}

// Notify stores an in-app notification and emails the user. Failures are
// logged only; a notification never fails the operation that caused it.
func (s *NotificationService) Notify(userID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) {
	if s == nil {
		return
	}
	var dataJSON string
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			s.log.Error("failed to marshal notification data", "error", err)
		}
		dataJSON = string(b)
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		s.log.Error("failed to create notification", "user_id", userID, "type", notifType, "error", err)
		return
	}

	if s.mailer == nil {
		return
	}
	var user models.User
	if err := s.db.Select("id", "email").First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}
	if err := s.mailer.Send(user.Email, title, message); err != nil {
		s.log.Warn("notification email failed", "user_id", userID, "error", err)
	}
}

func (s *NotificationService) NotifyMilestoneFunded(providerUserID uint, m *models.JobMilestone) {
	s.Notify(providerUserID, models.NotificationMilestoneFunded, "Milestone Funded",
		fmt.Sprintf("\"%s\" on job #%d has been funded with %s", m.Title, m.JobID, m.Amount.StringFixed(2)),
		map[string]interface{}{"job_id": m.JobID, "milestone_id": m.ID, "amount": m.Amount.StringFixed(2)})
}

func (s *NotificationService) NotifyMilestoneCompleted(customerID uint, m *models.JobMilestone) {
	s.Notify(customerID, models.NotificationMilestoneCompleted, "Milestone Completed",
		fmt.Sprintf("\"%s\" on job #%d was marked completed", m.Title, m.JobID),
		map[string]interface{}{"job_id": m.JobID, "milestone_id": m.ID})
}

func (s *NotificationService) NotifyJobCompleted(customerID, jobID uint) {
	s.Notify(customerID, models.NotificationJobCompleted, "Job Completed",
		fmt.Sprintf("All milestones of job #%d are complete", jobID),
		map[string]interface{}{"job_id": jobID})
}

func (s *NotificationService) NotifyEscrowReleased(providerUserID uint, e *models.Escrow) {
	s.Notify(providerUserID, models.NotificationEscrowReleased, "Funds Released",
		fmt.Sprintf("%s has been released to your wallet for job #%d", e.Amount.StringFixed(2), e.JobID),
		map[string]interface{}{"escrow_id": e.ID, "amount": e.Amount.StringFixed(2)})
}

func (s *NotificationService) NotifyEscrowRefunded(customerID uint, e *models.Escrow) {
	s.Notify(customerID, models.NotificationEscrowRefunded, "Escrow Refunded",
		fmt.Sprintf("%s has been refunded to your wallet for job #%d", e.Amount.StringFixed(2), e.JobID),
		map[string]interface{}{"escrow_id": e.ID, "amount": e.Amount.StringFixed(2)})
}

func (s *NotificationService) NotifyMessage(recipientID, jobID uint, senderName string) {
	s.Notify(recipientID, models.NotificationMessageReceived, "New Message",
		fmt.Sprintf("%s sent you a message about job #%d", senderName, jobID),
		map[string]interface{}{"job_id": jobID})
}

func (s *NotificationService) NotifyDepositSuccess(userID uint, amount decimal.Decimal, reference string) {
	s.Notify(userID, models.NotificationDepositSuccess, "Deposit Successful",
		fmt.Sprintf("Your wallet has been credited with %s", amount.StringFixed(2)),
		map[string]interface{}{"amount": amount.StringFixed(2), "reference": reference})
}

// List returns the user's notifications newest first plus the unread count.
func (s *NotificationService) List(userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (s *NotificationService) MarkAsRead(userID, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.IsRead {
		return &n, nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	if err := s.db.Save(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationService) MarkAllAsRead(userID uint) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return res.RowsAffected, res.Error
}
