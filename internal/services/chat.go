package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

// RoomSummary is a chat room as listed for one participant.
type RoomSummary struct {
	models.ChatRoom
	Unread int64 `json:"unread"`
}

// ChatService holds one chat room per job. Rooms are addressed by job id and
// created on first use.
type ChatService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewChatService(db *gorm.DB, notify *NotificationService) *ChatService {
	return &ChatService{db: db, notify: notify}
}

// GetOrCreateRoom returns the job's room, creating it if needed. Concurrent
// callers always end up with the same room.
func (s *ChatService) GetOrCreateRoom(jobID uint) (*models.ChatRoom, error) {
	room := models.ChatRoom{JobID: jobID}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoNothing: true,
	}).Omit("Messages").Create(&room).Error
	if err != nil {
		return nil, fmt.Errorf("create chat room: %w", err)
	}
	if err := s.db.Where("job_id = ?", jobID).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRooms returns the rooms of every job the principal takes part in.
func (s *ChatService) ListRooms(p authz.Principal) ([]RoomSummary, error) {
	profileID, err := providerProfileID(s.db, p.UserID)
	if err != nil {
		return nil, err
	}
	jobs := s.db.Model(&models.Job{}).Select("id").Where("customer_id = ?", p.UserID)
	if profileID != 0 {
		jobs = jobs.Or("provider_id = ?", profileID)
	}

	var rooms []models.ChatRoom
	if err := s.db.Where("job_id IN (?)", jobs).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		var unread int64
		err := s.db.Model(&models.Message{}).
			Where("room_id = ? AND sender_id <> ? AND read = ?", room.ID, p.UserID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, RoomSummary{ChatRoom: room, Unread: unread})
	}
	return summaries, nil
}

// ListMessages returns the room's messages oldest first.
func (s *ChatService) ListMessages(p authz.Principal, jobID uint) ([]models.Message, error) {
	room, _, err := s.openRoom(p, jobID)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	err = s.db.Preload("Sender").Where("room_id = ?", room.ID).Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) SendMessage(p authz.Principal, jobID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	room, job, err := s.openRoom(p, jobID)
	if err != nil {
		return nil, err
	}

	message := models.Message{RoomID: room.ID, SenderID: p.UserID, Text: text}
	if err := s.db.Omit("Sender").Create(&message).Error; err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if err := s.db.First(&message.Sender, p.UserID).Error; err != nil {
		return nil, err
	}

	recipient := job.CustomerID
	if recipient == p.UserID {
		if recipient, err = providerUserID(s.db, job.ProviderID); err != nil {
			return nil, err
		}
	}
	s.notify.NotifyMessage(recipient, job.ID, message.Sender.Username)
	return &message, nil
}

// MarkRead marks the other party's messages in the room as read and returns
// how many changed.
func (s *ChatService) MarkRead(p authz.Principal, jobID uint) (int64, error) {
	room, _, err := s.openRoom(p, jobID)
	if err != nil {
		return 0, err
	}
	res := s.db.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND read = ?", room.ID, p.UserID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// openRoom checks that p takes part in the job and returns its room.
func (s *ChatService) openRoom(p authz.Principal, jobID uint) (*models.ChatRoom, *models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrJobNotFound
		}
		return nil, nil, err
	}
	ok, err := isParticipant(s.db, p, &job)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrForbidden
	}
	room, err := s.GetOrCreateRoom(job.ID)
	if err != nil {
		return nil, nil, err
	}
	return room, &job, nil
}
