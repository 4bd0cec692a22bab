package models

import "time"

type ChatRoom struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	JobID     uint      `gorm:"uniqueIndex;not null" json:"job"`
	CreatedAt time.Time `json:"created_at"`

	Messages []Message `gorm:"foreignKey:RoomID" json:"messages"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room"`
	SenderID  uint      `gorm:"not null;index" json:"sender"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// SenderName mirrors the username of the sender for API responses.
func (m Message) SenderName() string {
	return m.Sender.Username
}
