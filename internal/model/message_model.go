package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId            uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_owner_title_seq,priority:1"`
	ConversationTitle string    `gorm:"type:varchar(255);not null;index:idx_messages_owner_title_seq,priority:2"`
	Sender            string    `gorm:"type:varchar(255);not null"`
	Content           string    `gorm:"type:text;not null"`
	HasCode           bool      `gorm:"default:false"`
	Sequence          int       `gorm:"not null;index:idx_messages_owner_title_seq,priority:3"`
	Timestamp         time.Time `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}
