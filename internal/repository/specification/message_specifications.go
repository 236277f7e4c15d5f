package specification

import "gorm.io/gorm"

type ByConversationTitle struct {
	Title string
}

func (s ByConversationTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_title = ?", s.Title)
}

// InSequenceOrder orders a conversation the way it was written.
type InSequenceOrder struct{}

func (s InSequenceOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC").Order("timestamp ASC")
}
