package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BetweenPair matches interactions in either direction between two users.
type BetweenPair struct {
	UserA uuid.UUID
	UserB uuid.UUID
}

func (s BetweenPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		s.UserA, s.UserB, s.UserB, s.UserA,
	)
}

type ByInteractionType struct {
	Type string
}

func (s ByInteractionType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByReceiverID struct {
	ReceiverID uuid.UUID
}

func (s ByReceiverID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receiver_id = ?", s.ReceiverID)
}

type BySenderID struct {
	SenderID uuid.UUID
}

func (s BySenderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender_id = ?", s.SenderID)
}

// InvolvingUser matches interactions where the user is on either side.
type InvolvingUser struct {
	UserID uuid.UUID
}

func (s InvolvingUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender_id = ? OR receiver_id = ?", s.UserID, s.UserID)
}
