package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByLocationID struct {
	LocationID uuid.UUID
}

func (s ByLocationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("location_id = ?", s.LocationID)
}

// ActiveMembership narrows to the single active row per (user, location).
type ActiveMembership struct {
	UserID     uuid.UUID
	LocationID uuid.UUID
}

func (s ActiveMembership) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND location_id = ? AND status = ?", s.UserID, s.LocationID, "active")
}
