package model

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   string    `gorm:"type:text"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
	// RadiusMeters is always meters; unit conversion happens at ingest.
	RadiusMeters float64   `gorm:"type:double precision;not null;default:100"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Location) TableName() string {
	return "locations"
}
