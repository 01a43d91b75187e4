package entity

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Id           uuid.UUID
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
}
