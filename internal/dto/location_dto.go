package dto

import (
	"time"

	"github.com/google/uuid"
)

type VerifyLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	// GeoError carries a client-side geolocation failure instead of a
	// coordinate: "permission_denied", "timeout" or "unavailable".
	GeoError string `json:"geo_error,omitempty" validate:"omitempty,oneof=permission_denied timeout unavailable"`
}

type VerifyLocationResponse struct {
	Verified        bool             `json:"verified"`
	Location        *LocationSummary `json:"location,omitempty"`
	DistanceMeters  float64          `json:"distance_meters"`
	NearestLocation *LocationSummary `json:"nearest_location,omitempty"`
}

type LocationSummary struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
}

type NearestLocationResponse struct {
	Location       *LocationSummary `json:"location,omitempty"`
	DistanceMeters float64          `json:"distance_meters"`
}

type CreateLocationRequest struct {
	Name       string  `json:"name" validate:"required"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude" validate:"required,latitude"`
	Longitude  float64 `json:"longitude" validate:"required,longitude"`
	Radius     float64 `json:"radius" validate:"omitempty,gt=0"`
	RadiusUnit string  `json:"radius_unit" validate:"omitempty,oneof=m mi"`
}

type CreateLocationResponse struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
