package geo

import (
	"math"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerMile     = 1609.344
)

// Candidate is a venue coordinate with an allowed radius in meters.
type Candidate struct {
	ID           string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Match is the outcome of a verification attempt. Matched is nil when no
// candidate radius contains the point; DistanceMeters then holds the distance
// to the closest candidate so callers can build a useful message.
type Match struct {
	Matched        *Candidate
	DistanceMeters float64
}

// Distance returns the great-circle distance in meters between two points
// using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lng1Rad := lng1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lng2Rad := lng2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLng := lng2Rad - lng1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Verify checks the device point against each candidate in input order and
// returns the first candidate whose radius contains it. No distance
// minimization between matching candidates; input order is the tie-break.
func Verify(lat, lng float64, candidates []Candidate) Match {
	minDistance := math.Inf(1)

	for i := range candidates {
		d := Distance(lat, lng, candidates[i].Latitude, candidates[i].Longitude)
		if d <= candidates[i].RadiusMeters {
			return Match{Matched: &candidates[i], DistanceMeters: d}
		}
		if d < minDistance {
			minDistance = d
		}
	}

	if math.IsInf(minDistance, 1) {
		minDistance = 0
	}
	return Match{Matched: nil, DistanceMeters: minDistance}
}

// Nearest returns the closest candidate within maxMeters, or nil.
func Nearest(lat, lng float64, candidates []Candidate, maxMeters float64) (*Candidate, float64) {
	var best *Candidate
	bestDist := math.Inf(1)

	for i := range candidates {
		d := Distance(lat, lng, candidates[i].Latitude, candidates[i].Longitude)
		if d < bestDist {
			bestDist = d
			best = &candidates[i]
		}
	}

	if best == nil || bestDist > maxMeters {
		return nil, bestDist
	}
	return best, bestDist
}

// NormalizeRadius converts a radius in the given unit ("m" or "mi") to
// meters. Unknown units are treated as meters; the data-entry boundary is
// the single place unit ambiguity is resolved.
func NormalizeRadius(radius float64, unit string) float64 {
	if unit == "mi" {
		return radius * metersPerMile
	}
	return radius
}
