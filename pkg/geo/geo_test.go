package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyExactCoordinateMatch(t *testing.T) {
	salem := Candidate{
		ID:           "salem",
		Latitude:     44.94049607,
		Longitude:    -123.04139512,
		RadiusMeters: 100,
	}

	match := Verify(44.94049607, -123.04139512, []Candidate{salem})

	assert.NotNil(t, match.Matched)
	assert.Equal(t, "salem", match.Matched.ID)
	assert.InDelta(t, 0, match.DistanceMeters, 0.5)
}

func TestVerifyOutsideAllRadii(t *testing.T) {
	salem := Candidate{ID: "salem", Latitude: 44.94049607, Longitude: -123.04139512, RadiusMeters: 100}
	portland := Candidate{ID: "portland", Latitude: 45.5152, Longitude: -122.6784, RadiusMeters: 100}

	// A point in Corvallis, ~35km from Salem and further from Portland.
	match := Verify(44.5646, -123.2620, []Candidate{portland, salem})

	assert.Nil(t, match.Matched)
	// Closest candidate is Salem; distance must reflect it.
	salemDist := Distance(44.5646, -123.2620, salem.Latitude, salem.Longitude)
	assert.InDelta(t, salemDist, match.DistanceMeters, 1)
	assert.Greater(t, match.DistanceMeters, 100.0)
}

func TestVerifyFirstCandidateWinsInInputOrder(t *testing.T) {
	// Two overlapping candidates both containing the point; the first in
	// input order matches even if the second is closer.
	a := Candidate{ID: "a", Latitude: 44.9410, Longitude: -123.0410, RadiusMeters: 500}
	b := Candidate{ID: "b", Latitude: 44.9405, Longitude: -123.0414, RadiusMeters: 500}

	match := Verify(44.9405, -123.0414, []Candidate{a, b})

	assert.NotNil(t, match.Matched)
	assert.Equal(t, "a", match.Matched.ID)
}

func TestVerifyNoCandidates(t *testing.T) {
	match := Verify(44.9405, -123.0414, nil)
	assert.Nil(t, match.Matched)
	assert.Equal(t, 0.0, match.DistanceMeters)
}

func TestDistanceKnownPair(t *testing.T) {
	// Salem to Portland is roughly 69 km as the crow flies.
	d := Distance(44.94049607, -123.04139512, 45.5152, -122.6784)
	assert.InDelta(t, 69000, d, 3000)
}

func TestNearest(t *testing.T) {
	salem := Candidate{ID: "salem", Latitude: 44.94049607, Longitude: -123.04139512, RadiusMeters: 100}
	portland := Candidate{ID: "portland", Latitude: 45.5152, Longitude: -122.6784, RadiusMeters: 100}

	best, dist := Nearest(44.95, -123.04, []Candidate{portland, salem}, 50000)
	assert.NotNil(t, best)
	assert.Equal(t, "salem", best.ID)
	assert.Less(t, dist, 2000.0)

	// Outside the max distance cap.
	best, _ = Nearest(40.0, -120.0, []Candidate{portland, salem}, 1000)
	assert.Nil(t, best)
}

func TestNormalizeRadius(t *testing.T) {
	assert.Equal(t, 100.0, NormalizeRadius(100, "m"))
	assert.InDelta(t, 160.9344, NormalizeRadius(0.1, "mi"), 0.0001)
	// Unknown unit falls through as meters.
	assert.Equal(t, 25.0, NormalizeRadius(25, ""))
}
