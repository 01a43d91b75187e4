package service

import (
	"context"
	"testing"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocationFixture(t *testing.T) (*memory.Store, ILocationService, *entity.Location) {
	t.Helper()
	store := memory.NewStore()

	salem := &entity.Location{
		Id:           uuid.New(),
		Name:         "Side Hustle Bar Salem",
		Address:      "145 Liberty St NE, Salem, OR",
		Latitude:     salemLat,
		Longitude:    salemLng,
		RadiusMeters: 100,
		IsActive:     true,
	}
	store.AddLocation(salem)

	return store, NewLocationService(memory.NewFactory(store), 100), salem
}

func TestVerifyExactCoordinates(t *testing.T) {
	_, svc, salem := newLocationFixture(t)

	res, err := svc.Verify(context.Background(), &dto.VerifyLocationRequest{
		Latitude:  salemLat,
		Longitude: salemLng,
	})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.Location)
	assert.Equal(t, salem.Id, res.Location.Id)
	assert.InDelta(t, 0, res.DistanceMeters, 1e-6)
}

func TestVerifyInsideRadius(t *testing.T) {
	_, svc, salem := newLocationFixture(t)

	// Roughly 50 meters north of the bar.
	res, err := svc.Verify(context.Background(), &dto.VerifyLocationRequest{
		Latitude:  salemLat + 0.00045,
		Longitude: salemLng,
	})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.Location)
	assert.Equal(t, salem.Id, res.Location.Id)
	assert.Greater(t, res.DistanceMeters, 0.0)
	assert.Less(t, res.DistanceMeters, 100.0)
}

func TestVerifyOutsideRadiusReportsNearest(t *testing.T) {
	_, svc, salem := newLocationFixture(t)

	// Corvallis, well outside the 100 meter fence.
	res, err := svc.Verify(context.Background(), &dto.VerifyLocationRequest{
		Latitude:  44.5646,
		Longitude: -123.2620,
	})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Nil(t, res.Location)
	require.NotNil(t, res.NearestLocation)
	assert.Equal(t, salem.Id, res.NearestLocation.Id)
	assert.Greater(t, res.DistanceMeters, 100.0)
}

func TestVerifyClassifiesClientGeoErrors(t *testing.T) {
	_, svc, _ := newLocationFixture(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, &dto.VerifyLocationRequest{GeoError: "permission_denied"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	for _, code := range []string{"timeout", "unavailable"} {
		_, err := svc.Verify(ctx, &dto.VerifyLocationRequest{GeoError: code})
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
	}
}

func TestVerifyWithNoActiveVenues(t *testing.T) {
	store := memory.NewStore()
	svc := NewLocationService(memory.NewFactory(store), 100)

	res, err := svc.Verify(context.Background(), &dto.VerifyLocationRequest{
		Latitude:  salemLat,
		Longitude: salemLng,
	})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Nil(t, res.NearestLocation)
}

func TestFindNearestHonorsMaxDistance(t *testing.T) {
	_, svc, salem := newLocationFixture(t)
	ctx := context.Background()

	near, err := svc.FindNearest(ctx, salemLat+0.001, salemLng, 500)
	require.NoError(t, err)
	require.NotNil(t, near.Location)
	assert.Equal(t, salem.Id, near.Location.Id)
	assert.Greater(t, near.DistanceMeters, 0.0)

	far, err := svc.FindNearest(ctx, 45.5152, -122.6784, 500)
	require.NoError(t, err)
	assert.Nil(t, far.Location)
}

func TestCreateNormalizesMilesAndInvalidatesCache(t *testing.T) {
	_, svc, _ := newLocationFixture(t)
	ctx := context.Background()

	// Warm the candidate cache before the write.
	initial, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, initial, 1)

	created, err := svc.Create(ctx, &dto.CreateLocationRequest{
		Name:       "Side Hustle Bar Portland",
		Latitude:   45.5152,
		Longitude:  -122.6784,
		Radius:     0.25,
		RadiusUnit: "mi",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.Id)

	after, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	for _, l := range after {
		if l.Id == created.Id {
			assert.InDelta(t, 0.25*1609.344, l.RadiusMeters, 0.01)
		}
	}
}

func TestCreateDefaultsRadius(t *testing.T) {
	_, svc, _ := newLocationFixture(t)

	created, err := svc.Create(context.Background(), &dto.CreateLocationRequest{
		Name:      "Pop-up",
		Latitude:  44.95,
		Longitude: -123.04,
	})
	require.NoError(t, err)

	all, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	for _, l := range all {
		if l.Id == created.Id {
			assert.InDelta(t, 100, l.RadiusMeters, 1e-9)
		}
	}
}
