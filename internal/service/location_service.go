package service

import (
	"context"
	"math"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/pkg/geo"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	candidateCacheKey = "location:candidates"
	candidateCacheTTL = 30 * time.Second

	// verifyDeadline bounds the whole verify flow regardless of how slow
	// the repository is; geolocation itself already happened client-side.
	verifyDeadline = 10 * time.Second
)

type ILocationService interface {
	Verify(ctx context.Context, req *dto.VerifyLocationRequest) (*dto.VerifyLocationResponse, error)
	FindNearest(ctx context.Context, lat, lng, maxMeters float64) (*dto.NearestLocationResponse, error)
	ListActive(ctx context.Context) ([]*dto.LocationSummary, error)
	Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.CreateLocationResponse, error)
}

type locationService struct {
	uowFactory          unitofwork.RepositoryFactory
	cache               *gocache.Cache
	defaultRadiusMeters float64
}

func NewLocationService(uowFactory unitofwork.RepositoryFactory, defaultRadiusMeters float64) ILocationService {
	return &locationService{
		uowFactory:          uowFactory,
		cache:               gocache.New(candidateCacheTTL, time.Minute),
		defaultRadiusMeters: defaultRadiusMeters,
	}
}

// candidates loads the active venue set, cached briefly. The set is small
// (a handful of bars) so the whole list is the cache unit.
func (s *locationService) candidates(ctx context.Context) ([]*entity.Location, error) {
	if val, ok := s.cache.Get(candidateCacheKey); ok {
		return val.([]*entity.Location), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	locations, err := uow.LocationRepository().FindActive(ctx)
	if err != nil {
		return nil, apperr.Unavailable("failed to load locations", err)
	}

	s.cache.Set(candidateCacheKey, locations, candidateCacheTTL)
	return locations, nil
}

func (s *locationService) toCandidates(locations []*entity.Location) []geo.Candidate {
	out := make([]geo.Candidate, 0, len(locations))
	for _, l := range locations {
		radius := l.RadiusMeters
		if radius <= 0 {
			radius = s.defaultRadiusMeters
		}
		out = append(out, geo.Candidate{
			ID:           l.Id.String(),
			Latitude:     l.Latitude,
			Longitude:    l.Longitude,
			RadiusMeters: radius,
		})
	}
	return out
}

func summaryFor(l *entity.Location) *dto.LocationSummary {
	return &dto.LocationSummary{
		Id:           l.Id,
		Name:         l.Name,
		Address:      l.Address,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
	}
}

func findById(locations []*entity.Location, id string) *entity.Location {
	for _, l := range locations {
		if l.Id.String() == id {
			return l
		}
	}
	return nil
}

func (s *locationService) Verify(ctx context.Context, req *dto.VerifyLocationRequest) (*dto.VerifyLocationResponse, error) {
	// The client reports its own geolocation failures; classify them into
	// the shared taxonomy instead of treating them as bad input.
	switch req.GeoError {
	case "permission_denied":
		return nil, apperr.PermissionDenied("location permission denied by the device")
	case "timeout", "unavailable":
		return nil, apperr.Unavailable("device location unavailable", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, verifyDeadline)
	defer cancel()

	locations, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return &dto.VerifyLocationResponse{Verified: false}, nil
	}

	cands := s.toCandidates(locations)
	match := geo.Verify(req.Latitude, req.Longitude, cands)

	resp := &dto.VerifyLocationResponse{
		Verified:       match.Matched != nil,
		DistanceMeters: match.DistanceMeters,
	}
	if match.Matched != nil {
		if l := findById(locations, match.Matched.ID); l != nil {
			resp.Location = summaryFor(l)
		}
		return resp, nil
	}

	// Report which venue the user is closest to for the "you are N meters
	// away" message.
	if nearest, _ := geo.Nearest(req.Latitude, req.Longitude, cands, math.Inf(1)); nearest != nil {
		if l := findById(locations, nearest.ID); l != nil {
			resp.NearestLocation = summaryFor(l)
		}
	}
	return resp, nil
}

func (s *locationService) FindNearest(ctx context.Context, lat, lng, maxMeters float64) (*dto.NearestLocationResponse, error) {
	locations, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	nearest, distance := geo.Nearest(lat, lng, s.toCandidates(locations), maxMeters)
	if nearest == nil {
		return &dto.NearestLocationResponse{}, nil
	}

	resp := &dto.NearestLocationResponse{DistanceMeters: distance}
	if l := findById(locations, nearest.ID); l != nil {
		resp.Location = summaryFor(l)
	}
	return resp, nil
}

func (s *locationService) ListActive(ctx context.Context) ([]*dto.LocationSummary, error) {
	locations, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.LocationSummary, 0, len(locations))
	for _, l := range locations {
		result = append(result, summaryFor(l))
	}
	return result, nil
}

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.CreateLocationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	radius := s.defaultRadiusMeters
	if req.Radius > 0 {
		radius = geo.NormalizeRadius(req.Radius, req.RadiusUnit)
	}

	location := entity.Location{
		Id:           uuid.New(),
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: radius,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := uow.LocationRepository().Create(ctx, &location); err != nil {
		return nil, apperr.Unavailable("failed to create location", err)
	}

	// New venue must show up in verification immediately.
	s.cache.Delete(candidateCacheKey)

	return &dto.CreateLocationResponse{
		Id:        location.Id,
		CreatedAt: location.CreatedAt,
	}, nil
}
