package service

import (
	"context"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"
	syncpkg "wolfpack-be/internal/sync"
	"wolfpack-be/pkg/events"
	"wolfpack-be/pkg/geo"
	pktNats "wolfpack-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const canJoinCacheTTL = 15 * time.Second

type IMembershipService interface {
	Join(ctx context.Context, userId uuid.UUID, req *dto.JoinPackRequest) (*dto.JoinPackResponse, error)
	Leave(ctx context.Context, userId, memberId uuid.UUID) error
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdatePackProfileRequest) (*dto.PackMemberResponse, error)
	CanJoin(ctx context.Context, userId, locationId uuid.UUID) (*dto.CanJoinResponse, error)
	ListMembers(ctx context.Context, locationId uuid.UUID) ([]*dto.PackMemberResponse, error)
}

type membershipService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	feed           *syncpkg.Feed
	canJoinCache   *gocache.Cache
	retryAttempts  int
	defaultRadius  float64
}

func NewMembershipService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	feed *syncpkg.Feed,
	retryAttempts int,
	defaultRadiusMeters float64,
) IMembershipService {
	return &membershipService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		feed:           feed,
		canJoinCache:   gocache.New(canJoinCacheTTL, time.Minute),
		retryAttempts:  retryAttempts,
		defaultRadius:  defaultRadiusMeters,
	}
}

func profileFromInput(in dto.MemberProfileInput) entity.MemberProfile {
	return entity.MemberProfile{
		DisplayName:   in.DisplayName,
		Emoji:         in.Emoji,
		AvatarURL:     in.AvatarURL,
		Bio:           in.Bio,
		Vibe:          in.Vibe,
		FavoriteDrink: in.FavoriteDrink,
		SocialHandle:  in.SocialHandle,
	}
}

func memberResponse(m *entity.PackMember) *dto.PackMemberResponse {
	return &dto.PackMemberResponse{
		MemberId:       m.Id,
		UserId:         m.UserId,
		LocationId:     m.LocationId,
		Status:         m.Status,
		TableLabel:     m.TableLabel,
		DisplayName:    m.Profile.DisplayName,
		Emoji:          m.Profile.Emoji,
		AvatarURL:      m.Profile.AvatarURL,
		Bio:            m.Profile.Bio,
		Vibe:           m.Profile.Vibe,
		FavoriteDrink:  m.Profile.FavoriteDrink,
		SocialHandle:   m.Profile.SocialHandle,
		JoinedAt:       m.JoinedAt,
		LastActivityAt: m.LastActivityAt,
	}
}

func (s *membershipService) publish(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best-effort; the write already committed and the
	// feed keeps the local replica coherent either way.
	_ = s.eventPublisher.Publish(ctx, evt)
}

func (s *membershipService) feedChange(ctx context.Context, change syncpkg.Change) {
	if s.feed == nil {
		return
	}
	_ = s.feed.Publish(ctx, change)
}

func (s *membershipService) Join(ctx context.Context, userId uuid.UUID, req *dto.JoinPackRequest) (*dto.JoinPackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	location, err := uow.LocationRepository().FindOne(ctx, specification.ByID{ID: req.LocationId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load location", err)
	}
	if location == nil || !location.IsActive {
		return nil, apperr.NotFound("location not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.AuthRequired("unknown user")
	}

	gate, err := s.CanJoin(ctx, userId, req.LocationId)
	if err != nil {
		return nil, err
	}
	if !gate.Allowed {
		return nil, apperr.PermissionDenied(gate.Reason)
	}

	// VIPs skip the proximity check; everyone else must prove presence.
	if !user.IsVip {
		if req.Latitude == nil || req.Longitude == nil {
			return nil, apperr.ValidationFailed("coordinates required to join this pack")
		}
		radius := location.RadiusMeters
		if radius <= 0 {
			radius = s.defaultRadius
		}
		distance := geo.Distance(*req.Latitude, *req.Longitude, location.Latitude, location.Longitude)
		if distance > radius {
			return nil, apperr.PermissionDenied("too far from the venue to join")
		}
	}

	profile := profileFromInput(req.Profile)
	if profile.DisplayName == "" {
		profile.DisplayName = user.DisplayName
	}
	if profile.AvatarURL == nil {
		profile.AvatarURL = user.AvatarURL
	}

	var member *entity.PackMember
	var created bool

	err = withRetry(ctx, s.retryAttempts, func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		repo := uow.PackMemberRepository()

		existing, err := repo.FindActive(ctx, userId, req.LocationId)
		if err != nil {
			return apperr.Unavailable("failed to load membership", err)
		}

		now := time.Now()
		if existing != nil {
			// Already in: refresh, merge, same row back. The partial
			// unique index makes the concurrent path land here too.
			existing.MergeProfile(profile)
			if req.TableLabel != nil {
				existing.TableLabel = req.TableLabel
			}
			existing.LastActivityAt = now
			if err := repo.Update(ctx, existing); err != nil {
				return apperr.Unavailable("failed to refresh membership", err)
			}
			member = existing
			created = false
			return nil
		}

		fresh := &entity.PackMember{
			Id:             uuid.New(),
			UserId:         userId,
			LocationId:     req.LocationId,
			Status:         entity.MemberStatusActive,
			TableLabel:     req.TableLabel,
			Profile:        profile,
			JoinedAt:       now,
			LastActivityAt: now,
		}
		if err := repo.Create(ctx, fresh); err != nil {
			// A concurrent join may have taken the active slot; the
			// retry re-reads and converges on the surviving row.
			return apperr.Unavailable("failed to create membership", err)
		}
		member = fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, events.MemberJoined(member.Id, userId, req.LocationId, member.Profile.DisplayName))
		s.feedChange(ctx, syncpkg.MemberInserted(member))
	} else {
		s.publish(ctx, events.ProfileUpdated(member.Id, userId, req.LocationId))
		s.feedChange(ctx, syncpkg.MemberUpdated(member))
	}

	return &dto.JoinPackResponse{
		MemberId:   member.Id,
		LocationId: member.LocationId,
		Status:     member.Status,
		JoinedAt:   member.JoinedAt,
	}, nil
}

func (s *membershipService) Leave(ctx context.Context, userId, memberId uuid.UUID) error {
	var left *entity.PackMember

	err := withRetry(ctx, s.retryAttempts, func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		repo := uow.PackMemberRepository()

		member, err := repo.FindOne(ctx, specification.ByID{ID: memberId})
		if err != nil {
			return apperr.Unavailable("failed to load membership", err)
		}
		// Unknown id and already-left rows both count as done.
		if member == nil || !member.IsActive() {
			return nil
		}
		if member.UserId != userId {
			return apperr.PermissionDenied("membership belongs to another user")
		}

		now := time.Now()
		member.Status = entity.MemberStatusInactive
		member.LeftAt = &now
		member.LastActivityAt = now
		if err := repo.Update(ctx, member); err != nil {
			return apperr.Unavailable("failed to leave pack", err)
		}
		left = member
		return nil
	})
	if err != nil {
		return err
	}

	if left != nil {
		s.publish(ctx, events.MemberLeft(left.Id, userId, left.LocationId))
		s.feedChange(ctx, syncpkg.MemberDeleted(left.LocationId, left.Id))
	}
	return nil
}

func (s *membershipService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdatePackProfileRequest) (*dto.PackMemberResponse, error) {
	var member *entity.PackMember

	err := withRetry(ctx, s.retryAttempts, func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		repo := uow.PackMemberRepository()

		existing, err := repo.FindActive(ctx, userId, req.LocationId)
		if err != nil {
			return apperr.Unavailable("failed to load membership", err)
		}
		if existing == nil {
			return apperr.NotFound("no active membership at this location")
		}

		existing.MergeProfile(profileFromInput(req.Profile))
		existing.LastActivityAt = time.Now()
		if err := repo.Update(ctx, existing); err != nil {
			return apperr.Unavailable("failed to update profile", err)
		}
		member = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ProfileUpdated(member.Id, userId, member.LocationId))
	s.feedChange(ctx, syncpkg.MemberUpdated(member))

	return memberResponse(member), nil
}

func (s *membershipService) CanJoin(ctx context.Context, userId, locationId uuid.UUID) (*dto.CanJoinResponse, error) {
	cacheKey := userId.String() + ":" + locationId.String()
	if val, ok := s.canJoinCache.Get(cacheKey); ok {
		return val.(*dto.CanJoinResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.AuthRequired("unknown user")
	}

	resp := &dto.CanJoinResponse{Allowed: true}
	if user.IsBanned() {
		resp = &dto.CanJoinResponse{Allowed: false, Reason: "account is banned"}
		s.canJoinCache.Set(cacheKey, resp, canJoinCacheTTL)
		return resp, nil
	}

	// Joining is refused when an active member of this pack has blocked the
	// user; blocks in the other direction only suppress visibility.
	blocks, err := uow.InteractionRepository().ActiveBlocksInvolving(ctx, userId)
	if err != nil {
		return nil, apperr.Unavailable("failed to load blocks", err)
	}
	if len(blocks) > 0 {
		members, err := uow.PackMemberRepository().FindAll(ctx,
			specification.ByLocationID{LocationID: locationId},
			specification.ActiveOnly{},
		)
		if err != nil {
			return nil, apperr.Unavailable("failed to load members", err)
		}
		active := make(map[uuid.UUID]bool, len(members))
		for _, m := range members {
			active[m.UserId] = true
		}
		for _, b := range blocks {
			if b.ReceiverId == userId && active[b.SenderId] {
				resp = &dto.CanJoinResponse{Allowed: false, Reason: "blocked by a pack member"}
				break
			}
		}
	}

	s.canJoinCache.Set(cacheKey, resp, canJoinCacheTTL)
	return resp, nil
}

func (s *membershipService) ListMembers(ctx context.Context, locationId uuid.UUID) ([]*dto.PackMemberResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	members, err := uow.PackMemberRepository().FindAll(ctx,
		specification.ByLocationID{LocationID: locationId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperr.Unavailable("failed to load members", err)
	}

	out := make([]*dto.PackMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse(m))
	}
	return out, nil
}
