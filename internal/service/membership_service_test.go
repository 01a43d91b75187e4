package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	salemLat = 44.94049607
	salemLng = -123.04139512
)

func ptr[T any](v T) *T { return &v }

func newMembershipFixture(t *testing.T) (*memory.Store, IMembershipService, *entity.User, *entity.Location) {
	t.Helper()
	store := memory.NewStore()

	user := &entity.User{
		Id:          uuid.New(),
		Email:       "wolf@example.com",
		DisplayName: "Wolf",
		Role:        "user",
		Status:      "active",
	}
	store.AddUser(user)

	location := &entity.Location{
		Id:           uuid.New(),
		Name:         "Side Hustle Bar Salem",
		Latitude:     salemLat,
		Longitude:    salemLng,
		RadiusMeters: 100,
		IsActive:     true,
	}
	store.AddLocation(location)

	svc := NewMembershipService(memory.NewFactory(store), nil, nil, 3, 100)
	return store, svc, user, location
}

func joinReq(locationId uuid.UUID) *dto.JoinPackRequest {
	return &dto.JoinPackRequest{
		LocationId: locationId,
		Latitude:   ptr(salemLat),
		Longitude:  ptr(salemLng),
		Profile:    dto.MemberProfileInput{DisplayName: "Lone Wolf", Emoji: "🐺"},
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)
	ctx := context.Background()

	first, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusActive, first.Status)

	second, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)
	assert.Equal(t, first.MemberId, second.MemberId)

	members, err := svc.ListMembers(ctx, location.Id)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestJoinRequiresCoordinatesForRegulars(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)

	req := joinReq(location.Id)
	req.Latitude = nil
	req.Longitude = nil

	_, err := svc.Join(context.Background(), user.Id, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestJoinRejectsOutsideGeofence(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)

	req := joinReq(location.Id)
	// Corvallis, ~35km away.
	req.Latitude = ptr(44.5646)
	req.Longitude = ptr(-123.2620)

	_, err := svc.Join(context.Background(), user.Id, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestJoinVipSkipsProximityCheck(t *testing.T) {
	store, svc, _, location := newMembershipFixture(t)

	vip := &entity.User{
		Id:          uuid.New(),
		DisplayName: "DJ",
		Role:        "dj",
		Status:      "active",
		IsVip:       true,
	}
	store.AddUser(vip)

	req := &dto.JoinPackRequest{LocationId: location.Id}
	res, err := svc.Join(context.Background(), vip.Id, req)
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusActive, res.Status)
}

func TestJoinFillsProfileDefaultsFromUser(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)

	req := joinReq(location.Id)
	req.Profile = dto.MemberProfileInput{}

	_, err := svc.Join(context.Background(), user.Id, req)
	require.NoError(t, err)

	members, err := svc.ListMembers(context.Background(), location.Id)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.DisplayName, members[0].DisplayName)
}

func TestJoinRetriesTransientBackendFailure(t *testing.T) {
	store, svc, user, location := newMembershipFixture(t)

	store.FailWith(errors.New("connection reset"))

	res, err := svc.Join(context.Background(), user.Id, joinReq(location.Id))
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusActive, res.Status)
}

func TestJoinUnknownLocation(t *testing.T) {
	_, svc, user, _ := newMembershipFixture(t)

	_, err := svc.Join(context.Background(), user.Id, joinReq(uuid.New()))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLeaveIsIdempotent(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)
	ctx := context.Background()

	joined, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, user.Id, joined.MemberId))
	// Second leave and an unknown id are both no-ops.
	require.NoError(t, svc.Leave(ctx, user.Id, joined.MemberId))
	require.NoError(t, svc.Leave(ctx, user.Id, uuid.New()))

	members, err := svc.ListMembers(ctx, location.Id)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestLeaveRejectsForeignMembership(t *testing.T) {
	store, svc, user, location := newMembershipFixture(t)
	ctx := context.Background()

	joined, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)

	other := &entity.User{Id: uuid.New(), DisplayName: "Intruder", Status: "active"}
	store.AddUser(other)

	err = svc.Leave(ctx, other.Id, joined.MemberId)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestRejoinAfterLeaveCreatesNewMembership(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)
	ctx := context.Background()

	first, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)
	require.NoError(t, svc.Leave(ctx, user.Id, first.MemberId))

	second, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)
	assert.NotEqual(t, first.MemberId, second.MemberId)

	members, err := svc.ListMembers(ctx, location.Id)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestUpdateProfileMergesOnlySuppliedFields(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)
	ctx := context.Background()

	_, err := svc.Join(ctx, user.Id, joinReq(location.Id))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.Id, &dto.UpdatePackProfileRequest{
		LocationId: location.Id,
		Profile:    dto.MemberProfileInput{Vibe: "electric"},
	})
	require.NoError(t, err)
	assert.Equal(t, "electric", updated.Vibe)
	// Fields not supplied stay as joined.
	assert.Equal(t, "Lone Wolf", updated.DisplayName)
	assert.Equal(t, "🐺", updated.Emoji)
}

func TestUpdateProfileWithoutMembership(t *testing.T) {
	_, svc, user, location := newMembershipFixture(t)

	_, err := svc.UpdateProfile(context.Background(), user.Id, &dto.UpdatePackProfileRequest{
		LocationId: location.Id,
		Profile:    dto.MemberProfileInput{Bio: "hi"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCanJoinDeniesBannedUser(t *testing.T) {
	store, svc, _, location := newMembershipFixture(t)

	banned := &entity.User{Id: uuid.New(), DisplayName: "Ghost", Status: "banned"}
	store.AddUser(banned)

	res, err := svc.CanJoin(context.Background(), banned.Id, location.Id)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "account is banned", res.Reason)
}

func TestCanJoinDeniesWhenBlockedByActiveMember(t *testing.T) {
	store, svc, blocker, location := newMembershipFixture(t)
	ctx := context.Background()

	// The blocker is inside the pack.
	_, err := svc.Join(ctx, blocker.Id, joinReq(location.Id))
	require.NoError(t, err)

	target := &entity.User{Id: uuid.New(), DisplayName: "Newcomer", Status: "active"}
	store.AddUser(target)
	store.AddInteraction(&entity.Interaction{
		Id:         uuid.New(),
		SenderId:   blocker.Id,
		ReceiverId: target.Id,
		LocationId: location.Id,
		Type:       entity.InteractionTypeBlock,
		Status:     entity.InteractionStatusActive,
		CreatedAt:  time.Now(),
	})

	res, err := svc.CanJoin(ctx, target.Id, location.Id)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "blocked by a pack member", res.Reason)

	// The block runs one way: being the blocker never bars entry.
	own, err := svc.CanJoin(ctx, blocker.Id, location.Id)
	require.NoError(t, err)
	assert.True(t, own.Allowed)
}
