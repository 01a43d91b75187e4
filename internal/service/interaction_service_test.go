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

func newInteractionFixture(t *testing.T) (*memory.Store, IInteractionService, *entity.User, *entity.User, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()

	sender := &entity.User{Id: uuid.New(), DisplayName: "Sender", Status: "active"}
	receiver := &entity.User{Id: uuid.New(), DisplayName: "Receiver", Status: "active"}
	store.AddUser(sender)
	store.AddUser(receiver)

	locationId := uuid.New()
	svc := NewInteractionService(memory.NewFactory(store), nil, nil, nil)
	return store, svc, sender, receiver, locationId
}

func TestCreateWinkDeduplicatesActive(t *testing.T) {
	_, svc, sender, receiver, locationId := newInteractionFixture(t)
	ctx := context.Background()

	req := &dto.CreateInteractionRequest{
		ReceiverId: receiver.Id,
		LocationId: locationId,
		Type:       entity.InteractionTypeWink,
	}

	first, err := svc.Create(ctx, sender.Id, req)
	require.NoError(t, err)
	assert.Equal(t, entity.InteractionStatusActive, first.Status)

	second, err := svc.Create(ctx, sender.Id, req)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
}

func TestCreateInteractionRejectsSelf(t *testing.T) {
	_, svc, sender, _, locationId := newInteractionFixture(t)

	_, err := svc.Create(context.Background(), sender.Id, &dto.CreateInteractionRequest{
		ReceiverId: sender.Id,
		LocationId: locationId,
		Type:       entity.InteractionTypeWink,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestCreateInteractionUnknownReceiver(t *testing.T) {
	_, svc, sender, _, locationId := newInteractionFixture(t)

	_, err := svc.Create(context.Background(), sender.Id, &dto.CreateInteractionRequest{
		ReceiverId: uuid.New(),
		LocationId: locationId,
		Type:       entity.InteractionTypeWink,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRevokeIsSenderOnlyAndIdempotent(t *testing.T) {
	_, svc, sender, receiver, locationId := newInteractionFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sender.Id, &dto.CreateInteractionRequest{
		ReceiverId: receiver.Id,
		LocationId: locationId,
		Type:       entity.InteractionTypeBlock,
	})
	require.NoError(t, err)

	err = svc.Revoke(ctx, receiver.Id, created.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	require.NoError(t, svc.Revoke(ctx, sender.Id, created.Id))
	require.NoError(t, svc.Revoke(ctx, sender.Id, created.Id))
	require.NoError(t, svc.Revoke(ctx, sender.Id, uuid.New()))

	// A fresh block after the revoke is a new row, not the revoked one.
	again, err := svc.Create(ctx, sender.Id, &dto.CreateInteractionRequest{
		ReceiverId: receiver.Id,
		LocationId: locationId,
		Type:       entity.InteractionTypeBlock,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.Id, again.Id)
}

func TestBroadcastRequiresStaffRole(t *testing.T) {
	_, svc, sender, _, locationId := newInteractionFixture(t)
	ctx := context.Background()

	req := &dto.CreateBroadcastRequest{
		LocationId: locationId,
		Title:      "Last call",
		Body:       "Bar closes in 30 minutes",
	}

	_, err := svc.Broadcast(ctx, sender.Id, "user", req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	for _, role := range []string{"dj", "admin"} {
		res, err := svc.Broadcast(ctx, sender.Id, role, req)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.Id)
	}
}
