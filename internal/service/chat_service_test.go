package service

import (
	"context"
	"testing"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/memory"
	syncpkg "wolfpack-be/internal/sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

type chatFixture struct {
	store    *memory.Store
	factory  *memory.Factory
	manager  *syncpkg.Manager
	svc      IChatService
	location *entity.Location
	session  *entity.ChatSession
	user     *entity.User
}

func newChatFixture(t *testing.T, ratePerMinute, burst int) *chatFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	factory := memory.NewFactory(store)

	location := &entity.Location{
		Id:           uuid.New(),
		Name:         "Side Hustle Bar Salem",
		Latitude:     salemLat,
		Longitude:    salemLng,
		RadiusMeters: 100,
		IsActive:     true,
	}
	store.AddLocation(location)

	user := &entity.User{Id: uuid.New(), DisplayName: "Wolf", Status: "active"}
	store.AddUser(user)

	feed := syncpkg.NewFeed()
	source := syncpkg.NewRepositorySource(factory)
	manager := syncpkg.NewManager(feed, source, factory, nil, testLogger{})
	require.NoError(t, manager.Start(ctx))
	t.Cleanup(manager.Close)

	svc := NewChatService(factory, manager, feed, nil, ratePerMinute, burst, 3)

	session, err := svc.DefaultSession(ctx, location.Id)
	require.NoError(t, err)

	f := &chatFixture{
		store:    store,
		factory:  factory,
		manager:  manager,
		svc:      svc,
		location: location,
		session:  session,
		user:     user,
	}
	f.joinPack(t, user)

	// The scope synchronizer has to be connected before sends go through.
	synchro := manager.Scope(location.Id, session.Id)
	require.Eventually(t, func() bool {
		return synchro.State() == syncpkg.StateConnected
	}, 2*time.Second, 10*time.Millisecond)

	return f
}

func (f *chatFixture) joinPack(t *testing.T, user *entity.User) {
	t.Helper()
	now := time.Now()
	member := &entity.PackMember{
		Id:             uuid.New(),
		UserId:         user.Id,
		LocationId:     f.location.Id,
		Status:         entity.MemberStatusActive,
		Profile:        entity.MemberProfile{DisplayName: user.DisplayName},
		JoinedAt:       now,
		LastActivityAt: now,
	}
	ctx := context.Background()
	require.NoError(t, f.factory.NewUnitOfWork(ctx).PackMemberRepository().Create(ctx, member))
}

func (f *chatFixture) send(t *testing.T, userId uuid.UUID, content string) *dto.ChatMessageResponse {
	t.Helper()
	res, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		SessionId: f.session.Id,
		Content:   content,
	})
	require.NoError(t, err)
	return res
}

func TestSendMessagePersistsAndEchoesCorrelation(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	res, err := f.svc.SendMessage(ctx, f.user.Id, &dto.SendMessageRequest{
		SessionId:     f.session.Id,
		Content:       "awooo",
		CorrelationId: "client-draft-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "client-draft-1", res.CorrelationId)
	assert.Equal(t, "Wolf", res.SenderName)
	assert.Equal(t, entity.MessageTypeText, res.Type)
	assert.NotEqual(t, uuid.Nil, res.Id)

	list, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.Id, list[0].Id)

	// The confirmed row, not the optimistic placeholder, ends up in the
	// replica once the feed echo lands.
	require.Eventually(t, func() bool {
		snap, err := f.manager.SnapshotFor(ctx, f.user.Id, f.location.Id, f.session.Id)
		return err == nil && len(snap.Messages) == 1 && snap.Messages[0].Id == res.Id
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	f := newChatFixture(t, 60, 10)

	stranger := &entity.User{Id: uuid.New(), DisplayName: "Stranger", Status: "active"}
	f.store.AddUser(stranger)

	_, err := f.svc.SendMessage(context.Background(), stranger.Id, &dto.SendMessageRequest{
		SessionId: f.session.Id,
		Content:   "let me in",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestSendMessageUnknownSession(t *testing.T) {
	f := newChatFixture(t, 60, 10)

	_, err := f.svc.SendMessage(context.Background(), f.user.Id, &dto.SendMessageRequest{
		SessionId: uuid.New(),
		Content:   "hello?",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSendMessageRateLimited(t *testing.T) {
	f := newChatFixture(t, 60, 2)
	ctx := context.Background()

	f.send(t, f.user.Id, "one")
	f.send(t, f.user.Id, "two")

	_, err := f.svc.SendMessage(ctx, f.user.Id, &dto.SendMessageRequest{
		SessionId: f.session.Id,
		Content:   "three",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindRateLimited, apperr.KindOf(err))
}

func TestListMessagesHidesBlockedSenders(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	rival := &entity.User{Id: uuid.New(), DisplayName: "Rival", Status: "active"}
	f.store.AddUser(rival)
	f.joinPack(t, rival)

	f.send(t, f.user.Id, "mine")
	f.send(t, rival.Id, "theirs")

	f.store.AddInteraction(&entity.Interaction{
		Id:         uuid.New(),
		SenderId:   f.user.Id,
		ReceiverId: rival.Id,
		LocationId: f.location.Id,
		Type:       entity.InteractionTypeBlock,
		Status:     entity.InteractionStatusActive,
		CreatedAt:  time.Now(),
	})

	mine, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.Id, mine[0].SenderId)

	// The suppression is mutual: the blocked side stops seeing the blocker.
	theirs, err := f.svc.ListMessages(ctx, rival.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, rival.Id, theirs[0].SenderId)
}

func TestDeleteMessageIsSenderOnlyAndIdempotent(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	msg := f.send(t, f.user.Id, "regret this")

	rival := &entity.User{Id: uuid.New(), DisplayName: "Rival", Status: "active"}
	f.store.AddUser(rival)
	err := f.svc.DeleteMessage(ctx, rival.Id, msg.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	require.NoError(t, f.svc.DeleteMessage(ctx, f.user.Id, msg.Id))
	require.NoError(t, f.svc.DeleteMessage(ctx, f.user.Id, msg.Id))
	require.NoError(t, f.svc.DeleteMessage(ctx, f.user.Id, uuid.New()))

	list, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFlagMessage(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	msg := f.send(t, f.user.Id, "sketchy")

	require.NoError(t, f.svc.FlagMessage(ctx, f.user.Id, msg.Id))
	require.NoError(t, f.svc.FlagMessage(ctx, f.user.Id, msg.Id))

	list, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsFlagged)

	err = f.svc.FlagMessage(ctx, f.user.Id, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddReactionDuplicateReturnsExisting(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	msg := f.send(t, f.user.Id, "react to me")

	first, err := f.svc.AddReaction(ctx, f.user.Id, msg.Id, "🔥")
	require.NoError(t, err)

	second, err := f.svc.AddReaction(ctx, f.user.Id, msg.Id, "🔥")
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	list, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Reactions, 1)
}

func TestRemoveReactionIsIdempotent(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	msg := f.send(t, f.user.Id, "fleeting")

	_, err := f.svc.AddReaction(ctx, f.user.Id, msg.Id, "🔥")
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveReaction(ctx, f.user.Id, msg.Id, "🔥"))
	require.NoError(t, f.svc.RemoveReaction(ctx, f.user.Id, msg.Id, "🔥"))

	list, err := f.svc.ListMessages(ctx, f.user.Id, &dto.ListMessagesRequest{SessionId: f.session.Id})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Reactions)
}

func TestDefaultSessionIsCreatedOnce(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	again, err := f.svc.DefaultSession(ctx, f.location.Id)
	require.NoError(t, err)
	assert.Equal(t, f.session.Id, again.Id)
	assert.Equal(t, "Pack Chat", again.Name)
}

func TestSendMessageConfirmsWithoutFeedEcho(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	factory := memory.NewFactory(store)

	location := &entity.Location{
		Id:           uuid.New(),
		Name:         "Side Hustle Bar Salem",
		Latitude:     salemLat,
		Longitude:    salemLng,
		RadiusMeters: 100,
		IsActive:     true,
	}
	store.AddLocation(location)

	user := &entity.User{Id: uuid.New(), DisplayName: "Wolf", Status: "active"}
	store.AddUser(user)

	manager := syncpkg.NewManager(syncpkg.NewFeed(), syncpkg.NewRepositorySource(factory), factory, nil, testLogger{})
	t.Cleanup(manager.Close)

	// No feed wired: the sender's confirmation must not depend on the change
	// echo coming back through the routed feed.
	svc := NewChatService(factory, manager, nil, nil, 60, 10, 3)

	session, err := svc.DefaultSession(ctx, location.Id)
	require.NoError(t, err)

	now := time.Now()
	member := &entity.PackMember{
		Id:             uuid.New(),
		UserId:         user.Id,
		LocationId:     location.Id,
		Status:         entity.MemberStatusActive,
		Profile:        entity.MemberProfile{DisplayName: user.DisplayName},
		JoinedAt:       now,
		LastActivityAt: now,
	}
	require.NoError(t, factory.NewUnitOfWork(ctx).PackMemberRepository().Create(ctx, member))

	synchro := manager.Scope(location.Id, session.Id)
	require.Eventually(t, func() bool {
		return synchro.State() == syncpkg.StateConnected
	}, 2*time.Second, 10*time.Millisecond)

	res, err := svc.SendMessage(ctx, user.Id, &dto.SendMessageRequest{
		SessionId: session.Id,
		Content:   "straight to the replica",
	})
	require.NoError(t, err)

	// The stored row is visible immediately: no Eventually, no feed.
	snap, err := manager.SnapshotFor(ctx, user.Id, location.Id, session.Id)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, res.Id, snap.Messages[0].Id)
}

func TestAddReactionOnDeletedMessage(t *testing.T) {
	f := newChatFixture(t, 60, 10)
	ctx := context.Background()

	msg := f.send(t, f.user.Id, "gone soon")
	require.NoError(t, f.svc.DeleteMessage(ctx, f.user.Id, msg.Id))

	_, err := f.svc.AddReaction(ctx, f.user.Id, msg.Id, "🔥")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
