package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// stubSource serves canned rows and can be told to fail the next N fetches.
type stubSource struct {
	mu       stdsync.Mutex
	failures int
	fetches  int
	messages []*entity.ChatMessage
}

func (s *stubSource) Fetch(ctx context.Context, scope Scope) ([]*entity.PackMember, []*entity.ChatMessage, []*entity.MessageReaction, []*entity.PackEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.failures > 0 {
		s.failures--
		return nil, nil, nil, nil, errors.New("backend down")
	}
	return nil, s.messages, nil, nil, nil
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func testScope() Scope {
	return Scope{LocationId: uuid.New(), SessionId: uuid.New()}
}

func TestSynchronizerSendFailsFastWhenDisconnected(t *testing.T) {
	s := NewSynchronizer(testScope(), &stubSource{}, nopLogger{})
	// Run never started: state stays disconnected.

	draft := msgAt(uuid.New(), uuid.New(), "doomed", time.Now())
	correlationId := uuid.NewString()

	err := s.Send(context.Background(), draft, correlationId, func(ctx context.Context) error {
		t.Fatal("persist must not run while disconnected")
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
	// The placeholder was rolled back, not left dangling.
	assert.Empty(t, s.Snapshot(nil).Messages)
}

func TestSynchronizerSendRollsBackOnPersistFailure(t *testing.T) {
	scope := testScope()
	s := NewSynchronizer(scope, &stubSource{}, nopLogger{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, time.Second, 5*time.Millisecond)

	draft := msgAt(scope.SessionId, uuid.New(), "will fail", time.Now())
	err := s.Send(ctx, draft, uuid.NewString(), func(ctx context.Context) error {
		return errors.New("insert failed")
	})

	require.Error(t, err)
	assert.Empty(t, s.Snapshot(nil).Messages)
}

func TestSynchronizerSendKeepsPlaceholderUntilConfirmed(t *testing.T) {
	scope := testScope()
	s := NewSynchronizer(scope, &stubSource{}, nopLogger{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, time.Second, 5*time.Millisecond)

	correlationId := uuid.NewString()
	draft := msgAt(scope.SessionId, uuid.New(), "optimistic", time.Now())

	err := s.Send(ctx, draft, correlationId, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	// Placeholder visible immediately after a successful persist call.
	snap := s.Snapshot(nil)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, draft.Id, snap.Messages[0].Id)

	// The stored row arrives on the feed with a new id.
	stored := msgAt(scope.SessionId, draft.SenderId, "optimistic", draft.CreatedAt)
	s.Enqueue(MessageInserted(scope.LocationId, stored, correlationId))

	require.Eventually(t, func() bool {
		msgs := s.Snapshot(nil).Messages
		return len(msgs) == 1 && msgs[0].Id == stored.Id
	}, time.Second, 5*time.Millisecond)
}

func TestSynchronizerReconnectRefetchesSnapshot(t *testing.T) {
	scope := testScope()
	seeded := msgAt(scope.SessionId, uuid.New(), "from backend", time.Now())
	source := &stubSource{failures: 2, messages: []*entity.ChatMessage{seeded}}

	s := NewSynchronizer(scope, source, nopLogger{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Two failed attempts back off, the third connects and the replica holds
	// the authoritative rows.
	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, 10*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, source.fetchCount(), 3)
	snap := s.Snapshot(nil)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "from backend", snap.Messages[0].Content)
}

func TestEnqueueOverflowFlagsResync(t *testing.T) {
	scope := testScope()
	s := NewSynchronizer(scope, &stubSource{}, nopLogger{})
	// Run never started, so nothing drains the change buffer.

	for i := 0; i < changeBuffer; i++ {
		s.Enqueue(MessageInserted(scope.LocationId, msgAt(scope.SessionId, uuid.New(), "fill", time.Now()), ""))
	}

	// The buffer is full: the next event is dropped and a resync is flagged.
	s.Enqueue(MessageInserted(scope.LocationId, msgAt(scope.SessionId, uuid.New(), "dropped", time.Now()), ""))
	assert.Len(t, s.resync, 1)

	// Further overflows neither block nor stack additional flags.
	s.Enqueue(MessageInserted(scope.LocationId, msgAt(scope.SessionId, uuid.New(), "dropped too", time.Now()), ""))
	assert.Len(t, s.resync, 1)
}

func TestSynchronizerResyncRefetchesSnapshot(t *testing.T) {
	scope := testScope()
	seeded := msgAt(scope.SessionId, uuid.New(), "authoritative", time.Now())
	source := &stubSource{messages: []*entity.ChatMessage{seeded}}

	s := NewSynchronizer(scope, source, nopLogger{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, time.Second, 5*time.Millisecond)
	before := source.fetchCount()

	s.resync <- struct{}{}

	// The actor leaves the connected loop, fetches a fresh snapshot and
	// settles back into connected with the authoritative rows.
	require.Eventually(t, func() bool {
		return source.fetchCount() > before && s.State() == StateConnected
	}, 5*time.Second, 10*time.Millisecond)

	snap := s.Snapshot(nil)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, seeded.Id, snap.Messages[0].Id)
}

func TestSynchronizerCloseIsIdempotent(t *testing.T) {
	s := NewSynchronizer(testScope(), &stubSource{}, nopLogger{})
	s.Close()
	s.Close()
}

func TestBackoffDelayCapsAndGrows(t *testing.T) {
	small := backoffDelay(0)
	assert.GreaterOrEqual(t, small, backoffBase)

	big := backoffDelay(40)
	assert.LessOrEqual(t, big, backoffMax+backoffMax/4)
}
