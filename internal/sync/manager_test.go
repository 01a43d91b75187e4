package sync

import (
	"testing"
	"time"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerScopeBeforeStartConnects(t *testing.T) {
	scope := testScope()
	seeded := msgAt(scope.SessionId, uuid.New(), "early bird", time.Now())
	source := &stubSource{messages: []*entity.ChatMessage{seeded}}

	// Start is never called: Scope has to hand the synchronizer a usable
	// context on its own.
	m := NewManager(NewFeed(), source, nil, nil, nopLogger{})

	s := m.Scope(scope.LocationId, scope.SessionId)
	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, time.Second, 5*time.Millisecond)

	snap := s.Snapshot(nil)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, seeded.Id, snap.Messages[0].Id)
}

func TestManagerScopeReturnsSameSynchronizer(t *testing.T) {
	m := NewManager(NewFeed(), &stubSource{}, nil, nil, nopLogger{})

	locationId := uuid.New()
	first := m.Scope(locationId, uuid.New())
	second := m.Scope(locationId, uuid.New())

	assert.Same(t, first, second)
}

func TestManagerRouteDeliversToScopedSynchronizer(t *testing.T) {
	m := NewManager(NewFeed(), &stubSource{}, nil, nil, nopLogger{})

	scope := testScope()
	s := m.Scope(scope.LocationId, scope.SessionId)
	require.Eventually(t, func() bool {
		return s.State() == StateConnected
	}, time.Second, 5*time.Millisecond)

	stored := msgAt(scope.SessionId, uuid.New(), "routed", time.Now())
	m.route(MessageInserted(scope.LocationId, stored, ""))

	require.Eventually(t, func() bool {
		msgs := s.Snapshot(nil).Messages
		return len(msgs) == 1 && msgs[0].Id == stored.Id
	}, time.Second, 5*time.Millisecond)

	s.Close()
}
