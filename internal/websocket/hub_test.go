package websocket

import (
	"encoding/json"
	stdsync "sync"
	"testing"
	"time"

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

type recordingSink struct {
	mu    stdsync.Mutex
	calls []struct {
		userId uuid.UUID
		x, y   float64
	}
}

func (s *recordingSink) SetOwnPosition(userId uuid.UUID, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, struct {
		userId uuid.UUID
		x, y   float64
	}{userId, x, y})
}

func (s *recordingSink) Forget(userId uuid.UUID) {}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func waitRegistered(t *testing.T, h *Hub, locationId uuid.UUID, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.rooms[locationId]) == n
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcastScopeDropsFramesForSlowClients(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	locationId := uuid.New()
	// An unbuffered Send that nobody reads models a stalled consumer.
	slow := &Client{Hub: h, UserID: uuid.New(), LocationID: locationId, Send: make(chan []byte)}
	fast := &Client{Hub: h, UserID: uuid.New(), LocationID: locationId, Send: make(chan []byte, 4)}

	h.register <- slow
	h.register <- fast
	waitRegistered(t, h, locationId, 2)

	h.BroadcastScope(locationId, map[string]string{"type": "change"})
	h.BroadcastScope(locationId, map[string]string{"type": "change"})

	// The healthy client got both frames; the stalled one lost them but is
	// still connected.
	assert.Len(t, fast.Send, 2)
	h.mu.RLock()
	stillThere := h.rooms[locationId][slow]
	h.mu.RUnlock()
	assert.True(t, stillThere)

	// Teardown closes Send exactly once, in the unregister handler.
	h.unregister <- slow
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-slow.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestInboundPositionStaysLocal(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	sink := &recordingSink{}
	h.SetPositionSink(sink)
	go h.Run()

	locationId := uuid.New()
	owner := &Client{Hub: h, UserID: uuid.New(), LocationID: locationId, Send: make(chan []byte, 4)}
	peer := &Client{Hub: h, UserID: uuid.New(), LocationID: locationId, Send: make(chan []byte, 4)}

	h.register <- owner
	h.register <- peer
	waitRegistered(t, h, locationId, 2)

	owner.handleInbound([]byte(`{"type":"position","x":0.4,"y":0.6}`))

	assert.Equal(t, 1, sink.count())
	sink.mu.Lock()
	assert.Equal(t, owner.UserID, sink.calls[0].userId)
	assert.Equal(t, 0.4, sink.calls[0].x)
	assert.Equal(t, 0.6, sink.calls[0].y)
	sink.mu.Unlock()

	// A drag is a viewer-local override; the room hears nothing.
	assert.Empty(t, peer.Send)
}

func TestClusterEnvelopeSkipsOwnOrigin(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	locationId := uuid.New()
	client := &Client{Hub: h, UserID: uuid.New(), LocationID: locationId, Send: make(chan []byte, 4)}
	h.register <- client
	waitRegistered(t, h, locationId, 1)

	message := json.RawMessage(`{"type":"change"}`)

	// The publishing instance already delivered locally; its own echo off
	// the cluster channel must not double-deliver.
	h.handleClusterEnvelope(clusterEnvelope{
		Origin:           h.instanceId,
		TargetLocationID: locationId.String(),
		Message:          message,
	})
	assert.Empty(t, client.Send)

	h.handleClusterEnvelope(clusterEnvelope{
		Origin:           uuid.NewString(),
		TargetLocationID: locationId.String(),
		Message:          message,
	})
	assert.Len(t, client.Send, 1)
}
