package sync

import (
	"context"
	"math/rand"
	stdsync "sync"
	"sync/atomic"
	"time"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// State is the synchronizer connection lifecycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// Scope identifies the slice of state one synchronizer owns.
type Scope struct {
	LocationId uuid.UUID
	SessionId  uuid.UUID
}

// SnapshotSource fetches the authoritative rows for a scope; used on connect
// and on every reconnect to close event gaps.
type SnapshotSource interface {
	Fetch(ctx context.Context, scope Scope) (members []*entity.PackMember, messages []*entity.ChatMessage, reactions []*entity.MessageReaction, events []*entity.PackEvent, err error)
}

const (
	backoffBase = 500 * time.Millisecond
	backoffMax  = 30 * time.Second

	changeBuffer = 256
)

// Synchronizer owns the replica for one scope. The Run goroutine drives the
// connection state machine and is the only writer of incremental change
// events; local commands (optimistic sends, snapshot reads) take the replica
// mutex directly so they stay responsive in every connection state. The last
// good replica is retained while disconnected, but sends fail fast.
type Synchronizer struct {
	scope  Scope
	source SnapshotSource
	logger logger.ILogger

	mu      stdsync.Mutex
	replica *Replica

	state   atomic.Int32
	changes chan Change
	resync  chan struct{}
	done    chan struct{}
	closed  atomic.Bool
}

func NewSynchronizer(scope Scope, source SnapshotSource, log logger.ILogger) *Synchronizer {
	s := &Synchronizer{
		scope:   scope,
		source:  source,
		logger:  log,
		replica: NewReplica(),
		changes: make(chan Change, changeBuffer),
		resync:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.state.Store(int32(StateDisconnected))
	return s
}

func (s *Synchronizer) Scope() Scope {
	return s.scope
}

func (s *Synchronizer) State() State {
	return State(s.state.Load())
}

func (s *Synchronizer) setState(st State) {
	s.state.Store(int32(st))
}

// Run drives the state machine until Close. Call once, in its own goroutine.
func (s *Synchronizer) Run(ctx context.Context) {
	attempt := 0
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.setState(StateDisconnected)
			return
		default:
		}

		s.setState(StateConnecting)
		if err := s.refetch(ctx); err != nil {
			s.setState(StateError)
			delay := backoffDelay(attempt)
			attempt++
			s.logger.Warn("Synchronizer", "Snapshot fetch failed, backing off", map[string]interface{}{
				"location_id": s.scope.LocationId,
				"error":       err.Error(),
				"retry_in":    delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-s.done:
				return
			case <-ctx.Done():
				s.setState(StateDisconnected)
				return
			}
			continue
		}

		attempt = 0
		s.setState(StateConnected)
		s.logger.Info("Synchronizer", "Connected", map[string]interface{}{
			"location_id": s.scope.LocationId,
		})

		if stop := s.connectedLoop(ctx); stop {
			return
		}
	}
}

func (s *Synchronizer) connectedLoop(ctx context.Context) (stop bool) {
	for {
		select {
		case change := <-s.changes:
			s.mu.Lock()
			s.replica.Apply(change)
			s.mu.Unlock()
		case <-s.resync:
			// Events were dropped on the floor; go back through the
			// connecting state so refetch closes the gap.
			s.logger.Warn("Synchronizer", "Change buffer overflowed, resynchronizing", map[string]interface{}{
				"location_id": s.scope.LocationId,
			})
			return false
		case <-s.done:
			s.setState(StateDisconnected)
			return true
		case <-ctx.Done():
			s.setState(StateDisconnected)
			return true
		}
	}
}

// refetch replaces the replica with a fresh authoritative snapshot. Gap
// closure after downtime: everything missed while disconnected is covered by
// the re-fetch before incremental events resume.
func (s *Synchronizer) refetch(ctx context.Context) error {
	members, messages, reactions, events, err := s.source.Fetch(ctx, s.scope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.replica.Reset(members, messages, reactions, events)
	s.mu.Unlock()
	return nil
}

// Enqueue feeds a change event into the actor. Buffered; rather than block
// the feed router on overflow, the event is dropped and a resync is flagged
// so the actor re-fetches the snapshot instead of running on a gapped view.
func (s *Synchronizer) Enqueue(change Change) {
	if s.closed.Load() {
		return
	}
	select {
	case s.changes <- change:
	default:
		s.logger.Warn("Synchronizer", "Change buffer full, dropping event", map[string]interface{}{
			"location_id": s.scope.LocationId,
			"entity":      string(change.Entity),
		})
		select {
		case s.resync <- struct{}{}:
		default:
		}
	}
}

// Apply folds a change into the replica immediately, bypassing the buffered
// channel. Used on the instance that performed the write so the author sees
// its own change without a feed round-trip.
func (s *Synchronizer) Apply(change Change) {
	s.mu.Lock()
	s.replica.Apply(change)
	s.mu.Unlock()
}

// Snapshot returns a copied view, filtered for the viewer's active blocks.
func (s *Synchronizer) Snapshot(blocked map[uuid.UUID]bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replica.Snapshot(blocked)
}

// Send runs an optimistic message write: a pending placeholder enters the
// replica immediately, persist stores the row, and the confirmed change
// (matched by correlation id) replaces the placeholder. Failure, including
// being disconnected, rolls back exactly that placeholder and surfaces the
// error.
func (s *Synchronizer) Send(ctx context.Context, draft *entity.ChatMessage, correlationId string, persist func(ctx context.Context) error) error {
	s.mu.Lock()
	s.replica.AddOptimistic(draft, correlationId)
	s.mu.Unlock()

	if s.State() != StateConnected {
		s.rollback(correlationId)
		return apperr.Unavailable("realtime session is not connected", nil)
	}

	if err := persist(ctx); err != nil {
		s.rollback(correlationId)
		return err
	}
	return nil
}

func (s *Synchronizer) rollback(correlationId string) {
	s.mu.Lock()
	s.replica.Rollback(correlationId)
	s.mu.Unlock()
}

// Close tears the synchronizer down. Idempotent.
func (s *Synchronizer) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
	}
}

func backoffDelay(attempt int) time.Duration {
	delay := backoffBase << attempt
	if delay > backoffMax || delay <= 0 {
		delay = backoffMax
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}
