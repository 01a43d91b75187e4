package sync

import (
	"context"
	stdsync "sync"
	"time"

	"wolfpack-be/internal/pkg/logger"
	"wolfpack-be/internal/repository/unitofwork"

	gocache "github.com/patrickmn/go-cache"
	"github.com/google/uuid"
)

// Broadcaster pushes reconciled changes out to connected clients. Implemented
// by the websocket hub; kept as an interface so the sync package stays free
// of transport concerns.
type Broadcaster interface {
	BroadcastScope(locationId uuid.UUID, payload interface{})
}

const blockCacheTTL = 15 * time.Second

// Manager owns one synchronizer per scope, routes feed changes to them and
// fans reconciled changes out to the broadcaster.
type Manager struct {
	feed        *Feed
	source      SnapshotSource
	uowFactory  unitofwork.RepositoryFactory
	broadcaster Broadcaster
	logger      logger.ILogger

	mu    stdsync.Mutex
	byLoc map[uuid.UUID]*Synchronizer

	spatial    *SpatialView
	blockCache *gocache.Cache

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(feed *Feed, source SnapshotSource, uowFactory unitofwork.RepositoryFactory, broadcaster Broadcaster, log logger.ILogger) *Manager {
	return &Manager{
		feed:        feed,
		source:      source,
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		logger:      log,
		byLoc:       make(map[uuid.UUID]*Synchronizer),
		spatial:     NewSpatialView(),
		blockCache:  gocache.New(blockCacheTTL, time.Minute),
	}
}

// Start subscribes to the change feed and begins routing. Call once.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	changes, err := m.feed.Subscribe(m.ctx)
	if err != nil {
		return err
	}

	go func() {
		for change := range changes {
			m.route(change)
		}
	}()
	return nil
}

func (m *Manager) route(change Change) {
	m.mu.Lock()
	s, ok := m.byLoc[change.LocationId]
	m.mu.Unlock()

	if ok {
		s.Enqueue(change)
	}

	if m.broadcaster != nil {
		m.broadcaster.BroadcastScope(change.LocationId, map[string]interface{}{
			"type":   "change",
			"change": change,
		})
	}
}

// Scope returns the synchronizer for a location, starting one on first use.
func (m *Manager) Scope(locationId, sessionId uuid.UUID) *Synchronizer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.byLoc[locationId]; ok {
		return s
	}

	s := NewSynchronizer(Scope{LocationId: locationId, SessionId: sessionId}, m.source, m.logger)
	m.byLoc[locationId] = s

	// Scope may be hit before Start wires the feed context.
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	go s.Run(ctx)
	return s
}

// SnapshotFor returns the viewer-filtered snapshot for a scope: messages
// from users the viewer has an active block with are suppressed.
func (m *Manager) SnapshotFor(ctx context.Context, viewerId, locationId, sessionId uuid.UUID) (Snapshot, error) {
	blocked, err := m.blockedSet(ctx, viewerId)
	if err != nil {
		return Snapshot{}, err
	}
	return m.Scope(locationId, sessionId).Snapshot(blocked), nil
}

// Spatial exposes the shared floor view.
func (m *Manager) Spatial() *SpatialView {
	return m.spatial
}

// InvalidateBlocks drops the cached suppression set after a block or revoke.
func (m *Manager) InvalidateBlocks(userIds ...uuid.UUID) {
	for _, id := range userIds {
		m.blockCache.Delete(id.String())
	}
}

func (m *Manager) blockedSet(ctx context.Context, viewerId uuid.UUID) (map[uuid.UUID]bool, error) {
	if val, ok := m.blockCache.Get(viewerId.String()); ok {
		return val.(map[uuid.UUID]bool), nil
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	blocks, err := uow.InteractionRepository().ActiveBlocksInvolving(ctx, viewerId)
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]bool, len(blocks))
	for _, b := range blocks {
		if b.SenderId == viewerId {
			set[b.ReceiverId] = true
		} else {
			set[b.SenderId] = true
		}
	}

	m.blockCache.Set(viewerId.String(), set, blockCacheTTL)
	return set, nil
}

// Close tears down every synchronizer and stops routing.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byLoc {
		s.Close()
	}
	m.byLoc = make(map[uuid.UUID]*Synchronizer)
}
