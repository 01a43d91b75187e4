package sync

import (
	"hash/fnv"
	"math"
	stdsync "sync"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
)

// Position is a normalized 2D coordinate in [0,1) for the floor view.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MemberPosition pairs a pack member with its derived floor position.
type MemberPosition struct {
	MemberId    uuid.UUID `json:"member_id"`
	UserId      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Emoji       string    `json:"emoji,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Position    Position  `json:"position"`
	IsSelf      bool      `json:"is_self"`
}

// defaultPosition derives a deterministic spot on a ring from the member id:
// the same member lands on the same spot on every client without any
// coordination, and ids spread around the ring.
func defaultPosition(memberId uuid.UUID) Position {
	h := fnv.New64a()
	h.Write(memberId[:])
	sum := h.Sum64()

	angle := float64(sum%3600) / 3600.0 * 2 * math.Pi
	// Two radius bands so colliding angles still separate visually.
	radius := 0.28
	if (sum/3600)%2 == 1 {
		radius = 0.42
	}

	return Position{
		X: 0.5 + radius*math.Cos(angle),
		Y: 0.5 + radius*math.Sin(angle),
	}
}

// SpatialView projects member replicas onto floor positions. A viewer may
// drag their own marker; that override lives here only and is never
// persisted or shared.
type SpatialView struct {
	mu        stdsync.RWMutex
	overrides map[uuid.UUID]Position // keyed by user id
}

func NewSpatialView() *SpatialView {
	return &SpatialView{
		overrides: make(map[uuid.UUID]Position),
	}
}

// SetOwnPosition stores a local drag for the given user. Coordinates are
// clamped into the unit square.
func (v *SpatialView) SetOwnPosition(userId uuid.UUID, pos Position) {
	pos.X = clamp01(pos.X)
	pos.Y = clamp01(pos.Y)
	v.mu.Lock()
	v.overrides[userId] = pos
	v.mu.Unlock()
}

// Forget drops the override when the user leaves the pack.
func (v *SpatialView) Forget(userId uuid.UUID) {
	v.mu.Lock()
	delete(v.overrides, userId)
	v.mu.Unlock()
}

// Project lays out the given members for one viewer. Only the viewer's own
// override applies; other members always get their deterministic default.
func (v *SpatialView) Project(members []entity.PackMember, viewerId uuid.UUID) []MemberPosition {
	v.mu.RLock()
	override, hasOverride := v.overrides[viewerId]
	v.mu.RUnlock()

	out := make([]MemberPosition, 0, len(members))
	for _, m := range members {
		pos := defaultPosition(m.Id)
		isSelf := m.UserId == viewerId
		if isSelf && hasOverride {
			pos = override
		}
		out = append(out, MemberPosition{
			MemberId:    m.Id,
			UserId:      m.UserId,
			DisplayName: m.Profile.DisplayName,
			Emoji:       m.Profile.Emoji,
			AvatarURL:   m.Profile.AvatarURL,
			Position:    pos,
			IsSelf:      isSelf,
		})
	}
	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
