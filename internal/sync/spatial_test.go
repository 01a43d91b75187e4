package sync

import (
	"testing"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPositionDeterministicAndBounded(t *testing.T) {
	id := uuid.New()
	first := defaultPosition(id)
	second := defaultPosition(id)
	assert.Equal(t, first, second)

	for i := 0; i < 100; i++ {
		p := defaultPosition(uuid.New())
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 1.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 1.0)
	}
}

func TestProjectOverrideOnlyAppliesToViewer(t *testing.T) {
	v := NewSpatialView()

	viewerUser := uuid.New()
	otherUser := uuid.New()
	members := []entity.PackMember{
		{Id: uuid.New(), UserId: viewerUser, Profile: entity.MemberProfile{DisplayName: "Me"}},
		{Id: uuid.New(), UserId: otherUser, Profile: entity.MemberProfile{DisplayName: "Them"}},
	}

	v.SetOwnPosition(viewerUser, Position{X: 0.9, Y: 0.1})

	// The viewer sees their own drag.
	mine := v.Project(members, viewerUser)
	assert.True(t, mine[0].IsSelf)
	assert.Equal(t, Position{X: 0.9, Y: 0.1}, mine[0].Position)

	// The other member sees the viewer at the deterministic default.
	theirs := v.Project(members, otherUser)
	assert.False(t, theirs[0].IsSelf)
	assert.Equal(t, defaultPosition(members[0].Id), theirs[0].Position)

	// After Forget, the viewer falls back to the default too.
	v.Forget(viewerUser)
	reset := v.Project(members, viewerUser)
	assert.Equal(t, defaultPosition(members[0].Id), reset[0].Position)
}

func TestSetOwnPositionClampsIntoUnitSquare(t *testing.T) {
	v := NewSpatialView()
	userId := uuid.New()
	memberId := uuid.New()

	v.SetOwnPosition(userId, Position{X: -3, Y: 42})

	members := []entity.PackMember{{Id: memberId, UserId: userId}}
	out := v.Project(members, userId)
	assert.Equal(t, Position{X: 0, Y: 1}, out[0].Position)
}
