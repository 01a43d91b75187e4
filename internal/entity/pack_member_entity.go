package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// MemberProfile is the display profile carried by a pack member. Empty
// strings mean "not supplied" in merge operations; existing non-empty values
// are never clobbered by blanks.
type MemberProfile struct {
	DisplayName   string
	Emoji         string
	AvatarURL     *string
	Bio           string
	Vibe          string
	FavoriteDrink string
	SocialHandle  string
}

type PackMember struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	LocationId     uuid.UUID
	Status         string
	TableLabel     *string
	Profile        MemberProfile
	JoinedAt       time.Time
	LeftAt         *time.Time
	LastActivityAt time.Time
}

func (m *PackMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

// MergeProfile overlays supplied fields onto the member profile. Only
// non-empty incoming values win; AvatarURL follows the same rule via nil.
func (m *PackMember) MergeProfile(p MemberProfile) {
	if p.DisplayName != "" {
		m.Profile.DisplayName = p.DisplayName
	}
	if p.Emoji != "" {
		m.Profile.Emoji = p.Emoji
	}
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		m.Profile.AvatarURL = p.AvatarURL
	}
	if p.Bio != "" {
		m.Profile.Bio = p.Bio
	}
	if p.Vibe != "" {
		m.Profile.Vibe = p.Vibe
	}
	if p.FavoriteDrink != "" {
		m.Profile.FavoriteDrink = p.FavoriteDrink
	}
	if p.SocialHandle != "" {
		m.Profile.SocialHandle = p.SocialHandle
	}
}
