package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxNameLength is the longest allowed game name
const MaxNameLength = 100

// Target is a public publication channel
type Target string

const (
	// TargetMarketplace lists the game as playable with code hidden
	TargetMarketplace Target = "marketplace"
	// TargetCommunity lists the game as playable and forkable with code visible
	TargetCommunity Target = "community"
)

// ParseTarget validates a publication target string
func ParseTarget(s string) (Target, bool) {
	switch Target(s) {
	case TargetMarketplace:
		return TargetMarketplace, true
	case TargetCommunity:
		return TargetCommunity, true
	default:
		return "", false
	}
}

// PublicationState is the four-state projection of the two publication flags
type PublicationState string

const (
	StatePrivate     PublicationState = "private"
	StateMarketplace PublicationState = "marketplace"
	StateCommunity   PublicationState = "community"
	StateBoth        PublicationState = "both"
)

// Game is an owner-scoped container for a checkpoint history
// Maps to: game table
type Game struct {
	GameID uuid.UUID `db:"game_id" json:"game_id"`

	Name string `db:"name" json:"name"`

	// Opaque wallet-style identity of the controlling owner. Never verified
	// here; the Authenticator seam in middleware owns that concern.
	OwnerKey string `db:"owner_key" json:"owner_key"`

	Description *string `db:"description" json:"description,omitempty"`

	// Points at the most recent checkpoint. May be stale after a crash (the
	// true latest is re-derivable as max version) but never dangles: it is
	// only moved in the same transaction as the checkpoint write.
	CurrentCheckpointID *uuid.UUID `db:"current_checkpoint_id" json:"current_checkpoint_id,omitempty"`

	IsPrivate            bool `db:"is_private" json:"is_private"`
	PublishedMarketplace bool `db:"published_marketplace" json:"published_marketplace"`
	PublishedCommunity   bool `db:"published_community" json:"published_community"`

	// Set on the first publish to either target, retained forever after
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PublicationState derives the logical publication state from the two flags
func (g *Game) PublicationState() PublicationState {
	switch {
	case g.PublishedMarketplace && g.PublishedCommunity:
		return StateBoth
	case g.PublishedMarketplace:
		return StateMarketplace
	case g.PublishedCommunity:
		return StateCommunity
	default:
		return StatePrivate
	}
}

// IsPublishedTo checks a single target's flag
func (g *Game) IsPublishedTo(target Target) bool {
	switch target {
	case TargetMarketplace:
		return g.PublishedMarketplace
	case TargetCommunity:
		return g.PublishedCommunity
	default:
		return false
	}
}

// SetPublished flips one target's flag and keeps the derived fields in sync
func (g *Game) SetPublished(target Target, published bool) {
	switch target {
	case TargetMarketplace:
		g.PublishedMarketplace = published
	case TargetCommunity:
		g.PublishedCommunity = published
	}
	g.IsPrivate = !g.PublishedMarketplace && !g.PublishedCommunity
}
