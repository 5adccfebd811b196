package models

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactTriple is the three-part generated source payload
type ArtifactTriple struct {
	Markup string `json:"markup"`
	Styles string `json:"styles"`
	Logic  string `json:"logic"`
}

// Checkpoint is an immutable, version-numbered snapshot of a game's artifacts
// Maps to: checkpoint table
type Checkpoint struct {
	CheckpointID uuid.UUID `db:"checkpoint_id" json:"checkpoint_id"`

	GameID uuid.UUID `db:"game_id" json:"game_id"`

	// Denormalized copy of the owning game's owner key at creation time,
	// used to scope queries without a join
	OwnerKey string `db:"owner_key" json:"owner_key"`

	// The instruction that produced this snapshot
	Prompt string `db:"prompt" json:"prompt"`

	Artifacts ArtifactTriple `json:"artifacts"`

	// Human-readable change summary
	Description string `db:"description" json:"description"`

	// Positive, gap-free and strictly increasing per game.
	// Enforced by the (game_id, version) unique constraint plus the
	// re-read/retry loop in the checkpoint service.
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
