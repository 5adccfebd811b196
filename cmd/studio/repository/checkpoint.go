package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/common/db"
)

// Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// CheckpointRepository handles database operations for checkpoints
type CheckpointRepository struct {
	db *db.DB
}

// NewCheckpointRepository creates a new checkpoint repository
func NewCheckpointRepository(database *db.DB) *CheckpointRepository {
	return &CheckpointRepository{db: database}
}

const checkpointColumns = `
	checkpoint_id, game_id, owner_key, prompt, markup, styles, logic,
	description, version, created_at
`

// MaxVersion returns the highest version for a game, or 0 when the game has
// no checkpoints yet
func (r *CheckpointRepository) MaxVersion(ctx context.Context, gameID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM checkpoint WHERE game_id = $1`

	var max int
	if err := r.db.QueryRow(ctx, query, gameID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max version: %w", err)
	}

	return max, nil
}

// InsertWithPointer inserts a checkpoint and moves the owning game's current
// pointer in one transaction (insert-then-point). A version collision with a
// concurrent append surfaces as ErrVersionConflict.
func (r *CheckpointRepository) InsertWithPointer(ctx context.Context, cp *models.Checkpoint) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO checkpoint (
				checkpoint_id, game_id, owner_key, prompt, markup, styles, logic,
				description, version, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			)
		`,
			cp.CheckpointID,
			cp.GameID,
			cp.OwnerKey,
			cp.Prompt,
			cp.Artifacts.Markup,
			cp.Artifacts.Styles,
			cp.Artifacts.Logic,
			cp.Description,
			cp.Version,
			cp.CreatedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrVersionConflict
			}
			return fmt.Errorf("failed to insert checkpoint: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE game SET current_checkpoint_id = $2, updated_at = $3 WHERE game_id = $1`,
			cp.GameID, cp.CheckpointID, cp.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to move checkpoint pointer: %w", err)
		}

		return nil
	})

	return err
}

// GetByIDAndOwner retrieves a checkpoint scoped by owner key
func (r *CheckpointRepository) GetByIDAndOwner(ctx context.Context, checkpointID uuid.UUID, ownerKey string) (*models.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoint
		WHERE checkpoint_id = $1 AND owner_key = $2
	`

	cp := &models.Checkpoint{}
	err := r.db.QueryRow(ctx, query, checkpointID, ownerKey).Scan(
		&cp.CheckpointID,
		&cp.GameID,
		&cp.OwnerKey,
		&cp.Prompt,
		&cp.Artifacts.Markup,
		&cp.Artifacts.Styles,
		&cp.Artifacts.Logic,
		&cp.Description,
		&cp.Version,
		&cp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return cp, nil
}

// GetByID retrieves a checkpoint without owner scoping. Used only for
// projections of games already verified to be published.
func (r *CheckpointRepository) GetByID(ctx context.Context, checkpointID uuid.UUID) (*models.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoint
		WHERE checkpoint_id = $1
	`

	cp := &models.Checkpoint{}
	err := r.db.QueryRow(ctx, query, checkpointID).Scan(
		&cp.CheckpointID,
		&cp.GameID,
		&cp.OwnerKey,
		&cp.Prompt,
		&cp.Artifacts.Markup,
		&cp.Artifacts.Styles,
		&cp.Artifacts.Logic,
		&cp.Description,
		&cp.Version,
		&cp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return cp, nil
}

// GetByVersion retrieves one version of a game's history, owner-scoped
func (r *CheckpointRepository) GetByVersion(ctx context.Context, gameID uuid.UUID, ownerKey string, version int) (*models.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoint
		WHERE game_id = $1 AND owner_key = $2 AND version = $3
	`

	cp := &models.Checkpoint{}
	err := r.db.QueryRow(ctx, query, gameID, ownerKey, version).Scan(
		&cp.CheckpointID,
		&cp.GameID,
		&cp.OwnerKey,
		&cp.Prompt,
		&cp.Artifacts.Markup,
		&cp.Artifacts.Styles,
		&cp.Artifacts.Logic,
		&cp.Description,
		&cp.Version,
		&cp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint by version: %w", err)
	}

	return cp, nil
}

// GetLatest retrieves the highest-version checkpoint for a game
func (r *CheckpointRepository) GetLatest(ctx context.Context, gameID uuid.UUID) (*models.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoint
		WHERE game_id = $1
		ORDER BY version DESC
		LIMIT 1
	`

	cp := &models.Checkpoint{}
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&cp.CheckpointID,
		&cp.GameID,
		&cp.OwnerKey,
		&cp.Prompt,
		&cp.Artifacts.Markup,
		&cp.Artifacts.Styles,
		&cp.Artifacts.Logic,
		&cp.Description,
		&cp.Version,
		&cp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest checkpoint: %w", err)
	}

	return cp, nil
}

// ListByGame retrieves a game's checkpoints, most recent version first.
// Owner-scoped: an unowned game yields an empty list, not an error.
func (r *CheckpointRepository) ListByGame(ctx context.Context, gameID uuid.UUID, ownerKey string) ([]*models.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoint
		WHERE game_id = $1 AND owner_key = $2
		ORDER BY version DESC
	`

	rows, err := r.db.Query(ctx, query, gameID, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []*models.Checkpoint
	for rows.Next() {
		cp := &models.Checkpoint{}
		err := rows.Scan(
			&cp.CheckpointID,
			&cp.GameID,
			&cp.OwnerKey,
			&cp.Prompt,
			&cp.Artifacts.Markup,
			&cp.Artifacts.Styles,
			&cp.Artifacts.Logic,
			&cp.Description,
			&cp.Version,
			&cp.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, cp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkpoints: %w", err)
	}

	return checkpoints, nil
}

// DeleteWithPointerReassign removes a checkpoint and, when it was the owning
// game's current checkpoint, points the game at the remaining maximum
// version (or clears the pointer when none remain). One transaction.
func (r *CheckpointRepository) DeleteWithPointerReassign(ctx context.Context, cp *models.Checkpoint, wasCurrent bool, now time.Time) (bool, error) {
	var deleted bool

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM checkpoint WHERE checkpoint_id = $1 AND owner_key = $2`,
			cp.CheckpointID, cp.OwnerKey,
		)
		if err != nil {
			return fmt.Errorf("failed to delete checkpoint: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		deleted = true

		if !wasCurrent {
			return touchGame(ctx, tx, cp.GameID, now)
		}

		var replacement uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT checkpoint_id
			FROM checkpoint
			WHERE game_id = $1
			ORDER BY version DESC
			LIMIT 1
		`, cp.GameID).Scan(&replacement)

		var newCurrent *uuid.UUID
		switch {
		case err == nil:
			newCurrent = &replacement
		case errors.Is(err, pgx.ErrNoRows):
			// No checkpoints remain; clear the pointer
		default:
			return fmt.Errorf("failed to find replacement checkpoint: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE game SET current_checkpoint_id = $2, updated_at = $3 WHERE game_id = $1`,
			cp.GameID, newCurrent, now,
		); err != nil {
			return fmt.Errorf("failed to reassign checkpoint pointer: %w", err)
		}

		return nil
	})

	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return deleted, nil
}
