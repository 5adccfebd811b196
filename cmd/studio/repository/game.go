package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/common/db"
)

// GameRepository handles database operations for games
type GameRepository struct {
	db *db.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(database *db.DB) *GameRepository {
	return &GameRepository{db: database}
}

const gameColumns = `
	game_id, name, owner_key, description, current_checkpoint_id,
	is_private, published_marketplace, published_community, published_at,
	created_at, updated_at
`

// Create inserts a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO game (
			game_id, name, owner_key, description, current_checkpoint_id,
			is_private, published_marketplace, published_community, published_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.Exec(ctx, query,
		game.GameID,
		game.Name,
		game.OwnerKey,
		game.Description,
		game.CurrentCheckpointID,
		game.IsPrivate,
		game.PublishedMarketplace,
		game.PublishedCommunity,
		game.PublishedAt,
		game.CreatedAt,
		game.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// GetByIDAndOwner retrieves a game scoped by owner key. A game owned by a
// different key is indistinguishable from a missing one.
func (r *GameRepository) GetByIDAndOwner(ctx context.Context, gameID uuid.UUID, ownerKey string) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game
		WHERE game_id = $1 AND owner_key = $2
	`

	game := &models.Game{}
	err := r.db.QueryRow(ctx, query, gameID, ownerKey).Scan(
		&game.GameID,
		&game.Name,
		&game.OwnerKey,
		&game.Description,
		&game.CurrentCheckpointID,
		&game.IsPrivate,
		&game.PublishedMarketplace,
		&game.PublishedCommunity,
		&game.PublishedAt,
		&game.CreatedAt,
		&game.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListByOwner retrieves all games for an owner, most recently updated first
func (r *GameRepository) ListByOwner(ctx context.Context, ownerKey string) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game
		WHERE owner_key = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// ListPublished retrieves games published to a target, newest publication
// first. No owner restriction: this backs the public listings.
func (r *GameRepository) ListPublished(ctx context.Context, target models.Target, limit, offset int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game
		WHERE ` + publishedFlagColumn(target) + `
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list published games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetPublished retrieves a game only if it is published to the target,
// regardless of who owns it
func (r *GameRepository) GetPublished(ctx context.Context, gameID uuid.UUID, target models.Target) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game
		WHERE game_id = $1 AND ` + publishedFlagColumn(target) + `
	`

	game := &models.Game{}
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&game.GameID,
		&game.Name,
		&game.OwnerKey,
		&game.Description,
		&game.CurrentCheckpointID,
		&game.IsPrivate,
		&game.PublishedMarketplace,
		&game.PublishedCommunity,
		&game.PublishedAt,
		&game.CreatedAt,
		&game.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get published game: %w", err)
	}

	return game, nil
}

// UpdatePublication persists the publication flags, derived privacy flag and
// first-publish timestamp
func (r *GameRepository) UpdatePublication(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE game
		SET is_private = $3, published_marketplace = $4, published_community = $5,
		    published_at = $6, updated_at = $7
		WHERE game_id = $1 AND owner_key = $2
	`

	result, err := r.db.Exec(ctx, query,
		game.GameID,
		game.OwnerKey,
		game.IsPrivate,
		game.PublishedMarketplace,
		game.PublishedCommunity,
		game.PublishedAt,
		game.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update publication state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteCascade removes a game and all of its checkpoints in one
// transaction, so a partial cascade can never commit. Returns false when the
// game does not exist for this owner.
func (r *GameRepository) DeleteCascade(ctx context.Context, gameID uuid.UUID, ownerKey string) (bool, error) {
	var deleted bool

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		// Checkpoints are additionally scoped by owner key as a
		// defense-in-depth check; owner divergence cannot arise without an
		// owner-transfer operation.
		if _, err := tx.Exec(ctx,
			`DELETE FROM checkpoint WHERE game_id = $1 AND owner_key = $2`,
			gameID, ownerKey,
		); err != nil {
			return fmt.Errorf("failed to delete checkpoints: %w", err)
		}

		result, err := tx.Exec(ctx,
			`DELETE FROM game WHERE game_id = $1 AND owner_key = $2`,
			gameID, ownerKey,
		)
		if err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}

		deleted = result.RowsAffected() == 1
		if !deleted {
			// Roll back the checkpoint delete too
			return ErrNotFound
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

// publishedFlagColumn maps a target to its flag column. Targets are parsed
// before they reach the repository, so unknown values cannot occur here.
func publishedFlagColumn(target models.Target) string {
	if target == models.TargetCommunity {
		return "published_community"
	}
	return "published_marketplace"
}

func scanGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.GameID,
			&game.Name,
			&game.OwnerKey,
			&game.Description,
			&game.CurrentCheckpointID,
			&game.IsPrivate,
			&game.PublishedMarketplace,
			&game.PublishedCommunity,
			&game.PublishedAt,
			&game.CreatedAt,
			&game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// touchGame bumps a game's updated_at inside an existing transaction
func touchGame(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, now time.Time) error {
	if _, err := tx.Exec(ctx,
		`UPDATE game SET updated_at = $2 WHERE game_id = $1`,
		gameID, now,
	); err != nil {
		return fmt.Errorf("failed to touch game: %w", err)
	}
	return nil
}
