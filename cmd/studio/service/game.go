package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/logger"
)

// GameService handles game container operations
type GameService struct {
	games       GameStore
	checkpoints CheckpointStore
	log         *logger.Logger
}

// NewGameService creates a new game service
func NewGameService(games GameStore, checkpoints CheckpointStore, log *logger.Logger) *GameService {
	return &GameService{
		games:       games,
		checkpoints: checkpoints,
		log:         log,
	}
}

// CreateGame validates and persists a new private game
func (s *GameService) CreateGame(ctx context.Context, name, ownerKey string, description *string) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		return nil, NewValidationError("name", fmt.Sprintf("name must be at most %d characters", models.MaxNameLength))
	}

	now := time.Now()
	game := &models.Game{
		GameID:      uuid.New(),
		Name:        name,
		OwnerKey:    ownerKey,
		Description: description,
		IsPrivate:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.games.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.log.Info("created game", "game_id", game.GameID, "owner_key", ownerKey)

	return game, nil
}

// ListGames returns the caller's games, most recently updated first
func (s *GameService) ListGames(ctx context.Context, ownerKey string) ([]*models.Game, error) {
	games, err := s.games.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if games == nil {
		games = []*models.Game{}
	}
	return games, nil
}

// GetGame retrieves one of the caller's games. Malformed ids, missing games
// and games owned by someone else all come back as ErrNotFound.
func (s *GameService) GetGame(ctx context.Context, gameID, ownerKey string) (*models.Game, error) {
	id, err := parseID(gameID)
	if err != nil {
		return nil, ErrNotFound
	}

	game, err := s.games.GetByIDAndOwner(ctx, id, ownerKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return game, nil
}

// DeleteGame removes a game and its whole checkpoint history
func (s *GameService) DeleteGame(ctx context.Context, gameID, ownerKey string) error {
	id, err := parseID(gameID)
	if err != nil {
		return ErrNotFound
	}

	deleted, err := s.games.DeleteCascade(ctx, id, ownerKey)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info("deleted game", "game_id", id, "owner_key", ownerKey)

	return nil
}

// parseID parses an opaque id string. Malformed ids are treated as absent
// resources everywhere, never as a distinct error.
func parseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
