package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/logger"
)

const forkSuffix = " (fork)"

// ForkService copies community-published games into a caller's own library
type ForkService struct {
	games       GameStore
	checkpoints CheckpointStore
	log         *logger.Logger
}

// NewForkService creates a new fork service
func NewForkService(games GameStore, checkpoints CheckpointStore, log *logger.Logger) *ForkService {
	return &ForkService{
		games:       games,
		checkpoints: checkpoints,
		log:         log,
	}
}

// Fork creates a new private game owned by the caller, seeded with the
// source's newest checkpoint as version 1. Only community-published games are
// forkable; marketplace-only and private games read as absent. The caller may
// fork their own community games too.
func (s *ForkService) Fork(ctx context.Context, sourceGameID, ownerKey string) (*models.Game, *models.Checkpoint, error) {
	id, err := parseID(sourceGameID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	source, err := s.games.GetPublished(ctx, id, models.TargetCommunity)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	sourceCp, err := latestDisclosed(ctx, s.checkpoints, source)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	game := &models.Game{
		GameID:      uuid.New(),
		Name:        forkName(source.Name),
		OwnerKey:    ownerKey,
		Description: source.Description,
		IsPrivate:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.games.Create(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to create fork: %w", err)
	}

	cp := &models.Checkpoint{
		CheckpointID: uuid.New(),
		GameID:       game.GameID,
		OwnerKey:     ownerKey,
		Prompt:       sourceCp.Prompt,
		Artifacts:    sourceCp.Artifacts,
		Description:  sourceCp.Description,
		Version:      1,
		CreatedAt:    now,
	}

	if err := s.checkpoints.InsertWithPointer(ctx, cp); err != nil {
		// The fork is only real once it has its seed checkpoint; take the
		// empty game back out rather than leaving an orphan.
		if _, delErr := s.games.DeleteCascade(ctx, game.GameID, ownerKey); delErr != nil {
			s.log.Error("failed to clean up fork after seed failure", "game_id", game.GameID, "error", delErr)
		}
		return nil, nil, fmt.Errorf("failed to seed fork checkpoint: %w", err)
	}
	game.CurrentCheckpointID = &cp.CheckpointID

	s.log.Info("forked game",
		"source_game_id", source.GameID,
		"game_id", game.GameID,
		"owner_key", ownerKey,
	)

	return game, cp, nil
}

// forkName derives the fork's name, trimming the source name so the suffix
// still fits within the name length limit. Truncation is by rune, never
// mid-character.
func forkName(source string) string {
	name := source + forkSuffix
	if utf8.RuneCountInString(name) <= models.MaxNameLength {
		return name
	}
	keep := models.MaxNameLength - utf8.RuneCountInString(forkSuffix)
	return string([]rune(source)[:keep]) + forkSuffix
}
