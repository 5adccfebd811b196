package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/logger"
)

// maxAppendAttempts bounds the retry loop for concurrent version assignment
const maxAppendAttempts = 3

// CheckpointService handles the append-only checkpoint history
type CheckpointService struct {
	games       GameStore
	checkpoints CheckpointStore
	log         *logger.Logger
}

// NewCheckpointService creates a new checkpoint service
func NewCheckpointService(games GameStore, checkpoints CheckpointStore, log *logger.Logger) *CheckpointService {
	return &CheckpointService{
		games:       games,
		checkpoints: checkpoints,
		log:         log,
	}
}

// Append records a new immutable checkpoint for a game the caller owns and
// moves the game's current pointer to it.
//
// Version assignment is a read-max-then-insert sequence; the (game_id,
// version) unique constraint turns a concurrent duplicate into a conflict,
// and the loser re-reads and retries. Insert and pointer move share one
// transaction, so a crash can leave the pointer stale but never dangling.
func (s *CheckpointService) Append(ctx context.Context, gameID, ownerKey, prompt string, artifacts models.ArtifactTriple, description string) (*models.Checkpoint, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewValidationError("prompt", "prompt is required")
	}

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

	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		max, err := s.checkpoints.MaxVersion(ctx, game.GameID)
		if err != nil {
			return nil, err
		}

		cp := &models.Checkpoint{
			CheckpointID: uuid.New(),
			GameID:       game.GameID,
			OwnerKey:     game.OwnerKey,
			Prompt:       prompt,
			Artifacts:    artifacts,
			Description:  description,
			Version:      max + 1,
			CreatedAt:    time.Now(),
		}

		err = s.checkpoints.InsertWithPointer(ctx, cp)
		if errors.Is(err, repository.ErrVersionConflict) {
			s.log.Debug("checkpoint version conflict, retrying",
				"game_id", game.GameID,
				"version", cp.Version,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.Info("appended checkpoint",
			"game_id", game.GameID,
			"checkpoint_id", cp.CheckpointID,
			"version", cp.Version,
		)

		return cp, nil
	}

	return nil, fmt.Errorf("failed to append checkpoint: version contention after %d attempts", maxAppendAttempts)
}

// List returns a game's checkpoints, most recent version first. An unknown,
// unowned or malformed game id yields an empty list, not an error.
func (s *CheckpointService) List(ctx context.Context, gameID, ownerKey string) ([]*models.Checkpoint, error) {
	id, err := parseID(gameID)
	if err != nil {
		return []*models.Checkpoint{}, nil
	}

	checkpoints, err := s.checkpoints.ListByGame(ctx, id, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	if checkpoints == nil {
		checkpoints = []*models.Checkpoint{}
	}
	return checkpoints, nil
}

// Delete removes a single checkpoint. When it was the game's current
// checkpoint the pointer moves to the remaining maximum version, or is
// cleared when the history is now empty.
func (s *CheckpointService) Delete(ctx context.Context, checkpointID, ownerKey string) error {
	id, err := parseID(checkpointID)
	if err != nil {
		return ErrNotFound
	}

	cp, err := s.checkpoints.GetByIDAndOwner(ctx, id, ownerKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	game, err := s.games.GetByIDAndOwner(ctx, cp.GameID, ownerKey)
	if errors.Is(err, repository.ErrNotFound) {
		// A checkpoint without its game should be impossible: the cascade
		// delete removes both in one transaction.
		return &IntegrityError{Op: "delete checkpoint", Err: fmt.Errorf("checkpoint %s has no owning game", cp.CheckpointID)}
	}
	if err != nil {
		return err
	}

	wasCurrent := game.CurrentCheckpointID != nil && *game.CurrentCheckpointID == cp.CheckpointID

	deleted, err := s.checkpoints.DeleteWithPointerReassign(ctx, cp, wasCurrent, time.Now())
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info("deleted checkpoint",
		"game_id", cp.GameID,
		"checkpoint_id", cp.CheckpointID,
		"version", cp.Version,
		"was_current", wasCurrent,
	)

	return nil
}

// Diff returns the RFC 7386 merge patch transforming one version's artifact
// triple into another's.
func (s *CheckpointService) Diff(ctx context.Context, gameID, ownerKey string, from, to int) ([]byte, error) {
	if from < 1 {
		return nil, NewValidationError("from", "from must be a positive version")
	}
	if to < 1 {
		return nil, NewValidationError("to", "to must be a positive version")
	}

	id, err := parseID(gameID)
	if err != nil {
		return nil, ErrNotFound
	}

	fromCp, err := s.checkpoints.GetByVersion(ctx, id, ownerKey, from)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	toCp, err := s.checkpoints.GetByVersion(ctx, id, ownerKey, to)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fromJSON, err := json.Marshal(fromCp.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifacts: %w", err)
	}
	toJSON, err := json.Marshal(toCp.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifacts: %w", err)
	}

	patch, err := jsonpatch.CreateMergePatch(fromJSON, toJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	return patch, nil
}

// latestDisclosed resolves a game's newest checkpoint: the current pointer
// when set, otherwise the highest version. A pointer to a missing checkpoint
// is an integrity fault, not something to silently repair.
func latestDisclosed(ctx context.Context, store CheckpointStore, game *models.Game) (*models.Checkpoint, error) {
	if game.CurrentCheckpointID != nil {
		cp, err := store.GetByID(ctx, *game.CurrentCheckpointID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &IntegrityError{
				Op:  "resolve current checkpoint",
				Err: fmt.Errorf("game %s points at missing checkpoint %s", game.GameID, *game.CurrentCheckpointID),
			}
		}
		if err != nil {
			return nil, err
		}
		return cp, nil
	}

	cp, err := store.GetLatest(ctx, game.GameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cp, nil
}
