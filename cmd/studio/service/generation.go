package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/clients"
	"github.com/playforge/studio/common/logger"
)

// GenerateParams is one generation request. When GameID is set the previous
// artifacts of that game seed the generator and, when Save is set, the result
// is appended as a new checkpoint.
type GenerateParams struct {
	Prompt   string
	OwnerKey string
	GameID   string
	Save     bool
}

// GenerateOutcome carries the generated artifacts plus the checkpoint written
// when saving was requested. SaveErr is set when generation succeeded but the
// save did not; the artifacts are still returned so the work is not lost.
type GenerateOutcome struct {
	Artifacts   models.ArtifactTriple
	Description string
	Checkpoint  *models.Checkpoint
	SaveErr     error
}

// GenerationService orchestrates the external artifact generator
type GenerationService struct {
	generator   Generator
	games       GameStore
	checkpoints CheckpointStore
	appender    *CheckpointService
	log         *logger.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(generator Generator, games GameStore, checkpoints CheckpointStore, appender *CheckpointService, log *logger.Logger) *GenerationService {
	return &GenerationService{
		generator:   generator,
		games:       games,
		checkpoints: checkpoints,
		appender:    appender,
		log:         log,
	}
}

// Generate asks the external generator for an artifact triple. A game id
// scopes the request to one of the caller's games (ownership guard applies)
// and feeds that game's newest artifacts to the generator as the base for
// iteration. Generator failure surfaces as ErrGenerationUnavailable;
// the generator is never retried here.
func (s *GenerationService) Generate(ctx context.Context, params GenerateParams) (*GenerateOutcome, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return nil, NewValidationError("prompt", "prompt is required")
	}
	if params.Save && params.GameID == "" {
		return nil, NewValidationError("game_id", "game_id is required to save the result")
	}

	var previous *clients.Artifacts
	if params.GameID != "" {
		id, err := parseID(params.GameID)
		if err != nil {
			return nil, ErrNotFound
		}
		game, err := s.games.GetByIDAndOwner(ctx, id, params.OwnerKey)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		cp, err := latestDisclosed(ctx, s.checkpoints, game)
		switch {
		case errors.Is(err, ErrNotFound):
			// First generation for this game; nothing to iterate on
		case err != nil:
			return nil, err
		default:
			prev := tripleToWire(cp.Artifacts)
			previous = &prev
		}
	}

	result, err := s.generator.Generate(ctx, clients.GenerateRequest{
		Prompt:   params.Prompt,
		Previous: previous,
	})
	if err != nil {
		s.log.Error("artifact generation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	outcome := &GenerateOutcome{
		Artifacts:   wireToTriple(result.Artifacts),
		Description: result.Description,
	}

	if params.Save {
		cp, saveErr := s.appender.Append(ctx, params.GameID, params.OwnerKey, params.Prompt, outcome.Artifacts, result.Description)
		if saveErr != nil {
			// Generation already cost real work; report the save failure
			// alongside the artifacts rather than discarding them.
			s.log.Error("failed to save generated checkpoint", "game_id", params.GameID, "error", saveErr)
			outcome.SaveErr = saveErr
		} else {
			outcome.Checkpoint = cp
		}
	}

	return outcome, nil
}

func tripleToWire(t models.ArtifactTriple) clients.Artifacts {
	return clients.Artifacts{Markup: t.Markup, Styles: t.Styles, Logic: t.Logic}
}

func wireToTriple(a clients.Artifacts) models.ArtifactTriple {
	return models.ArtifactTriple{Markup: a.Markup, Styles: a.Styles, Logic: a.Logic}
}

// isNotFound matches both the repository and service not-found sentinels
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, repository.ErrNotFound)
}
