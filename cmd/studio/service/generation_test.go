package service

import (
	"context"
	"errors"
	"testing"

	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/common/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGeneration(t *testing.T, gen *fakeGenerator) (*GameService, *CheckpointService, *GenerationService) {
	t.Helper()
	games, cps := newFakeStores()
	log := testLogger()
	gameSvc := NewGameService(games, cps, log)
	cpSvc := NewCheckpointService(games, cps, log)
	genSvc := NewGenerationService(gen, games, cps, cpSvc, log)
	return gameSvc, cpSvc, genSvc
}

func okGenerator(result clients.GenerateResult) *fakeGenerator {
	return &fakeGenerator{
		generate: func(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error) {
			r := result
			return &r, nil
		},
	}
}

func TestGenerate_WithoutGame(t *testing.T) {
	gen := okGenerator(clients.GenerateResult{
		Artifacts:   clients.Artifacts{Markup: "<div/>", Styles: "div{}", Logic: "tick()"},
		Description: "a pong game",
	})
	_, _, genSvc := setupGeneration(t, gen)

	outcome, err := genSvc.Generate(context.Background(), GenerateParams{
		Prompt:   "make pong",
		OwnerKey: "owner-a",
	})
	require.NoError(t, err)

	assert.Equal(t, "tick()", outcome.Artifacts.Logic)
	assert.Equal(t, "a pong game", outcome.Description)
	assert.Nil(t, outcome.Checkpoint)
	assert.Nil(t, gen.lastRequest.Previous, "no game, nothing to iterate on")
}

func TestGenerate_Validation(t *testing.T) {
	_, _, genSvc := setupGeneration(t, okGenerator(clients.GenerateResult{}))
	ctx := context.Background()

	var validationErr *ValidationError
	_, err := genSvc.Generate(ctx, GenerateParams{Prompt: "  ", OwnerKey: "owner-a"})
	assert.ErrorAs(t, err, &validationErr)

	_, err = genSvc.Generate(ctx, GenerateParams{Prompt: "p", OwnerKey: "owner-a", Save: true})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "game_id", validationErr.Field)
}

func TestGenerate_FailureIsUnavailable(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	_, _, genSvc := setupGeneration(t, gen)

	_, err := genSvc.Generate(context.Background(), GenerateParams{Prompt: "p", OwnerKey: "owner-a"})
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestGenerate_SaveAppendsCheckpoint(t *testing.T) {
	gen := okGenerator(clients.GenerateResult{
		Artifacts:   clients.Artifacts{Logic: "generated()"},
		Description: "generated game",
	})
	gameSvc, cpSvc, genSvc := setupGeneration(t, gen)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)

	outcome, err := genSvc.Generate(ctx, GenerateParams{
		Prompt:   "make pong",
		OwnerKey: "owner-a",
		GameID:   game.GameID.String(),
		Save:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Checkpoint)
	assert.Nil(t, outcome.SaveErr)
	assert.Equal(t, 1, outcome.Checkpoint.Version)
	assert.Equal(t, "generated()", outcome.Checkpoint.Artifacts.Logic)
	assert.Equal(t, "make pong", outcome.Checkpoint.Prompt)

	list, err := cpSvc.List(ctx, game.GameID.String(), "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGenerate_FeedsPreviousArtifacts(t *testing.T) {
	gen := okGenerator(clients.GenerateResult{Artifacts: clients.Artifacts{Logic: "v2()"}})
	gameSvc, cpSvc, genSvc := setupGeneration(t, gen)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)
	_, err = cpSvc.Append(ctx, game.GameID.String(), "owner-a", "v1", models.ArtifactTriple{Logic: "v1()"}, "")
	require.NoError(t, err)

	_, err = genSvc.Generate(ctx, GenerateParams{
		Prompt:   "add scoring",
		OwnerKey: "owner-a",
		GameID:   game.GameID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, gen.lastRequest.Previous)
	assert.Equal(t, "v1()", gen.lastRequest.Previous.Logic)
}

func TestGenerate_OwnershipGuardOnGame(t *testing.T) {
	gameSvc, _, genSvc := setupGeneration(t, okGenerator(clients.GenerateResult{}))
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)

	_, err = genSvc.Generate(ctx, GenerateParams{
		Prompt:   "p",
		OwnerKey: "owner-b",
		GameID:   game.GameID.String(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerate_SaveFailureStillReturnsArtifacts(t *testing.T) {
	gen := okGenerator(clients.GenerateResult{Artifacts: clients.Artifacts{Logic: "kept()"}})
	games, cps := newFakeStores()
	log := testLogger()
	gameSvc := NewGameService(games, cps, log)
	cpSvc := NewCheckpointService(games, cps, log)
	genSvc := NewGenerationService(gen, games, cps, cpSvc, log)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)

	// Every append attempt loses the version race; the save fails but the
	// generated artifacts still come back.
	cps.injectConflicts = maxAppendAttempts

	outcome, err := genSvc.Generate(ctx, GenerateParams{
		Prompt:   "p",
		OwnerKey: "owner-a",
		GameID:   game.GameID.String(),
		Save:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "kept()", outcome.Artifacts.Logic)
	assert.Nil(t, outcome.Checkpoint)
	assert.Error(t, outcome.SaveErr)
}
