package service

import (
	"context"
	"testing"
	"time"

	"github.com/playforge/studio/common/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPongLifecycle walks the full lifecycle: create a game, generate and
// save artifacts, iterate, publish to the community, and have another owner
// fork and keep working on the copy.
func TestPongLifecycle(t *testing.T) {
	games, cps := newFakeStores()
	log := testLogger()

	gameSvc := NewGameService(games, cps, log)
	cpSvc := NewCheckpointService(games, cps, log)
	pubSvc := NewPublicationService(games, cps, nil, nil, 30*time.Second, log)
	forkSvc := NewForkService(games, cps, log)

	calls := 0
	gen := &fakeGenerator{
		generate: func(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error) {
			calls++
			if calls == 1 {
				return &clients.GenerateResult{
					Artifacts:   clients.Artifacts{Markup: "<canvas/>", Styles: "canvas{}", Logic: "pong_v1()"},
					Description: "basic pong",
				}, nil
			}
			return &clients.GenerateResult{
				Artifacts:   clients.Artifacts{Markup: "<canvas/>", Styles: "canvas{}", Logic: "pong_v2()"},
				Description: "pong with scoring",
			}, nil
		},
	}
	genSvc := NewGenerationService(gen, games, cps, cpSvc, log)

	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "alice", nil)
	require.NoError(t, err)
	id := game.GameID.String()

	// First generation seeds version 1
	first, err := genSvc.Generate(ctx, GenerateParams{
		Prompt: "make a pong game", OwnerKey: "alice", GameID: id, Save: true,
	})
	require.NoError(t, err)
	require.NotNil(t, first.Checkpoint)
	assert.Equal(t, 1, first.Checkpoint.Version)

	// Iterating feeds the previous artifacts to the generator
	second, err := genSvc.Generate(ctx, GenerateParams{
		Prompt: "add a score counter", OwnerKey: "alice", GameID: id, Save: true,
	})
	require.NoError(t, err)
	require.NotNil(t, second.Checkpoint)
	assert.Equal(t, 2, second.Checkpoint.Version)
	require.NotNil(t, gen.lastRequest.Previous)
	assert.Equal(t, "pong_v1()", gen.lastRequest.Previous.Logic)

	// Publish to the community and read it back anonymously
	_, err = pubSvc.Publish(ctx, id, "alice", "community")
	require.NoError(t, err)

	detail, err := pubSvc.GetPublished(ctx, "community", id)
	require.NoError(t, err)
	assert.Equal(t, "pong_v2()", detail.Artifacts.Logic)

	// Bob forks and owns an independent copy
	fork, seed, err := forkSvc.Fork(ctx, id, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Pong (fork)", fork.Name)
	assert.Equal(t, 1, seed.Version)
	assert.Equal(t, "pong_v2()", seed.Artifacts.Logic)

	// Bob's edits never touch Alice's history
	_, err = cpSvc.Append(ctx, fork.GameID.String(), "bob", "make it neon",
		seed.Artifacts, "neon restyle")
	require.NoError(t, err)

	aliceHistory, err := cpSvc.List(ctx, id, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceHistory, 2)

	bobHistory, err := cpSvc.List(ctx, fork.GameID.String(), "bob")
	require.NoError(t, err)
	assert.Len(t, bobHistory, 2)
}
