package service

import (
	"context"
	"testing"
	"time"

	"github.com/playforge/studio/cmd/studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPublication(t *testing.T) (*GameService, *CheckpointService, *PublicationService) {
	t.Helper()
	games, cps := newFakeStores()
	log := testLogger()
	gameSvc := NewGameService(games, cps, log)
	cpSvc := NewCheckpointService(games, cps, log)
	pubSvc := NewPublicationService(games, cps, nil, nil, 30*time.Second, log)
	return gameSvc, cpSvc, pubSvc
}

func TestPublish_StatesAndIdempotency(t *testing.T) {
	gameSvc, _, pubSvc := setupPublication(t)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)
	id := game.GameID.String()

	published, err := pubSvc.Publish(ctx, id, "owner-a", "marketplace")
	require.NoError(t, err)
	assert.Equal(t, models.StateMarketplace, published.PublicationState())
	assert.False(t, published.IsPrivate)
	require.NotNil(t, published.PublishedAt)
	firstPublishedAt := *published.PublishedAt

	// Re-publishing the same target changes nothing
	again, err := pubSvc.Publish(ctx, id, "owner-a", "marketplace")
	require.NoError(t, err)
	assert.Equal(t, firstPublishedAt, *again.PublishedAt)

	// Second target leads to "both"; the original timestamp survives
	both, err := pubSvc.Publish(ctx, id, "owner-a", "community")
	require.NoError(t, err)
	assert.Equal(t, models.StateBoth, both.PublicationState())
	assert.Equal(t, firstPublishedAt, *both.PublishedAt)
}

func TestUnpublish_RetainsPublishedAt(t *testing.T) {
	gameSvc, _, pubSvc := setupPublication(t)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)
	id := game.GameID.String()

	published, err := pubSvc.Publish(ctx, id, "owner-a", "community")
	require.NoError(t, err)
	stamp := *published.PublishedAt

	unpublished, err := pubSvc.Unpublish(ctx, id, "owner-a", "community")
	require.NoError(t, err)
	assert.Equal(t, models.StatePrivate, unpublished.PublicationState())
	assert.True(t, unpublished.IsPrivate)
	require.NotNil(t, unpublished.PublishedAt, "first-publication stamp survives unpublish")
	assert.Equal(t, stamp, *unpublished.PublishedAt)

	// Unpublishing an unpublished target is a no-op
	_, err = pubSvc.Unpublish(ctx, id, "owner-a", "community")
	assert.NoError(t, err)
}

func TestPublish_Guards(t *testing.T) {
	gameSvc, _, pubSvc := setupPublication(t)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)

	_, err = pubSvc.Publish(ctx, game.GameID.String(), "owner-b", "community")
	assert.ErrorIs(t, err, ErrNotFound)

	var validationErr *ValidationError
	_, err = pubSvc.Publish(ctx, game.GameID.String(), "owner-a", "billboard")
	assert.ErrorAs(t, err, &validationErr)

	_, err = pubSvc.Publish(ctx, "not-a-uuid", "owner-a", "community")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublish_PolicyDenies(t *testing.T) {
	games, cps := newFakeStores()
	log := testLogger()
	gameSvc := NewGameService(games, cps, log)

	policy, err := NewPublishPolicy(`!name.contains("spam")`)
	require.NoError(t, err)
	pubSvc := NewPublicationService(games, cps, policy, nil, 30*time.Second, log)

	ctx := context.Background()

	ok, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)
	_, err = pubSvc.Publish(ctx, ok.GameID.String(), "owner-a", "community")
	assert.NoError(t, err)

	bad, err := gameSvc.CreateGame(ctx, "buy spam now", "owner-a", nil)
	require.NoError(t, err)
	var validationErr *ValidationError
	_, err = pubSvc.Publish(ctx, bad.GameID.String(), "owner-a", "community")
	assert.ErrorAs(t, err, &validationErr)
}

func TestListPublished_FiltersByTarget(t *testing.T) {
	gameSvc, _, pubSvc := setupPublication(t)
	ctx := context.Background()

	market, err := gameSvc.CreateGame(ctx, "Market Game", "owner-a", nil)
	require.NoError(t, err)
	community, err := gameSvc.CreateGame(ctx, "Community Game", "owner-b", nil)
	require.NoError(t, err)
	_, err = gameSvc.CreateGame(ctx, "Private Game", "owner-c", nil)
	require.NoError(t, err)

	_, err = pubSvc.Publish(ctx, market.GameID.String(), "owner-a", "marketplace")
	require.NoError(t, err)
	_, err = pubSvc.Publish(ctx, community.GameID.String(), "owner-b", "community")
	require.NoError(t, err)

	marketplace, err := pubSvc.ListPublished(ctx, "marketplace", 0, 0)
	require.NoError(t, err)
	require.Len(t, marketplace, 1)
	assert.Equal(t, "Market Game", marketplace[0].Name)

	communityList, err := pubSvc.ListPublished(ctx, "community", 0, 0)
	require.NoError(t, err)
	require.Len(t, communityList, 1)
	assert.Equal(t, "Community Game", communityList[0].Name)
}

func TestGetPublished_IncludesLatestArtifacts(t *testing.T) {
	gameSvc, cpSvc, pubSvc := setupPublication(t)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Pong", "owner-a", nil)
	require.NoError(t, err)
	id := game.GameID.String()

	_, err = cpSvc.Append(ctx, id, "owner-a", "v1", models.ArtifactTriple{Logic: "one()"}, "")
	require.NoError(t, err)
	_, err = cpSvc.Append(ctx, id, "owner-a", "v2", models.ArtifactTriple{Logic: "two()"}, "")
	require.NoError(t, err)

	_, err = pubSvc.Publish(ctx, id, "owner-a", "community")
	require.NoError(t, err)

	detail, err := pubSvc.GetPublished(ctx, "community", id)
	require.NoError(t, err)
	assert.Equal(t, "two()", detail.Artifacts.Logic)
	assert.Equal(t, 2, detail.Version)

	// Not visible on the other target
	_, err = pubSvc.GetPublished(ctx, "marketplace", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublished_NoCheckpointsReadsAbsent(t *testing.T) {
	gameSvc, _, pubSvc := setupPublication(t)
	ctx := context.Background()

	game, err := gameSvc.CreateGame(ctx, "Empty", "owner-a", nil)
	require.NoError(t, err)

	_, err = pubSvc.Publish(ctx, game.GameID.String(), "owner-a", "community")
	require.NoError(t, err)

	_, err = pubSvc.GetPublished(ctx, "community", game.GameID.String())
	assert.ErrorIs(t, err, ErrNotFound, "published but empty games have nothing to show")
}
