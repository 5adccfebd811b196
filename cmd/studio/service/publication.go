package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/cache"
	"github.com/playforge/studio/common/logger"
)

const (
	publishedCachePrefix = "published:"

	defaultListLimit = 20
	maxListLimit     = 100
)

// PublishedGame is the public projection of a published game. It never
// carries the owner key or unpublished internals.
type PublishedGame struct {
	GameID      string     `json:"game_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// PublishedGameDetail is the single-game public projection, carrying the
// artifacts of the game's newest checkpoint so it can be played.
type PublishedGameDetail struct {
	PublishedGame
	Artifacts models.ArtifactTriple `json:"artifacts"`
	Version   int                   `json:"version"`
}

// PublicationService handles publish/unpublish and the public listings
type PublicationService struct {
	games       GameStore
	checkpoints CheckpointStore
	policy      *PublishPolicy
	cache       cache.Cache
	cacheTTL    time.Duration
	log         *logger.Logger
}

// NewPublicationService creates a new publication service. The cache may be
// nil, in which case listings always hit the database.
func NewPublicationService(games GameStore, checkpoints CheckpointStore, policy *PublishPolicy, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *PublicationService {
	return &PublicationService{
		games:       games,
		checkpoints: checkpoints,
		policy:      policy,
		cache:       c,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// Publish makes one of the caller's games visible on a target. Idempotent:
// publishing to an already-published target changes nothing. The first
// publish to either target stamps PublishedAt; it is never stamped again.
func (s *PublicationService) Publish(ctx context.Context, gameID, ownerKey, targetStr string) (*models.Game, error) {
	target, ok := models.ParseTarget(targetStr)
	if !ok {
		return nil, NewValidationError("target", fmt.Sprintf("target must be %q or %q", models.TargetMarketplace, models.TargetCommunity))
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

	if game.IsPublishedTo(target) {
		return game, nil
	}

	allowed, err := s.policy.Allows(game, target)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, NewValidationError("target", "publication not permitted by policy")
	}

	now := time.Now()
	game.SetPublished(target, true)
	if game.PublishedAt == nil {
		game.PublishedAt = &now
	}
	game.UpdatedAt = now

	if err := s.games.UpdatePublication(ctx, game); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to publish game: %w", err)
	}

	s.invalidateListings(ctx)

	s.log.Info("published game", "game_id", game.GameID, "target", target)

	return game, nil
}

// Unpublish removes a game from a target. Idempotent, and PublishedAt is
// retained: it records the first publication, not the current state.
func (s *PublicationService) Unpublish(ctx context.Context, gameID, ownerKey, targetStr string) (*models.Game, error) {
	target, ok := models.ParseTarget(targetStr)
	if !ok {
		return nil, NewValidationError("target", fmt.Sprintf("target must be %q or %q", models.TargetMarketplace, models.TargetCommunity))
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

	if !game.IsPublishedTo(target) {
		return game, nil
	}

	game.SetPublished(target, false)
	game.UpdatedAt = time.Now()

	if err := s.games.UpdatePublication(ctx, game); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to unpublish game: %w", err)
	}

	s.invalidateListings(ctx)

	s.log.Info("unpublished game", "game_id", game.GameID, "target", target)

	return game, nil
}

// ListPublished returns the public listing for a target, newest publication
// first. Results are cached briefly; staleness after publish/unpublish is
// bounded by the prefix invalidation plus the TTL.
func (s *PublicationService) ListPublished(ctx context.Context, targetStr string, limit, offset int) ([]*PublishedGame, error) {
	target, ok := models.ParseTarget(targetStr)
	if !ok {
		return nil, NewValidationError("target", fmt.Sprintf("target must be %q or %q", models.TargetMarketplace, models.TargetCommunity))
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("%s%s:%d:%d", publishedCachePrefix, target, limit, offset)

	if s.cache != nil {
		if data, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
			var listing []*PublishedGame
			if err := json.Unmarshal(data, &listing); err == nil {
				return listing, nil
			}
			// Unreadable entry; fall through to the database
		}
	}

	games, err := s.games.ListPublished(ctx, target, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list published games: %w", err)
	}

	listing := make([]*PublishedGame, 0, len(games))
	for _, game := range games {
		listing = append(listing, &PublishedGame{
			GameID:      game.GameID.String(),
			Name:        game.Name,
			Description: game.Description,
			PublishedAt: game.PublishedAt,
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(listing); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
				s.log.Warn("failed to cache published listing", "key", cacheKey, "error", err)
			}
		}
	}

	return listing, nil
}

// GetPublished returns the public detail of a game published on a target,
// including the artifacts of its newest checkpoint. A published game with no
// checkpoints has nothing playable to show and reads as absent.
func (s *PublicationService) GetPublished(ctx context.Context, targetStr, gameID string) (*PublishedGameDetail, error) {
	target, ok := models.ParseTarget(targetStr)
	if !ok {
		return nil, NewValidationError("target", fmt.Sprintf("target must be %q or %q", models.TargetMarketplace, models.TargetCommunity))
	}

	id, err := parseID(gameID)
	if err != nil {
		return nil, ErrNotFound
	}

	game, err := s.games.GetPublished(ctx, id, target)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	cp, err := latestDisclosed(ctx, s.checkpoints, game)
	if err != nil {
		return nil, err
	}

	return &PublishedGameDetail{
		PublishedGame: PublishedGame{
			GameID:      game.GameID.String(),
			Name:        game.Name,
			Description: game.Description,
			PublishedAt: game.PublishedAt,
		},
		Artifacts: cp.Artifacts,
		Version:   cp.Version,
	}, nil
}

// invalidateListings drops every cached published listing. Best effort; a
// failed invalidation only extends staleness to the TTL.
func (s *PublicationService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, publishedCachePrefix); err != nil {
		s.log.Warn("failed to invalidate published listings", "error", err)
	}
}
