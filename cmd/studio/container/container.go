package container

import (
	"fmt"

	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/bootstrap"
	"github.com/playforge/studio/common/clients"
	"github.com/playforge/studio/common/ratelimit"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Repositories
	GameRepo       *repository.GameRepository
	CheckpointRepo *repository.CheckpointRepository

	// Services
	GameService        *service.GameService
	CheckpointService  *service.CheckpointService
	PublicationService *service.PublicationService
	ForkService        *service.ForkService
	GenerationService  *service.GenerationService

	// Infrastructure
	RateLimiter *ratelimit.RateLimiter
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	// Repositories
	gameRepo := repository.NewGameRepository(components.DB)
	checkpointRepo := repository.NewCheckpointRepository(components.DB)

	// Publish policy gate (nil when no expression is configured)
	policy, err := service.NewPublishPolicy(cfg.Policy.PublishExpression)
	if err != nil {
		return nil, fmt.Errorf("failed to build publish policy: %w", err)
	}

	// External generator client
	generator := clients.NewGeneratorClient(
		cfg.Generator.BaseURL,
		cfg.Generator.APIKey,
		cfg.Generator.Timeout,
		log,
	)

	// Services (bottom-up: dependencies first)
	gameService := service.NewGameService(gameRepo, checkpointRepo, log)
	checkpointService := service.NewCheckpointService(gameRepo, checkpointRepo, log)
	publicationService := service.NewPublicationService(
		gameRepo,
		checkpointRepo,
		policy,
		components.Cache,
		cfg.Cache.DefaultTTL,
		log,
	)
	forkService := service.NewForkService(gameRepo, checkpointRepo, log)
	generationService := service.NewGenerationService(
		generator,
		gameRepo,
		checkpointRepo,
		checkpointService,
		log,
	)

	// Rate limiter needs Redis; when Redis is disabled limits are off
	var limiter *ratelimit.RateLimiter
	if components.Redis != nil {
		limiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), log)
	}

	return &Container{
		Components:         components,
		GameRepo:           gameRepo,
		CheckpointRepo:     checkpointRepo,
		GameService:        gameService,
		CheckpointService:  checkpointService,
		PublicationService: publicationService,
		ForkService:        forkService,
		GenerationService:  generationService,
		RateLimiter:        limiter,
	}, nil
}
