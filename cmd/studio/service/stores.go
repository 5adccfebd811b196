package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/common/clients"
)

// GameStore is the persistence surface the services need for games.
// Implemented by repository.GameRepository.
type GameStore interface {
	Create(ctx context.Context, game *models.Game) error
	GetByIDAndOwner(ctx context.Context, gameID uuid.UUID, ownerKey string) (*models.Game, error)
	ListByOwner(ctx context.Context, ownerKey string) ([]*models.Game, error)
	ListPublished(ctx context.Context, target models.Target, limit, offset int) ([]*models.Game, error)
	GetPublished(ctx context.Context, gameID uuid.UUID, target models.Target) (*models.Game, error)
	UpdatePublication(ctx context.Context, game *models.Game) error
	DeleteCascade(ctx context.Context, gameID uuid.UUID, ownerKey string) (bool, error)
}

// CheckpointStore is the persistence surface for checkpoints.
// Implemented by repository.CheckpointRepository.
type CheckpointStore interface {
	MaxVersion(ctx context.Context, gameID uuid.UUID) (int, error)
	InsertWithPointer(ctx context.Context, cp *models.Checkpoint) error
	GetByIDAndOwner(ctx context.Context, checkpointID uuid.UUID, ownerKey string) (*models.Checkpoint, error)
	GetByID(ctx context.Context, checkpointID uuid.UUID) (*models.Checkpoint, error)
	GetByVersion(ctx context.Context, gameID uuid.UUID, ownerKey string, version int) (*models.Checkpoint, error)
	GetLatest(ctx context.Context, gameID uuid.UUID) (*models.Checkpoint, error)
	ListByGame(ctx context.Context, gameID uuid.UUID, ownerKey string) ([]*models.Checkpoint, error)
	DeleteWithPointerReassign(ctx context.Context, cp *models.Checkpoint, wasCurrent bool, now time.Time) (bool, error)
}

// Generator is the external AI artifact generation collaborator.
// Implemented by clients.GeneratorClient.
type Generator interface {
	Generate(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error)
}
