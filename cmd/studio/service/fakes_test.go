package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/repository"
	"github.com/playforge/studio/common/clients"
	"github.com/playforge/studio/common/logger"
)

// fakeState is shared in-memory storage standing in for Postgres. The game
// and checkpoint fakes share it so cross-table operations (cascade delete,
// pointer moves) behave like the real transactional repositories.
type fakeState struct {
	mu    sync.Mutex
	games map[uuid.UUID]*models.Game
	cps   map[uuid.UUID]*models.Checkpoint
}

type fakeGameStore struct {
	st *fakeState
}

type fakeCheckpointStore struct {
	st *fakeState

	// injectConflicts forces the next N inserts to fail with a version
	// conflict, simulating a concurrent append winning the race.
	injectConflicts int
}

func newFakeStores() (*fakeGameStore, *fakeCheckpointStore) {
	st := &fakeState{
		games: make(map[uuid.UUID]*models.Game),
		cps:   make(map[uuid.UUID]*models.Checkpoint),
	}
	return &fakeGameStore{st: st}, &fakeCheckpointStore{st: st}
}

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

func copyGame(g *models.Game) *models.Game {
	cp := *g
	return &cp
}

func copyCheckpoint(c *models.Checkpoint) *models.Checkpoint {
	cp := *c
	return &cp
}

func (f *fakeGameStore) Create(ctx context.Context, game *models.Game) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	f.st.games[game.GameID] = copyGame(game)
	return nil
}

func (f *fakeGameStore) GetByIDAndOwner(ctx context.Context, gameID uuid.UUID, ownerKey string) (*models.Game, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	game, ok := f.st.games[gameID]
	if !ok || game.OwnerKey != ownerKey {
		return nil, repository.ErrNotFound
	}
	return copyGame(game), nil
}

func (f *fakeGameStore) ListByOwner(ctx context.Context, ownerKey string) ([]*models.Game, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var out []*models.Game
	for _, game := range f.st.games {
		if game.OwnerKey == ownerKey {
			out = append(out, copyGame(game))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeGameStore) ListPublished(ctx context.Context, target models.Target, limit, offset int) ([]*models.Game, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var all []*models.Game
	for _, game := range f.st.games {
		if game.IsPublishedTo(target) {
			all = append(all, copyGame(game))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		var ti, tj time.Time
		if all[i].PublishedAt != nil {
			ti = *all[i].PublishedAt
		}
		if all[j].PublishedAt != nil {
			tj = *all[j].PublishedAt
		}
		return ti.After(tj)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeGameStore) GetPublished(ctx context.Context, gameID uuid.UUID, target models.Target) (*models.Game, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	game, ok := f.st.games[gameID]
	if !ok || !game.IsPublishedTo(target) {
		return nil, repository.ErrNotFound
	}
	return copyGame(game), nil
}

func (f *fakeGameStore) UpdatePublication(ctx context.Context, game *models.Game) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	existing, ok := f.st.games[game.GameID]
	if !ok || existing.OwnerKey != game.OwnerKey {
		return repository.ErrNotFound
	}
	f.st.games[game.GameID] = copyGame(game)
	return nil
}

func (f *fakeGameStore) DeleteCascade(ctx context.Context, gameID uuid.UUID, ownerKey string) (bool, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	game, ok := f.st.games[gameID]
	if !ok || game.OwnerKey != ownerKey {
		return false, nil
	}
	for id, cp := range f.st.cps {
		if cp.GameID == gameID {
			delete(f.st.cps, id)
		}
	}
	delete(f.st.games, gameID)
	return true, nil
}

func (f *fakeCheckpointStore) MaxVersion(ctx context.Context, gameID uuid.UUID) (int, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.maxVersionLocked(gameID), nil
}

func (f *fakeCheckpointStore) maxVersionLocked(gameID uuid.UUID) int {
	max := 0
	for _, cp := range f.st.cps {
		if cp.GameID == gameID && cp.Version > max {
			max = cp.Version
		}
	}
	return max
}

func (f *fakeCheckpointStore) InsertWithPointer(ctx context.Context, cp *models.Checkpoint) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	if f.injectConflicts > 0 {
		f.injectConflicts--
		return repository.ErrVersionConflict
	}
	for _, existing := range f.st.cps {
		if existing.GameID == cp.GameID && existing.Version == cp.Version {
			return repository.ErrVersionConflict
		}
	}

	f.st.cps[cp.CheckpointID] = copyCheckpoint(cp)
	if game, ok := f.st.games[cp.GameID]; ok {
		id := cp.CheckpointID
		game.CurrentCheckpointID = &id
		game.UpdatedAt = cp.CreatedAt
	}
	return nil
}

func (f *fakeCheckpointStore) GetByIDAndOwner(ctx context.Context, checkpointID uuid.UUID, ownerKey string) (*models.Checkpoint, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	cp, ok := f.st.cps[checkpointID]
	if !ok || cp.OwnerKey != ownerKey {
		return nil, repository.ErrNotFound
	}
	return copyCheckpoint(cp), nil
}

func (f *fakeCheckpointStore) GetByID(ctx context.Context, checkpointID uuid.UUID) (*models.Checkpoint, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	cp, ok := f.st.cps[checkpointID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyCheckpoint(cp), nil
}

func (f *fakeCheckpointStore) GetByVersion(ctx context.Context, gameID uuid.UUID, ownerKey string, version int) (*models.Checkpoint, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, cp := range f.st.cps {
		if cp.GameID == gameID && cp.OwnerKey == ownerKey && cp.Version == version {
			return copyCheckpoint(cp), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCheckpointStore) GetLatest(ctx context.Context, gameID uuid.UUID) (*models.Checkpoint, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var latest *models.Checkpoint
	for _, cp := range f.st.cps {
		if cp.GameID == gameID && (latest == nil || cp.Version > latest.Version) {
			latest = cp
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return copyCheckpoint(latest), nil
}

func (f *fakeCheckpointStore) ListByGame(ctx context.Context, gameID uuid.UUID, ownerKey string) ([]*models.Checkpoint, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var out []*models.Checkpoint
	for _, cp := range f.st.cps {
		if cp.GameID == gameID && cp.OwnerKey == ownerKey {
			out = append(out, copyCheckpoint(cp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (f *fakeCheckpointStore) DeleteWithPointerReassign(ctx context.Context, cp *models.Checkpoint, wasCurrent bool, now time.Time) (bool, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	stored, ok := f.st.cps[cp.CheckpointID]
	if !ok || stored.OwnerKey != cp.OwnerKey {
		return false, nil
	}
	delete(f.st.cps, cp.CheckpointID)

	game, ok := f.st.games[cp.GameID]
	if !ok {
		return true, nil
	}
	game.UpdatedAt = now
	if !wasCurrent {
		return true, nil
	}

	var replacement *models.Checkpoint
	for _, other := range f.st.cps {
		if other.GameID == cp.GameID && (replacement == nil || other.Version > replacement.Version) {
			replacement = other
		}
	}
	if replacement == nil {
		game.CurrentCheckpointID = nil
	} else {
		id := replacement.CheckpointID
		game.CurrentCheckpointID = &id
	}
	return true, nil
}

// fakeGenerator returns canned results or errors
type fakeGenerator struct {
	generate func(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error)

	lastRequest *clients.GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req clients.GenerateRequest) (*clients.GenerateResult, error) {
	f.lastRequest = &req
	return f.generate(ctx, req)
}
