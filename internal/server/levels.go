package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// LevelStore is the part of the database the level service needs.
type LevelStore interface {
	SaveLevel(level *worldgen.Level) (string, error)
	GetLevel(id string) (*database.StoredLevel, error)
	GetLevelBySeed(seed int64, mode string) (*database.StoredLevel, error)
}

// LevelService hands out stored levels, generating and saving on a miss.
// Generation is deterministic, so a seed and mode always map to one level.
type LevelService struct {
	cfg   *config.GameConfig
	store LevelStore
	log   *slog.Logger

	// One generation per key at a time; concurrent requests for the same
	// seed wait and then hit the store. Entries live while someone holds or
	// waits on them.
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func NewLevelService(cfg *config.GameConfig, store LevelStore) *LevelService {
	return &LevelService{
		cfg:   cfg,
		store: store,
		log:   logger.With("levels"),
		locks: make(map[string]*keyLock),
	}
}

// ForSeed returns the level for seed. An empty mode lets the generator roll
// it the way the game does; the rolled level is the same one that asking for
// that mode by name returns.
func (s *LevelService) ForSeed(seed int64, mode string) (*database.StoredLevel, *worldgen.Level, error) {
	lc := s.cfg.NewLevelConfig(seed)
	if mode != "" {
		m, err := worldgen.ParseMode(mode)
		if err != nil {
			return nil, nil, err
		}
		lc.Mode = m
		lc.RollMode = false
	}
	mode = lc.ResolvedMode().String()

	unlock := s.lock(fmt.Sprintf("%d/%s", seed, mode))
	defer unlock()

	stored, err := s.store.GetLevelBySeed(seed, mode)
	if err == nil {
		level, err := stored.Level()
		return stored, level, err
	}
	if !errors.Is(err, database.ErrLevelNotFound) {
		return nil, nil, err
	}

	level, err := worldgen.NewGenerator(lc).Generate()
	if err != nil {
		return nil, nil, fmt.Errorf("generating seed %d: %w", seed, err)
	}
	id, err := s.store.SaveLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("saving seed %d: %w", seed, err)
	}
	stored, err = s.store.GetLevel(id)
	if err != nil {
		return nil, nil, err
	}

	st := level.Stats()
	s.log.Info("Level served", "id", id, "seed", seed, "mode", level.Mode, "holes", st.Holes, "structures", st.Structures)
	return stored, level, nil
}

// ByID loads a stored level.
func (s *LevelService) ByID(id string) (*database.StoredLevel, *worldgen.Level, error) {
	stored, err := s.store.GetLevel(id)
	if err != nil {
		return nil, nil, err
	}
	level, err := stored.Level()
	if err != nil {
		return nil, nil, fmt.Errorf("decoding level %s: %w", id, err)
	}
	return stored, level, nil
}

func (s *LevelService) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// pendingLocks reports how many keys are held or waited on.
func (s *LevelService) pendingLocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
