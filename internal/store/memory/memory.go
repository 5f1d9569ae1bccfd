package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"hero_store/internal/domain"
	"hero_store/internal/model"
)

// Store keeps heroes in insertion order behind an atomically swapped slice.
// Writers serialize on mu and publish a fresh slice; readers load the pointer
// and never see a partially applied mutation.
type Store struct {
	mu     sync.Mutex
	heroes atomic.Pointer[[]model.Hero]
	issued map[string]struct{}
	newID  func() string
	now    func() time.Time
	log    *zap.Logger
}

func New(logger *zap.Logger) *Store {
	s := &Store{
		issued: make(map[string]struct{}),
		newID:  newHeroID,
		now:    func() time.Time { return time.Now().UTC() },
		log:    logger,
	}
	s.Reset()
	return s
}

func newHeroID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Reset discards every mutation and reloads the seed heroes. Issued ids stay
// reserved so a reset never makes an id reusable.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := domain.SeedHeroes()
	for _, hero := range seed {
		s.issued[hero.ID] = struct{}{}
	}
	s.heroes.Store(&seed)
	s.log.Debug("hero store reset", zap.Int("count", len(seed)))
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []model.Hero {
	current := s.load()
	out := make([]model.Hero, len(current))
	copy(out, current)
	return out
}

func (s *Store) load() []model.Hero {
	return *s.heroes.Load()
}

// nextID must be called with mu held.
func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, taken := s.issued[id]; taken || id == "" {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

func indexOf(heroes []model.Hero, id string) int {
	for i := range heroes {
		if heroes[i].ID == id {
			return i
		}
	}
	return -1
}
