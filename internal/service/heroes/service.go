package heroes

import (
	"context"
	"time"

	"hero_store/internal/async"
	"hero_store/internal/config"
	"hero_store/internal/model"
	"hero_store/internal/repository"
)

// Service is the single owner of hero state for its callers. Every operation
// applies its effect synchronously at call time and hands back a future that
// is delivered after the configured latency, so calls observe each other's
// effects in call order regardless of when their results arrive.
type Service struct {
	store    repository.HeroRepository
	latency  time.Duration
	observer Observer
}

func NewService(store repository.HeroRepository, cfg *config.Config, observer Observer) *Service {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Service{store: store, latency: cfg.HeroLatency, observer: observer}
}

func (s *Service) GetAll(ctx context.Context) *async.Future[[]model.Hero] {
	start := time.Now()
	heroes, err := s.store.ListHeroes(ctx)
	s.observer.OnOperation(OpGetAll, time.Since(start), err)
	return async.Resolve(s.latency, heroes, err)
}

// GetByID resolves to nil when no hero has the id. Absence is not an error.
func (s *Service) GetByID(ctx context.Context, id string) *async.Future[*model.Hero] {
	start := time.Now()
	hero, ok, err := s.store.GetHero(ctx, id)
	s.observer.OnOperation(OpGetByID, time.Since(start), err)

	var found *model.Hero
	if ok {
		found = &hero
	}
	return async.Resolve(s.latency, found, err)
}

func (s *Service) SearchByName(ctx context.Context, term string) *async.Future[[]model.Hero] {
	start := time.Now()
	heroes, err := s.store.SearchHeroes(ctx, term)
	s.observer.OnOperation(OpSearchByName, time.Since(start), err)
	return async.Resolve(s.latency, heroes, err)
}

func (s *Service) Create(ctx context.Context, req model.CreateHero) *async.Future[model.Hero] {
	start := time.Now()
	created, err := s.store.CreateHero(ctx, req)
	s.afterMutation(OpCreate, start, err)
	return async.Resolve(s.latency, created, err)
}

func (s *Service) Update(ctx context.Context, id string, patch model.HeroPatch) *async.Future[model.Hero] {
	start := time.Now()
	updated, err := s.store.UpdateHero(ctx, id, patch)
	s.afterMutation(OpUpdate, start, err)
	return async.Resolve(s.latency, updated, err)
}

func (s *Service) Delete(ctx context.Context, id string) *async.Future[struct{}] {
	start := time.Now()
	err := s.store.DeleteHero(ctx, id)
	s.afterMutation(OpDelete, start, err)
	return async.Resolve(s.latency, struct{}{}, err)
}

// Snapshot returns the current collection without waiting.
func (s *Service) Snapshot() []model.Hero {
	return s.store.Snapshot()
}

// ResetToInitialState reloads the seed heroes. Intended for test isolation.
func (s *Service) ResetToInitialState() {
	start := time.Now()
	s.store.Reset()
	s.observer.OnReset(time.Since(start))
	s.observer.OnCollectionSize(len(s.store.Snapshot()))
}

func (s *Service) afterMutation(operation string, start time.Time, err error) {
	s.observer.OnOperation(operation, time.Since(start), err)
	if err == nil {
		s.observer.OnCollectionSize(len(s.store.Snapshot()))
	}
}
