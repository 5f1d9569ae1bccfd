package memory

import (
	"context"

	"hero_store/internal/domain"
	"hero_store/internal/model"
)

func (s *Store) ListHeroes(_ context.Context) ([]model.Hero, error) {
	return s.Snapshot(), nil
}

func (s *Store) GetHero(_ context.Context, id string) (model.Hero, bool, error) {
	current := s.load()
	if i := indexOf(current, id); i >= 0 {
		return current[i], true, nil
	}
	return model.Hero{}, false, nil
}

func (s *Store) SearchHeroes(_ context.Context, term string) ([]model.Hero, error) {
	normalized := domain.NormalizeSearchTerm(term)
	current := s.load()

	result := make([]model.Hero, 0, len(current))
	for _, hero := range current {
		if domain.NameMatches(hero.Name, normalized) {
			result = append(result, hero)
		}
	}
	return result, nil
}

func (s *Store) CreateHero(_ context.Context, req model.CreateHero) (model.Hero, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hero := model.Hero{
		ID:          s.nextID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   s.now(),
	}

	current := s.load()
	next := make([]model.Hero, len(current), len(current)+1)
	copy(next, current)
	next = append(next, hero)
	s.heroes.Store(&next)
	return hero, nil
}

func (s *Store) UpdateHero(_ context.Context, id string, patch model.HeroPatch) (model.Hero, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	i := indexOf(current, id)
	if i < 0 {
		return model.Hero{}, &domain.NotFoundError{ID: id}
	}

	updated := domain.ApplyPatch(current[i], patch)
	next := make([]model.Hero, len(current))
	copy(next, current)
	next[i] = updated
	s.heroes.Store(&next)
	return updated, nil
}

func (s *Store) DeleteHero(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	i := indexOf(current, id)
	if i < 0 {
		return &domain.NotFoundError{ID: id}
	}

	next := make([]model.Hero, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	s.heroes.Store(&next)
	return nil
}
