package store

import (
	"go.uber.org/zap"
	"hero_store/internal/repository"
	"hero_store/internal/store/memory"
)

// NewStore builds the hero repository. Only the volatile memory store exists;
// it is seeded on construction.
func NewStore(logger *zap.Logger) repository.HeroRepository {
	store := memory.New(logger)
	logger.Info("hero store ready", zap.Int("heroes", len(store.Snapshot())))
	return store
}
