package repository

import (
	"context"

	"hero_store/internal/model"
)

// HeroRepository is the synchronous owner of the hero collection.
type HeroRepository interface {
	ListHeroes(ctx context.Context) ([]model.Hero, error)
	GetHero(ctx context.Context, id string) (model.Hero, bool, error)
	SearchHeroes(ctx context.Context, term string) ([]model.Hero, error)
	CreateHero(ctx context.Context, req model.CreateHero) (model.Hero, error)
	UpdateHero(ctx context.Context, id string, patch model.HeroPatch) (model.Hero, error)
	DeleteHero(ctx context.Context, id string) error
	Snapshot() []model.Hero
	Reset()
}
