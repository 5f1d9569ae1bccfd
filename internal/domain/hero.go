package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hero_store/internal/model"
)

const (
	EventHeroCreated = "created"
	EventHeroUpdated = "updated"
	EventHeroDeleted = "deleted"
	EventHeroesReset = "reset"
)

var (
	ErrHeroNotFound = errors.New("hero not found")
	ErrNameRequired = errors.New("hero name is required")
)

// NotFoundError identifies the id an update or delete could not locate.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hero %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrHeroNotFound
}

func IsValidEventType(value string) bool {
	switch value {
	case EventHeroCreated, EventHeroUpdated, EventHeroDeleted, EventHeroesReset:
		return true
	default:
		return false
	}
}

// NormalizeSearchTerm trims surrounding whitespace and lower-cases the term.
func NormalizeSearchTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// NameMatches reports whether name contains an already normalized term.
// An empty term matches every name.
func NameMatches(name, normalizedTerm string) bool {
	if normalizedTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), normalizedTerm)
}

func ApplyPatch(hero model.Hero, patch model.HeroPatch) model.Hero {
	if patch.Name != nil {
		hero.Name = *patch.Name
	}
	if patch.Description != nil {
		hero.Description = *patch.Description
	}
	return hero
}

// ValidateCreate rejects a blank name. The store itself accepts any request.
func ValidateCreate(req model.CreateHero) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidatePatch rejects a patch that would blank out the name.
func ValidatePatch(patch model.HeroPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

var seedCreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// SeedHeroes returns a fresh copy of the initial collection.
func SeedHeroes() []model.Hero {
	return []model.Hero{
		{
			ID:          "1",
			Name:        "Superman",
			Description: "Man of Steel",
			CreatedAt:   seedCreatedAt,
		},
		{
			ID:          "2",
			Name:        "Spiderman",
			Description: "Friendly neighborhood hero",
			CreatedAt:   seedCreatedAt.Add(time.Minute),
		},
		{
			ID:          "3",
			Name:        "Batman",
			Description: "Dark Knight",
			CreatedAt:   seedCreatedAt.Add(2 * time.Minute),
		},
	}
}
