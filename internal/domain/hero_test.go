package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"hero_store/internal/model"
)

func strPtr(s string) *string { return &s }

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{ID: "nope"})
	require.Contains(t, err.Error(), "not found")
	require.Contains(t, err.Error(), "nope")
	require.ErrorIs(t, err, ErrHeroNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "nope", nf.ID)
}

func TestNormalizeSearchTerm(t *testing.T) {
	require.Equal(t, "man", NormalizeSearchTerm("  MAN  "))
	require.Equal(t, "", NormalizeSearchTerm(" \t\n"))
	require.Equal(t, "spider man", NormalizeSearchTerm(" Spider Man"))
}

func TestNameMatches(t *testing.T) {
	t.Run("empty term matches all", func(t *testing.T) {
		require.True(t, NameMatches("Batman", ""))
	})
	t.Run("case-insensitive substring", func(t *testing.T) {
		require.True(t, NameMatches("Superman", "man"))
		require.True(t, NameMatches("Superman", "perm"))
		require.False(t, NameMatches("Superman", "ironman"))
	})
}

func TestApplyPatch(t *testing.T) {
	hero := SeedHeroes()[0]

	t.Run("name only", func(t *testing.T) {
		got := ApplyPatch(hero, model.HeroPatch{Name: strPtr("Clark Kent")})
		require.Equal(t, "Clark Kent", got.Name)
		require.Equal(t, hero.Description, got.Description)
		require.Equal(t, hero.ID, got.ID)
		require.Equal(t, hero.CreatedAt, got.CreatedAt)
	})

	t.Run("empty patch", func(t *testing.T) {
		require.Equal(t, hero, ApplyPatch(hero, model.HeroPatch{}))
	})

	t.Run("explicit empty description clears it", func(t *testing.T) {
		got := ApplyPatch(hero, model.HeroPatch{Description: strPtr("")})
		require.Empty(t, got.Description)
		require.Equal(t, hero.Name, got.Name)
	})
}

func TestValidation(t *testing.T) {
	require.NoError(t, ValidateCreate(model.CreateHero{Name: "Flash"}))
	require.ErrorIs(t, ValidateCreate(model.CreateHero{Name: "  "}), ErrNameRequired)
	require.NoError(t, ValidatePatch(model.HeroPatch{}))
	require.NoError(t, ValidatePatch(model.HeroPatch{Description: strPtr("")}))
	require.ErrorIs(t, ValidatePatch(model.HeroPatch{Name: strPtr("")}), ErrNameRequired)
}

func TestSeedHeroes(t *testing.T) {
	seed := SeedHeroes()
	require.Len(t, seed, 3)
	require.Equal(t, []string{"1", "2", "3"}, []string{seed[0].ID, seed[1].ID, seed[2].ID})
	require.Equal(t, "Superman", seed[0].Name)
	require.Equal(t, "Man of Steel", seed[0].Description)

	seed[0].Name = "changed"
	require.Equal(t, "Superman", SeedHeroes()[0].Name)
}

func TestIsValidEventType(t *testing.T) {
	for _, v := range []string{EventHeroCreated, EventHeroUpdated, EventHeroDeleted, EventHeroesReset} {
		require.True(t, IsValidEventType(v), "expected valid type: %s", v)
	}
	for _, v := range []string{"", "create", "deleted1"} {
		require.False(t, IsValidEventType(v), "expected invalid type: %s", v)
	}
}
