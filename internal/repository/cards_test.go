package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fantasycard/battle-server-go/internal/config"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCardRowConversion(t *testing.T) {
	effect := card.NewEffect(card.EffectDamageToMonster, 2)
	effect.Status = card.StatusBurning
	effect.Duration = 2
	spec := card.Spec{
		ID: "X1", Name: "Scorcher", Type: "ELITE", Cost: 4, Attack: 3, Defense: 2,
		Effects: []card.Effect{effect, card.NewEffect(card.EffectTaunt, 0)},
		Tags:    []string{"fire"},
	}

	row := newCardRow(spec)
	assert.Equal(t, "DAMAGE_TO_MONSTER", row.Effects[0].Kind)
	assert.Equal(t, "BURNING", row.Effects[0].Status)
	assert.Empty(t, row.Effects[1].Status)

	back, err := row.spec()
	require.NoError(t, err)
	assert.Equal(t, spec, back)
}

func TestCardRowDefaults(t *testing.T) {
	row := newCardRow(card.Spec{ID: "A", Name: "a"})
	assert.Equal(t, "MONSTER", row.Type)
	assert.NotNil(t, row.Tags)
	assert.NotNil(t, row.Effects)
}

func TestCardRowRejectsUnknownEffect(t *testing.T) {
	row := cardRow{ID: "A", Name: "a", Effects: []effectRow{{Kind: "SUMMON_DRAGON"}}}
	_, err := row.spec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card A")
}

// TestCardRepositoryRoundTrip needs a disposable PostgreSQL database in DATABASE_URL.
func TestCardRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.DatabaseConfig{URL: url, MaxConns: 2}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer db.Close()

	repo := NewCardRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	saved, err := repo.SaveCatalog(ctx, card.Default(), true)
	require.NoError(t, err)
	assert.Equal(t, card.Default().Len(), saved)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(saved), count)

	catalog, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Equal(t, card.Default().Len(), catalog.Len())
	for i, want := range card.Default().All() {
		assert.Equal(t, want.Spec(), catalog.All()[i].Spec())
	}
}
