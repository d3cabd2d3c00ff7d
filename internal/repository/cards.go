package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const cardsSchema = `
CREATE TABLE IF NOT EXISTS battle_cards (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	card_type   TEXT NOT NULL DEFAULT 'MONSTER',
	cost        INTEGER NOT NULL CHECK (cost BETWEEN 0 AND 10),
	attack      INTEGER NOT NULL CHECK (attack >= 0),
	defense     INTEGER NOT NULL CHECK (defense >= 0),
	effects     JSONB NOT NULL DEFAULT '[]',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	description TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
)`

// ErrEmptyCatalog is returned when the cards table holds no cards.
var ErrEmptyCatalog = errors.New("no cards stored")

// CardRepository stores the read-only card catalog.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a card repository on db.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// EnsureSchema creates the cards table if it does not exist.
func (r *CardRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, cardsSchema); err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	return nil
}

// Count returns the number of stored cards.
func (r *CardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM battle_cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// LoadCatalog reads every stored card, in stored order, into a catalog.
func (r *CardRepository) LoadCatalog(ctx context.Context) (*card.Catalog, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, card_type, cost, attack, defense, effects, tags, description
		FROM battle_cards
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var specs []card.Spec
	for rows.Next() {
		var (
			row     cardRow
			effects []byte
		)
		if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Cost, &row.Attack,
			&row.Defense, &effects, &row.Tags, &row.Description); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if err := json.Unmarshal(effects, &row.Effects); err != nil {
			return nil, fmt.Errorf("decode effects of %s: %w", row.ID, err)
		}
		spec, err := row.spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	if len(specs) == 0 {
		return nil, ErrEmptyCatalog
	}

	catalog, err := card.FromSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	r.db.logger.Info("card catalog loaded", zap.Int("cards", catalog.Len()))
	return catalog, nil
}

// SaveCatalog writes catalog in one transaction. With replace set, existing
// cards are removed first; otherwise cards are upserted by id.
func (r *CardRepository) SaveCatalog(ctx context.Context, catalog *card.Catalog, replace bool) (int, error) {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if replace {
		if _, err := tx.Exec(ctx, "TRUNCATE battle_cards"); err != nil {
			return 0, fmt.Errorf("clear cards: %w", err)
		}
	}

	batch := &pgx.Batch{}
	for i, c := range catalog.All() {
		row := newCardRow(c.Spec())
		effects, err := json.Marshal(row.Effects)
		if err != nil {
			return 0, fmt.Errorf("encode effects of %s: %w", row.ID, err)
		}
		batch.Queue(`
			INSERT INTO battle_cards (id, name, card_type, cost, attack, defense, effects, tags, description, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				card_type = EXCLUDED.card_type,
				cost = EXCLUDED.cost,
				attack = EXCLUDED.attack,
				defense = EXCLUDED.defense,
				effects = EXCLUDED.effects,
				tags = EXCLUDED.tags,
				description = EXCLUDED.description,
				position = EXCLUDED.position`,
			row.ID, row.Name, row.Type, row.Cost, row.Attack, row.Defense,
			effects, row.Tags, row.Description, i,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert cards: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit cards: %w", err)
	}

	r.db.logger.Info("card catalog saved", zap.Int("cards", catalog.Len()), zap.Bool("replace", replace))
	return catalog.Len(), nil
}

// cardRow is the stored shape of a card.
type cardRow struct {
	ID          string
	Name        string
	Type        string
	Cost        int
	Attack      int
	Defense     int
	Effects     []effectRow
	Tags        []string
	Description string
}

type effectRow struct {
	Kind        string `json:"kind"`
	Value       int    `json:"value"`
	Status      string `json:"status,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

func newCardRow(spec card.Spec) cardRow {
	row := cardRow{
		ID:          spec.ID,
		Name:        spec.Name,
		Type:        spec.Type,
		Cost:        spec.Cost,
		Attack:      spec.Attack,
		Defense:     spec.Defense,
		Effects:     make([]effectRow, 0, len(spec.Effects)),
		Tags:        spec.Tags,
		Description: spec.Description,
	}
	if row.Type == "" {
		row.Type = string(card.TypeMonster)
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	for _, e := range spec.Effects {
		er := effectRow{
			Kind:        e.Kind.String(),
			Value:       e.Value,
			Duration:    e.Duration,
			Description: e.Description,
		}
		if e.Status != card.StatusNone {
			er.Status = e.Status.String()
		}
		row.Effects = append(row.Effects, er)
	}
	return row
}

func (r cardRow) spec() (card.Spec, error) {
	spec := card.Spec{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Cost:        r.Cost,
		Attack:      r.Attack,
		Defense:     r.Defense,
		Tags:        r.Tags,
		Description: r.Description,
	}
	for _, er := range r.Effects {
		kind, err := card.ParseEffectKind(er.Kind)
		if err != nil {
			return card.Spec{}, fmt.Errorf("card %s: %w", r.ID, err)
		}
		effect := card.NewEffect(kind, er.Value)
		effect.Duration = er.Duration
		effect.Description = er.Description
		if er.Status != "" {
			if err := effect.Status.UnmarshalText([]byte(er.Status)); err != nil {
				return card.Spec{}, fmt.Errorf("card %s: %w", r.ID, err)
			}
		}
		spec.Effects = append(spec.Effects, effect)
	}
	return spec, nil
}
