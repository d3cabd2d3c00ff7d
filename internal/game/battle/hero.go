package battle

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultHeroHealth is a hero's starting and maximum health unless a difficulty overrides it.
const DefaultHeroHealth = 20

// ErrHeroName is returned when a hero is created without a name.
var ErrHeroName = errors.New("hero name is required")

// Hero is a side's health pool. The side loses when it reaches zero.
type Hero struct {
	name          string
	maxHealth     int
	currentHealth int
}

// NewHero creates a hero with DefaultHeroHealth.
func NewHero(name string) (*Hero, error) {
	return NewHeroWithHealth(name, DefaultHeroHealth)
}

// NewHeroWithHealth creates a hero at full health. maxHealth below 1 is raised to 1.
func NewHeroWithHealth(name string, maxHealth int) (*Hero, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrHeroName
	}
	maxHealth = max(1, maxHealth)
	return &Hero{name: name, maxHealth: maxHealth, currentHealth: maxHealth}, nil
}

func (h *Hero) Name() string       { return h.name }
func (h *Hero) MaxHealth() int     { return h.maxHealth }
func (h *Hero) CurrentHealth() int { return h.currentHealth }

// SetCurrentHealth sets health, clamped into [0, MaxHealth()].
func (h *Hero) SetCurrentHealth(value int) {
	h.currentHealth = max(0, min(value, h.maxHealth))
}

// ApplyDamage lowers health by damage. Non-positive damage is ignored.
func (h *Hero) ApplyDamage(damage int) {
	if damage <= 0 {
		return
	}
	h.SetCurrentHealth(h.currentHealth - damage)
}

func (h *Hero) IsDead() bool {
	return h.currentHealth <= 0
}

func (h *Hero) String() string {
	return fmt.Sprintf("%s %d/%d", h.name, h.currentHealth, h.maxHealth)
}
