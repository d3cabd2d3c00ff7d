package game

import (
	"fmt"
	"strings"
)

// Difficulty selects the enemy's starting advantages.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "EASY",
	DifficultyNormal: "NORMAL",
	DifficultyHard:   "HARD",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DIFFICULTY_%d", int(d))
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	_, ok := difficultyNames[d]
	return ok
}

// ParseDifficulty converts a name such as "hard" into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for d, name := range difficultyNames {
		if name == s {
			return d, nil
		}
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DifficultyPreset is the match setup a difficulty stands for.
type DifficultyPreset struct {
	EnemyHeroHealth int
	// EnemyStartMana is the enemy's maximum mana on its first turn.
	EnemyStartMana  int
	EnemyStartHand  int
	PlayerStartHand int
}

var difficultyPresets = map[Difficulty]DifficultyPreset{
	DifficultyEasy:   {EnemyHeroHealth: 20, EnemyStartMana: 1, EnemyStartHand: 3, PlayerStartHand: 4},
	DifficultyNormal: {EnemyHeroHealth: 30, EnemyStartMana: 1, EnemyStartHand: 4, PlayerStartHand: 3},
	DifficultyHard:   {EnemyHeroHealth: 40, EnemyStartMana: 2, EnemyStartHand: 7, PlayerStartHand: 2},
}

// Preset returns the setup for d. Unknown difficulties get the easy preset.
func (d Difficulty) Preset() DifficultyPreset {
	if preset, ok := difficultyPresets[d]; ok {
		return preset
	}
	return difficultyPresets[DifficultyEasy]
}
