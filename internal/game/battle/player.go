package battle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/mana"
)

// ErrNilHero is returned when a PlayerState is created without a hero.
var ErrNilHero = errors.New("hero is required")

// PlayerState is everything one side owns during a match.
type PlayerState struct {
	Hero  *Hero
	Board *Board
	Mana  *mana.Pool

	// Deck is the draw pile; the top card is the last element.
	Deck []*card.Card
	Hand []*card.Card

	fatigueDamage int
}

// NewPlayerState creates an empty side around hero.
func NewPlayerState(hero *Hero) (*PlayerState, error) {
	if hero == nil {
		return nil, ErrNilHero
	}
	return &PlayerState{
		Hero:          hero,
		Board:         &Board{},
		Mana:          mana.NewPool(),
		fatigueDamage: 1,
	}, nil
}

// FatigueDamage is the damage the next empty-deck draw will deal.
func (p *PlayerState) FatigueDamage() int { return p.fatigueDamage }

// SetFatigueDamage sets the next fatigue damage, never below 1.
func (p *PlayerState) SetFatigueDamage(value int) {
	p.fatigueDamage = max(1, value)
}

// AddToDeck puts c on top of the deck.
func (p *PlayerState) AddToDeck(c *card.Card) {
	if c != nil {
		p.Deck = append(p.Deck, c)
	}
}

// AddToHand appends c to the hand.
func (p *PlayerState) AddToHand(c *card.Card) {
	if c != nil {
		p.Hand = append(p.Hand, c)
	}
}

// RemoveFromHand removes the first hand card with c's id. It reports whether a
// card was removed.
func (p *PlayerState) RemoveFromHand(c *card.Card) bool {
	idx := slices.IndexFunc(p.Hand, c.Equal)
	if idx < 0 {
		return false
	}
	p.Hand = slices.Delete(p.Hand, idx, idx+1)
	return true
}

// Shuffle reorders the deck.
func (p *PlayerState) Shuffle(rng card.Shuffler) {
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// CanSummon reports whether the board has a free slot.
func (p *PlayerState) CanSummon() bool {
	return !p.Board.IsFull()
}

// DrawWithFatigue draws the top card into the hand. With an empty deck the hero
// instead takes the current fatigue damage, which then grows by one.
func (p *PlayerState) DrawWithFatigue(log *Log) {
	if len(p.Deck) == 0 {
		before := p.Hero.CurrentHealth()
		damage := p.fatigueDamage
		p.Hero.ApplyDamage(damage)
		log.Addf("[fatigue] %s's deck is empty and takes %d fatigue damage. (%d -> %d)",
			p.Hero.Name(), damage, before, p.Hero.CurrentHealth())
		p.fatigueDamage++
		if p.Hero.IsDead() {
			log.Addf("[fatigue] hero %q has fallen!", p.Hero.Name())
		}
		return
	}

	drawn := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, drawn)
	log.Addf("[draw] %s drew %q.", p.Hero.Name(), drawn.Name())
}

// DrawStartingHand draws up to n cards without fatigue.
func (p *PlayerState) DrawStartingHand(n int, log *Log) {
	for i := 0; i < n && len(p.Deck) > 0; i++ {
		p.DrawWithFatigue(log)
	}
}

// ResetUnitsForTurn readies every unit on the board for a new turn.
func (p *PlayerState) ResetUnitsForTurn(log *Log) {
	for _, unit := range p.Board.units {
		if unit.ResetForTurn() {
			log.Addf("[turn start] %s can now attack.", unit.Name)
		}
	}
}

func (p *PlayerState) String() string {
	return fmt.Sprintf("hero=%s board=%d hand=%d deck=%d mana=%s fatigue=%d",
		p.Hero, p.Board.Len(), len(p.Hand), len(p.Deck), p.Mana, p.fatigueDamage)
}
