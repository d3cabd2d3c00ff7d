package mana

import (
	"fmt"
	"sync"
)

// Cap is the highest maximum mana a player can reach.
const Cap = 10

// Pool is one player's mana: a maximum that grows each turn and the amount
// currently available to spend. Invariant: 0 <= Current() <= Max() <= Cap.
type Pool struct {
	mu      sync.RWMutex
	max     int
	current int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Max returns the maximum mana.
func (p *Pool) Max() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.max
}

// Current returns the mana available to spend.
func (p *Pool) Current() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// SetMax sets the maximum, clamped into [0, Cap]. Current mana above the new
// maximum is lowered to it.
func (p *Pool) SetMax(value int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.max = clamp(value, 0, Cap)
	if p.current > p.max {
		p.current = p.max
	}
}

// SetCurrent sets the available mana, clamped into [0, Max()].
func (p *Pool) SetCurrent(value int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = clamp(value, 0, p.max)
}

// Grow raises the maximum by one, up to Cap, and returns the new maximum.
func (p *Pool) Grow() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.max = min(Cap, p.max+1)
	return p.max
}

// Refill sets current mana to the maximum.
func (p *Pool) Refill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.max
}

// CanAfford reports whether cost can be paid from current mana.
func (p *Pool) CanAfford(cost int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cost <= p.current
}

// Spend removes cost from current mana.
// Returns false and leaves the pool untouched if there is not enough.
func (p *Pool) Spend(cost int) bool {
	if cost <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < cost {
		return false
	}
	p.current -= cost
	return true
}

func (p *Pool) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("%d/%d", p.current, p.max)
}

func clamp(value, lo, hi int) int {
	return max(lo, min(hi, value))
}
