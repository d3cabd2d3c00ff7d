package battle

import "slices"

// MaxBoardSize is the number of unit slots per side.
const MaxBoardSize = 5

// Board is the ordered row of a side's units. Index is slot position.
type Board struct {
	units []*Unit
}

func (b *Board) Len() int { return len(b.units) }

func (b *Board) IsFull() bool { return len(b.units) >= MaxBoardSize }

// At returns the unit at index, or nil when index is out of range.
func (b *Board) At(index int) *Unit {
	if index < 0 || index >= len(b.units) {
		return nil
	}
	return b.units[index]
}

// ValidIndex reports whether index addresses a unit.
func (b *Board) ValidIndex(index int) bool {
	return index >= 0 && index < len(b.units)
}

// Units returns the units in slot order. The slice is a copy; the units are not.
func (b *Board) Units() []*Unit {
	return slices.Clone(b.units)
}

// Insert places unit at position, clamped into [0, Len()]. It fails when the
// board is full or unit is nil.
func (b *Board) Insert(position int, unit *Unit) bool {
	if unit == nil || b.IsFull() {
		return false
	}
	position = max(0, min(position, len(b.units)))
	b.units = slices.Insert(b.units, position, unit)
	return true
}

// RemoveAt removes and returns the unit at index.
func (b *Board) RemoveAt(index int) *Unit {
	if !b.ValidIndex(index) {
		return nil
	}
	unit := b.units[index]
	b.units = slices.Delete(b.units, index, index+1)
	return unit
}

// IndexOf returns the slot of unit, or -1.
func (b *Board) IndexOf(unit *Unit) int {
	return slices.Index(b.units, unit)
}

// Remove takes unit off the board. It reports whether the unit was present.
func (b *Board) Remove(unit *Unit) bool {
	return b.RemoveAt(b.IndexOf(unit)) != nil
}

// HasTaunt reports whether any unit on the board has taunt.
func (b *Board) HasTaunt() bool {
	return b.FirstTauntIndex() >= 0
}

// FirstTauntIndex returns the lowest slot holding a taunt unit, or -1.
func (b *Board) FirstTauntIndex() int {
	return slices.IndexFunc(b.units, func(u *Unit) bool { return u.Taunt })
}
