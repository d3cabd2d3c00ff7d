package battle

import "fmt"

// Side is one of the two match participants.
type Side int

const (
	// NoSide is the zero value; as a target side it means "the opponent of the actor".
	NoSide Side = iota
	SidePlayer
	SideEnemy
)

var sideNames = map[Side]string{
	NoSide:     "NONE",
	SidePlayer: "PLAYER",
	SideEnemy:  "ENEMY",
}

func (s Side) String() string {
	if name, ok := sideNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SIDE_%d", int(s))
}

// Valid reports whether s names an actual participant.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideEnemy
}

// Opponent returns the other participant. NoSide has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideEnemy
	case SideEnemy:
		return SidePlayer
	default:
		return NoSide
	}
}

// ParseSide converts "PLAYER" or "ENEMY" into a Side.
func ParseSide(s string) (Side, error) {
	for side, name := range sideNames {
		if name == s && side.Valid() {
			return side, nil
		}
	}
	return NoSide, fmt.Errorf("unknown side %q", s)
}

// Phase is the step of a turn. Turns move linearly Start -> Main -> End.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMain
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart: "START",
	PhaseMain:  "MAIN",
	PhaseEnd:   "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}
