package board

import (
	"thestacks/internal/card"
	"thestacks/internal/geom"
)

// StackID is a unique identifier for a stack root.
type StackID string

// Ongoing is the in-progress recipe state attached to a stack. The recipe
// machinery owns its meaning; the board only copies or discards it during
// merge and split.
type Ongoing struct {
	Recipe  string
	Elapsed float64
}

func (o *Ongoing) clone() *Ongoing {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

// Drag records the grab offset between the pointer and a held stack's root.
type Drag struct {
	Offset geom.Vec2
}

// Stack is an ordered pile of cards at a position on the board.
// Index 0 is the bottom card, the last index is the top. Pos is the world
// location of the bottom card.
type Stack struct {
	ID    StackID
	Pos   geom.Vec2
	Z     float64
	Cards []card.ID

	// Recipe is the recipe currently running on this stack, if any.
	Recipe *Ongoing
	// Drag is non-nil while the user holds this stack.
	Drag *Drag
	// Target is the stack this one is gliding towards to merge with.
	Target StackID
	// Seeking stacks want to find a nearby same-type stack to merge with.
	Seeking bool
	// Physics stacks are nudged apart when they overlap.
	Physics bool
}

// Size returns the number of cards in the stack.
func (s *Stack) Size() int { return len(s.Cards) }

// BottomCard returns the ID of the bottom card, or "" if the stack is empty.
func (s *Stack) BottomCard() card.ID {
	if len(s.Cards) == 0 {
		return ""
	}
	return s.Cards[0]
}

// TopCard returns the ID of the top card, or "" if the stack is empty.
func (s *Stack) TopCard() card.ID {
	if len(s.Cards) == 0 {
		return ""
	}
	return s.Cards[len(s.Cards)-1]
}

// IndexOf returns the position of the given card, or -1 if it is not in the
// stack.
func (s *Stack) IndexOf(id card.ID) int {
	for i, c := range s.Cards {
		if c == id {
			return i
		}
	}
	return -1
}
