// Package recipe turns stacks of cards into new cards. A registry holds the
// known recipes; the machine watches the board, starts recipes on stacks whose
// card sequence matches, advances their timers, and applies their effects when
// they finish.
package recipe

import (
	"fmt"

	"thestacks/internal/board"
	"thestacks/internal/card"
)

// ID names a recipe. Registration order is the recipe's priority: when several
// recipes match a stack, the one registered first wins.
type ID string

// Check is a stack's card sequence, bottom to top, as seen by recipe
// predicates. Predicates only read it.
type Check []card.Card

// Bottom returns the bottom card. Callers must know the stack is non-empty;
// the machine never invokes a predicate on an empty stack.
func (c Check) Bottom() card.Card { return c[0] }

// Top returns the top card.
func (c Check) Top() card.Card { return c[len(c)-1] }

// BottomIsType reports whether the bottom card has the given type.
func (c Check) BottomIsType(id card.TypeID) bool {
	return len(c) > 0 && c[0].TypeID == id
}

// CountType returns how many cards of the given type the stack holds.
func (c Check) CountType(id card.TypeID) int {
	n := 0
	for _, cc := range c {
		if cc.TypeID == id {
			n++
		}
	}
	return n
}

// CountCategory returns how many cards of the given category the stack holds.
func (c Check) CountCategory(cat card.Category) int {
	n := 0
	for _, cc := range c {
		if cc.Category == cat {
			n++
		}
	}
	return n
}

// AnyType reports whether at least one card has the given type.
func (c Check) AnyType(id card.TypeID) bool { return c.CountType(id) > 0 }

// AnyCategory reports whether at least one card has the given category.
func (c Check) AnyCategory(cat card.Category) bool { return c.CountCategory(cat) > 0 }

// Predicate decides whether a stack's card sequence matches a recipe.
type Predicate func(Check) bool

// Effect applies a finished recipe to the board. It runs once per recipe per
// completion pass; ready lists every stack that finished this recipe this
// pass, in a deterministic order.
type Effect func(st *board.State, ready []board.StackID)

// Recipe couples a match predicate with a completion effect. Seconds is the
// crafting duration; nil means the recipe completes in the same tick it is
// detected, even while time is paused.
type Recipe struct {
	ID      ID
	Seconds *float64
	Valid   Predicate
	Finish  Effect
}

// Instant reports whether the recipe has no timer.
func (r Recipe) Instant() bool { return r.Seconds == nil }

// Registry is an ordered, immutable set of recipes.
type Registry struct {
	recipes []Recipe
	byID    map[ID]int
}

// All returns the recipes in registration order.
func (r *Registry) All() []Recipe { return r.recipes }

// Get returns a recipe by ID.
func (r *Registry) Get(id ID) (Recipe, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return r.recipes[i], true
}

// Builder assembles a Registry. Recipes keep the order they are added in.
type Builder struct {
	recipes []Recipe
}

func NewBuilder() *Builder { return &Builder{} }

// Recipe adds a timed recipe.
func (b *Builder) Recipe(id ID, seconds float64, valid Predicate, finish Effect) *Builder {
	b.recipes = append(b.recipes, Recipe{ID: id, Seconds: &seconds, Valid: valid, Finish: finish})
	return b
}

// Instant adds a recipe that completes the moment it is detected.
func (b *Builder) Instant(id ID, valid Predicate, finish Effect) *Builder {
	b.recipes = append(b.recipes, Recipe{ID: id, Valid: valid, Finish: finish})
	return b
}

// Build returns the registry, or an error on duplicate IDs.
func (b *Builder) Build() (*Registry, error) {
	byID := make(map[ID]int, len(b.recipes))
	for i, r := range b.recipes {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("recipe: duplicate id %q", r.ID)
		}
		byID[r.ID] = i
	}
	return &Registry{recipes: b.recipes, byID: byID}, nil
}
