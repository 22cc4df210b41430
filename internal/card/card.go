// Package card defines card categories, static card type definitions, and
// the per-instance state of cards on the board.
package card

import "thestacks/internal/geom"

// ID is a unique identifier for a card instance.
type ID string

// TypeID is a stable identifier for a card type definition.
type TypeID string

// Category is the closed set of card kinds. A card's category drives recipe
// predicates (for example "any Worker on top") and sell rules.
type Category string

const (
	SystemCard Category = "system"
	Worker     Category = "worker"
	Nature     Category = "nature"
	Resource   Category = "resource"
	Valuable   Category = "valuable"
	Food       Category = "food"
	Gem        Category = "gem"
	CardPack   Category = "card_pack"
)

// Pack describes what a card-pack type contains.
type Pack struct {
	// Cards is how many cards can be drawn before the pack is spent.
	Cards int
	// Options are the type IDs a draw picks from.
	Options []TypeID
}

// Type is the static definition a card instance is spawned from.
type Type struct {
	ID       TypeID
	Category Category
	// Value is the sale price in coins. On a SystemCard it is the cost to buy
	// something instead. Nil means the card is not sellable.
	Value *int
	// Uses is the number of times a depletable card can be consumed by a
	// recipe before it is deleted. Zero means the card is not depletable.
	Uses int
	// ExclusiveBottom cards cannot be dropped onto other stacks.
	ExclusiveBottom bool
	// Pack is set on card-pack types.
	Pack *Pack
}

// Card is an instance of a card type. Every card is owned by exactly one
// stack; the board tracks that ownership.
type Card struct {
	ID       ID
	TypeID   TypeID
	Category Category
	Value    *int

	// Uses left on a depletable card.
	Uses int
	// PackRemaining is how many draws are left in a card pack.
	PackRemaining   int
	ExclusiveBottom bool

	// Offset and Depth position the card relative to its stack root. They are
	// assigned by the board's layout pass, never by hand.
	Offset geom.Vec2
	Depth  float64
}

// New instantiates a card from its type definition. The caller assigns the ID.
func New(id ID, t Type) *Card {
	c := &Card{
		ID:              id,
		TypeID:          t.ID,
		Category:        t.Category,
		Value:           t.Value,
		Uses:            t.Uses,
		ExclusiveBottom: t.ExclusiveBottom,
	}
	if t.Pack != nil {
		c.PackRemaining = t.Pack.Cards
	}
	return c
}

// IsType reports whether the card was spawned from the given type.
func (c *Card) IsType(id TypeID) bool { return c.TypeID == id }

// Sellable reports whether the card can be sold at a market.
// System cards are never sellable, even when they carry a value.
func (c *Card) Sellable() bool {
	return c.Value != nil && c.Category != SystemCard
}
