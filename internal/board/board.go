// Package board is the ownership model for cards and stacks: creation,
// layout, merge, split, and deletion. It is the single owner of card and
// stack existence; every mutation re-lays-out the affected stacks before it
// returns, so a reader never observes a stack whose sequence and layout
// disagree.
//
// Invalid operations (missing handles, splitting at the bottom, merging an
// empty stack) are soft failures: they no-op instead of returning errors.
package board

import (
	"fmt"
	"hash/fnv"
	"sort"

	"thestacks/internal/card"
	"thestacks/internal/config"
	"thestacks/internal/geom"
)

// State holds every card and stack in the simulation. Stacks and cards live
// in flat maps addressed by stable IDs; a card's current stack is tracked in
// an owner index that merge, split, and delete keep up to date.
type State struct {
	Stacks map[StackID]*Stack
	Cards  map[card.ID]*card.Card
	Types  map[card.TypeID]card.Type

	cfg *config.Config

	owner   map[card.ID]StackID
	changed map[StackID]struct{}

	stackCounter uint64
	cardCounter  uint64
}

// New creates an empty board using the given card type table.
func New(types map[card.TypeID]card.Type, cfg *config.Config) *State {
	return &State{
		Stacks:  make(map[StackID]*Stack),
		Cards:   make(map[card.ID]*card.Card),
		Types:   types,
		cfg:     cfg,
		owner:   make(map[card.ID]StackID),
		changed: make(map[StackID]struct{}),
	}
}

func (s *State) nextStackID() StackID {
	s.stackCounter++
	return StackID(fmt.Sprintf("stack_%d", s.stackCounter))
}

func (s *State) nextCardID() card.ID {
	s.cardCounter++
	return card.ID(fmt.Sprintf("card_%d", s.cardCounter))
}

// Stack returns a stack by ID, or nil if it does not exist.
func (s *State) Stack(id StackID) *Stack { return s.Stacks[id] }

// Card returns a card by ID, or nil if it does not exist.
func (s *State) Card(id card.ID) *card.Card { return s.Cards[id] }

// StackOf returns the stack currently owning the given card.
func (s *State) StackOf(id card.ID) (StackID, bool) {
	sid, ok := s.owner[id]
	return sid, ok
}

// StackIDs returns every stack ID in a deterministic order.
func (s *State) StackIDs() []StackID {
	ids := make([]StackID, 0, len(s.Stacks))
	for id := range s.Stacks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SpawnStack creates count cards of the given type and stacks them at pos,
// bottom to top. The new stack starts out looking for a nearby merge target.
// Returns "" if the type is unknown or count is zero.
func (s *State) SpawnStack(pos geom.Vec2, typeID card.TypeID, count int) StackID {
	t, ok := s.Types[typeID]
	if !ok || count <= 0 {
		return ""
	}

	ids := make([]card.ID, count)
	for i := range ids {
		id := s.nextCardID()
		s.Cards[id] = card.New(id, t)
		ids[i] = id
	}

	stack := &Stack{
		ID:      s.nextStackID(),
		Pos:     pos,
		Cards:   ids,
		Seeking: true,
	}
	stack.Z = s.SemiRandomZ(stack.ID)
	s.Stacks[stack.ID] = stack

	for _, id := range ids {
		s.owner[id] = stack.ID
	}
	s.layout(stack)
	s.markChanged(stack.ID)

	return stack.ID
}

// Merge appends source's cards, in order, on top of target, then destroys the
// source root. The target keeps its ongoing recipe; the source's is only
// adopted when the target has none. Whether the kept recipe is still valid is
// for the next recipe detection pass to decide, not for the merge.
// No-op if either stack is missing or empty, or source == target.
func (s *State) Merge(source, target StackID) {
	if source == target {
		return
	}
	src := s.Stacks[source]
	dst := s.Stacks[target]
	if src == nil || dst == nil || len(src.Cards) == 0 || len(dst.Cards) == 0 {
		return
	}

	dst.Cards = append(dst.Cards, src.Cards...)
	for _, id := range src.Cards {
		s.owner[id] = target
	}
	if dst.Recipe == nil {
		dst.Recipe = src.Recipe
	}

	delete(s.Stacks, source)
	delete(s.changed, source)

	s.layout(dst)
	s.markChanged(target)
}

// Split breaks a stack so that atCard becomes the bottom of a new stack
// placed at pos. Cards below atCard stay on the existing root. An ongoing
// recipe is kept on both halves; later re-validation sorts out which half, if
// any, still matches it.
//
// Returns false without splitting when atCard is the bottom card (picking up
// the bottom card means picking up the whole stack), is not in the stack, or
// the stack does not exist.
func (s *State) Split(stackID StackID, atCard card.ID, pos geom.Vec2) (StackID, bool) {
	st := s.Stacks[stackID]
	if st == nil {
		return "", false
	}
	idx := st.IndexOf(atCard)
	if idx <= 0 {
		return "", false
	}

	top := make([]card.ID, len(st.Cards)-idx)
	copy(top, st.Cards[idx:])
	st.Cards = st.Cards[:idx]

	split := &Stack{
		ID:      s.nextStackID(),
		Pos:     pos,
		Z:       st.Z,
		Cards:   top,
		Recipe:  st.Recipe.clone(),
		Physics: true,
	}
	s.Stacks[split.ID] = split
	for _, id := range top {
		s.owner[id] = split.ID
	}

	s.layout(st)
	s.layout(split)
	s.markChanged(stackID)
	s.markChanged(split.ID)

	return split.ID, true
}

// DeleteCards removes the given cards from a stack and destroys them.
// Duplicate IDs in the batch are ignored; cards not owned by the stack are
// skipped. When the last card goes, the stack root goes with it.
func (s *State) DeleteCards(stackID StackID, ids []card.ID) {
	st := s.Stacks[stackID]
	if st == nil || len(ids) == 0 {
		return
	}

	doomed := make(map[card.ID]struct{}, len(ids))
	for _, id := range ids {
		if s.owner[id] == stackID {
			doomed[id] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return
	}

	remaining := st.Cards[:0]
	for _, id := range st.Cards {
		if _, gone := doomed[id]; gone {
			delete(s.Cards, id)
			delete(s.owner, id)
			continue
		}
		remaining = append(remaining, id)
	}
	st.Cards = remaining

	if len(st.Cards) == 0 {
		delete(s.Stacks, stackID)
		delete(s.changed, stackID)
		return
	}

	s.layout(st)
	s.markChanged(stackID)
}

// layout assigns each card its offset relative to the stack root: straight
// down by the stack spacing, with a depth increment monotonic in the index.
func (s *State) layout(st *Stack) {
	for i, id := range st.Cards {
		c := s.Cards[id]
		c.Offset = geom.Vec2{Y: -s.cfg.Stack.Spacing * float64(i)}
		c.Depth = s.cfg.Stack.DeltaZ * float64(i) * 2
	}
}

func (s *State) markChanged(id StackID) {
	s.changed[id] = struct{}{}
}

// DrainChanged returns the stacks whose card sequence changed since the last
// call, in a deterministic order, and resets the tracking.
func (s *State) DrainChanged() []StackID {
	if len(s.changed) == 0 {
		return nil
	}
	ids := make([]StackID, 0, len(s.changed))
	for id := range s.changed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	s.changed = make(map[StackID]struct{})
	return ids
}

// Snapshot returns copies of a stack's cards in bottom-to-top order, or nil
// if the stack does not exist.
func (s *State) Snapshot(id StackID) []card.Card {
	st := s.Stacks[id]
	if st == nil {
		return nil
	}
	out := make([]card.Card, 0, len(st.Cards))
	for _, cid := range st.Cards {
		if c := s.Cards[cid]; c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// CardWorldPos returns a card's world position and depth.
func (s *State) CardWorldPos(id card.ID) (geom.Vec2, float64, bool) {
	sid, ok := s.owner[id]
	if !ok {
		return geom.Vec2{}, 0, false
	}
	st := s.Stacks[sid]
	c := s.Cards[id]
	if st == nil || c == nil {
		return geom.Vec2{}, 0, false
	}
	return st.Pos.Add(c.Offset), st.Z + c.Depth, true
}

// NextSlotCenter returns the center of the spot where the next card would
// land on the given stack: one spacing below its current top card. This is
// the stack's landing zone for drop-target detection.
func (s *State) NextSlotCenter(id StackID) (geom.Vec2, bool) {
	st := s.Stacks[id]
	if st == nil {
		return geom.Vec2{}, false
	}
	return geom.Vec2{
		X: st.Pos.X,
		Y: st.Pos.Y - s.cfg.Stack.Spacing*float64(len(st.Cards)),
	}, true
}

// VisualSize returns the footprint of a stack of n cards: one card, grown
// downward by the stack spacing per extra card.
func (s *State) VisualSize(n int) geom.Vec2 {
	if n < 1 {
		n = 1
	}
	return geom.Vec2{
		X: s.cfg.Card.Width,
		Y: s.cfg.Card.Height + float64(n-1)*s.cfg.Stack.Spacing,
	}
}

// SemiRandomZ maps a stack's identity into the resting depth range. It is a
// pure function of the ID, so a stack always settles at the same depth.
func (s *State) SemiRandomZ(id StackID) float64 {
	h := fnv.New64a()
	h.Write([]byte(id))

	span := s.cfg.Stack.ZCeiling - s.cfg.Stack.ZFloor
	offset := float64(h.Sum64()%uint64(span/s.cfg.Stack.DeltaZ)) * s.cfg.Stack.DeltaZ
	return s.cfg.Stack.ZFloor + offset
}
