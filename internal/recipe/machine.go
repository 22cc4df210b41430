package recipe

import (
	"sort"

	"thestacks/internal/board"
)

// Finished records that a recipe completed on a stack.
type Finished struct {
	Stack  board.StackID
	Recipe ID
}

// Machine runs recipes against a board. Each tick the caller drives it in
// three phases: Detect re-matches stacks whose cards changed, Advance moves
// the timers, and Complete applies the effects of everything that became
// ready. Stacks touched by effects are re-checked on the next Detect.
type Machine struct {
	reg *Registry

	ready    map[board.StackID]ID
	finished []Finished
}

func NewMachine(reg *Registry) *Machine {
	return &Machine{
		reg:   reg,
		ready: make(map[board.StackID]ID),
	}
}

// Detect re-evaluates recipe state on every stack whose card sequence changed
// since the last call, plus the stacks that completed a recipe last pass.
//
// A stack whose ongoing recipe still matches keeps it, elapsed time included.
// Otherwise the recipes are scanned in registration order: the first match is
// attached, and an instant match is marked ready immediately. No match clears
// the stack's recipe state.
func (m *Machine) Detect(st *board.State) {
	dirty := make(map[board.StackID]struct{})
	for _, id := range st.DrainChanged() {
		dirty[id] = struct{}{}
	}
	for _, f := range m.finished {
		dirty[f.Stack] = struct{}{}
	}
	m.finished = nil

	ids := make([]board.StackID, 0, len(dirty))
	for id := range dirty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		stack := st.Stack(id)
		if stack == nil {
			delete(m.ready, id)
			continue
		}
		m.detectOne(st, stack)
	}
}

func (m *Machine) detectOne(st *board.State, stack *board.Stack) {
	cards := Check(st.Snapshot(stack.ID))
	if len(cards) == 0 {
		stack.Recipe = nil
		delete(m.ready, stack.ID)
		return
	}

	if stack.Recipe != nil {
		if r, ok := m.reg.Get(ID(stack.Recipe.Recipe)); ok && r.Valid(cards) {
			return
		}
	}

	stack.Recipe = nil
	delete(m.ready, stack.ID)

	for _, r := range m.reg.All() {
		if !r.Valid(cards) {
			continue
		}
		if r.Instant() {
			m.ready[stack.ID] = r.ID
		} else {
			stack.Recipe = &board.Ongoing{Recipe: string(r.ID)}
		}
		return
	}
}

// Advance moves every ongoing recipe timer forward by dt seconds, scaled by
// factor. Timers that reach the recipe's duration mark the stack ready.
// A factor of zero (paused) leaves the timers alone.
func (m *Machine) Advance(st *board.State, dt, factor float64) {
	if factor <= 0 {
		return
	}

	for _, id := range st.StackIDs() {
		stack := st.Stack(id)
		if stack.Recipe == nil {
			continue
		}
		r, ok := m.reg.Get(ID(stack.Recipe.Recipe))
		if !ok || r.Instant() {
			stack.Recipe = nil
			continue
		}

		stack.Recipe.Elapsed += dt * factor
		if stack.Recipe.Elapsed >= *r.Seconds {
			m.ready[id] = r.ID
			stack.Recipe = nil
		}
	}
}

// Complete applies the effect of every recipe with at least one ready stack.
// Ready stacks are grouped per recipe, so an effect runs once per recipe per
// pass no matter how many stacks finished it. Markers are cleared and the
// completions recorded before any effect runs; the effects therefore see a
// board with no pending recipe work, and every touched stack is re-matched on
// the next Detect.
func (m *Machine) Complete(st *board.State) []Finished {
	if len(m.ready) == 0 {
		return nil
	}

	byRecipe := make(map[ID][]board.StackID)
	for stackID, recipeID := range m.ready {
		byRecipe[recipeID] = append(byRecipe[recipeID], stackID)
	}
	m.ready = make(map[board.StackID]ID)

	var done []Finished
	for _, r := range m.reg.All() {
		stacks := byRecipe[r.ID]
		if len(stacks) == 0 {
			continue
		}
		sort.Slice(stacks, func(i, j int) bool { return stacks[i] < stacks[j] })
		for _, id := range stacks {
			done = append(done, Finished{Stack: id, Recipe: r.ID})
		}
		r.Finish(st, stacks)
	}

	m.finished = append(m.finished, done...)
	return done
}

// Ongoing returns the remaining seconds of a stack's running recipe.
func (m *Machine) Ongoing(st *board.State, id board.StackID) (ID, float64, bool) {
	stack := st.Stack(id)
	if stack == nil || stack.Recipe == nil {
		return "", 0, false
	}
	r, ok := m.reg.Get(ID(stack.Recipe.Recipe))
	if !ok || r.Instant() {
		return "", 0, false
	}
	remaining := *r.Seconds - stack.Recipe.Elapsed
	if remaining < 0 {
		remaining = 0
	}
	return r.ID, remaining, true
}
