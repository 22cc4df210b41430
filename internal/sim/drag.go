package sim

import (
	"thestacks/internal/board"
	"thestacks/internal/card"
	"thestacks/internal/geom"
	"thestacks/internal/recipe"
	"thestacks/internal/telemetry"
)

// pickUp grabs the stack a card belongs to. Grabbing the bottom card lifts
// the whole stack; grabbing a card higher up splits the stack there and lifts
// the upper half. Only one stack can be held at a time.
func (e *Engine) pickUp(id card.ID) {
	if e.dragging != "" {
		return
	}
	sid, ok := e.Board.StackOf(id)
	if !ok {
		return
	}

	st := e.Board.Stack(sid)
	if st.BottomCard() != id {
		pos, _, ok := e.Board.CardWorldPos(id)
		if !ok {
			return
		}
		split, ok := e.Board.Split(sid, id, pos)
		if !ok {
			return
		}
		st = e.Board.Stack(split)
		e.record(telemetry.EventStackSplit, telemetry.EventMetadata{
			"stack": string(sid),
			"split": string(split),
		})
	}

	st.Drag = &board.Drag{Offset: e.pointer.Sub(st.Pos)}
	st.Seeking = false
	st.Target = ""
	st.Physics = false
	st.Z = e.cfg.Stack.DragZ
	e.dragging = st.ID

	e.log.Debug("picked up stack", "stack", st.ID, "cards", st.Size())
	e.record(telemetry.EventStackPickedUp, telemetry.EventMetadata{
		"stack": string(st.ID),
		"cards": st.Size(),
	})
}

// drop releases the held stack. If its bottom card lands in another stack's
// next card slot, and the merge would not break an ongoing recipe on either
// side, the stacks merge. Otherwise the stack settles back onto the ground at
// its resting depth. Stacks with an exclusive-bottom card never merge onto
// others.
func (e *Engine) drop() {
	st := e.Board.Stack(e.dragging)
	e.dragging = ""
	if st == nil || st.Drag == nil {
		return
	}
	st.Pos = e.pointer.Sub(st.Drag.Offset)
	st.Drag = nil

	cardSize := geom.Vec2{X: e.cfg.Card.Width, Y: e.cfg.Card.Height}
	bottom := e.Board.Card(st.BottomCard())

	if bottom != nil && !bottom.ExclusiveBottom {
		for _, tid := range e.Board.StackIDs() {
			if tid == st.ID {
				continue
			}
			if e.mergeBreaksRecipes(st.ID, tid) {
				continue
			}
			slot, ok := e.Board.NextSlotCenter(tid)
			if !ok {
				continue
			}
			if _, in := geom.PointInBounds(cardSize, slot, 1, st.Pos); in {
				e.log.Debug("dropped stack onto target", "stack", st.ID, "target", tid)
				e.Board.Merge(st.ID, tid)
				e.record(telemetry.EventStackMerged, telemetry.EventMetadata{
					"source": string(st.ID),
					"target": string(tid),
				})
				return
			}
		}
	}

	st.Z = e.Board.SemiRandomZ(st.ID)
	st.Physics = true
}

// mergeBreaksRecipes reports whether stacking dropped on top of target would
// invalidate an ongoing recipe on either stack.
func (e *Engine) mergeBreaksRecipes(dropped, target board.StackID) bool {
	ds := e.Board.Stack(dropped)
	ts := e.Board.Stack(target)
	if ds == nil || ts == nil {
		return false
	}
	if ds.Recipe == nil && ts.Recipe == nil {
		return false
	}

	combined := recipe.Check(append(e.Board.Snapshot(target), e.Board.Snapshot(dropped)...))

	if ds.Recipe != nil {
		if r, ok := e.Recipes.Get(recipe.ID(ds.Recipe.Recipe)); !ok || !r.Valid(combined) {
			return true
		}
	}
	if ts.Recipe != nil {
		if r, ok := e.Recipes.Get(recipe.ID(ts.Recipe.Recipe)); !ok || !r.Valid(combined) {
			return true
		}
	}
	return false
}
