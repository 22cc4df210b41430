package sim

import (
	"thestacks/internal/card"
	"thestacks/internal/geom"
	"thestacks/internal/telemetry"
)

// findHomingTargets resolves freshly spawned stacks that are looking for a
// place to go. A homogeneous stack targets the nearest stack whose top card
// matches its own cards; everything else settles where it is and joins the
// overlap physics. Candidates being dragged, seeking themselves, or running a
// recipe are skipped so auto-stacking never disturbs work in progress.
func (e *Engine) findHomingTargets() {
	cardSize := geom.Vec2{X: e.cfg.Card.Width, Y: e.cfg.Card.Height}
	radius := cardSize.Length() * e.cfg.Homing.SearchRadiusFactor

	for _, sid := range e.Board.StackIDs() {
		seeker := e.Board.Stack(sid)
		if !seeker.Seeking || seeker.Drag != nil {
			continue
		}
		seeker.Seeking = false

		wanted := e.Board.Card(seeker.BottomCard())
		if wanted == nil || !e.homogeneous(seeker.Cards, wanted.TypeID) {
			seeker.Physics = true
			continue
		}

		found := false
		for _, tid := range e.Board.StackIDs() {
			if tid == sid {
				continue
			}
			cand := e.Board.Stack(tid)
			if cand.Seeking || cand.Drag != nil || cand.Recipe != nil {
				continue
			}
			top := e.Board.Card(cand.TopCard())
			if top == nil || top.TypeID != wanted.TypeID {
				continue
			}
			slot, _ := e.Board.NextSlotCenter(tid)
			if slot.Sub(seeker.Pos).Length() < radius {
				seeker.Target = tid
				found = true
				break
			}
		}
		if !found {
			seeker.Physics = true
		}
	}
}

func (e *Engine) homogeneous(cards []card.ID, want card.TypeID) bool {
	for _, cid := range cards {
		c := e.Board.Card(cid)
		if c == nil || c.TypeID != want {
			return false
		}
	}
	return true
}

// moveHomingStacks glides targeting stacks towards their target's next card
// slot and merges on arrival. A vanished target drops the stack back into
// the overlap physics.
func (e *Engine) moveHomingStacks(dt float64) {
	for _, sid := range e.Board.StackIDs() {
		st := e.Board.Stack(sid)
		if st.Target == "" || st.Drag != nil {
			continue
		}

		dest, ok := e.Board.NextSlotCenter(st.Target)
		if !ok {
			st.Target = ""
			st.Physics = true
			continue
		}

		delta := dest.Sub(st.Pos)
		step := e.cfg.Homing.Speed * dt
		if delta.Length() == 0 || delta.Length() <= step {
			target := st.Target
			st.Target = ""
			e.Board.Merge(sid, target)
			e.record(telemetry.EventStackMerged, telemetry.EventMetadata{
				"source": string(sid),
				"target": string(target),
			})
			continue
		}

		st.Pos = st.Pos.Add(delta.Normalize().Mul(step))
		st.Z = e.cfg.Stack.AutoMoveZ
	}
}

// nudgeOverlaps pushes overlapping physics stacks apart, a capped distance
// per tick. Each stack claims its visual footprint plus the overlap margin;
// the resolution moves both stacks of a pair by equal and opposite amounts.
func (e *Engine) nudgeOverlaps(dt float64) {
	ids := e.Board.StackIDs()
	active := ids[:0]
	for _, id := range ids {
		st := e.Board.Stack(id)
		if st.Physics && st.Drag == nil {
			active = append(active, id)
		}
	}

	margin := geom.Vec2{X: e.cfg.Physics.OverlapMargin, Y: e.cfg.Physics.OverlapMargin}
	maxStep := e.cfg.Physics.OverlapSpeed * dt

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			s1 := e.Board.Stack(active[i])
			s2 := e.Board.Stack(active[j])

			size1 := e.Board.VisualSize(s1.Size()).Add(margin)
			center1 := s1.Pos
			center1.Y -= 0.5 * float64(s1.Size()) * e.cfg.Stack.Spacing

			size2 := e.Board.VisualSize(s2.Size()).Add(margin)
			center2 := s2.Pos
			center2.Y -= 0.5 * float64(s2.Size()) * e.cfg.Stack.Spacing

			movement, overlapping := geom.OverlapResolution(center1, size1, center2, size2)
			if !overlapping {
				continue
			}
			if movement.Length() > maxStep {
				movement = movement.Normalize().Mul(maxStep)
			}
			s1.Pos = s1.Pos.Add(movement)
			s2.Pos = s2.Pos.Sub(movement)
		}
	}
}
