package sim

import (
	"fmt"
	"hash/fnv"

	"thestacks/internal/card"
	"thestacks/internal/telemetry"
)

// openQueuedPacks draws one card from each pack queued since the last tick.
// The draw is a pure function of the configured seed, the pack card's ID,
// and how many draws it has left, so the same session always opens the same
// cards. A pack with no draws left deletes itself.
func (e *Engine) openQueuedPacks() {
	opens := e.packOpens
	e.packOpens = nil

	for _, cid := range opens {
		c := e.Board.Card(cid)
		if c == nil || c.Category != card.CardPack {
			continue
		}
		t, ok := e.Board.Types[c.TypeID]
		if !ok || t.Pack == nil || len(t.Pack.Options) == 0 {
			continue
		}
		sid, ok := e.Board.StackOf(cid)
		if !ok {
			continue
		}
		st := e.Board.Stack(sid)

		if c.PackRemaining > 0 {
			pick := t.Pack.Options[e.roll(cid, c.PackRemaining, len(t.Pack.Options))]
			e.Board.SpawnStack(st.Pos, pick, 1)
			c.PackRemaining--
			e.log.Debug("opened pack", "card", cid, "drew", pick, "remaining", c.PackRemaining)
			e.record(telemetry.EventPackOpened, telemetry.EventMetadata{
				"card":      string(cid),
				"drew":      string(pick),
				"remaining": c.PackRemaining,
			})
		}

		if c.PackRemaining == 0 {
			e.Board.DeleteCards(sid, []card.ID{cid})
		}
	}
}

func (e *Engine) roll(id card.ID, remaining, n int) int {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s:%d", e.cfg.Seed, id, remaining)
	return int(h.Sum64() % uint64(n))
}
