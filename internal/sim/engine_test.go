package sim

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thestacks/internal/card"
	"thestacks/internal/config"
	"thestacks/internal/geom"
	"thestacks/internal/recipe"
	"thestacks/internal/telemetry"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := recipe.Default()
	require.NoError(t, err)
	return New(config.Default(), card.Builtin(), reg, log.New(io.Discard))
}

func countType(e *Engine, id card.TypeID) int {
	n := 0
	for _, sid := range e.Board.StackIDs() {
		for _, cid := range e.Board.Stack(sid).Cards {
			if c := e.Board.Card(cid); c != nil && c.IsType(id) {
				n++
			}
		}
	}
	return n
}

func TestTimeSpeedFactor(t *testing.T) {
	assert.Equal(t, 0.0, TimeSpeed{}.Factor())
	assert.Equal(t, 1.0, TimeSpeed{Running: true, Speed: Normal}.Factor())
	assert.Equal(t, 2.0, TimeSpeed{Running: true, Speed: Double}.Factor())
	assert.Equal(t, 3.0, TimeSpeed{Running: true, Speed: Triple}.Factor())
}

func TestSpawnStarterBoard(t *testing.T) {
	e := newEngine(t)
	e.SpawnStarterBoard()

	assert.Equal(t, 1, countType(e, card.TypeMarket))
	assert.Equal(t, 1, countType(e, card.TypeBuyForestPack))
	assert.Equal(t, 3, countType(e, card.TypeTree))
	assert.Equal(t, 2, countType(e, card.TypeVillager))
	assert.Equal(t, 3, countType(e, card.TypeCoin))
	assert.Equal(t, 5, countType(e, card.TypeClayPatch))
}

func TestPickUpWholeStack(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{X: 10, Y: 20}, card.TypeTree, 3)
	e.Tick(0.01)

	e.PointerMoved(geom.Vec2{X: 10, Y: 20})
	e.PointerPressed(e.Board.Stack(id).BottomCard())
	e.Tick(0.01)

	dragged, ok := e.Dragging()
	require.True(t, ok)
	assert.Equal(t, id, dragged)

	st := e.Board.Stack(id)
	assert.Equal(t, 3, st.Size())
	assert.Equal(t, e.cfg.Stack.DragZ, st.Z)
	assert.False(t, st.Physics)

	// The stack follows the pointer, keeping the grab offset.
	e.PointerMoved(geom.Vec2{X: 300, Y: 400})
	e.Tick(0.01)
	assert.Equal(t, geom.Vec2{X: 300, Y: 400}, st.Pos)
}

func TestPickUpMiddleCardSplits(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 3)
	e.Tick(0.01)

	mid := e.Board.Stack(id).Cards[1]
	e.PointerMoved(geom.Vec2{Y: -50})
	e.PointerPressed(mid)
	e.Tick(0.01)

	dragged, ok := e.Dragging()
	require.True(t, ok)
	assert.NotEqual(t, id, dragged)

	assert.Equal(t, 1, e.Board.Stack(id).Size())
	held := e.Board.Stack(dragged)
	assert.Equal(t, 2, held.Size())
	assert.Equal(t, mid, held.BottomCard())
	assert.Equal(t, e.cfg.Stack.DragZ, held.Z)
}

func TestDropMergesOnLandingZone(t *testing.T) {
	e := newEngine(t)
	target := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 2)
	held := e.Board.SpawnStack(geom.Vec2{X: 600}, card.TypeTree, 1)
	e.Tick(0.01)

	e.PointerMoved(geom.Vec2{X: 600})
	e.PointerPressed(e.Board.Stack(held).BottomCard())
	e.Tick(0.01)

	// The target's next card slot is one spacing below its top card.
	e.PointerMoved(geom.Vec2{Y: -100})
	e.PointerReleased()
	e.Tick(0.01)

	assert.Nil(t, e.Board.Stack(held))
	require.NotNil(t, e.Board.Stack(target))
	assert.Equal(t, 3, e.Board.Stack(target).Size())
	_, ok := e.Dragging()
	assert.False(t, ok)
}

func TestDropAwayFromStacksSettles(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	e.Tick(0.01)

	e.PointerMoved(geom.Vec2{})
	e.PointerPressed(e.Board.Stack(id).BottomCard())
	e.Tick(0.01)
	e.PointerMoved(geom.Vec2{X: 900, Y: 900})
	e.PointerReleased()
	e.Tick(0.01)

	st := e.Board.Stack(id)
	require.NotNil(t, st)
	assert.True(t, st.Physics)
	assert.GreaterOrEqual(t, st.Z, e.cfg.Stack.ZFloor)
	assert.Less(t, st.Z, e.cfg.Stack.ZCeiling)
}

func TestDropRefusedWhenItWouldBreakRecipe(t *testing.T) {
	e := newEngine(t)

	working := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	villager := e.Board.SpawnStack(geom.Vec2{}, card.TypeVillager, 1)
	e.Board.Merge(villager, working)
	coin := e.Board.SpawnStack(geom.Vec2{X: 700}, card.TypeCoin, 1)
	e.Tick(0.01)
	require.NotNil(t, e.Board.Stack(working).Recipe)

	e.PointerMoved(geom.Vec2{X: 700})
	e.PointerPressed(e.Board.Stack(coin).BottomCard())
	e.Tick(0.01)
	e.PointerMoved(geom.Vec2{Y: -100})
	e.PointerReleased()
	e.Tick(0.01)

	// The coin did not join the crafting stack.
	require.NotNil(t, e.Board.Stack(coin))
	assert.Equal(t, 2, e.Board.Stack(working).Size())
	assert.True(t, e.Board.Stack(coin).Physics)
}

func TestExclusiveBottomStackNeverMergesOntoOthers(t *testing.T) {
	e := newEngine(t)
	market := e.Board.SpawnStack(geom.Vec2{}, card.TypeMarket, 1)
	trees := e.Board.SpawnStack(geom.Vec2{X: 600}, card.TypeTree, 1)
	e.Tick(0.01)

	e.PointerMoved(geom.Vec2{})
	e.PointerPressed(e.Board.Stack(market).BottomCard())
	e.Tick(0.01)
	// Right on the tree stack's landing zone.
	e.PointerMoved(geom.Vec2{X: 600, Y: -50})
	e.PointerReleased()
	e.Tick(0.01)

	require.NotNil(t, e.Board.Stack(market))
	assert.Equal(t, 1, e.Board.Stack(market).Size())
	assert.Equal(t, 1, e.Board.Stack(trees).Size())
}

func TestHomingMergesNearbySameType(t *testing.T) {
	e := newEngine(t)
	resting := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	e.Tick(0.01)

	spawned := e.Board.SpawnStack(geom.Vec2{X: 100}, card.TypeTree, 1)
	for i := 0; i < 10 && e.Board.Stack(spawned) != nil; i++ {
		e.Tick(0.05)
	}

	assert.Nil(t, e.Board.Stack(spawned))
	require.NotNil(t, e.Board.Stack(resting))
	assert.Equal(t, 2, e.Board.Stack(resting).Size())
}

func TestHomingIgnoresFarAndDifferentStacks(t *testing.T) {
	e := newEngine(t)
	e.Board.SpawnStack(geom.Vec2{}, card.TypeCoin, 1)
	e.Tick(0.01)

	spawned := e.Board.SpawnStack(geom.Vec2{X: 100}, card.TypeTree, 1)
	e.Tick(0.01)

	st := e.Board.Stack(spawned)
	require.NotNil(t, st)
	assert.False(t, st.Seeking)
	assert.Empty(t, st.Target)
	assert.True(t, st.Physics)
}

func TestHeterogeneousStackStopsSeeking(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	other := e.Board.SpawnStack(geom.Vec2{X: 800}, card.TypeCoin, 1)
	e.Board.Merge(other, id)

	e.Tick(0.01)

	st := e.Board.Stack(id)
	require.NotNil(t, st)
	assert.False(t, st.Seeking)
	assert.True(t, st.Physics)
}

func TestNudgeSeparatesOverlappingStacks(t *testing.T) {
	e := newEngine(t)
	a := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	b := e.Board.SpawnStack(geom.Vec2{X: 5}, card.TypeCoin, 1)

	e.Tick(0.01)

	sa := e.Board.Stack(a)
	sb := e.Board.Stack(b)
	assert.Less(t, sa.Pos.X, 0.0)
	assert.Greater(t, sb.Pos.X, 5.0)
	// Equal and opposite movement.
	assert.InDelta(t, -sa.Pos.X, sb.Pos.X-5, 1e-9)
	assert.Equal(t, 0.0, sa.Pos.Y)

	// Repeated ticks eventually separate them fully.
	for i := 0; i < 100; i++ {
		e.Tick(0.05)
	}
	assert.GreaterOrEqual(t, sb.Pos.X-sa.Pos.X, 109.9)
}

func TestOpenPackDrawsAndDeletes(t *testing.T) {
	e := newEngine(t)
	pack := e.Board.SpawnStack(geom.Vec2{}, card.TypeForestPack, 1)
	packCard := e.Board.Stack(pack).BottomCard()
	e.Tick(0.01)

	for i := 0; i < 3; i++ {
		e.OpenPack(packCard)
		e.Tick(0.01)
	}

	assert.Nil(t, e.Board.Card(packCard))
	assert.Equal(t, 0, countType(e, card.TypeForestPack))
	drawn := countType(e, card.TypeTree) + countType(e, card.TypeClay)
	assert.Equal(t, 3, drawn)

	// A spent pack ignores further opens.
	e.OpenPack(packCard)
	e.Tick(0.01)
	assert.Equal(t, 3, countType(e, card.TypeTree)+countType(e, card.TypeClay))
}

func TestOpenPackIsDeterministic(t *testing.T) {
	draw := func() []card.TypeID {
		e := newEngine(t)
		pack := e.Board.SpawnStack(geom.Vec2{}, card.TypeForestPack, 1)
		packCard := e.Board.Stack(pack).BottomCard()

		var out []card.TypeID
		for i := 0; i < 3; i++ {
			before := countType(e, card.TypeTree)
			e.OpenPack(packCard)
			e.openQueuedPacks()
			if countType(e, card.TypeTree) > before {
				out = append(out, card.TypeTree)
			} else {
				out = append(out, card.TypeClay)
			}
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}

func TestPauseStopsTimedRecipes(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	villager := e.Board.SpawnStack(geom.Vec2{X: 800}, card.TypeVillager, 1)
	e.Board.Merge(villager, id)

	e.Time.Running = false
	for i := 0; i < 50; i++ {
		e.Tick(0.1)
	}

	// Detection still happens, but the timer never moves.
	st := e.Board.Stack(id)
	require.NotNil(t, st.Recipe)
	assert.Equal(t, 0.0, st.Recipe.Elapsed)
	assert.Equal(t, 0, countType(e, card.TypeLog))

	e.Time.Running = true
	for i := 0; i < 21; i++ {
		e.Tick(0.1)
	}
	assert.Equal(t, 1, countType(e, card.TypeLog))
}

func TestInstantRecipesRunWhilePaused(t *testing.T) {
	e := newEngine(t)
	market := e.Board.SpawnStack(geom.Vec2{}, card.TypeMarket, 1)
	goods := e.Board.SpawnStack(geom.Vec2{X: 800}, card.TypePlank, 1)
	e.Board.Merge(goods, market)

	e.Time.Running = false
	e.Tick(0.1)

	assert.Equal(t, 0, countType(e, card.TypePlank))
	assert.Equal(t, 2, countType(e, card.TypeCoin))
}

func TestDoubleSpeedHalvesCraftTime(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	villager := e.Board.SpawnStack(geom.Vec2{X: 800}, card.TypeVillager, 1)
	e.Board.Merge(villager, id)

	e.Time.Speed = Double
	for i := 0; i < 11; i++ {
		e.Tick(0.1)
	}

	assert.Equal(t, 1, countType(e, card.TypeLog))
}

func TestOngoingRecipeQuery(t *testing.T) {
	e := newEngine(t)
	id := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	villager := e.Board.SpawnStack(geom.Vec2{X: 800}, card.TypeVillager, 1)
	e.Board.Merge(villager, id)

	e.Tick(0.5)

	rid, remaining, ok := e.OngoingRecipe(id)
	require.True(t, ok)
	assert.Equal(t, recipe.CuttingTree, rid)
	assert.InDelta(t, 1.5, remaining, 1e-9)
}

func TestTelemetryRecording(t *testing.T) {
	e := newEngine(t)
	e.Events = telemetry.NewMemoryRepository()

	resting := e.Spawn(geom.Vec2{}, card.TypeTree, 1)
	e.Tick(0.01)
	e.Spawn(geom.Vec2{X: 100}, card.TypeTree, 1)
	for i := 0; i < 10 && e.Board.Stack(resting).Size() < 2; i++ {
		e.Tick(0.05)
	}

	events, err := e.Events.GetEvents(nil)
	require.NoError(t, err)

	stats, err := telemetry.CalculateStats(events)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EventCounts[telemetry.EventStackSpawned])
	assert.Equal(t, 1, stats.Merges)
}

func TestHoveredPicksTopmostCard(t *testing.T) {
	e := newEngine(t)
	low := e.Board.SpawnStack(geom.Vec2{}, card.TypeTree, 1)
	high := e.Board.SpawnStack(geom.Vec2{X: 1000}, card.TypeCoin, 1)
	e.Board.Stack(low).Z = 5
	e.Board.Stack(high).Z = 50
	e.Board.Stack(high).Pos = geom.Vec2{X: 20}

	e.PointerMoved(geom.Vec2{X: 10})
	id, ok := e.Hovered()
	require.True(t, ok)
	assert.Equal(t, e.Board.Stack(high).BottomCard(), id)

	e.PointerMoved(geom.Vec2{X: 5000})
	_, ok = e.Hovered()
	assert.False(t, ok)
}
