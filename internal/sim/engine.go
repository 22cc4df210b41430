// Package sim ties the board, the recipe machine, and the movement systems
// together into a tickable simulation. Pointer input and pack opens are
// queued between ticks and applied at the start of the next one, so a tick
// always sees a consistent ordering: input, pack opens, recipe work, homing
// movement, overlap nudging.
package sim

import (
	"github.com/charmbracelet/log"

	"thestacks/internal/board"
	"thestacks/internal/card"
	"thestacks/internal/config"
	"thestacks/internal/geom"
	"thestacks/internal/recipe"
	"thestacks/internal/telemetry"
)

// Speed is the simulation speed multiplier.
type Speed int

const (
	Normal Speed = iota
	Double
	Triple
)

// Factor returns the time multiplier for the speed.
func (s Speed) Factor() float64 {
	switch s {
	case Double:
		return 2
	case Triple:
		return 3
	default:
		return 1
	}
}

// TimeSpeed is the player-controlled game clock: paused or running at one of
// the fixed speeds. Instant recipes ignore it; timed recipes scale by it.
type TimeSpeed struct {
	Running bool
	Speed   Speed
}

// Factor returns the effective time multiplier, zero while paused.
func (t TimeSpeed) Factor() float64 {
	if !t.Running {
		return 0
	}
	return t.Speed.Factor()
}

// Engine is the simulation core. It owns the board and the recipe machine
// and advances them tick by tick.
type Engine struct {
	Board   *board.State
	Recipes *recipe.Registry
	Machine *recipe.Machine
	Time    TimeSpeed

	// Events receives a record of everything notable the engine does.
	// Optional; nil disables recording.
	Events telemetry.Repository

	cfg *config.Config
	log *log.Logger

	clock    float64
	pointer  geom.Vec2
	dragging board.StackID

	pressed   []card.ID
	released  bool
	packOpens []card.ID
}

// New creates an engine with an empty board. The clock starts running at
// normal speed.
func New(cfg *config.Config, types map[card.TypeID]card.Type, reg *recipe.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Board:   board.New(types, cfg),
		Recipes: reg,
		Machine: recipe.NewMachine(reg),
		Time:    TimeSpeed{Running: true, Speed: Normal},
		cfg:     cfg,
		log:     logger,
	}
}

// Spawn creates a stack on the board and records it.
func (e *Engine) Spawn(pos geom.Vec2, typeID card.TypeID, count int) board.StackID {
	id := e.Board.SpawnStack(pos, typeID, count)
	if id != "" {
		e.record(telemetry.EventStackSpawned, telemetry.EventMetadata{
			"stack": string(id),
			"type":  string(typeID),
			"cards": count,
		})
	}
	return id
}

// SpawnStarterBoard places the fixed system cards and the starting hand.
func (e *Engine) SpawnStarterBoard() {
	topRow := geom.Vec2{Y: 400}
	e.Spawn(topRow, card.TypeMarket, 1)
	e.Spawn(topRow, card.TypeBuyForestPack, 1)

	e.Spawn(geom.Vec2{}, card.TypeTree, 3)
	e.Spawn(geom.Vec2{}, card.TypeVillager, 2)
	e.Spawn(geom.Vec2{}, card.TypeCoin, 3)
	e.Spawn(geom.Vec2{}, card.TypeClayPatch, 5)
}

// PointerMoved updates the pointer's world position.
func (e *Engine) PointerMoved(pos geom.Vec2) { e.pointer = pos }

// PointerPressed queues a press on the given card for the next tick.
func (e *Engine) PointerPressed(id card.ID) { e.pressed = append(e.pressed, id) }

// PointerReleased queues dropping the held stack on the next tick.
func (e *Engine) PointerReleased() { e.released = true }

// OpenPack queues drawing one card from a card pack on the next tick.
func (e *Engine) OpenPack(id card.ID) { e.packOpens = append(e.packOpens, id) }

// Dragging returns the stack currently held by the pointer, if any.
func (e *Engine) Dragging() (board.StackID, bool) {
	return e.dragging, e.dragging != ""
}

// Tick advances the simulation by dt seconds of wall time.
func (e *Engine) Tick(dt float64) {
	e.clock += dt

	e.applyInput()
	e.openQueuedPacks()

	e.Machine.Detect(e.Board)
	e.Machine.Advance(e.Board, dt, e.Time.Factor())
	for _, f := range e.Machine.Complete(e.Board) {
		e.log.Debug("recipe finished", "recipe", f.Recipe, "stack", f.Stack)
		e.record(telemetry.EventRecipeFinished, telemetry.EventMetadata{
			"recipe": string(f.Recipe),
			"stack":  string(f.Stack),
		})
	}

	e.findHomingTargets()
	e.moveHomingStacks(dt)
	e.nudgeOverlaps(dt)
}

func (e *Engine) record(t telemetry.EventType, meta telemetry.EventMetadata) {
	if e.Events == nil {
		return
	}
	_ = e.Events.RecordEvent(e.clock, t, meta)
}

func (e *Engine) applyInput() {
	if e.released {
		e.released = false
		e.drop()
	}
	for _, id := range e.pressed {
		e.pickUp(id)
	}
	e.pressed = nil

	if st := e.Board.Stack(e.dragging); st != nil && st.Drag != nil {
		st.Pos = e.pointer.Sub(st.Drag.Offset)
		st.Z = e.cfg.Stack.DragZ
	} else {
		e.dragging = ""
	}
}

// Hovered returns the topmost card under the pointer. While a stack is held,
// its bottom card counts as hovered.
func (e *Engine) Hovered() (card.ID, bool) {
	if st := e.Board.Stack(e.dragging); st != nil {
		return st.BottomCard(), true
	}

	size := geom.Vec2{X: e.cfg.Card.Width, Y: e.cfg.Card.Height}
	var (
		best  card.ID
		bestZ float64
		found bool
	)
	for _, sid := range e.Board.StackIDs() {
		for _, cid := range e.Board.Stack(sid).Cards {
			pos, z, ok := e.Board.CardWorldPos(cid)
			if !ok {
				continue
			}
			if _, in := geom.PointInBounds(size, pos, 1, e.pointer); !in {
				continue
			}
			if !found || z > bestZ {
				best, bestZ, found = cid, z, true
			}
		}
	}
	return best, found
}

// OngoingRecipe returns the recipe running on a stack and its remaining time.
func (e *Engine) OngoingRecipe(id board.StackID) (recipe.ID, float64, bool) {
	return e.Machine.Ongoing(e.Board, id)
}
