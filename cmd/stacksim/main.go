// Command stacksim runs the card simulation headless: it sets up the starter
// board, plays a short scripted session (chopping trees, selling, buying and
// opening a card pack), and prints what happened.
package main

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"thestacks/internal/board"
	"thestacks/internal/card"
	"thestacks/internal/config"
	"thestacks/internal/recipe"
	"thestacks/internal/sim"
	"thestacks/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		seconds    float64
		dt         float64
		speed      int
		verbose    bool
	)

	root := &cobra.Command{
		Use:          "stacksim",
		Short:        "Headless run of the card stacking simulation",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})

			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}

			reg, err := recipe.Default()
			if err != nil {
				return fmt.Errorf("build recipes: %w", err)
			}

			e := sim.New(cfg, card.Builtin(), reg, logger)
			e.Events = telemetry.NewMemoryRepository()
			switch speed {
			case 2:
				e.Time.Speed = sim.Double
			case 3:
				e.Time.Speed = sim.Triple
			}

			e.SpawnStarterBoard()
			e.Tick(dt)

			playSession(e, dt)

			for t := 0.0; t < seconds; t += dt {
				e.Tick(dt)
			}

			return report(e, logger)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().Float64Var(&seconds, "seconds", 30, "how long to run after the scripted session")
	root.Flags().Float64Var(&dt, "dt", 1.0/60, "tick length in seconds")
	root.Flags().IntVar(&speed, "speed", 1, "game speed (1, 2 or 3)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return root.Execute()
}

// playSession drives the engine through the basic loop: a villager chops
// trees, the coins buy a forest pack, and the pack gets opened.
func playSession(e *sim.Engine, dt float64) {
	trees := findStack(e.Board, card.TypeTree)
	villagers := findStack(e.Board, card.TypeVillager)
	coins := findStack(e.Board, card.TypeCoin)
	buy := findStack(e.Board, card.TypeBuyForestPack)

	// One villager onto the trees starts the chopping recipe.
	if trees != "" && villagers != "" {
		top := e.Board.Stack(villagers).TopCard()
		dragOnto(e, top, trees, dt)
	}

	// All coins onto the buy card purchases a pack.
	if coins != "" && buy != "" {
		bottom := e.Board.Stack(coins).BottomCard()
		dragOnto(e, bottom, buy, dt)
		e.Tick(dt)
	}

	// Open the pack until it is spent.
	for i := 0; i < 3; i++ {
		pack := findStack(e.Board, card.TypeForestPack)
		if pack == "" {
			break
		}
		e.OpenPack(e.Board.Stack(pack).BottomCard())
		e.Tick(dt)
	}
}

// dragOnto picks up the given card and drops it on the target's landing zone.
func dragOnto(e *sim.Engine, id card.ID, target board.StackID, dt float64) {
	pos, _, ok := e.Board.CardWorldPos(id)
	if !ok {
		return
	}
	e.PointerMoved(pos)
	e.PointerPressed(id)
	e.Tick(dt)

	slot, ok := e.Board.NextSlotCenter(target)
	if !ok {
		return
	}
	e.PointerMoved(slot)
	e.PointerReleased()
	e.Tick(dt)
}

// findStack returns a stack whose bottom card has the given type.
func findStack(b *board.State, t card.TypeID) board.StackID {
	for _, id := range b.StackIDs() {
		if c := b.Card(b.Stack(id).BottomCard()); c != nil && c.IsType(t) {
			return id
		}
	}
	return ""
}

func report(e *sim.Engine, logger *charmlog.Logger) error {
	events, err := e.Events.GetEvents(nil)
	if err != nil {
		return err
	}
	stats, err := telemetry.CalculateStats(events)
	if err != nil {
		return err
	}

	cards := 0
	for _, id := range e.Board.StackIDs() {
		cards += e.Board.Stack(id).Size()
	}

	logger.Info("session finished",
		"duration", fmt.Sprintf("%.1fs", stats.Duration),
		"stacks", len(e.Board.StackIDs()),
		"cards", cards,
		"merges", stats.Merges,
		"splits", stats.Splits,
		"packs_opened", stats.PackOpens,
	)
	for id, n := range stats.RecipeRuns {
		logger.Info("recipe runs", "recipe", id, "count", n)
	}
	for id, n := range stats.CardsDrawn {
		logger.Info("pack draws", "card", id, "count", n)
	}
	return nil
}
