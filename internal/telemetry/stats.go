package telemetry

import (
	"encoding/json"
)

type Stats struct {
	Duration        float64           `json:"duration"`
	EventCounts     map[EventType]int `json:"event_counts"`
	Merges          int               `json:"merges"`
	Splits          int               `json:"splits"`
	PackOpens       int               `json:"pack_opens"`
	RecipesFinished int               `json:"recipes_finished"`
	RecipeRuns      map[string]int    `json:"recipe_runs"`
	CardsDrawn      map[string]int    `json:"cards_drawn"`
}

// CalculateStats computes session stats from events
func CalculateStats(events []Event) (Stats, error) {
	stats := Stats{
		EventCounts: make(map[EventType]int),
		RecipeRuns:  make(map[string]int),
		CardsDrawn:  make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++
		if event.Time > stats.Duration {
			stats.Duration = event.Time
		}

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventStackMerged:
			stats.Merges++
		case EventStackSplit:
			stats.Splits++
		case EventPackOpened:
			stats.PackOpens++
			if drew, ok := metadata["drew"].(string); ok {
				stats.CardsDrawn[drew]++
			}
		case EventRecipeFinished:
			stats.RecipesFinished++
			if recipe, ok := metadata["recipe"].(string); ok {
				stats.RecipeRuns[recipe]++
			}
		}
	}

	return stats, nil
}
