// Package telemetry records what happens during a simulation run: stack
// movement, recipe completions, pack opens. The events feed the session
// stats shown when a run ends.
package telemetry

type EventType string

const (
	EventStackSpawned   EventType = "stack_spawned"
	EventStackPickedUp  EventType = "stack_picked_up"
	EventStackMerged    EventType = "stack_merged"
	EventStackSplit     EventType = "stack_split"
	EventRecipeFinished EventType = "recipe_finished"
	EventPackOpened     EventType = "pack_opened"
)

type Event struct {
	ID int `json:"id"`
	// Time is the simulation wall time of the event, in seconds since the
	// start of the run.
	Time     float64   `json:"time"`
	Type     EventType `json:"type"`
	Metadata string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
