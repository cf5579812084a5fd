package deaths

import (
	"context"

	"spellstorm/engine/logging"
)

const (
	// EventReactionQueued is emitted when a death notification schedules a
	// fragmentation reaction.
	EventReactionQueued logging.EventType = "deaths.reaction_queued"
	// EventFragmentsSpawned is emitted after the spawn pass materialises fragments.
	EventFragmentsSpawned logging.EventType = "deaths.fragments_spawned"
)

// ReactionPayload captures the reaction parameters derived from the dying entity.
type ReactionPayload struct {
	FragmentCount int     `json:"fragmentCount"`
	Level         int     `json:"level"`
	Health        float64 `json:"health"`
	Strength      float64 `json:"strength"`
}

// ReactionQueued publishes the collect-pass event.
func ReactionQueued(ctx context.Context, pub logging.Publisher, tick uint64, dying logging.EntityRef, payload ReactionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReactionQueued,
		Tick:     tick,
		Actor:    dying,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDeaths,
		Payload:  payload,
	})
}

// FragmentsSpawned publishes the spawn-pass event with the new fragment ids.
func FragmentsSpawned(ctx context.Context, pub logging.Publisher, tick uint64, origin logging.EntityRef, fragments []logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFragmentsSpawned,
		Tick:     tick,
		Actor:    origin,
		Targets:  fragments,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDeaths,
	})
}
