package status_effects

import (
	"context"

	"spellstorm/engine/logging"
)

const (
	// EventApplied is emitted when a status effect instance is created on a target.
	EventApplied logging.EventType = "status_effects.applied"
	// EventRefreshed is emitted when re-application resets an existing instance.
	EventRefreshed logging.EventType = "status_effects.refreshed"
	// EventStacked is emitted when a stacking counter gains a stack.
	EventStacked logging.EventType = "status_effects.stacked"
	// EventExpired is emitted when an instance is removed.
	EventExpired logging.EventType = "status_effects.expired"
)

// AppliedPayload captures details about a status effect application.
type AppliedPayload struct {
	StatusEffect string  `json:"statusEffect"`
	SourceID     string  `json:"sourceId,omitempty"`
	Magnitude    float64 `json:"magnitude,omitempty"`
	DurationMs   int64   `json:"durationMs,omitempty"`
}

// StackedPayload records the stack count after an increment.
type StackedPayload struct {
	StatusEffect string `json:"statusEffect"`
	Stacks       int    `json:"stacks"`
}

// Applied publishes a status effect application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, source, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventApplied, tick, source, target, payload, logging.SeverityInfo)
}

// Refreshed publishes a refresh event.
func Refreshed(ctx context.Context, pub logging.Publisher, tick uint64, source, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventRefreshed, tick, source, target, payload, logging.SeverityDebug)
}

// Stacked publishes a stack increment event.
func Stacked(ctx context.Context, pub logging.Publisher, tick uint64, source, target logging.EntityRef, payload StackedPayload) {
	publish(ctx, pub, EventStacked, tick, source, target, payload, logging.SeverityDebug)
}

// Expired publishes an instance removal event.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, statusEffect string) {
	publish(ctx, pub, EventExpired, tick, logging.EntityRef{}, target, map[string]string{"statusEffect": statusEffect}, logging.SeverityDebug)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor, target logging.EntityRef, payload any, severity logging.Severity) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: severity,
		Category: logging.CategoryStatusEffects,
		Payload:  payload,
	})
}
