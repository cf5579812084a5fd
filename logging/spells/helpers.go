package spells

import (
	"context"

	"spellstorm/engine/logging"
)

const (
	// EventCast is emitted when a cast entry point spawns one or more effects.
	EventCast logging.EventType = "spells.cast"
	// EventEffectSpawned is emitted for each effect instance entering the world.
	EventEffectSpawned logging.EventType = "spells.effect_spawned"
	// EventEffectEnded is emitted when an effect instance leaves the world.
	EventEffectEnded logging.EventType = "spells.effect_ended"
	// EventDamage is emitted when an effect produces a damage intent.
	EventDamage logging.EventType = "spells.damage"
	// EventEchoSkipped is emitted when a replay request names an unregistered spell.
	EventEchoSkipped logging.EventType = "spells.echo_skipped"
)

// CastPayload captures details about a spell cast.
type CastPayload struct {
	Spell   string  `json:"spell"`
	Damage  float64 `json:"damage"`
	Element string  `json:"element,omitempty"`
}

// EffectSpawnedPayload records a new effect instance entering the world.
type EffectSpawnedPayload struct {
	Kind  string `json:"kind"`
	Spell string `json:"spell"`
}

// EffectEndedPayload records why an effect instance ended.
type EffectEndedPayload struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// DamagePayload captures a single damage intent.
type DamagePayload struct {
	Amount  float64 `json:"amount"`
	Element string  `json:"element,omitempty"`
	Execute bool    `json:"execute,omitempty"`
}

// Cast publishes a spell cast event.
func Cast(ctx context.Context, pub logging.Publisher, tick uint64, caster logging.EntityRef, payload CastPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCast,
		Tick:     tick,
		Actor:    caster,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySpells,
		Payload:  payload,
	})
}

// EffectSpawned publishes an effect lifecycle start event.
func EffectSpawned(ctx context.Context, pub logging.Publisher, tick uint64, effect logging.EntityRef, payload EffectSpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEffectSpawned,
		Tick:     tick,
		Actor:    effect,
		Severity: logging.SeverityDebug,
		Category: logging.CategorySpells,
		Payload:  payload,
	})
}

// EffectEnded publishes an effect lifecycle end event.
func EffectEnded(ctx context.Context, pub logging.Publisher, tick uint64, effect logging.EntityRef, payload EffectEndedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEffectEnded,
		Tick:     tick,
		Actor:    effect,
		Severity: logging.SeverityDebug,
		Category: logging.CategorySpells,
		Payload:  payload,
	})
}

// Damage publishes a damage intent event.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, effect logging.EntityRef, target logging.EntityRef, payload DamagePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    effect,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySpells,
		Payload:  payload,
	})
}

// EchoSkipped publishes a no-op replay event for unregistered spell kinds.
func EchoSkipped(ctx context.Context, pub logging.Publisher, tick uint64, caster logging.EntityRef, spell string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEchoSkipped,
		Tick:     tick,
		Actor:    caster,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySpells,
		Payload:  map[string]string{"spell": spell},
	})
}
