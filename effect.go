package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/logging"
	logspells "spellstorm/engine/logging/spells"
)

// EffectKind identifies the delivery family of a live effect.
type EffectKind string

const (
	EffectKindProjectile EffectKind = "projectile"
	EffectKindBeam       EffectKind = "beam"
	EffectKindWave       EffectKind = "wave"
	EffectKindZone       EffectKind = "zone"
	EffectKindChain      EffectKind = "chain"
	EffectKindStorm      EffectKind = "storm"
)

// End reasons recorded on effect teardown.
const (
	endReasonExpired   = "expired"
	endReasonImpact    = "impact"
	endReasonExhausted = "exhausted"
	endReasonOrphaned  = "orphaned"
)

// effectBehavior advances one live effect by a frame. Implementations advance
// their own clocks before resolving any collision for the frame.
type effectBehavior interface {
	Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration)
}

// effectState is the shared envelope around every live effect. Family-specific
// state lives on the behavior.
type effectState struct {
	ID       string
	Kind     EffectKind
	SpellID  string
	Element  catalog.Element
	CasterID string
	Damage   float64
	Position geom.Vec2

	behavior effectBehavior

	ended     bool
	endReason string
}

// end tears the effect down once. Repeat calls are no-ops so a frame that both
// expires and collides cannot double-report.
func (eff *effectState) end(ctx context.Context, eng *Engine, reason string) {
	if eff == nil || eff.ended {
		return
	}
	eff.ended = true
	eff.endReason = reason
	logspells.EffectEnded(ctx, eng.pub, eng.tick,
		logging.EntityRef{ID: eff.ID, Kind: logging.EntityKindEffect},
		logspells.EffectEndedPayload{Kind: string(eff.Kind), Reason: reason},
	)
}

// addEffect registers a new live effect and reports its spawn.
func (e *Engine) addEffect(ctx context.Context, eff *effectState) {
	e.effects = append(e.effects, eff)
	logspells.EffectSpawned(ctx, e.pub, e.tick,
		logging.EntityRef{ID: eff.ID, Kind: logging.EntityKindEffect},
		logspells.EffectSpawnedPayload{Kind: string(eff.Kind), Spell: eff.SpellID},
	)
}

// EffectSnapshot is a read-only view of one live effect, exposed for
// observers and tests.
type EffectSnapshot struct {
	ID       string          `json:"id"`
	Kind     EffectKind      `json:"kind"`
	SpellID  string          `json:"spell"`
	Element  catalog.Element `json:"element"`
	CasterID string          `json:"casterId,omitempty"`
	Position geom.Vec2       `json:"position"`
}

// EffectSnapshots returns a snapshot of every live effect in spawn order.
func (e *Engine) EffectSnapshots() []EffectSnapshot {
	out := make([]EffectSnapshot, 0, len(e.effects))
	for _, eff := range e.effects {
		if eff.ended {
			continue
		}
		out = append(out, EffectSnapshot{
			ID:       eff.ID,
			Kind:     eff.Kind,
			SpellID:  eff.SpellID,
			Element:  eff.Element,
			CasterID: eff.CasterID,
			Position: eff.Position,
		})
	}
	return out
}

// effectByID returns the live effect with the given id, or nil.
func (e *Engine) effectByID(id string) *effectState {
	for _, eff := range e.effects {
		if eff.ID == id && !eff.ended {
			return eff
		}
	}
	return nil
}

// pruneEffects compacts the live list, dropping ended effects. Runs at the end
// of the frame so every pass this frame saw a stable list.
func (e *Engine) pruneEffects() {
	filtered := e.effects[:0]
	for _, eff := range e.effects {
		if eff.ended {
			continue
		}
		filtered = append(filtered, eff)
	}
	for i := len(filtered); i < len(e.effects); i++ {
		e.effects[i] = nil
	}
	e.effects = filtered
}
