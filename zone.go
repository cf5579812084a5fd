package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/timekit"
	"spellstorm/engine/status"
)

// zoneBehavior is a stationary area with a fixed lifetime. A tick interval
// deals fractional damage to every contained target once per completed
// interval; a status template is granted on entry and revoked on exit, with
// the zone's effect id as the owning source. Stacking templates are instead
// applied per damage tick so standing in a puddle keeps building stacks.
type zoneBehavior struct {
	spec      catalog.ZoneSpec
	life      *timekit.Timer
	tick      *timekit.Timer
	occupants map[string]struct{}
}

func (e *Engine) spawnZone(ctx context.Context, spell catalog.Spell, c Cast) []string {
	id := e.spawnZoneAt(ctx, spell.ID, spell.Element, c.CasterID, c.Damage, placement(c), *spell.Zone)
	return []string{id}
}

// spawnZoneAt places a zone directly. Also used by projectile bursts, which
// spawn puddles without a cast of their own.
func (e *Engine) spawnZoneAt(ctx context.Context, spellID string, element catalog.Element, casterID string, damage float64, at geom.Vec2, spec catalog.ZoneSpec) string {
	b := &zoneBehavior{
		spec:      spec,
		life:      timekit.NewOnce(time.Duration(spec.DurationSeconds * float64(time.Second))),
		occupants: make(map[string]struct{}),
	}
	if spec.TickIntervalSeconds > 0 {
		b.tick = timekit.NewRepeating(time.Duration(spec.TickIntervalSeconds * float64(time.Second)))
	}
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindZone,
		SpellID:  spellID,
		Element:  element,
		CasterID: casterID,
		Damage:   damage,
		Position: at,
		behavior: b,
	}
	e.addEffect(ctx, eff)
	return eff.ID
}

func (b *zoneBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	b.life.Advance(delta)
	if b.tick != nil {
		b.tick.Advance(delta)
	}

	area := geom.Circle{Center: eff.Position, Radius: b.spec.Radius}
	contained := make(map[string]struct{})
	var inside []Mover
	for _, mover := range eng.movers.Movers() {
		if mover.ID() == eff.CasterID {
			continue
		}
		if !area.Contains(mover.Position()) {
			continue
		}
		contained[mover.ID()] = struct{}{}
		inside = append(inside, mover)
	}

	b.transition(ctx, eng, eff, contained)

	if b.tick != nil && b.tick.JustFinished() {
		perTick := eff.Damage * b.spec.TickDamageRatio
		for i := 0; i < b.tick.Completions(); i++ {
			for _, mover := range inside {
				if perTick > 0 {
					eng.dealDamage(ctx, eff.ID, mover.ID(), perTick, eff.Element, false)
				}
				if b.stackingTemplate(eng) {
					eng.applyTemplate(ctx, b.spec.Status, mover.ID(), eff.ID, eff.Damage)
				}
			}
		}
	}

	// A tick landing exactly on the expiry boundary still counts, so the
	// end-of-life check runs after tick resolution.
	if b.life.Finished() {
		b.revokeAll(eng, eff)
		eff.end(ctx, eng, endReasonExpired)
	}
}

// transition grants the zone's template to entering targets and revokes it
// from leaving ones. Stacking templates are excluded; they ride the tick loop.
func (b *zoneBehavior) transition(ctx context.Context, eng *Engine, eff *effectState, contained map[string]struct{}) {
	if b.spec.Status == nil || b.stackingTemplate(eng) {
		b.occupants = contained
		return
	}
	for id := range contained {
		if _, ok := b.occupants[id]; !ok {
			eng.applyTemplate(ctx, b.spec.Status, id, eff.ID, eff.Damage)
		}
	}
	for id := range b.occupants {
		if _, ok := contained[id]; !ok {
			eng.statuses.RemoveSource(id, b.spec.Status.Kind, eff.ID)
		}
	}
	b.occupants = contained
}

// revokeAll releases the zone's ownership from every current occupant. The
// per-frame orphan sweep catches anything this misses.
func (b *zoneBehavior) revokeAll(eng *Engine, eff *effectState) {
	if b.spec.Status == nil || b.stackingTemplate(eng) {
		return
	}
	for id := range b.occupants {
		eng.statuses.RemoveSource(id, b.spec.Status.Kind, eff.ID)
	}
	b.occupants = nil
}

func (b *zoneBehavior) stackingTemplate(eng *Engine) bool {
	if b.spec.Status == nil {
		return false
	}
	def := eng.statuses.Definition(b.spec.Status.Kind)
	return def != nil && def.Shape == status.ShapeStacking
}
