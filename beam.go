package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/timekit"
)

// beamBehavior is a stationary capsule that damages every contained target on
// every frame it exists. There is no hit memory: standing in the beam for its
// whole lifetime takes damage each frame.
type beamBehavior struct {
	spec  catalog.BeamSpec
	shape geom.Capsule
	life  *timekit.Timer
}

func (e *Engine) spawnBeam(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spec := *spell.Beam
	dir := e.aimDirection(c.Direction, 0)
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindBeam,
		SpellID:  spell.ID,
		Element:  spell.Element,
		CasterID: c.CasterID,
		Damage:   c.Damage,
		Position: c.Origin,
		behavior: &beamBehavior{
			spec: spec,
			shape: geom.Capsule{
				Segment: geom.SegmentFrom(c.Origin, dir, spec.Length),
				Radius:  spec.HalfWidth,
			},
			life: timekit.NewOnce(time.Duration(spec.LifetimeSeconds * float64(time.Second))),
		},
	}
	e.addEffect(ctx, eff)
	return []string{eff.ID}
}

func (b *beamBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	b.life.Advance(delta)
	if b.life.Finished() {
		eff.end(ctx, eng, endReasonExpired)
		return
	}
	for _, mover := range eng.movers.Movers() {
		if mover.ID() == eff.CasterID {
			continue
		}
		if !b.shape.Contains(mover.Position()) {
			continue
		}
		eng.dealDamage(ctx, eff.ID, mover.ID(), eff.Damage, eff.Element, false)
	}
}
