package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/timekit"
)

// waveBehavior expands a circle linearly from zero to its maximum radius,
// damaging each target at most once as the front reaches it. A wave with a
// linger phase holds the final radius before despawning, still subject to the
// once-per-target rule.
type waveBehavior struct {
	spec      catalog.WaveSpec
	expansion *timekit.Timer
	linger    *timekit.Timer
	hit       map[string]struct{}
}

func (e *Engine) spawnWave(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spec := *spell.Wave
	b := &waveBehavior{
		spec:      spec,
		expansion: timekit.NewOnce(time.Duration(spec.ExpansionSeconds * float64(time.Second))),
		hit:       make(map[string]struct{}),
	}
	if spec.LingerSeconds > 0 {
		b.linger = timekit.NewOnce(time.Duration(spec.LingerSeconds * float64(time.Second)))
	}
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindWave,
		SpellID:  spell.ID,
		Element:  spell.Element,
		CasterID: c.CasterID,
		Damage:   c.Damage,
		Position: placement(c),
		behavior: b,
	}
	e.addEffect(ctx, eff)
	return []string{eff.ID}
}

func (b *waveBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	b.expansion.Advance(delta)
	if b.expansion.Finished() {
		if b.linger == nil {
			b.collide(ctx, eng, eff, b.spec.MaxRadius)
			eff.end(ctx, eng, endReasonExpired)
			return
		}
		b.linger.Advance(delta)
		if b.linger.Finished() {
			eff.end(ctx, eng, endReasonExpired)
			return
		}
	}

	radius := b.spec.MaxRadius * b.expansion.Fraction()
	b.collide(ctx, eng, eff, radius)
}

func (b *waveBehavior) collide(ctx context.Context, eng *Engine, eff *effectState, radius float64) {
	front := geom.Circle{Center: eff.Position, Radius: radius}
	for _, mover := range eng.movers.Movers() {
		if mover.ID() == eff.CasterID {
			continue
		}
		if _, seen := b.hit[mover.ID()]; seen {
			continue
		}
		if !front.Contains(mover.Position()) {
			continue
		}
		b.hit[mover.ID()] = struct{}{}
		eng.dealDamage(ctx, eff.ID, mover.ID(), eff.Damage, eff.Element, false)
		eng.applyTemplate(ctx, b.spec.Status, mover.ID(), eff.ID, eff.Damage)
	}
}
