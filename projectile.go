package engine

import (
	"context"
	"math"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/timekit"
)

// projectileBehavior moves in a straight line and resolves on contact. A
// piercing projectile passes through targets, damaging each at most once; a
// plain projectile ends on its first hit.
type projectileBehavior struct {
	spec     catalog.ProjectileSpec
	velocity geom.Vec2
	life     *timekit.Timer
	hit      map[string]struct{}
}

func (e *Engine) spawnProjectile(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spec := *spell.Projectile
	dir := e.aimDirection(c.Direction, spec.SpreadAngleDegrees)
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindProjectile,
		SpellID:  spell.ID,
		Element:  spell.Element,
		CasterID: c.CasterID,
		Damage:   c.Damage,
		Position: c.Origin,
		behavior: &projectileBehavior{
			spec:     spec,
			velocity: dir.Scale(spec.Speed),
			life:     timekit.NewOnce(time.Duration(spec.LifetimeSeconds * float64(time.Second))),
			hit:      make(map[string]struct{}),
		},
	}
	e.addEffect(ctx, eff)
	return []string{eff.ID}
}

func (b *projectileBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	b.life.Advance(delta)
	eff.Position = eff.Position.Add(b.velocity.Scale(delta.Seconds()))
	if b.life.Finished() {
		b.burst(ctx, eng, eff)
		eff.end(ctx, eng, endReasonExpired)
		return
	}

	reach := geom.Circle{Center: eff.Position, Radius: b.spec.CollisionRadius}
	for _, mover := range eng.movers.Movers() {
		if mover.ID() == eff.CasterID {
			continue
		}
		if _, seen := b.hit[mover.ID()]; seen {
			continue
		}
		if !reach.Contains(mover.Position()) {
			continue
		}
		b.hit[mover.ID()] = struct{}{}
		b.resolveHit(ctx, eng, eff, mover)
		if !b.spec.Pierce {
			b.burst(ctx, eng, eff)
			eff.end(ctx, eng, endReasonImpact)
			return
		}
	}
}

func (b *projectileBehavior) resolveHit(ctx context.Context, eng *Engine, eff *effectState, target Mover) {
	amount := eff.Damage
	execute := false
	if spec := b.spec.Execute; spec != nil && target.HealthFraction() < spec.ThresholdFraction {
		amount *= spec.Multiplier
		execute = true
	}
	eng.dealDamage(ctx, eff.ID, target.ID(), amount, eff.Element, execute)
	if b.spec.MarkFracture {
		eng.MarkFractured(target.ID())
	}
	eng.applyTemplate(ctx, b.spec.Status, target.ID(), eff.ID, eff.Damage)
}

// burst scatters puddle zones around the projectile's end point. Fires on both
// impact and timeout so a glob that hits nothing still leaves its puddles.
func (b *projectileBehavior) burst(ctx context.Context, eng *Engine, eff *effectState) {
	spec := b.spec.Burst
	if spec == nil || eff.ended {
		return
	}
	count := spec.MinPuddles
	if spec.MaxPuddles > spec.MinPuddles {
		count += eng.rng.Intn(spec.MaxPuddles - spec.MinPuddles + 1)
	}
	for i := 0; i < count; i++ {
		angle := eng.rng.Float64() * 2 * math.Pi
		radius := eng.rng.Float64() * spec.SpreadRadius
		at := eff.Position.Add(geom.Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius})
		eng.spawnZoneAt(ctx, eff.SpellID, eff.Element, eff.CasterID, eff.Damage, at, spec.Puddle)
	}
}
