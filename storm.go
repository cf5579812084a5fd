package engine

import (
	"context"
	"math"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/timekit"
)

// droplet is one falling projectile inside a storm. It resolves against
// targets the frame its height reaches the ground.
type droplet struct {
	pos    geom.Vec2
	height float64
}

// stormBehavior rains droplets over a circular area for its duration. The
// storm stops spawning when its lifetime ends but lets airborne droplets land
// before the effect despawns.
type stormBehavior struct {
	spec     catalog.StormSpec
	life     *timekit.Timer
	spawn    *timekit.Timer
	droplets []droplet
}

func (e *Engine) spawnStorm(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spec := *spell.Storm
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindStorm,
		SpellID:  spell.ID,
		Element:  spell.Element,
		CasterID: c.CasterID,
		Damage:   c.Damage,
		Position: placement(c),
		behavior: &stormBehavior{
			spec:  spec,
			life:  timekit.NewOnce(time.Duration(spec.DurationSeconds * float64(time.Second))),
			spawn: timekit.NewRepeating(time.Duration(spec.DropletIntervalSeconds * float64(time.Second))),
		},
	}
	e.addEffect(ctx, eff)
	return []string{eff.ID}
}

func (b *stormBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	b.life.Advance(delta)
	if !b.life.Finished() {
		b.spawn.Advance(delta)
		if b.spawn.JustFinished() {
			for i := 0; i < b.spawn.Completions(); i++ {
				angle := eng.rng.Float64() * 2 * math.Pi
				radius := math.Sqrt(eng.rng.Float64()) * b.spec.Radius
				b.droplets = append(b.droplets, droplet{
					pos:    eff.Position.Add(geom.Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}),
					height: b.spec.SpawnHeight,
				})
			}
		}
	}

	fall := b.spec.FallSpeed * delta.Seconds()
	airborne := b.droplets[:0]
	for _, drop := range b.droplets {
		drop.height -= fall
		if drop.height > 0 {
			airborne = append(airborne, drop)
			continue
		}
		b.land(ctx, eng, eff, drop)
	}
	b.droplets = airborne

	if b.life.Finished() && len(b.droplets) == 0 {
		eff.end(ctx, eng, endReasonExpired)
	}
}

// land resolves one droplet against every target within its contact radius.
func (b *stormBehavior) land(ctx context.Context, eng *Engine, eff *effectState, drop droplet) {
	impact := geom.Circle{Center: drop.pos, Radius: b.spec.DropletRadius}
	amount := eff.Damage * b.spec.DropletDamageRatio
	for _, mover := range eng.movers.Movers() {
		if mover.ID() == eff.CasterID {
			continue
		}
		if !impact.Contains(mover.Position()) {
			continue
		}
		eng.dealDamage(ctx, eff.ID, mover.ID(), amount, eff.Element, false)
		eng.applyTemplate(ctx, b.spec.Status, mover.ID(), eff.ID, eff.Damage)
	}
}
