package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
)

// chainBehavior is a bolt that travels between targets. Each arrival deals the
// current damage; a successful jump to the nearest unvisited target within
// jump range of the hit target then decays the damage and spends one jump from
// the budget. The initial hit is free, so a budget of n yields up to n+1 hits.
// It ends when the budget is spent or no candidate remains.
type chainBehavior struct {
	spec     catalog.ChainSpec
	damage   float64
	targetID string
	visited  map[string]struct{}
	jumps    int
}

func (e *Engine) spawnChain(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spec := *spell.Chain
	targetID := c.TargetID
	if targetID == "" {
		if mover := e.nearestMover(c.Origin, spec.JumpRange, c.CasterID, nil); mover != nil {
			targetID = mover.ID()
		}
	}
	if targetID == "" {
		return nil
	}
	eff := &effectState{
		ID:       e.newEffectID(),
		Kind:     EffectKindChain,
		SpellID:  spell.ID,
		Element:  spell.Element,
		CasterID: c.CasterID,
		Damage:   c.Damage,
		Position: c.Origin,
		behavior: &chainBehavior{
			spec:     spec,
			damage:   c.Damage,
			targetID: targetID,
			visited:  make(map[string]struct{}),
			jumps:    spec.MaxJumps,
		},
	}
	e.addEffect(ctx, eff)
	return []string{eff.ID}
}

func (b *chainBehavior) Step(ctx context.Context, eng *Engine, eff *effectState, delta time.Duration) {
	target, ok := eng.movers.Mover(b.targetID)
	if !ok {
		// Current target died in flight; retarget from where the bolt is.
		if !b.retarget(eng, eff, eff.Position) {
			eff.end(ctx, eng, endReasonOrphaned)
			return
		}
		target, ok = eng.movers.Mover(b.targetID)
		if !ok {
			eff.end(ctx, eng, endReasonOrphaned)
			return
		}
	}

	toTarget := target.Position().Sub(eff.Position)
	step := b.spec.Speed * delta.Seconds()
	if dist := toTarget.Length(); dist <= step {
		eff.Position = target.Position()
	} else {
		eff.Position = eff.Position.Add(toTarget.Normalize().Scale(step))
	}

	if geom.Distance(eff.Position, target.Position()) > b.spec.ArrivalRadius {
		return
	}

	b.visited[target.ID()] = struct{}{}
	eng.dealDamage(ctx, eff.ID, target.ID(), b.damage, eff.Element, false)
	if b.jumps <= 0 || !b.retarget(eng, eff, target.Position()) {
		eff.end(ctx, eng, endReasonExhausted)
		return
	}
	b.jumps--
	b.damage *= b.spec.DamageDecay
}

// retarget picks the nearest unvisited mover within jump range of from. Ties
// keep the earlier candidate in registry order.
func (b *chainBehavior) retarget(eng *Engine, eff *effectState, from geom.Vec2) bool {
	next := eng.nearestMover(from, b.spec.JumpRange, eff.CasterID, b.visited)
	if next == nil {
		return false
	}
	b.targetID = next.ID()
	return true
}

// nearestMover finds the closest living mover to from within reach, skipping
// the excluded id and the visited set. Only a strictly smaller distance
// displaces the current best.
func (e *Engine) nearestMover(from geom.Vec2, reach float64, excludeID string, visited map[string]struct{}) Mover {
	var best Mover
	bestDist := 0.0
	for _, mover := range e.movers.Movers() {
		if mover.ID() == excludeID {
			continue
		}
		if _, seen := visited[mover.ID()]; seen {
			continue
		}
		dist := geom.Distance(from, mover.Position())
		if dist > reach {
			continue
		}
		if best == nil || dist < bestDist {
			best = mover
			bestDist = dist
		}
	}
	return best
}
