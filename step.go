package engine

import (
	"context"
	"time"

	"spellstorm/engine/status"
)

// Advance runs one simulation frame. The passes are ordered so that every
// effect advances its own clocks before resolving collisions, zone ownership
// is reconciled before statuses tick, and deaths reported during the frame are
// collected before any fragment they spawn can be observed.
func (e *Engine) Advance(ctx context.Context, delta time.Duration) {
	if e == nil {
		return
	}
	if delta < 0 {
		delta = 0
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e.tick++
	e.stepCtx = ctx

	// Live effects step in spawn order. Effects spawned during the pass
	// (bursts, echo replays) first step next frame.
	live := e.effects
	for _, eff := range live {
		if eff.ended {
			continue
		}
		eff.behavior.Step(ctx, e, eff, delta)
	}

	// Reclaim status ownership from zones destroyed without exit transitions.
	e.statuses.SweepOrphaned(status.KindVulnerability, e.zoneAlive)

	e.statuses.Advance(delta)
	e.advanceEchoes(ctx, delta)
	e.resolveDeaths(ctx)
	e.pruneEffects()
	e.stepCtx = context.Background()
}
