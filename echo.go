package engine

import (
	"context"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/internal/timekit"
	"spellstorm/engine/logging"
	logspells "spellstorm/engine/logging/spells"
)

// echoState replays a caster's recorded cast at reduced power on a fixed
// cadence. Echoes never overwrite the record and never replay other echoes,
// so a replay chain cannot recurse.
type echoState struct {
	casterID   string
	record     Cast
	spell      catalog.Spell
	multiplier float64
	remaining  int
	delay      *timekit.Timer
	life       *timekit.Timer
}

// armEcho captures the caster's last non-echo cast for replay. Casters with no
// replayable record get a logged no-op instead of an error, matching how a
// wasted cast plays out in game.
func (e *Engine) armEcho(ctx context.Context, spell catalog.Spell, c Cast) {
	spec := spell.Echo
	record, ok := e.lastCasts[c.CasterID]
	if !ok {
		logspells.EchoSkipped(ctx, e.pub, e.tick,
			logging.EntityRef{ID: c.CasterID, Kind: logging.EntityKindCaster}, spell.ID)
		return
	}
	recorded, ok := e.resolver.Spell(record.SpellID)
	if !ok || recorded.Family == catalog.FamilyEcho {
		logspells.EchoSkipped(ctx, e.pub, e.tick,
			logging.EntityRef{ID: c.CasterID, Kind: logging.EntityKindCaster}, record.SpellID)
		return
	}

	e.echoes = append(e.echoes, &echoState{
		casterID:   c.CasterID,
		record:     record,
		spell:      recorded,
		multiplier: spec.DamageMultiplier,
		remaining:  spec.Echoes,
		delay:      timekit.NewRepeating(time.Duration(spec.DelaySeconds * float64(time.Second))),
		life:       timekit.NewOnce(time.Duration(spec.DurationSeconds * float64(time.Second))),
	})
}

// advanceEchoes fires due replays and drops spent echo states. Each replay is
// a fresh spawn of the recorded cast at the echo's damage fraction; it does
// not touch the caster's record.
func (e *Engine) advanceEchoes(ctx context.Context, delta time.Duration) {
	filtered := e.echoes[:0]
	for _, echo := range e.echoes {
		echo.life.Advance(delta)
		echo.delay.Advance(delta)
		if echo.delay.JustFinished() {
			fires := echo.delay.Completions()
			for i := 0; i < fires && echo.remaining > 0; i++ {
				replay := echo.record
				replay.Damage *= echo.multiplier
				e.spawnFamily(ctx, echo.spell, replay)
				echo.remaining--
			}
		}
		if echo.remaining <= 0 || echo.life.Finished() {
			continue
		}
		filtered = append(filtered, echo)
	}
	for i := len(filtered); i < len(e.echoes); i++ {
		e.echoes[i] = nil
	}
	e.echoes = filtered
}
