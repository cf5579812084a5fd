package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
	"spellstorm/engine/logging"
	logspells "spellstorm/engine/logging/spells"
)

// ErrUnknownSpell is returned when a cast names an id missing from the
// resolved catalog.
var ErrUnknownSpell = errors.New("engine: unknown spell")

// Cast describes one cast request. Families read the fields they need: a
// projectile or beam follows Direction from Origin, a zone or storm is placed
// at Target, a chain seeks TargetID first. Damage is the caster's rolled base
// damage for this cast.
type Cast struct {
	SpellID   string
	CasterID  string
	Origin    geom.Vec2
	Direction geom.Vec2
	Target    geom.Vec2
	TargetID  string
	Damage    float64
}

// spawnFunc materialises the effects for one delivery family. Both the cast
// path and echo replay resolve families through the same table, so a replay
// supports exactly what a cast does.
type spawnFunc func(ctx context.Context, spell catalog.Spell, c Cast) []string

func (e *Engine) spawnFuncs() map[catalog.Family]spawnFunc {
	return map[catalog.Family]spawnFunc{
		catalog.FamilyProjectile: e.spawnProjectile,
		catalog.FamilyBeam:       e.spawnBeam,
		catalog.FamilyWave:       e.spawnWave,
		catalog.FamilyZone:       e.spawnZone,
		catalog.FamilyChain:      e.spawnChain,
		catalog.FamilyStorm:      e.spawnStorm,
	}
}

// Cast resolves a spell id and spawns its effects, returning the new effect
// ids. Non-echo casts become the caster's replayable record; echo casts arm a
// replay of that record instead of spawning anything themselves.
func (e *Engine) Cast(ctx context.Context, c Cast) ([]string, error) {
	spell, ok := e.resolver.Spell(c.SpellID)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSpell, c.SpellID)
	}

	logspells.Cast(ctx, e.pub, e.tick,
		logging.EntityRef{ID: c.CasterID, Kind: logging.EntityKindCaster},
		logspells.CastPayload{Spell: spell.ID, Damage: c.Damage, Element: string(spell.Element)},
	)

	if spell.Family == catalog.FamilyEcho {
		e.armEcho(ctx, spell, c)
		return nil, nil
	}

	ids := e.spawnFamily(ctx, spell, c)
	if c.CasterID != "" {
		e.lastCasts[c.CasterID] = c
	}
	return ids, nil
}

// LastCast returns the caster's most recent non-echo cast, if any.
func (e *Engine) LastCast(casterID string) (Cast, bool) {
	c, ok := e.lastCasts[casterID]
	return c, ok
}

func (e *Engine) spawnFamily(ctx context.Context, spell catalog.Spell, c Cast) []string {
	spawn, ok := e.spawnFuncs()[spell.Family]
	if !ok {
		logspells.EchoSkipped(ctx, e.pub, e.tick,
			logging.EntityRef{ID: c.CasterID, Kind: logging.EntityKindCaster}, spell.ID)
		return nil
	}
	return spawn(ctx, spell, c)
}

// aimDirection normalizes the cast direction and applies the spell's random
// spread. A zero direction aims along +X.
func (e *Engine) aimDirection(dir geom.Vec2, spreadDegrees float64) geom.Vec2 {
	if dir.Length() == 0 {
		dir = geom.Vec2{X: 1}
	}
	dir = dir.Normalize()
	if spreadDegrees <= 0 {
		return dir
	}
	jitter := (e.rng.Float64() - 0.5) * spreadDegrees * math.Pi / 180
	sin, cos := math.Sin(jitter), math.Cos(jitter)
	return geom.Vec2{
		X: dir.X*cos - dir.Y*sin,
		Y: dir.X*sin + dir.Y*cos,
	}
}

// placement prefers the explicit target point, falling back to the origin.
func placement(c Cast) geom.Vec2 {
	if c.Target != (geom.Vec2{}) {
		return c.Target
	}
	return c.Origin
}
