// Package engine resolves spells and status effects for a real-time action
// game. The host owns actors, health, and movement; the engine owns live
// effects, the status ledger, and death reactions, and reports damage back
// through intents. All entry points are single-threaded: the host drives one
// Advance per frame from its simulation loop.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"spellstorm/engine/catalog"
	"spellstorm/engine/death"
	"spellstorm/engine/geom"
	"spellstorm/engine/logging"
	logdeaths "spellstorm/engine/logging/deaths"
	logspells "spellstorm/engine/logging/spells"
	logstatus "spellstorm/engine/logging/status_effects"
	"spellstorm/engine/status"
)

// Status tuning shared by every spell that applies the kind.
const (
	poisonDamagePerStack = 3.0
	poisonMaxStacks      = 5
	poisonTickInterval   = 500 * time.Millisecond
	poisonDuration       = 4 * time.Second

	burnTickInterval = 500 * time.Millisecond
	burnDuration     = 3 * time.Second

	slowDuration = 2 * time.Second
)

// Mover is the engine's view of a live actor. Implementations are provided by
// the host; the registry must only return actors that are still alive.
type Mover interface {
	ID() string
	Position() geom.Vec2
	HealthFraction() float64
}

// MoverRegistry resolves actor ids to movers and enumerates the living set.
type MoverRegistry interface {
	Mover(id string) (Mover, bool)
	Movers() []Mover
}

// DamageBus receives damage intents. The engine never mutates health itself;
// the host applies intents and reports resulting deaths via OnDeath.
type DamageBus interface {
	EmitDamage(targetID string, amount float64, element catalog.Element)
}

// DamageBusFunc adapts a function to the DamageBus interface.
type DamageBusFunc func(targetID string, amount float64, element catalog.Element)

func (f DamageBusFunc) EmitDamage(targetID string, amount float64, element catalog.Element) {
	if f == nil {
		return
	}
	f(targetID, amount, element)
}

// Config carries engine construction options.
type Config struct {
	// Seed drives fragment counts, puddle scatter, and aim spread.
	Seed int64
	// CatalogPaths lists authored spell files merged over the built-ins.
	CatalogPaths []string
	// Publisher receives lifecycle events. Nil disables logging.
	Publisher logging.Publisher
}

// DefaultConfig returns the baseline engine configuration.
func DefaultConfig() Config {
	return Config{
		Seed:         1,
		CatalogPaths: catalog.DefaultPaths(),
	}
}

// Engine is the spell resolution core.
type Engine struct {
	cfg      Config
	movers   MoverRegistry
	damage   DamageBus
	spawner  death.Spawner
	resolver *catalog.Resolver
	statuses *status.Ledger
	deaths   *death.Dispatcher
	pub      logging.Publisher
	rng      *rand.Rand

	tick    uint64
	stepCtx context.Context

	effects   []*effectState
	echoes    []*echoState
	lastCasts map[string]Cast
	fractured map[string]struct{}
	fragments map[string]struct{}
}

// New builds an engine over the host's actor registry and damage bus. The
// spawner materialises fracture fragments; pass nil when the host never uses
// fracture effects.
func New(cfg Config, movers MoverRegistry, damage DamageBus, spawner death.Spawner) (*Engine, error) {
	if movers == nil {
		return nil, fmt.Errorf("engine: mover registry is required")
	}
	if damage == nil {
		return nil, fmt.Errorf("engine: damage bus is required")
	}
	resolver, err := catalog.Load(cfg.CatalogPaths...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		movers:    movers,
		damage:    damage,
		spawner:   spawner,
		resolver:  resolver,
		deaths:    death.NewDispatcher(rand.New(rand.NewSource(cfg.Seed))),
		pub:       cfg.Publisher,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		stepCtx:   context.Background(),
		lastCasts: make(map[string]Cast),
		fractured: make(map[string]struct{}),
		fragments: make(map[string]struct{}),
	}
	e.statuses = status.NewLedger(e.statusDefinitions())
	return e, nil
}

// Tick returns the number of completed Advance calls.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Catalog exposes the resolved spell table, primarily for tooling and tests.
func (e *Engine) Catalog() *catalog.Resolver {
	return e.resolver
}

// Statuses exposes the status ledger for host-side queries such as movement
// speed multipliers.
func (e *Engine) Statuses() *status.Ledger {
	return e.statuses
}

func (e *Engine) statusDefinitions() []*status.Definition {
	return []*status.Definition{
		{
			Kind:     status.KindSlow,
			Shape:    status.ShapeRefreshable,
			Duration: slowDuration,
			OnExpire: e.logStatusExpired,
		},
		{
			Kind:         status.KindBurn,
			Shape:        status.ShapeRefreshable,
			Duration:     burnDuration,
			TickInterval: burnTickInterval,
			OnTick: func(targetID string, inst *status.Instance) {
				e.dealDamage(e.stepCtx, inst.SourceID, targetID, inst.Magnitude, catalog.ElementFire, false)
			},
			OnExpire: e.logStatusExpired,
		},
		{
			Kind:     status.KindVulnerability,
			Shape:    status.ShapeMultiSource,
			OnExpire: e.logStatusExpired,
		},
		{
			Kind:         status.KindPoison,
			Shape:        status.ShapeStacking,
			Duration:     poisonDuration,
			TickInterval: poisonTickInterval,
			MaxStacks:    poisonMaxStacks,
			OnTick: func(targetID string, inst *status.Instance) {
				e.dealDamage(e.stepCtx, inst.SourceID, targetID, poisonDamagePerStack*float64(inst.Stacks), catalog.ElementPoison, false)
			},
			OnExpire: e.logStatusExpired,
		},
	}
}

func (e *Engine) logStatusExpired(targetID string, inst *status.Instance) {
	kind := ""
	if inst != nil && inst.Definition != nil {
		kind = string(inst.Definition.Kind)
	}
	logstatus.Expired(e.stepCtx, e.pub, e.tick,
		logging.EntityRef{ID: targetID, Kind: logging.EntityKindTarget}, kind)
}

// dealDamage applies the target's vulnerability multiplier and emits the
// resulting intent. The execute flag only annotates the log event.
func (e *Engine) dealDamage(ctx context.Context, sourceID, targetID string, amount float64, element catalog.Element, execute bool) {
	if targetID == "" || amount <= 0 {
		return
	}
	if inst := e.statuses.Get(targetID, status.KindVulnerability); inst != nil && inst.Magnitude > 0 {
		amount *= inst.Magnitude
	}
	e.damage.EmitDamage(targetID, amount, element)
	logspells.Damage(ctx, e.pub, e.tick,
		logging.EntityRef{ID: sourceID, Kind: logging.EntityKindEffect},
		logging.EntityRef{ID: targetID, Kind: logging.EntityKindTarget},
		logspells.DamagePayload{Amount: amount, Element: string(element), Execute: execute},
	)
}

// applyTemplate resolves one status template against a target. sourceID is the
// applying effect's id; it becomes the owner for multi-source kinds and the
// attributed source for DOT ticks.
func (e *Engine) applyTemplate(ctx context.Context, tmpl *catalog.StatusTemplate, targetID, sourceID string, damage float64) {
	if tmpl == nil || targetID == "" {
		return
	}
	def := e.statuses.Definition(tmpl.Kind)
	if def == nil {
		return
	}
	magnitude := tmpl.Magnitude
	if tmpl.ScaleWithDamage {
		magnitude *= damage
	}
	duration := time.Duration(tmpl.DurationSeconds * float64(time.Second))
	source := logging.EntityRef{ID: sourceID, Kind: logging.EntityKindEffect}
	target := logging.EntityRef{ID: targetID, Kind: logging.EntityKindTarget}

	switch def.Shape {
	case status.ShapeRefreshable:
		created := e.statuses.ApplyRefreshable(targetID, tmpl.Kind, magnitude, duration)
		if inst := e.statuses.Get(targetID, tmpl.Kind); inst != nil {
			inst.SourceID = sourceID
		}
		payload := logstatus.AppliedPayload{
			StatusEffect: string(tmpl.Kind),
			SourceID:     sourceID,
			Magnitude:    magnitude,
			DurationMs:   duration.Milliseconds(),
		}
		if created {
			logstatus.Applied(ctx, e.pub, e.tick, source, target, payload)
		} else {
			logstatus.Refreshed(ctx, e.pub, e.tick, source, target, payload)
		}
	case status.ShapeMultiSource:
		created := e.statuses.ApplyMultiSource(targetID, tmpl.Kind, magnitude, sourceID)
		if created {
			logstatus.Applied(ctx, e.pub, e.tick, source, target, logstatus.AppliedPayload{
				StatusEffect: string(tmpl.Kind),
				SourceID:     sourceID,
				Magnitude:    magnitude,
			})
		}
	case status.ShapeStacking:
		stacks := e.statuses.AddStack(targetID, tmpl.Kind)
		if inst := e.statuses.Get(targetID, tmpl.Kind); inst != nil {
			inst.SourceID = sourceID
		}
		logstatus.Stacked(ctx, e.pub, e.tick, source, target, logstatus.StackedPayload{
			StatusEffect: string(tmpl.Kind),
			Stacks:       stacks,
		})
	}
}

// OnDeath records a host-reported death for this frame's reaction passes. The
// engine annotates the notification with its own fracture and fragment
// markers, then releases every status held by the dead entity.
func (e *Engine) OnDeath(note death.Notification) {
	if e == nil || note.EntityID == "" {
		return
	}
	if _, ok := e.fractured[note.EntityID]; ok {
		note.Fractured = true
	}
	if _, ok := e.fragments[note.EntityID]; ok {
		note.Fragment = true
	}
	delete(e.fractured, note.EntityID)
	delete(e.fragments, note.EntityID)
	e.statuses.DropTarget(note.EntityID)
	e.deaths.OnDeath(note)
}

// MarkFractured flags a target so its death splits it into fragments.
func (e *Engine) MarkFractured(targetID string) {
	if targetID == "" {
		return
	}
	e.fractured[targetID] = struct{}{}
}

// IsFractured reports whether the target carries the fracture marker.
func (e *Engine) IsFractured(targetID string) bool {
	_, ok := e.fractured[targetID]
	return ok
}

func (e *Engine) resolveDeaths(ctx context.Context) {
	reactions := e.deaths.Collect()
	for _, reaction := range reactions {
		logdeaths.ReactionQueued(ctx, e.pub, e.tick,
			logging.EntityRef{ID: reaction.OriginID, Kind: logging.EntityKindTarget},
			logdeaths.ReactionPayload{
				FragmentCount: reaction.FragmentCount,
				Level:         reaction.Level,
				Health:        reaction.Health,
				Strength:      reaction.Strength,
			},
		)
	}
	if e.spawner == nil {
		e.deaths.Spawn(death.SpawnerFunc(func(death.FragmentSpec) string { return "" }))
		return
	}
	for i, ids := range e.deaths.Spawn(e.spawner) {
		refs := make([]logging.EntityRef, 0, len(ids))
		for _, id := range ids {
			e.fragments[id] = struct{}{}
			refs = append(refs, logging.EntityRef{ID: id, Kind: logging.EntityKindFragment})
		}
		origin := logging.EntityRef{Kind: logging.EntityKindTarget}
		if i < len(reactions) {
			origin.ID = reactions[i].OriginID
		}
		logdeaths.FragmentsSpawned(ctx, e.pub, e.tick, origin, refs)
	}
}

// zoneAlive reports whether the effect id still names a live effect. Used by
// the orphan sweep to reclaim status ownership from destroyed zones.
func (e *Engine) zoneAlive(sourceID string) bool {
	return e.effectByID(sourceID) != nil
}

func (e *Engine) newEffectID() string {
	return uuid.NewString()
}
