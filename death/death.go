// Package death turns "entity died" notifications into fragmentation spawns.
// Collection and spawning are two ordered passes within the same tick so a
// fragment spawned this tick is never visible to the pass that produced it.
package death

import (
	"math/rand"

	"spellstorm/engine/geom"
)

// EntityType distinguishes reaction-eligible categories in death notifications.
type EntityType string

const (
	EntityTypeCaster     EntityType = "caster"
	EntityTypeEnemy      EntityType = "enemy"
	EntityTypeFragment   EntityType = "fragment"
	EntityTypeProjectile EntityType = "projectile"
)

// Default fragmentation tuning.
const (
	FragmentMinCount           = 2
	FragmentMaxCount           = 3
	FragmentHealthMultiplier   = 0.3
	FragmentStrengthMultiplier = 0.5
	FragmentScaleMultiplier    = 0.5
	FragmentSpawnOffset        = 1.0
)

// Notification describes a death observed by the engine.
type Notification struct {
	EntityID string
	Position geom.Vec2
	Type     EntityType

	// Fractured marks entities carrying the fracture debuff; only these react.
	Fractured bool
	// Fragment marks entities that are themselves reaction products. They
	// never react again, which bounds the recursion.
	Fragment bool

	Level    int
	Health   float64
	Strength float64
}

// Reaction is the internal event between the collect and spawn passes.
type Reaction struct {
	OriginID      string
	Position      geom.Vec2
	FragmentCount int
	Level         int
	Health        float64
	Strength      float64
}

// FragmentSpec describes one secondary entity to materialise.
type FragmentSpec struct {
	OriginID string
	Position geom.Vec2
	Level    int
	Health   float64
	Strength float64
	Scale    float64
}

// Spawner materialises fragments in the host world and returns their ids.
type Spawner interface {
	SpawnFragment(spec FragmentSpec) string
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(spec FragmentSpec) string

func (f SpawnerFunc) SpawnFragment(spec FragmentSpec) string {
	if f == nil {
		return ""
	}
	return f(spec)
}

// Dispatcher buffers death notifications and resolves them into fragment
// spawns. It is single-threaded like the rest of the simulation.
type Dispatcher struct {
	rng      *rand.Rand
	incoming []Notification
	pending  []Reaction
}

// NewDispatcher builds a dispatcher over the provided random source.
func NewDispatcher(rng *rand.Rand) *Dispatcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Dispatcher{rng: rng}
}

// OnDeath records a notification for the next collect pass.
func (d *Dispatcher) OnDeath(note Notification) {
	if d == nil || note.EntityID == "" {
		return
	}
	d.incoming = append(d.incoming, note)
}

// Collect drains buffered notifications into reactions. Fragments and
// non-fractured entities are dropped here; everything else rolls a fragment
// count in [FragmentMinCount, FragmentMaxCount].
func (d *Dispatcher) Collect() []Reaction {
	if d == nil {
		return nil
	}
	notes := d.incoming
	d.incoming = nil
	for _, note := range notes {
		if !note.Fractured || note.Fragment || note.Type == EntityTypeFragment {
			continue
		}
		count := FragmentMinCount + d.rng.Intn(FragmentMaxCount-FragmentMinCount+1)
		d.pending = append(d.pending, Reaction{
			OriginID:      note.EntityID,
			Position:      note.Position,
			FragmentCount: count,
			Level:         note.Level,
			Health:        note.Health,
			Strength:      note.Strength,
		})
	}
	return d.pending
}

// Spawn consumes pending reactions, materialising fragments through the
// spawner with the fixed fractional multipliers and a small randomized offset
// around the death position. Returns the spawned fragment ids grouped by
// reaction.
func (d *Dispatcher) Spawn(spawner Spawner) [][]string {
	if d == nil || spawner == nil {
		return nil
	}
	reactions := d.pending
	d.pending = nil
	spawned := make([][]string, 0, len(reactions))
	for _, reaction := range reactions {
		ids := make([]string, 0, reaction.FragmentCount)
		for i := 0; i < reaction.FragmentCount; i++ {
			offset := geom.Vec2{
				X: (d.rng.Float64()*2 - 1) * FragmentSpawnOffset,
				Y: (d.rng.Float64()*2 - 1) * FragmentSpawnOffset,
			}
			id := spawner.SpawnFragment(FragmentSpec{
				OriginID: reaction.OriginID,
				Position: reaction.Position.Add(offset),
				Level:    reaction.Level,
				Health:   reaction.Health * FragmentHealthMultiplier,
				Strength: reaction.Strength * FragmentStrengthMultiplier,
				Scale:    FragmentScaleMultiplier,
			})
			if id != "" {
				ids = append(ids, id)
			}
		}
		spawned = append(spawned, ids)
	}
	return spawned
}
