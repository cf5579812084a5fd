package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/death"
	"spellstorm/engine/geom"
	"spellstorm/engine/status"
)

type fakeMover struct {
	id     string
	pos    geom.Vec2
	health float64
}

func (m *fakeMover) ID() string              { return m.id }
func (m *fakeMover) Position() geom.Vec2     { return m.pos }
func (m *fakeMover) HealthFraction() float64 { return m.health }

type damageRecord struct {
	target  string
	amount  float64
	element catalog.Element
}

// fakeWorld is the host side of the engine contract for tests: a mutable
// mover registry plus a recording damage bus.
type fakeWorld struct {
	movers []*fakeMover
	dealt  []damageRecord
}

func (w *fakeWorld) Mover(id string) (Mover, bool) {
	for _, m := range w.movers {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

func (w *fakeWorld) Movers() []Mover {
	out := make([]Mover, 0, len(w.movers))
	for _, m := range w.movers {
		out = append(out, m)
	}
	return out
}

func (w *fakeWorld) EmitDamage(targetID string, amount float64, element catalog.Element) {
	w.dealt = append(w.dealt, damageRecord{target: targetID, amount: amount, element: element})
}

func (w *fakeWorld) remove(id string) {
	filtered := w.movers[:0]
	for _, m := range w.movers {
		if m.id != id {
			filtered = append(filtered, m)
		}
	}
	w.movers = filtered
}

func newTestEngine(t *testing.T, world *fakeWorld, spawner death.Spawner) *Engine {
	t.Helper()
	eng, err := New(Config{Seed: 7}, world, world, spawner)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func advanceFor(eng *Engine, total, step time.Duration) {
	ctx := context.Background()
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		eng.Advance(ctx, step)
	}
}

func TestCastUnknownSpell(t *testing.T) {
	eng := newTestEngine(t, &fakeWorld{}, nil)
	if _, err := eng.Cast(context.Background(), Cast{SpellID: "no-such-spell"}); !errors.Is(err, ErrUnknownSpell) {
		t.Fatalf("expected ErrUnknownSpell, got %v", err)
	}
}

func TestAdvanceIgnoresNegativeDelta(t *testing.T) {
	world := &fakeWorld{}
	eng := newTestEngine(t, world, nil)

	if _, err := eng.Cast(context.Background(), Cast{
		SpellID:  catalog.SpellIDIceShard,
		CasterID: "caster",
		Damage:   10,
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	// A negative delta clamps to zero: the 5s lifetime must not elapse.
	eng.Advance(context.Background(), -10*time.Second)
	if len(eng.EffectSnapshots()) != 1 {
		t.Fatal("negative delta should behave like zero, not fast-forward")
	}
}

func TestEchoReplaysLastCastAtReducedPower(t *testing.T) {
	world := &fakeWorld{}
	eng := newTestEngine(t, world, nil)
	ctx := context.Background()

	if _, err := eng.Cast(ctx, Cast{
		SpellID:   catalog.SpellIDIceShard,
		CasterID:  "caster",
		Direction: geom.Vec2{X: 1},
		Damage:    10,
	}); err != nil {
		t.Fatalf("cast shard: %v", err)
	}
	if _, err := eng.Cast(ctx, Cast{SpellID: catalog.SpellIDEchoThought, CasterID: "caster"}); err != nil {
		t.Fatalf("cast echo: %v", err)
	}

	// First echo fires at 0.5s; let the original shard fly clear first.
	eng.Advance(ctx, 500*time.Millisecond)
	if got := len(eng.EffectSnapshots()); got != 2 {
		t.Fatalf("expected original plus one replay, got %d effects", got)
	}

	world.movers = append(world.movers, &fakeMover{id: "enemy", pos: geom.Vec2{X: 0.5}, health: 1})
	eng.Advance(ctx, 16*time.Millisecond)

	if len(world.dealt) != 1 {
		t.Fatalf("expected one replay hit, got %d", len(world.dealt))
	}
	if world.dealt[0].amount != 4 {
		t.Fatalf("replay damage = %v, want 4 (0.4 of 10)", world.dealt[0].amount)
	}
}

func TestEchoWithoutRecordIsSkipped(t *testing.T) {
	world := &fakeWorld{}
	eng := newTestEngine(t, world, nil)
	ctx := context.Background()

	if _, err := eng.Cast(ctx, Cast{SpellID: catalog.SpellIDEchoThought, CasterID: "caster"}); err != nil {
		t.Fatalf("cast echo: %v", err)
	}
	advanceFor(eng, 2*time.Second, 100*time.Millisecond)

	if got := len(eng.EffectSnapshots()); got != 0 {
		t.Fatalf("nothing should spawn, got %d effects", got)
	}
	if len(world.dealt) != 0 {
		t.Fatalf("nothing should be damaged, got %d intents", len(world.dealt))
	}
}

func TestEchoNeverRecordsItself(t *testing.T) {
	world := &fakeWorld{}
	eng := newTestEngine(t, world, nil)
	ctx := context.Background()

	if _, err := eng.Cast(ctx, Cast{
		SpellID:   catalog.SpellIDIceShard,
		CasterID:  "caster",
		Direction: geom.Vec2{X: 1},
		Damage:    10,
	}); err != nil {
		t.Fatalf("cast shard: %v", err)
	}
	if _, err := eng.Cast(ctx, Cast{SpellID: catalog.SpellIDEchoThought, CasterID: "caster"}); err != nil {
		t.Fatalf("cast echo: %v", err)
	}

	// The shard, not the echo, must remain the replayable record.
	record, ok := eng.LastCast("caster")
	if !ok {
		t.Fatal("expected a recorded cast")
	}
	if record.SpellID != catalog.SpellIDIceShard {
		t.Fatalf("record = %q, want %q", record.SpellID, catalog.SpellIDIceShard)
	}
}

func TestFractureMarksTargetsAndSpawnsFragments(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{{id: "enemy", pos: geom.Vec2{X: 0.5}, health: 1}}}
	var specs []death.FragmentSpec
	spawner := death.SpawnerFunc(func(spec death.FragmentSpec) string {
		specs = append(specs, spec)
		return fmt.Sprintf("frag-%d", len(specs))
	})
	eng := newTestEngine(t, world, spawner)
	ctx := context.Background()

	if _, err := eng.Cast(ctx, Cast{
		SpellID:   catalog.SpellIDFracture,
		CasterID:  "caster",
		Direction: geom.Vec2{X: 1},
		Damage:    15,
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	eng.Advance(ctx, 16*time.Millisecond)

	if !eng.IsFractured("enemy") {
		t.Fatal("hit target should carry the fracture marker")
	}

	world.remove("enemy")
	eng.OnDeath(death.Notification{
		EntityID: "enemy",
		Position: geom.Vec2{X: 0.5},
		Type:     death.EntityTypeEnemy,
		Level:    2,
		Health:   100,
		Strength: 20,
	})
	eng.Advance(ctx, 16*time.Millisecond)

	if len(specs) < death.FragmentMinCount || len(specs) > death.FragmentMaxCount {
		t.Fatalf("spawned %d fragments, want within [%d, %d]", len(specs), death.FragmentMinCount, death.FragmentMaxCount)
	}
	for _, spec := range specs {
		if spec.Health != 100*death.FragmentHealthMultiplier {
			t.Fatalf("fragment health = %v", spec.Health)
		}
		if spec.Strength != 20*death.FragmentStrengthMultiplier {
			t.Fatalf("fragment strength = %v", spec.Strength)
		}
	}

	// Fragment deaths must not react again.
	before := len(specs)
	eng.OnDeath(death.Notification{
		EntityID: "frag-1",
		Type:     death.EntityTypeEnemy,
		Health:   30,
		Strength: 10,
	})
	eng.Advance(ctx, 16*time.Millisecond)
	if len(specs) != before {
		t.Fatalf("fragment death reacted: %d new spawns", len(specs)-before)
	}
}

func TestDeathReleasesStatuses(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{{id: "enemy", pos: geom.Vec2{X: 0.5}, health: 1}}}
	eng := newTestEngine(t, world, nil)
	ctx := context.Background()

	if _, err := eng.Cast(ctx, Cast{
		SpellID:   catalog.SpellIDIceShard,
		CasterID:  "caster",
		Direction: geom.Vec2{X: 1},
		Damage:    10,
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	eng.Advance(ctx, 16*time.Millisecond)
	if eng.Statuses().Get("enemy", status.KindSlow) == nil {
		t.Fatal("expected slow on the hit target")
	}

	world.remove("enemy")
	eng.OnDeath(death.Notification{EntityID: "enemy", Type: death.EntityTypeEnemy})
	if eng.Statuses().Get("enemy", status.KindSlow) != nil {
		t.Fatal("death must release every status instance")
	}
}
