package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"spellstorm/engine/catalog"
	"spellstorm/engine/geom"
)

func castChain(t *testing.T, eng *Engine, targetID string, damage float64) {
	t.Helper()
	if _, err := eng.Cast(context.Background(), Cast{
		SpellID:  catalog.SpellIDChainLightning,
		CasterID: "caster",
		Origin:   geom.Vec2{},
		TargetID: targetID,
		Damage:   damage,
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
}

func TestChainDamageDecaysPerJump(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{
		{id: "a", pos: geom.Vec2{}, health: 1},
		{id: "b", pos: geom.Vec2{X: 3}, health: 1},
		{id: "c", pos: geom.Vec2{X: 6}, health: 1},
		{id: "d", pos: geom.Vec2{X: 9}, health: 1},
		{id: "e", pos: geom.Vec2{X: 12}, health: 1},
	}}
	eng := newTestEngine(t, world, nil)
	castChain(t, eng, "a", 100)

	advanceFor(eng, time.Second, 100*time.Millisecond)

	// The initial hit is undecayed; each of the four jumps decays by 0.8.
	want := []float64{100, 80, 64, 51.2, 40.96}
	if len(world.dealt) != len(want) {
		t.Fatalf("expected %d hits, got %d: %+v", len(want), len(world.dealt), world.dealt)
	}
	for i, rec := range world.dealt {
		if math.Abs(rec.amount-want[i]) > 1e-9 {
			t.Fatalf("hit %d damage = %v, want %v", i, rec.amount, want[i])
		}
	}
	if len(eng.EffectSnapshots()) != 0 {
		t.Fatal("bolt should despawn once its jump budget is spent")
	}
}

func TestChainNeverRevisitsTargets(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{
		{id: "a", pos: geom.Vec2{}, health: 1},
		{id: "b", pos: geom.Vec2{X: 3}, health: 1},
	}}
	eng := newTestEngine(t, world, nil)
	castChain(t, eng, "a", 100)

	advanceFor(eng, time.Second, 100*time.Millisecond)

	if len(world.dealt) != 2 {
		t.Fatalf("two targets means two hits, got %d: %+v", len(world.dealt), world.dealt)
	}
	if world.dealt[0].target != "a" || world.dealt[1].target != "b" {
		t.Fatalf("unexpected hit order: %+v", world.dealt)
	}
	if len(eng.EffectSnapshots()) != 0 {
		t.Fatal("bolt should despawn when no unvisited target remains in range")
	}
}

func TestChainSelectsNearestInRange(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{
		{id: "a", pos: geom.Vec2{}, health: 1},
		{id: "b", pos: geom.Vec2{X: 3}, health: 1},
		{id: "c", pos: geom.Vec2{X: 100}, health: 1},
	}}
	eng := newTestEngine(t, world, nil)
	castChain(t, eng, "a", 100)

	advanceFor(eng, time.Second, 100*time.Millisecond)

	if len(world.dealt) != 2 {
		t.Fatalf("expected hits on a and b only, got %+v", world.dealt)
	}
	if world.dealt[1].target != "b" {
		t.Fatalf("second hit should pick the in-range target, got %q", world.dealt[1].target)
	}
	if math.Abs(world.dealt[1].amount-80) > 1e-9 {
		t.Fatalf("second hit damage = %v, want 80", world.dealt[1].amount)
	}
	for _, rec := range world.dealt {
		if rec.target == "c" {
			t.Fatal("out-of-range target must never be hit")
		}
	}
}

func TestChainRetargetsWhenTargetDiesInFlight(t *testing.T) {
	world := &fakeWorld{movers: []*fakeMover{
		{id: "a", pos: geom.Vec2{X: 6}, health: 1},
		{id: "b", pos: geom.Vec2{X: 2}, health: 1},
	}}
	eng := newTestEngine(t, world, nil)
	castChain(t, eng, "a", 100)
	ctx := context.Background()

	// First frame: the bolt flies toward a but does not arrive.
	eng.Advance(ctx, 50*time.Millisecond)
	if len(world.dealt) != 0 {
		t.Fatalf("bolt should still be in flight, got %+v", world.dealt)
	}

	world.remove("a")
	advanceFor(eng, time.Second, 100*time.Millisecond)

	if len(world.dealt) != 1 {
		t.Fatalf("expected the surviving target to be hit, got %+v", world.dealt)
	}
	if world.dealt[0].target != "b" {
		t.Fatalf("hit %q, want b", world.dealt[0].target)
	}
}
