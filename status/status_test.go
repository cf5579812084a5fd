package status

import (
	"testing"
	"time"
)

func testDefinitions(onPoisonTick TickHandler) []*Definition {
	return []*Definition{
		{Kind: KindSlow, Shape: ShapeRefreshable, Duration: 2 * time.Second},
		{Kind: KindVulnerability, Shape: ShapeMultiSource},
		{
			Kind:         KindPoison,
			Shape:        ShapeStacking,
			Duration:     4 * time.Second,
			TickInterval: 500 * time.Millisecond,
			MaxStacks:    5,
			OnTick:       onPoisonTick,
		},
	}
}

func TestRefreshableReapplicationResetsCountdown(t *testing.T) {
	ledger := NewLedger(testDefinitions(nil))

	if created := ledger.ApplyRefreshable("enemy-1", KindSlow, 0.5, 2*time.Second); !created {
		t.Fatal("first application should create the instance")
	}
	ledger.Advance(1500 * time.Millisecond)
	if ledger.Get("enemy-1", KindSlow) == nil {
		t.Fatal("slow should still be active after 1.5s of 2s")
	}

	if created := ledger.ApplyRefreshable("enemy-1", KindSlow, 0.5, 2*time.Second); created {
		t.Fatal("re-application must refresh, not create a second instance")
	}
	ledger.Advance(1500 * time.Millisecond)
	if ledger.Get("enemy-1", KindSlow) == nil {
		t.Fatal("refresh should have restarted the countdown")
	}
	ledger.Advance(600 * time.Millisecond)
	if ledger.Get("enemy-1", KindSlow) != nil {
		t.Fatal("slow should expire after the refreshed duration elapses")
	}
}

func TestRefreshableReplacesMagnitude(t *testing.T) {
	ledger := NewLedger(testDefinitions(nil))
	ledger.ApplyRefreshable("enemy-1", KindSlow, 0.5, time.Second)
	ledger.ApplyRefreshable("enemy-1", KindSlow, 0.6, time.Second)

	inst := ledger.Get("enemy-1", KindSlow)
	if inst == nil {
		t.Fatal("expected instance")
	}
	if inst.Magnitude != 0.6 {
		t.Fatalf("magnitude should be replaced, got %v", inst.Magnitude)
	}
}

func TestMultiSourceUnionAndRemoval(t *testing.T) {
	ledger := NewLedger(testDefinitions(nil))

	if created := ledger.ApplyMultiSource("enemy-1", KindVulnerability, 1.5, "zone-a"); !created {
		t.Fatal("first zone should create the instance")
	}
	if created := ledger.ApplyMultiSource("enemy-1", KindVulnerability, 1.2, "zone-b"); created {
		t.Fatal("second zone should join the existing instance")
	}

	inst := ledger.Get("enemy-1", KindVulnerability)
	if inst == nil {
		t.Fatal("expected instance")
	}
	if len(inst.Sources) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(inst.Sources))
	}
	if inst.Magnitude != 1.5 {
		t.Fatalf("magnitude should be the max across sources, got %v", inst.Magnitude)
	}

	ledger.RemoveSource("enemy-1", KindVulnerability, "zone-a")
	inst = ledger.Get("enemy-1", KindVulnerability)
	if inst == nil {
		t.Fatal("instance must survive while one owner remains")
	}
	if len(inst.Sources) != 1 {
		t.Fatalf("expected 1 owner, got %d", len(inst.Sources))
	}

	ledger.RemoveSource("enemy-1", KindVulnerability, "zone-b")
	if ledger.Get("enemy-1", KindVulnerability) != nil {
		t.Fatal("instance must be removed once the owner set empties")
	}
}

func TestSweepOrphanedDropsDeadZones(t *testing.T) {
	ledger := NewLedger(testDefinitions(nil))
	ledger.ApplyMultiSource("enemy-1", KindVulnerability, 1.5, "zone-a")
	ledger.ApplyMultiSource("enemy-1", KindVulnerability, 1.5, "zone-b")
	ledger.ApplyMultiSource("enemy-2", KindVulnerability, 1.5, "zone-a")

	ledger.SweepOrphaned(KindVulnerability, func(sourceID string) bool {
		return sourceID == "zone-b"
	})

	if inst := ledger.Get("enemy-1", KindVulnerability); inst == nil || len(inst.Sources) != 1 {
		t.Fatalf("enemy-1 should keep only the live zone, got %+v", inst)
	}
	if ledger.Get("enemy-2", KindVulnerability) != nil {
		t.Fatal("enemy-2 lost its only owner and must lose the instance")
	}
}

func TestPoisonStacksSaturateAndRefresh(t *testing.T) {
	ledger := NewLedger(testDefinitions(nil))

	for i := 0; i < 7; i++ {
		ledger.AddStack("enemy-1", KindPoison)
	}
	inst := ledger.Get("enemy-1", KindPoison)
	if inst == nil {
		t.Fatal("expected poison instance")
	}
	if inst.Stacks != 5 {
		t.Fatalf("stacks should saturate at 5, got %d", inst.Stacks)
	}

	ledger.Advance(3 * time.Second)
	if ledger.Get("enemy-1", KindPoison) == nil {
		t.Fatal("poison should persist before its duration elapses")
	}
	ledger.AddStack("enemy-1", KindPoison)
	ledger.Advance(3 * time.Second)
	if ledger.Get("enemy-1", KindPoison) == nil {
		t.Fatal("adding a stack must refresh the duration")
	}
	ledger.Advance(1500 * time.Millisecond)
	if ledger.Get("enemy-1", KindPoison) != nil {
		t.Fatal("poison should expire after its refreshed duration")
	}
}

func TestPoisonTickHandlerFiresPerInterval(t *testing.T) {
	var ticks []int
	ledger := NewLedger(testDefinitions(func(targetID string, inst *Instance) {
		if targetID != "enemy-1" {
			t.Fatalf("unexpected target %s", targetID)
		}
		ticks = append(ticks, inst.Stacks)
	}))

	ledger.AddStack("enemy-1", KindPoison)
	ledger.AddStack("enemy-1", KindPoison)

	for i := 0; i < 4; i++ {
		ledger.Advance(500 * time.Millisecond)
	}
	if len(ticks) != 4 {
		t.Fatalf("expected 4 poison ticks over 2s at 0.5s interval, got %d", len(ticks))
	}
	for _, stacks := range ticks {
		if stacks != 2 {
			t.Fatalf("tick should observe 2 stacks, got %d", stacks)
		}
	}
}

func TestZeroDurationInstanceExpiresCleanly(t *testing.T) {
	ledger := NewLedger([]*Definition{
		{Kind: KindSlow, Shape: ShapeRefreshable, Duration: 0},
	})
	ledger.ApplyRefreshable("enemy-1", KindSlow, 0.5, 0)
	ledger.Advance(time.Millisecond)
	if ledger.Get("enemy-1", KindSlow) != nil {
		t.Fatal("zero-duration instance should be removed on the next advance")
	}
}

func TestDropTargetRunsExpireHandlers(t *testing.T) {
	expired := 0
	defs := testDefinitions(nil)
	defs[0].OnExpire = func(string, *Instance) { expired++ }
	ledger := NewLedger(defs)

	ledger.ApplyRefreshable("enemy-1", KindSlow, 0.5, time.Second)
	ledger.ApplyMultiSource("enemy-1", KindVulnerability, 1.5, "zone-a")
	ledger.DropTarget("enemy-1")

	if len(ledger.ActiveKinds("enemy-1")) != 0 {
		t.Fatal("all instances should be gone")
	}
	if expired != 1 {
		t.Fatalf("expected slow expire handler to run once, got %d", expired)
	}
}
