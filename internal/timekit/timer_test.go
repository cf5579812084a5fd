package timekit

import (
	"testing"
	"time"
)

func TestOnceTimerLatchesAfterCompletion(t *testing.T) {
	timer := NewOnce(time.Second)

	timer.Advance(400 * time.Millisecond)
	if timer.Finished() || timer.JustFinished() {
		t.Fatalf("timer finished early: finished=%v justFinished=%v", timer.Finished(), timer.JustFinished())
	}

	timer.Advance(600 * time.Millisecond)
	if !timer.Finished() || !timer.JustFinished() {
		t.Fatalf("timer should complete on boundary: finished=%v justFinished=%v", timer.Finished(), timer.JustFinished())
	}

	timer.Advance(time.Second)
	if !timer.Finished() {
		t.Fatal("one-shot timer should stay finished")
	}
	if timer.JustFinished() {
		t.Fatal("justFinished must only report the crossing update")
	}
}

func TestRepeatingTimerReArms(t *testing.T) {
	timer := NewRepeating(250 * time.Millisecond)

	completions := 0
	for i := 0; i < 10; i++ {
		timer.Advance(100 * time.Millisecond)
		if timer.JustFinished() {
			completions += timer.Completions()
		}
	}
	if completions != 4 {
		t.Fatalf("expected 4 completions over 1s at 250ms interval, got %d", completions)
	}
}

func TestRepeatingTimerCountsMultipleCompletionsInOneAdvance(t *testing.T) {
	timer := NewRepeating(100 * time.Millisecond)
	timer.Advance(350 * time.Millisecond)
	if !timer.JustFinished() {
		t.Fatal("expected completion")
	}
	if got := timer.Completions(); got != 3 {
		t.Fatalf("expected 3 completions, got %d", got)
	}
	if got := timer.Fraction(); got < 0.49 || got > 0.51 {
		t.Fatalf("expected leftover fraction ~0.5, got %v", got)
	}
}

func TestFractionClampsAndZeroDuration(t *testing.T) {
	timer := NewOnce(0)
	if got := timer.Fraction(); got != 1 {
		t.Fatalf("zero-duration timer should report fraction 1, got %v", got)
	}
	timer.Advance(time.Nanosecond)
	if !timer.Finished() {
		t.Fatal("zero-duration timer should complete on first advance")
	}

	half := NewOnce(2 * time.Second)
	half.Advance(time.Second)
	if got := half.Fraction(); got != 0.5 {
		t.Fatalf("expected fraction 0.5, got %v", got)
	}
}

func TestNegativeDeltaTreatedAsZero(t *testing.T) {
	timer := NewOnce(time.Second)
	timer.Advance(-time.Second)
	if timer.Finished() {
		t.Fatal("negative delta must not advance the timer")
	}
	if got := timer.Fraction(); got != 0 {
		t.Fatalf("expected fraction 0, got %v", got)
	}
}

func TestSetDurationRestartsCountdown(t *testing.T) {
	timer := NewOnce(time.Second)
	timer.Advance(time.Second)
	if !timer.Finished() {
		t.Fatal("expected completion")
	}
	timer.SetDuration(2 * time.Second)
	if timer.Finished() {
		t.Fatal("SetDuration should rewind the timer")
	}
	timer.Advance(2 * time.Second)
	if !timer.JustFinished() {
		t.Fatal("expected completion after refreshed duration")
	}
}
