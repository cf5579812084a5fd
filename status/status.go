// Package status tracks temporary modifiers attached to targets: refreshable
// timed debuffs (slow), multi-source reference-counted debuffs (vulnerability),
// and stacking DOT counters (poison). Instances live on the ledger keyed by
// target and kind; a target never holds more than one instance per kind.
package status

import (
	"time"

	"spellstorm/engine/internal/timekit"
)

// Kind identifies a status effect family.
type Kind string

const (
	KindSlow          Kind = "slow"
	KindVulnerability Kind = "vulnerability"
	KindPoison        Kind = "poison"
	KindBurn          Kind = "burn"
)

// Shape selects the bookkeeping model for a kind.
type Shape int

const (
	// ShapeRefreshable keeps one magnitude and a countdown; re-application
	// replaces the countdown rather than stacking.
	ShapeRefreshable Shape = iota
	// ShapeMultiSource keeps a set of owning source ids; the instance exists
	// iff the set is non-empty.
	ShapeMultiSource
	// ShapeStacking keeps an integer stack counter with its own tick and
	// duration clocks.
	ShapeStacking
)

// TickHandler runs on each completed tick interval of a stacking instance.
type TickHandler func(targetID string, inst *Instance)

// ExpireHandler runs when an instance is removed from the ledger.
type ExpireHandler func(targetID string, inst *Instance)

// Definition describes the fixed behavior of a status kind.
type Definition struct {
	Kind         Kind
	Shape        Shape
	Duration     time.Duration
	TickInterval time.Duration
	MaxStacks    int
	OnTick       TickHandler
	OnExpire     ExpireHandler
}

// Instance is the per-target state of one status kind.
type Instance struct {
	Definition *Definition
	Magnitude  float64
	SourceID   string

	// Sources holds the owning zone ids for multi-source instances.
	Sources map[string]struct{}

	// Stacks is the current counter for stacking instances.
	Stacks int

	duration *timekit.Timer
	tick     *timekit.Timer
}

// Remaining returns the time left before the instance expires on its own.
func (inst *Instance) Remaining() time.Duration {
	if inst == nil || inst.duration == nil {
		return 0
	}
	return inst.duration.Remaining()
}

// Ledger owns every status instance in the simulation.
type Ledger struct {
	defs      map[Kind]*Definition
	instances map[string]map[Kind]*Instance
}

// NewLedger builds a ledger over the provided definitions.
func NewLedger(defs []*Definition) *Ledger {
	byKind := make(map[Kind]*Definition, len(defs))
	for _, def := range defs {
		if def == nil || def.Kind == "" {
			continue
		}
		byKind[def.Kind] = def
	}
	return &Ledger{
		defs:      byKind,
		instances: make(map[string]map[Kind]*Instance),
	}
}

// Definition returns the registered definition for kind, if any.
func (l *Ledger) Definition(kind Kind) *Definition {
	if l == nil {
		return nil
	}
	return l.defs[kind]
}

// Get returns the instance of kind on target, or nil.
func (l *Ledger) Get(targetID string, kind Kind) *Instance {
	if l == nil {
		return nil
	}
	return l.instances[targetID][kind]
}

// ApplyRefreshable inserts or refreshes the single instance of kind on target.
// Re-application replaces the countdown and magnitude; it never stacks.
// Returns true when the instance was newly created.
func (l *Ledger) ApplyRefreshable(targetID string, kind Kind, magnitude float64, duration time.Duration) bool {
	def := l.defs[kind]
	if def == nil || def.Shape != ShapeRefreshable {
		return false
	}
	if duration <= 0 {
		duration = def.Duration
	}
	if inst := l.Get(targetID, kind); inst != nil {
		inst.Magnitude = magnitude
		inst.duration.SetDuration(duration)
		return false
	}
	inst := &Instance{
		Definition: def,
		Magnitude:  magnitude,
		duration:   timekit.NewOnce(duration),
	}
	if def.TickInterval > 0 {
		inst.tick = timekit.NewRepeating(def.TickInterval)
	}
	l.put(targetID, kind, inst)
	return true
}

// ApplyMultiSource adds sourceID as an owner of the kind instance on target,
// creating the instance if absent. Magnitude only ever grows: overlapping
// sources with differing magnitudes resolve to the maximum.
// Returns true when the instance was newly created.
func (l *Ledger) ApplyMultiSource(targetID string, kind Kind, magnitude float64, sourceID string) bool {
	def := l.defs[kind]
	if def == nil || def.Shape != ShapeMultiSource || sourceID == "" {
		return false
	}
	if inst := l.Get(targetID, kind); inst != nil {
		inst.Sources[sourceID] = struct{}{}
		if magnitude > inst.Magnitude {
			inst.Magnitude = magnitude
		}
		return false
	}
	inst := &Instance{
		Definition: def,
		Magnitude:  magnitude,
		Sources:    map[string]struct{}{sourceID: {}},
	}
	l.put(targetID, kind, inst)
	return true
}

// RemoveSource drops sourceID from the owner set of the kind instance on
// target. The instance is removed entirely once the set empties.
func (l *Ledger) RemoveSource(targetID string, kind Kind, sourceID string) {
	inst := l.Get(targetID, kind)
	if inst == nil || inst.Sources == nil {
		return
	}
	delete(inst.Sources, sourceID)
	if len(inst.Sources) == 0 {
		l.remove(targetID, kind)
	}
}

// Sources returns the owner set of the kind instance on target, or nil.
func (l *Ledger) Sources(targetID string, kind Kind) map[string]struct{} {
	inst := l.Get(targetID, kind)
	if inst == nil {
		return nil
	}
	return inst.Sources
}

// SweepOrphaned drops owner ids for which live reports false from every
// multi-source instance of kind, removing instances left without owners. It
// recovers targets whose owning zone was destroyed without an exit transition.
func (l *Ledger) SweepOrphaned(kind Kind, live func(sourceID string) bool) {
	if l == nil || live == nil {
		return
	}
	for targetID, byKind := range l.instances {
		inst := byKind[kind]
		if inst == nil || inst.Sources == nil {
			continue
		}
		for sourceID := range inst.Sources {
			if !live(sourceID) {
				delete(inst.Sources, sourceID)
			}
		}
		if len(inst.Sources) == 0 {
			l.remove(targetID, kind)
		}
	}
}

// AddStack increments the stack counter of the kind instance on target,
// creating it at one stack if absent. Each application refreshes the duration;
// the counter saturates at the definition's MaxStacks.
// Returns the stack count after the increment.
func (l *Ledger) AddStack(targetID string, kind Kind) int {
	def := l.defs[kind]
	if def == nil || def.Shape != ShapeStacking {
		return 0
	}
	if inst := l.Get(targetID, kind); inst != nil {
		if inst.Stacks < def.MaxStacks || def.MaxStacks <= 0 {
			inst.Stacks++
		}
		inst.duration.SetDuration(def.Duration)
		return inst.Stacks
	}
	inst := &Instance{
		Definition: def,
		Stacks:     1,
		duration:   timekit.NewOnce(def.Duration),
		tick:       timekit.NewRepeating(def.TickInterval),
	}
	l.put(targetID, kind, inst)
	return 1
}

// Advance moves every instance's clocks forward by delta, firing tick handlers
// on interval boundaries and removing expired instances. Multi-source
// instances have no clocks; they only leave the ledger via RemoveSource or
// SweepOrphaned.
func (l *Ledger) Advance(delta time.Duration) {
	if l == nil {
		return
	}
	for targetID, byKind := range l.instances {
		for kind, inst := range byKind {
			def := inst.Definition
			if def == nil {
				delete(byKind, kind)
				continue
			}
			if def.Shape == ShapeMultiSource {
				continue
			}
			if inst.tick != nil {
				inst.tick.Advance(delta)
				if inst.tick.JustFinished() && def.OnTick != nil {
					for i := 0; i < inst.tick.Completions(); i++ {
						def.OnTick(targetID, inst)
					}
				}
			}
			inst.duration.Advance(delta)
			if inst.duration.Finished() {
				l.remove(targetID, kind)
			}
		}
	}
}

// ActiveKinds returns the kinds currently present on target.
func (l *Ledger) ActiveKinds(targetID string) []Kind {
	byKind := l.instances[targetID]
	if len(byKind) == 0 {
		return nil
	}
	kinds := make([]Kind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	return kinds
}

// TargetsWith returns the ids of every target holding an instance of kind.
func (l *Ledger) TargetsWith(kind Kind) []string {
	var ids []string
	for targetID, byKind := range l.instances {
		if byKind[kind] != nil {
			ids = append(ids, targetID)
		}
	}
	return ids
}

// DropTarget removes every instance attached to target, running expire
// handlers. Used when a target leaves the simulation.
func (l *Ledger) DropTarget(targetID string) {
	byKind := l.instances[targetID]
	for kind := range byKind {
		l.remove(targetID, kind)
	}
}

func (l *Ledger) put(targetID string, kind Kind, inst *Instance) {
	byKind := l.instances[targetID]
	if byKind == nil {
		byKind = make(map[Kind]*Instance)
		l.instances[targetID] = byKind
	}
	byKind[kind] = inst
}

func (l *Ledger) remove(targetID string, kind Kind) {
	byKind := l.instances[targetID]
	inst := byKind[kind]
	if inst == nil {
		return
	}
	delete(byKind, kind)
	if len(byKind) == 0 {
		delete(l.instances, targetID)
	}
	if inst.Definition != nil && inst.Definition.OnExpire != nil {
		inst.Definition.OnExpire(targetID, inst)
	}
}
