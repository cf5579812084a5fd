// Package catalog holds the designer-facing spell definitions: which delivery
// family a spell uses and the numeric tuning for it. The engine resolves casts
// against a validated, indexed registry; tooling reflects over the same structs
// to publish a JSON schema for authored catalog files.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"spellstorm/engine/status"
)

// Element is the damage school a spell belongs to.
type Element string

const (
	ElementFire      Element = "fire"
	ElementFrost     Element = "frost"
	ElementLightning Element = "lightning"
	ElementLight     Element = "light"
	ElementPoison    Element = "poison"
	ElementPsychic   Element = "psychic"
	ElementDark      Element = "dark"
	ElementChaos     Element = "chaos"
)

// Family selects the delivery mechanic resolved by the engine.
type Family string

const (
	// FamilyProjectile travels in a straight line and resolves on contact.
	FamilyProjectile Family = "projectile"
	// FamilyBeam is an instant fixed-length capsule that damages every frame.
	FamilyBeam Family = "beam"
	// FamilyWave expands from a point to a maximum radius, hitting each
	// target at most once.
	FamilyWave Family = "wave"
	// FamilyZone is a stationary area that ticks on an interval.
	FamilyZone Family = "zone"
	// FamilyChain travels between targets, decaying per jump.
	FamilyChain Family = "chain"
	// FamilyStorm rains droplets over an area for its duration.
	FamilyStorm Family = "storm"
	// FamilyEcho replays the caster's previous cast at reduced power.
	FamilyEcho Family = "echo"
)

var (
	errEmptySpellID   = errors.New("spell id must not be empty")
	errUnknownElement = errors.New("unknown element")
	errUnknownFamily  = errors.New("unknown family")
	errMissingSpec    = errors.New("missing spec for declared family")
	errExtraSpec      = errors.New("spec present for a family the spell does not declare")
)

// StatusTemplate describes a status application carried by a spell. Magnitude
// is interpreted per kind (speed multiplier for slow, damage multiplier for
// vulnerability, per-tick damage for burn). When ScaleWithDamage is set the
// magnitude is multiplied by the cast damage at application time.
type StatusTemplate struct {
	Kind            status.Kind `json:"kind" jsonschema:"title=Status kind,description=Status effect applied on hit."`
	Magnitude       float64     `json:"magnitude,omitempty" jsonschema:"description=Kind-specific magnitude."`
	ScaleWithDamage bool        `json:"scaleWithDamage,omitempty" jsonschema:"description=Multiply magnitude by the cast damage."`
	DurationSeconds float64     `json:"durationSeconds,omitempty" jsonschema:"description=Override duration; zero uses the status default."`
}

// ExecuteSpec makes a projectile deal multiplied damage to targets below a
// health fraction. The comparison is strict: a target exactly at the threshold
// takes base damage.
type ExecuteSpec struct {
	ThresholdFraction float64 `json:"thresholdFraction" jsonschema:"description=Health fraction below which the multiplier applies."`
	Multiplier        float64 `json:"multiplier" jsonschema:"description=Damage multiplier below the threshold."`
}

// BurstSpec spawns puddle zones where a projectile ends, by impact or timeout.
type BurstSpec struct {
	MinPuddles   int      `json:"minPuddles" jsonschema:"description=Minimum puddles per burst."`
	MaxPuddles   int      `json:"maxPuddles" jsonschema:"description=Maximum puddles per burst."`
	SpreadRadius float64  `json:"spreadRadius" jsonschema:"description=Scatter distance around the burst point."`
	Puddle       ZoneSpec `json:"puddle" jsonschema:"description=Tuning for each spawned puddle."`
}

// ProjectileSpec tunes the straight-line delivery family.
type ProjectileSpec struct {
	Speed              float64         `json:"speed" jsonschema:"description=World units per second."`
	LifetimeSeconds    float64         `json:"lifetimeSeconds" jsonschema:"description=Seconds before the projectile despawns."`
	CollisionRadius    float64         `json:"collisionRadius" jsonschema:"description=Contact distance against target centers."`
	Pierce             bool            `json:"pierce,omitempty" jsonschema:"description=Pass through targets instead of ending on first hit."`
	SpreadAngleDegrees float64         `json:"spreadAngleDegrees,omitempty" jsonschema:"description=Random aim jitter applied at cast."`
	MarkFracture       bool            `json:"markFracture,omitempty" jsonschema:"description=Mark hit targets so their death fragments them."`
	Status             *StatusTemplate `json:"status,omitempty"`
	Execute            *ExecuteSpec    `json:"execute,omitempty"`
	Burst              *BurstSpec      `json:"burst,omitempty"`
}

// BeamSpec tunes the instant capsule family. Beams damage every contained
// target on every frame they exist.
type BeamSpec struct {
	Length          float64 `json:"length" jsonschema:"description=Beam length in world units."`
	HalfWidth       float64 `json:"halfWidth" jsonschema:"description=Capsule half-width."`
	LifetimeSeconds float64 `json:"lifetimeSeconds" jsonschema:"description=Seconds the beam persists."`
}

// WaveSpec tunes the expanding ring family. The radius grows linearly from
// zero over ExpansionSeconds; with a linger phase the wave holds its final
// radius before despawning.
type WaveSpec struct {
	MaxRadius        float64         `json:"maxRadius" jsonschema:"description=Final radius in world units."`
	ExpansionSeconds float64         `json:"expansionSeconds" jsonschema:"description=Seconds to reach the final radius."`
	LingerSeconds    float64         `json:"lingerSeconds,omitempty" jsonschema:"description=Seconds to hold the final radius after expansion."`
	Status           *StatusTemplate `json:"status,omitempty"`
}

// ZoneSpec tunes stationary areas. A zone with a tick interval damages every
// contained target once per completed interval; a zone with a status template
// applies it on entry and removes its ownership on exit.
type ZoneSpec struct {
	Radius              float64         `json:"radius" jsonschema:"description=Zone radius in world units."`
	DurationSeconds     float64         `json:"durationSeconds" jsonschema:"description=Seconds the zone persists."`
	TickIntervalSeconds float64         `json:"tickIntervalSeconds,omitempty" jsonschema:"description=Seconds between damage ticks; zero disables tick damage."`
	TickDamageRatio     float64         `json:"tickDamageRatio,omitempty" jsonschema:"description=Per-tick damage as a fraction of the cast damage."`
	Status              *StatusTemplate `json:"status,omitempty"`
}

// ChainSpec tunes the jumping bolt family.
type ChainSpec struct {
	JumpRange     float64 `json:"jumpRange" jsonschema:"description=Maximum distance to the next target."`
	MaxJumps      int     `json:"maxJumps" jsonschema:"description=Jump budget after the initial hit."`
	DamageDecay   float64 `json:"damageDecay" jsonschema:"description=Damage multiplier applied per jump."`
	Speed         float64 `json:"speed" jsonschema:"description=Travel speed between targets."`
	ArrivalRadius float64 `json:"arrivalRadius" jsonschema:"description=Distance at which the bolt counts as arrived."`
}

// StormSpec tunes the raining area family. Droplets spawn on an interval at
// SpawnHeight above the zone, fall at FallSpeed, and resolve against targets
// when they reach ground level.
type StormSpec struct {
	Radius                 float64         `json:"radius" jsonschema:"description=Area radius droplets spawn within."`
	DurationSeconds        float64         `json:"durationSeconds" jsonschema:"description=Seconds the storm persists."`
	DropletIntervalSeconds float64         `json:"dropletIntervalSeconds" jsonschema:"description=Seconds between droplet spawns."`
	FallSpeed              float64         `json:"fallSpeed" jsonschema:"description=Droplet descent speed."`
	SpawnHeight            float64         `json:"spawnHeight" jsonschema:"description=Height above ground droplets spawn at."`
	DropletRadius          float64         `json:"dropletRadius" jsonschema:"description=Contact radius of a landing droplet."`
	DropletDamageRatio     float64         `json:"dropletDamageRatio" jsonschema:"description=Per-droplet damage as a fraction of the cast damage."`
	Status                 *StatusTemplate `json:"status,omitempty"`
}

// EchoSpec tunes the replay family. Each echo re-runs the caster's previous
// non-echo cast at a damage multiple after a fixed delay.
type EchoSpec struct {
	DelaySeconds     float64 `json:"delaySeconds" jsonschema:"description=Seconds between echoes."`
	DamageMultiplier float64 `json:"damageMultiplier" jsonschema:"description=Damage fraction of the original cast."`
	Echoes           int     `json:"echoes" jsonschema:"description=Number of replays."`
	DurationSeconds  float64 `json:"durationSeconds" jsonschema:"description=Seconds the echo effect stays armed."`
}

// Spell is one catalog entry: an id, a school, and exactly one family spec.
type Spell struct {
	ID      string  `json:"id" jsonschema:"title=Spell id,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	Name    string  `json:"name,omitempty" jsonschema:"description=Display name."`
	Element Element `json:"element" jsonschema:"required"`
	Family  Family  `json:"family" jsonschema:"required"`

	Projectile *ProjectileSpec `json:"projectile,omitempty"`
	Beam       *BeamSpec       `json:"beam,omitempty"`
	Wave       *WaveSpec       `json:"wave,omitempty"`
	Zone       *ZoneSpec       `json:"zone,omitempty"`
	Chain      *ChainSpec      `json:"chain,omitempty"`
	Storm      *StormSpec      `json:"storm,omitempty"`
	Echo       *EchoSpec       `json:"echo,omitempty"`
}

var validElements = map[Element]struct{}{
	ElementFire:      {},
	ElementFrost:     {},
	ElementLightning: {},
	ElementLight:     {},
	ElementPoison:    {},
	ElementPsychic:   {},
	ElementDark:      {},
	ElementChaos:     {},
}

func (s Spell) validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errEmptySpellID
	}
	if _, ok := validElements[s.Element]; !ok {
		return fmt.Errorf("%w %q", errUnknownElement, s.Element)
	}
	specs := map[Family]bool{
		FamilyProjectile: s.Projectile != nil,
		FamilyBeam:       s.Beam != nil,
		FamilyWave:       s.Wave != nil,
		FamilyZone:       s.Zone != nil,
		FamilyChain:      s.Chain != nil,
		FamilyStorm:      s.Storm != nil,
		FamilyEcho:       s.Echo != nil,
	}
	declared, ok := specs[s.Family]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownFamily, s.Family)
	}
	if !declared {
		return fmt.Errorf("%w: %s needs a %s spec", errMissingSpec, s.ID, s.Family)
	}
	for family, present := range specs {
		if present && family != s.Family {
			return fmt.Errorf("%w: %s declares %s but carries a %s spec", errExtraSpec, s.ID, s.Family, family)
		}
	}
	return nil
}

// Registry is a collection of spell definitions. Callers should Validate
// before use.
type Registry []Spell

// Validate ensures ids are unique and every entry is structurally sound.
func (r Registry) Validate() error {
	seen := make(map[string]struct{}, len(r))
	for _, spell := range r {
		if err := spell.validate(); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if _, exists := seen[spell.ID]; exists {
			return fmt.Errorf("catalog: duplicate spell id %q", spell.ID)
		}
		seen[spell.ID] = struct{}{}
	}
	return nil
}

// Index materialises a lookup map from the registry after validation.
func (r Registry) Index() (map[string]Spell, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]Spell, len(r))
	for _, spell := range r {
		out[spell.ID] = spell
	}
	return out, nil
}

// MustIndex materialises the registry and panics if validation fails. Useful
// for tests and the built-in registry.
func (r Registry) MustIndex() map[string]Spell {
	index, err := r.Index()
	if err != nil {
		panic(err)
	}
	return index
}
