package catalog

import "spellstorm/engine/status"

// Spell identifiers for the built-in catalog. Exported so gameplay code can
// reference the canonical ids instead of duplicating string literals.
const (
	SpellIDIceShard       = "ice-shard"
	SpellIDIceLance       = "ice-lance"
	SpellIDGlacialSpike   = "glacial-spike"
	SpellIDFireball       = "fireball"
	SpellIDSoulRend       = "soul-rend"
	SpellIDFracture       = "fracture"
	SpellIDChainLightning = "chain-lightning"
	SpellIDIonField       = "ion-field"
	SpellIDSanctify       = "sanctify"
	SpellIDRadiantBeam    = "radiant-beam"
	SpellIDPsionicBurst   = "psionic-burst"
	SpellIDAcidRain       = "acid-rain"
	SpellIDToxicGlob      = "toxic-glob"
	SpellIDEchoThought    = "echo-thought"
)

// BuiltInRegistry enumerates the stock spells. Callers should Validate the
// registry before indexing it; custom catalogs loaded from disk are merged
// over these entries by id.
var BuiltInRegistry = Registry{
	{
		ID:      SpellIDIceShard,
		Name:    "Ice Shard",
		Element: ElementFrost,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:           25,
			LifetimeSeconds: 5,
			CollisionRadius: 1.0,
			Status: &StatusTemplate{
				Kind:            status.KindSlow,
				Magnitude:       0.5,
				DurationSeconds: 2,
			},
		},
	},
	{
		ID:      SpellIDIceLance,
		Name:    "Ice Lance",
		Element: ElementFrost,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:           50,
			LifetimeSeconds: 3,
			CollisionRadius: 1.5,
			Pierce:          true,
			Status: &StatusTemplate{
				Kind:            status.KindSlow,
				Magnitude:       0.6,
				DurationSeconds: 1.5,
			},
		},
	},
	{
		ID:      SpellIDGlacialSpike,
		Name:    "Glacial Spike",
		Element: ElementFrost,
		Family:  FamilyWave,
		Wave: &WaveSpec{
			MaxRadius:        1.5,
			ExpansionSeconds: 0.3,
			LingerSeconds:    0.5,
			Status: &StatusTemplate{
				Kind:            status.KindSlow,
				Magnitude:       0.4,
				DurationSeconds: 2,
			},
		},
	},
	{
		ID:      SpellIDFireball,
		Name:    "Fireball",
		Element: ElementFire,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:              20,
			LifetimeSeconds:    5,
			CollisionRadius:    1.0,
			SpreadAngleDegrees: 15,
			Status: &StatusTemplate{
				Kind:            status.KindBurn,
				Magnitude:       0.25,
				ScaleWithDamage: true,
				DurationSeconds: 3,
			},
		},
	},
	{
		ID:      SpellIDSoulRend,
		Name:    "Soul Rend",
		Element: ElementDark,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:              22,
			LifetimeSeconds:    5,
			CollisionRadius:    1.0,
			SpreadAngleDegrees: 15,
			Execute: &ExecuteSpec{
				ThresholdFraction: 0.5,
				Multiplier:        2.0,
			},
		},
	},
	{
		ID:      SpellIDFracture,
		Name:    "Fracture",
		Element: ElementChaos,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:           20,
			LifetimeSeconds: 3,
			CollisionRadius: 1.0,
			MarkFracture:    true,
		},
	},
	{
		ID:      SpellIDChainLightning,
		Name:    "Chain Lightning",
		Element: ElementLightning,
		Family:  FamilyChain,
		Chain: &ChainSpec{
			JumpRange:     8,
			MaxJumps:      4,
			DamageDecay:   0.8,
			Speed:         50,
			ArrivalRadius: 1.0,
		},
	},
	{
		ID:      SpellIDIonField,
		Name:    "Ion Field",
		Element: ElementLightning,
		Family:  FamilyZone,
		Zone: &ZoneSpec{
			Radius:              6,
			DurationSeconds:     5,
			TickIntervalSeconds: 0.25,
			TickDamageRatio:     0.25,
		},
	},
	{
		ID:      SpellIDSanctify,
		Name:    "Sanctify",
		Element: ElementLight,
		Family:  FamilyZone,
		Zone: &ZoneSpec{
			Radius:          5,
			DurationSeconds: 6,
			Status: &StatusTemplate{
				Kind:      status.KindVulnerability,
				Magnitude: 1.5,
			},
		},
	},
	{
		ID:      SpellIDRadiantBeam,
		Name:    "Radiant Beam",
		Element: ElementLight,
		Family:  FamilyBeam,
		Beam: &BeamSpec{
			Length:          800,
			HalfWidth:       1.0,
			LifetimeSeconds: 0.5,
		},
	},
	{
		ID:      SpellIDPsionicBurst,
		Name:    "Psionic Burst",
		Element: ElementPsychic,
		Family:  FamilyWave,
		Wave: &WaveSpec{
			MaxRadius:        10,
			ExpansionSeconds: 0.5,
		},
	},
	{
		ID:      SpellIDAcidRain,
		Name:    "Acid Rain",
		Element: ElementPoison,
		Family:  FamilyStorm,
		Storm: &StormSpec{
			Radius:                 4.5,
			DurationSeconds:        5,
			DropletIntervalSeconds: 0.12,
			FallSpeed:              10,
			SpawnHeight:            6,
			DropletRadius:          0.5,
			DropletDamageRatio:     0.15,
			Status: &StatusTemplate{
				Kind: status.KindPoison,
			},
		},
	},
	{
		ID:      SpellIDToxicGlob,
		Name:    "Toxic Glob",
		Element: ElementPoison,
		Family:  FamilyProjectile,
		Projectile: &ProjectileSpec{
			Speed:           4,
			LifetimeSeconds: 3,
			CollisionRadius: 1.0,
			Burst: &BurstSpec{
				MinPuddles:   3,
				MaxPuddles:   5,
				SpreadRadius: 2.5,
				Puddle: ZoneSpec{
					Radius:              2,
					DurationSeconds:     4,
					TickIntervalSeconds: 0.5,
					TickDamageRatio:     0.2,
					Status: &StatusTemplate{
						Kind: status.KindPoison,
					},
				},
			},
		},
	},
	{
		ID:      SpellIDEchoThought,
		Name:    "Echo Thought",
		Element: ElementPsychic,
		Family:  FamilyEcho,
		Echo: &EchoSpec{
			DelaySeconds:     0.5,
			DamageMultiplier: 0.4,
			Echoes:           2,
			DurationSeconds:  8,
		},
	},
}
