// Command simd runs a self-contained demo simulation: a ring of target
// dummies, a caster cycling through the spell catalog, and a WebSocket
// endpoint streaming effect snapshots to spectators.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spellstorm/engine"
	"spellstorm/engine/catalog"
	"spellstorm/engine/death"
	"spellstorm/engine/geom"
	"spellstorm/engine/internal/ws"
	"spellstorm/engine/logging"
	"spellstorm/engine/logging/sinks"
)

const (
	tickInterval = 50 * time.Millisecond
	castInterval = time.Second
	dummyCount   = 8
	dummyHealth  = 120.0
	ringRadius   = 6.0
)

var demoSpells = []string{
	catalog.SpellIDIceShard,
	catalog.SpellIDIceLance,
	catalog.SpellIDFireball,
	catalog.SpellIDSoulRend,
	catalog.SpellIDFracture,
	catalog.SpellIDChainLightning,
	catalog.SpellIDIonField,
	catalog.SpellIDSanctify,
	catalog.SpellIDRadiantBeam,
	catalog.SpellIDPsionicBurst,
	catalog.SpellIDAcidRain,
	catalog.SpellIDToxicGlob,
	catalog.SpellIDEchoThought,
}

type actor struct {
	id        string
	pos       geom.Vec2
	health    float64
	maxHealth float64
}

func (a *actor) ID() string              { return a.id }
func (a *actor) Position() geom.Vec2     { return a.pos }
func (a *actor) HealthFraction() float64 { return a.health / a.maxHealth }

// world is the demo host: it owns the dummies, applies damage intents, and
// reports deaths back to the engine. Everything runs on the sim goroutine.
type world struct {
	actors []*actor
	eng    *engine.Engine
	nextID int
}

func (w *world) Mover(id string) (engine.Mover, bool) {
	for _, a := range w.actors {
		if a.id == id {
			return a, true
		}
	}
	return nil, false
}

func (w *world) Movers() []engine.Mover {
	out := make([]engine.Mover, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	return out
}

func (w *world) EmitDamage(targetID string, amount float64, element catalog.Element) {
	for i, a := range w.actors {
		if a.id != targetID {
			continue
		}
		a.health -= amount
		if a.health > 0 {
			return
		}
		w.actors = append(w.actors[:i], w.actors[i+1:]...)
		w.eng.OnDeath(death.Notification{
			EntityID: a.id,
			Position: a.pos,
			Type:     death.EntityTypeEnemy,
			Level:    1,
			Health:   a.maxHealth,
			Strength: 10,
		})
		return
	}
}

func (w *world) SpawnFragment(spec death.FragmentSpec) string {
	w.nextID++
	id := fmt.Sprintf("fragment-%d", w.nextID)
	w.actors = append(w.actors, &actor{
		id:        id,
		pos:       spec.Position,
		health:    spec.Health,
		maxHealth: spec.Health,
	})
	return id
}

func (w *world) respawnRing() {
	for i := 0; i < dummyCount; i++ {
		angle := float64(i) / dummyCount * 2 * math.Pi
		w.nextID++
		w.actors = append(w.actors, &actor{
			id:        fmt.Sprintf("dummy-%d", w.nextID),
			pos:       geom.Vec2{X: math.Cos(angle) * ringRadius, Y: math.Sin(angle) * ringRadius},
			health:    dummyHealth,
			maxHealth: dummyHealth,
		})
	}
}

func main() {
	var (
		addr    = flag.String("addr", ":8080", "listen address")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "simulation seed")
		logJSON = flag.String("log-json", "", "path for NDJSON event log, empty disables")
	)
	flag.Parse()

	router, err := buildRouter(*logJSON)
	if err != nil {
		log.Fatalf("simd: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(closeCtx)
	}()

	rng := rand.New(rand.NewSource(*seed))
	host := &world{}
	host.respawnRing()

	eng, err := engine.New(engine.Config{
		Seed:         *seed,
		CatalogPaths: catalog.DefaultPaths(),
		Publisher:    router,
	}, host, host, host)
	if err != nil {
		log.Fatalf("simd: %v", err)
	}
	host.eng = eng

	hub := ws.NewHub()
	defer hub.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	server := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		return runSimulation(ctx, eng, host, hub, rng)
	})

	log.Printf("simd: listening on %s", *addr)
	if err := group.Wait(); err != nil {
		log.Fatalf("simd: %v", err)
	}
}

func buildRouter(jsonPath string) (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsole(os.Stdout, cfg.Console)},
	}
	if jsonPath != "" {
		file, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log: %w", err)
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, time.Second)})
	}
	return logging.NewRouter(nil, cfg, named), nil
}

func runSimulation(ctx context.Context, eng *engine.Engine, host *world, hub *ws.Hub, rng *rand.Rand) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	nextCast := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if len(host.actors) == 0 {
				host.respawnRing()
			}
			if now.After(nextCast) {
				castRandom(ctx, eng, host, rng)
				nextCast = now.Add(castInterval)
			}
			eng.Advance(ctx, tickInterval)
			hub.Broadcast(eng.Tick(), eng.EffectSnapshots())
		}
	}
}

func castRandom(ctx context.Context, eng *engine.Engine, host *world, rng *rand.Rand) {
	spellID := demoSpells[rng.Intn(len(demoSpells))]
	angle := rng.Float64() * 2 * math.Pi
	dir := geom.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}

	cast := engine.Cast{
		SpellID:   spellID,
		CasterID:  "caster",
		Origin:    geom.Vec2{},
		Direction: dir,
		Target:    dir.Scale(ringRadius),
		Damage:    10 + rng.Float64()*20,
	}
	if len(host.actors) > 0 {
		cast.TargetID = host.actors[rng.Intn(len(host.actors))].id
	}
	if _, err := eng.Cast(ctx, cast); err != nil {
		log.Printf("simd: cast %s: %v", spellID, err)
	}
}
