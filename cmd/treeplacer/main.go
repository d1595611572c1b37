package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"treeplacer/internal/config"
	"treeplacer/internal/forest"
	"treeplacer/internal/rig"
	"treeplacer/internal/scatter"
	"treeplacer/internal/store"
	"treeplacer/internal/terrain"
)

func main() {
	var (
		cfgPath  string
		count    int
		seed     int64
		outPath  string
		brushAt  string
		simulate time.Duration
	)
	flag.StringVar(&cfgPath, "config", "", "path to tree placer configuration file (.json, .yaml)")
	flag.IntVar(&count, "count", -1, "number of trees to place, overrides placement.count")
	flag.Int64Var(&seed, "seed", 0, "placement seed, overrides placement.seed when non-zero")
	flag.StringVar(&outPath, "out", "", "write placed trees to this file (.json, .yaml)")
	flag.StringVar(&brushAt, "brush", "", "paint one brush stroke at x,z after placing")
	flag.DurationVar(&simulate, "simulate", 0, "run the camera and player rig over the terrain for this long")
	flag.Parse()

	wrote, err := writeConfigFromEnv(cfgPath)
	if err != nil {
		log.Fatalf("sync environment config: %v", err)
	}
	if wrote {
		log.Printf("configuration from environment written to %s", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if count >= 0 {
		cfg.Placement.Count = count
	}
	if seed != 0 {
		cfg.Placement.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate overrides: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, cfg, outPath, brushAt, simulate); err != nil {
		log.Fatalf("tree placer failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, outPath, brushAt string, simulate time.Duration) error {
	field, err := terrain.NewNoiseGenerator(cfg.Terrain).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate terrain: %w", err)
	}

	scatterer, err := scatter.NewScatterer(cfg.Placement.Constraints, cfg.Placement.Prefabs...)
	if err != nil {
		return err
	}

	st := store.NewMemory()
	if cfg.Storage.Path != "" {
		if st, err = store.OpenDisk(cfg.Storage.Path); err != nil {
			return err
		}
	}
	trees := forest.New(scatterer, field, st)
	defer trees.Close()

	rng := rand.New(rand.NewSource(cfg.Placement.Seed))
	result, err := trees.Populate(scatter.Request{
		DesiredCount:         cfg.Placement.Count,
		MaxAttemptMultiplier: cfg.Placement.AttemptMultiplier,
	}, rng)
	if err != nil {
		return fmt.Errorf("place trees: %w", err)
	}
	logResult("placed", result)
	if short := result.Shortfall(); short > 0 {
		log.Printf("warning: attempt budget of %d exhausted, %d trees short", result.Budget, short)
	}

	if brushAt != "" {
		x, z, err := parsePoint(brushAt)
		if err != nil {
			return err
		}
		center := mgl64.Vec3{x, field.Height(x, z), z}
		stroke, err := trees.PaintBrush(center, cfg.Brush.Radius, cfg.Brush.TreesPerBrush, rng)
		if err != nil {
			return fmt.Errorf("paint brush: %w", err)
		}
		logResult("brush placed", stroke)
	}

	if outPath != "" {
		all, err := trees.All()
		if err != nil {
			return fmt.Errorf("list trees: %w", err)
		}
		if err := writePlacements(outPath, result.Requested, all); err != nil {
			return err
		}
		log.Printf("wrote %d trees to %s", len(all), outPath)
	}

	if simulate > 0 {
		simulateRig(ctx, cfg, field, simulate)
	}
	return nil
}

func logResult(action string, result scatter.Result) {
	log.Printf("%s %d trees out of %d requested (%d attempts; rejected %d height, %d slope, %d bounds)",
		action, result.Accepted(), result.Requested, result.Attempts,
		result.RejectedHeight, result.RejectedSlope, result.RejectedBounds)
}

func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("point %q must be x,z", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse x in %q: %w", s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse z in %q: %w", s, err)
	}
	return x, z, nil
}

// simulateRig walks the player across the terrain with a scripted input
// sequence and logs where it ended up.
func simulateRig(ctx context.Context, cfg *config.Config, field *terrain.Heightfield, d time.Duration) {
	bounds := field.Bounds()
	x, z := bounds.Width/2, bounds.Depth/2
	body := rig.Body{Position: mgl64.Vec3{x, field.Height(x, z), z}}

	script := rig.NewScript(
		rig.Input{Vertical: 1},
		rig.Input{Vertical: 1, MouseX: 5},
		rig.Input{Vertical: 1, ToggleView: true},
		rig.Input{Vertical: 1, Jump: true},
		rig.Input{Vertical: 1, Run: true},
	)
	player := rig.NewPlayer(cfg.Player, body, rig.SurfaceCollider{Surface: field}, rig.NewParameters())
	r := rig.New(script, rig.NewCamera(cfg.Camera), player)

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	loop := rig.NewLoop(r, cfg.Loop.TickRate.Duration())
	loop.Start(ctx)
	loop.Wait()

	snap := r.Snapshot()
	log.Printf("rig ran %d ticks: position %v yaw %.1f grounded %v third person %v speed %.2f",
		snap.Ticks, snap.Body.Position, snap.Body.Yaw, snap.Grounded, snap.ThirdPerson, snap.AnimationSpeed)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
