package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/akmonengine/courtside"
	"github.com/go-gl/mathgl/mgl64"
)

// aim returns the launch velocity that carries a ball from start to target in
// flight seconds, ignoring drag and spin.
func aim(start, target, gravity mgl64.Vec3, flight float64) mgl64.Vec3 {
	return target.Sub(start).Sub(gravity.Mul(0.5 * flight * flight)).Mul(1 / flight)
}

func loadConfig(path string) (courtside.Config, error) {
	if path == "" {
		return courtside.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return courtside.Config{}, err
	}
	defer f.Close()
	return courtside.LoadConfig(f)
}

func SetupScene(cfg courtside.Config, blockers int, ctx courtside.WorldContext) (*courtside.Scene, courtside.Handle, error) {
	scene, err := courtside.NewScene(cfg)
	if err != nil {
		return nil, courtside.Handle{}, err
	}

	player, err := scene.AddPlayer(mgl64.Vec3{0, 18, cfg.Player.HalfHeight + cfg.Player.Radius})
	if err != nil {
		return nil, courtside.Handle{}, err
	}
	scene.MovePlayer(player, mgl64.Vec2{0, 1})
	scene.MovePlayer(player, mgl64.Vec2{})

	for _, p := range []mgl64.Vec3{{0, 19.4, 4}, {0.2, 20.5, 5}, {-0.3, 19.8, 7}} {
		if _, err := scene.AddBall(p); err != nil {
			return nil, courtside.Handle{}, err
		}
	}
	if blockers > 0 {
		scene.SpawnBlockers(ctx, blockers)
	}
	return scene, player, nil
}

func main() {
	configPath := flag.String("config", "", "YAML court config, defaults when empty")
	seconds := flag.Float64("seconds", 6, "simulated time")
	blockers := flag.Int("blockers", 0, "random blockers to place")
	seed := flag.Uint64("seed", 1, "random seed for blockers")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := courtside.WorldContext{Logger: logger, Rand: rand.New(rand.NewPCG(*seed, *seed))}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}

	scene, player, err := SetupScene(cfg, *blockers, ctx)
	if err != nil {
		logger.Error("setup", "err", err)
		os.Exit(1)
	}

	scene.Events.Subscribe(courtside.BOUNCE, func(event courtside.Event) {
		e := event.(courtside.BounceEvent)
		fmt.Printf("tick %5d  bounce  ball %v off %v (speed %.2f)\n", scene.Tick(), e.Ball, e.Surface, e.Speed)
	})
	scene.Events.Subscribe(courtside.SCORE, func(event courtside.Event) {
		e := event.(courtside.ScoreEvent)
		fmt.Printf("tick %5d  SCORE   ball %v (speed %.2f), total %d\n", scene.Tick(), e.Ball, e.Speed, scene.Score())
	})
	scene.Events.Subscribe(courtside.DESPAWN, func(event courtside.Event) {
		e := event.(courtside.DespawnEvent)
		fmt.Printf("tick %5d  despawn %v %v\n", scene.Tick(), e.Kind, e.Handle)
	})

	const frame = 16 * time.Millisecond
	frames := int(*seconds / frame.Seconds())
	rim := cfg.Hoop.RimCenter.Add(mgl64.Vec3{0, 0, cfg.Ball.Radius})

	for i := 0; i < frames; i++ {
		scene.Update(ctx, frame, false, 1)

		// Pick up whatever is in reach and shoot it at the rim.
		ball, ok := scene.Pickup(player)
		if !ok {
			continue
		}
		held, _ := scene.Entity(ball)
		velocity := aim(held.Body.Transform.Position, rim, cfg.Gravity, 0.8)
		scene.Throw(player, velocity.Mul(cfg.Ball.Mass), mgl64.Vec3{-0.05, 0, 0})
		logger.Info("shot", "ball", ball, "velocity", velocity, "tick", scene.Tick())
	}

	snapshot := scene.Snapshot()
	data, err := snapshot.MarshalBinary()
	if err != nil {
		logger.Error("snapshot", "err", err)
		os.Exit(1)
	}
	fmt.Printf("done: %d ticks, score %d, %d bodies, snapshot %d bytes\n",
		snapshot.Tick, snapshot.Score, len(snapshot.Bodies), len(data))
}
