// Command simulation runs a boids scenario headless and optionally writes a
// CSV trace of every boid.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"github.com/urfave/cli/v3"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-steering/internal/trace"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
)

const snapshotTimeout = 5 * time.Second

func main() {
	cmd := &cli.Command{
		Name:  "simulation",
		Usage: "run a boids steering scenario without a window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "scenario file (.json, .yaml), empty for the built-in one"},
			&cli.IntFlag{Name: "ticks", Aliases: []string{"n"}, Usage: "number of ticks, overrides the scenario"},
			&cli.FloatFlag{Name: "dt", Usage: "time step, overrides the scenario"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, overrides the scenario"},
			&cli.StringFlag{Name: "trace", Usage: "write a CSV trace to this file"},
			&cli.IntFlag{Name: "trace-every", Value: 1, Usage: "record one tick out of this many"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sc, err := simulation.LoadScenario(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("seed") {
		sc.Seed = cmd.Uint64("seed")
	}
	if cmd.IsSet("dt") {
		sc.DT = cmd.Float("dt")
	}
	if cmd.IsSet("ticks") {
		sc.Ticks = cmd.Int("ticks")
	}
	if sc.DT <= 0 {
		return fmt.Errorf("dt must be positive, got %v", sc.DT)
	}
	if sc.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", sc.Ticks)
	}

	recorder, err := trace.Create(cmd.String("trace"), cmd.Int("trace-every"))
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Error("failed to close trace", "error", err)
		}
	}()

	system, err := actor.NewActorSystem("BoidsSimulation",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() { _ = system.Stop(context.Background()) }()

	snapshots := make(chan *simulation.Snapshot, 1)
	world, err := system.Spawn(ctx, "world", simulation.NewWorldActor(sc, snapshots, simulation.WithLogger(logger)))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}

	slog.Info("running scenario", "name", sc.Name, "seed", sc.Seed, "ticks", sc.Ticks, "dt", sc.DT)
	start := time.Now()
	step := durationpb.New(time.Duration(sc.DT * float64(time.Second)))
	progress := max(1, sc.Ticks/10)

	// One tick at a time: wait for each snapshot so none is dropped.
	for i := 1; i <= sc.Ticks; i++ {
		if err := actor.Tell(ctx, world, step); err != nil {
			return fmt.Errorf("failed to tick world: %w", err)
		}
		var snap *simulation.Snapshot
		select {
		case snap = <-snapshots:
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(snapshotTimeout):
			return errors.New("world stopped answering")
		}
		if err := recorder.Record(snap); err != nil {
			return err
		}
		if i%progress == 0 {
			slog.Debug("progress", "tick", snap.Tick, "boids", len(snap.Boids))
		}
	}

	resp, err := actor.Ask(ctx, world, &emptypb.Empty{}, snapshotTimeout)
	if err != nil {
		return fmt.Errorf("failed to query world: %w", err)
	}
	attrs := []any{"elapsed", time.Since(start).Round(time.Millisecond), "traceRows", recorder.Rows()}
	if state, ok := resp.(*structpb.Struct); ok {
		for k, v := range state.AsMap() {
			attrs = append(attrs, k, v)
		}
	}
	slog.Info("simulation done", attrs...)
	return nil
}
