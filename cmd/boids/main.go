package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/lao-tseu-is-alive/go-boids-steering/internal/viewer"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
)

func main() {
	cmd := &cli.Command{
		Name:  "boids",
		Usage: "watch a boids steering scenario",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "scenario file (.json, .yaml), empty for the built-in one"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sc, err := simulation.LoadScenario(cmd.String("config"))
			if err != nil {
				return err
			}
			game, err := viewer.NewGame(ctx, sc, slog.Default())
			if err != nil {
				return err
			}
			defer game.System.Stop(ctx)

			ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
			ebiten.SetWindowTitle("Boids: " + sc.Name)
			if err := ebiten.RunGame(game); err != nil {
				return fmt.Errorf("viewer stopped: %w", err)
			}
			return nil
		},
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("boids failed", "error", err)
		os.Exit(1)
	}
}
