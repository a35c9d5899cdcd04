// Package viewer draws a running scenario with ebiten. The simulation
// itself lives in a goakt WorldActor; the game only sends it ticks and
// settings and draws the snapshots it sends back.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"gonum.org/v1/gonum/spatial/r3"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/ui"
)

const (
	ScreenWidth  = 1100
	ScreenHeight = 640
	panelWidth   = 240
)

var (
	background    = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	obstacleColor = color.RGBA{R: 220, G: 90, B: 60, A: 255}
	pathColor     = color.RGBA{R: 40, G: 40, B: 60, A: 120}
	boxColor      = color.RGBA{R: 50, G: 50, B: 70, A: 255}

	palette = []color.RGBA{
		{R: 255, G: 220, B: 80, A: 255},
		{R: 100, G: 200, B: 255, A: 255},
		{R: 120, G: 255, B: 140, A: 255},
		{R: 200, G: 140, B: 255, A: 255},
		{R: 255, G: 90, B: 90, A: 255},
		{R: 240, G: 240, B: 240, A: 255},
	}
)

type Game struct {
	System actor.ActorSystem
	ctx    context.Context
	world  *actor.PID
	log    *slog.Logger

	scenario  *simulation.Scenario
	seed      uint64
	tick      time.Duration
	snapshots chan *simulation.Snapshot
	last      *simulation.Snapshot
	colors    map[string]color.RGBA
	center    r3.Vec
	bounds    r3.Vec
	view      projection
	white     *ebiten.Image

	paused        bool
	showPaths     bool
	showObstacles bool

	panel *ui.Panel
	pause *ui.Button
}

// NewGame starts an actor system running sc. Stop the returned game's
// System when done.
func NewGame(ctx context.Context, sc *simulation.Scenario, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.Default()
	}
	system, err := actor.NewActorSystem("BoidsViewer",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	snapshots := make(chan *simulation.Snapshot, 4)
	world, err := system.Spawn(ctx, "world", simulation.NewWorldActor(sc, snapshots, simulation.WithLogger(logger)))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	dt := sc.DT
	if dt <= 0 {
		dt = 1
	}
	g := &Game{
		System:        system,
		ctx:           ctx,
		world:         world,
		log:           logger,
		scenario:      sc,
		seed:          sc.Seed,
		tick:          time.Duration(dt * float64(time.Second)),
		snapshots:     snapshots,
		colors:        make(map[string]color.RGBA, len(sc.Flocks)),
		showPaths:     true,
		showObstacles: true,
	}
	for i, f := range sc.Flocks {
		g.colors[f.Name] = palette[i%len(palette)]
	}

	cfg := sc.System.WithDefaults()
	g.center, g.bounds = geometry.FromArray(cfg.Center), geometry.FromArray(cfg.Bounds)
	g.view = newProjection(g.center, g.bounds, 10, 10, ScreenWidth-panelWidth-30, ScreenHeight-20)

	g.white = ebiten.NewImage(3, 3)
	g.white.Fill(color.White)

	g.panel = ui.NewPanel("Configuration", ScreenWidth-panelWidth-10, 10, panelWidth, ScreenHeight-20)
	g.panel.Section("System")
	g.panel.AddSlider("Max speed", 0, 2*cfg.MaxSpeed, cfg.MaxSpeed, func(v float64) {
		g.send(map[string]any{"maxSpeed": v})
	})
	g.panel.AddSlider("Max force", 0, 2*cfg.MaxForce, cfg.MaxForce, func(v float64) {
		g.send(map[string]any{"maxForce": v})
	})
	g.panel.Section("Display")
	g.panel.AddCheckbox("Paths", g.showPaths, func(v bool) { g.showPaths = v })
	g.panel.AddCheckbox("Obstacles", g.showObstacles, func(v bool) { g.showObstacles = v })
	g.panel.Section("Run")
	g.pause = g.panel.AddButton("Pause [space]", g.togglePause)
	g.panel.AddButton("Reseed [R]", g.reseed)

	return g, nil
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.pause.Label = "Resume [space]"
	} else {
		g.pause.Label = "Pause [space]"
	}
}

func (g *Game) reseed() {
	g.seed++
	g.send(map[string]any{"seed": float64(g.seed)})
	g.log.Info("reseeded", "seed", g.seed)
}

func (g *Game) send(fields map[string]any) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		g.log.Error("failed to encode settings", "error", err)
		return
	}
	if err := actor.Tell(g.ctx, g.world, msg); err != nil {
		g.log.Warn("failed to send settings", "error", err)
	}
}

func (g *Game) Update() error {
	g.panel.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reseed()
	}

	// Drain Channel, keep the freshest snapshot
Loop:
	for {
		select {
		case snap := <-g.snapshots:
			g.last = snap
		default:
			break Loop
		}
	}

	if !g.paused {
		if err := actor.Tell(g.ctx, g.world, durationpb.New(g.tick)); err != nil {
			return fmt.Errorf("failed to tick world: %w", err)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	half := r3.Scale(0.5, g.bounds)
	x0, y0 := g.view.point(r3.Sub(g.center, half))
	x1, y1 := g.view.point(r3.Add(g.center, half))
	vector.StrokeRect(screen, x0, y1, x1-x0, y0-y1, 1, boxColor, false)

	if g.showPaths {
		g.drawPaths(screen)
	}
	if g.showObstacles {
		for _, o := range g.scenario.Obstacles {
			cx, cy := g.view.point(geometry.FromArray(o.Position))
			vector.StrokeCircle(screen, cx, cy, g.view.length(o.Radius), 2, obstacleColor, true)
		}
	}
	g.drawBoids(screen)

	g.panel.Draw(screen)

	var tick uint64
	var boids int
	if g.last != nil {
		tick, boids = g.last.Tick, len(g.last.Boids)
	}
	status := ""
	if g.paused {
		status = " (paused)"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s seed %d | tick %d | boids %d | %.0f FPS%s",
			g.scenario.Name, g.seed, tick, boids, ebiten.ActualFPS(), status),
		15, ScreenHeight-30)
}

func (g *Game) drawPaths(screen *ebiten.Image) {
	for _, p := range g.scenario.Paths {
		n := len(p.Points)
		for i := range n {
			ax, ay := g.view.point(geometry.FromArray(p.Points[i]))
			bx, by := g.view.point(geometry.FromArray(p.Points[(i+1)%n]))
			vector.StrokeLine(screen, ax, ay, bx, by, max(1, 2*g.view.length(p.Radius)), pathColor, true)
		}
	}
}

// drawBoids batches every boid as a triangle pointing along its velocity.
func (g *Game) drawBoids(screen *ebiten.Image) {
	if g.last == nil {
		return
	}
	const maxVertices = math.MaxUint16 - 2
	vertices := make([]ebiten.Vertex, 0, 3*len(g.last.Boids))
	indices := make([]uint16, 0, 3*len(g.last.Boids))
	flush := func() {
		if len(vertices) > 0 {
			screen.DrawTriangles(vertices, indices, g.white, &ebiten.DrawTrianglesOptions{})
		}
		vertices, indices = vertices[:0], indices[:0]
	}

	for _, b := range g.last.Boids {
		if len(vertices)+3 > maxVertices {
			flush()
		}
		clr := g.colors[b.Flock]
		r, gr, bl := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255
		x, y := g.view.point(b.Position)
		angle := g.view.heading(b.Velocity)

		base := uint16(len(vertices))
		for _, corner := range [3]struct{ da, l float64 }{{0, 6}, {2.5, 5}, {-2.5, 5}} {
			vertices = append(vertices, ebiten.Vertex{
				DstX:   x + float32(math.Cos(angle+corner.da)*corner.l),
				DstY:   y + float32(math.Sin(angle+corner.da)*corner.l),
				SrcX:   1,
				SrcY:   1,
				ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1,
			})
		}
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

func (g *Game) Layout(w, h int) (int, int) { return ScreenWidth, ScreenHeight }
