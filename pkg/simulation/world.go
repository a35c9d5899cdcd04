package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor owns a Scene. The mailbox serializes ticks, reconfiguration and
// queries, so the scene is only ever touched by one message at a time.
//
// Messages:
//   - *durationpb.Duration steps the scene, one second being dt = 1, then
//     offers a Snapshot on the snapshot channel.
//   - *structpb.Struct reconfigures: numeric "scale", "maxSpeed", "maxForce"
//     update the System, "seed" rebuilds the scene with that seed.
//   - *emptypb.Empty is answered with the state as a *structpb.Struct.
type WorldActor struct {
	scenario   *Scenario
	opts       []Option
	scene      *Scene
	snapshotCh chan<- *Snapshot

	// --- Benchmark Stats ---
	stepCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world. snapshotCh may be nil.
func NewWorldActor(sc *Scenario, snapshotCh chan<- *Snapshot, opts ...Option) *WorldActor {
	return &WorldActor{
		scenario:    sc,
		opts:        opts,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	scene, err := BuildScene(w.scenario, w.opts...)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	w.scene = scene
	ctx.ActorSystem().Logger().Infof("World %q ready with %d boids", w.scenario.Name, len(scene.System.Boids()))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")

	case *durationpb.Duration:
		w.scene.Step(msg.AsDuration().Seconds())
		w.stepCount++
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	case *structpb.Struct:
		if err := w.reconfigure(msg); err != nil {
			ctx.Logger().Warnf("reconfiguration rejected: %v", err)
		}

	case *emptypb.Empty:
		state, err := w.state()
		if err != nil {
			ctx.Logger().Errorf("failed to encode state: %v", err)
			return
		}
		ctx.Response(state)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}

// Scene is for inspection once the actor is stopped.
func (w *WorldActor) Scene() *Scene { return w.scene }

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Debugf("TICK RATE: %d/sec | tick %d | boids %d",
			w.stepCount, w.scene.System.Tick(), len(w.scene.System.Boids()))
		w.stepCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.scene.Snapshot():
	default:
		// consumer busy, drop this one
	}
}

func (w *WorldActor) reconfigure(msg *structpb.Struct) error {
	fields := msg.GetFields()

	if v, ok := fields["seed"]; ok {
		sc := *w.scenario
		sc.Seed = uint64(v.GetNumberValue())
		sc.System = w.scene.System.Config()
		scene, err := BuildScene(&sc, w.opts...)
		if err != nil {
			return err
		}
		w.scenario, w.scene = &sc, scene
	}

	cfg := w.scene.System.Config()
	changed := false
	for key, dst := range map[string]*float64{"scale": &cfg.Scale, "maxSpeed": &cfg.MaxSpeed, "maxForce": &cfg.MaxForce} {
		if v, ok := fields[key]; ok {
			*dst = v.GetNumberValue()
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return w.scene.System.Reconfigure(cfg)
}

func (w *WorldActor) state() (*structpb.Struct, error) {
	cfg := w.scene.System.Config()
	return structpb.NewStruct(map[string]any{
		"scenario": w.scenario.Name,
		"seed":     w.scenario.Seed,
		"tick":     w.scene.System.Tick(),
		"boids":    len(w.scene.System.Boids()),
		"scale":    cfg.Scale,
		"maxSpeed": cfg.MaxSpeed,
		"maxForce": cfg.MaxForce,
	})
}
