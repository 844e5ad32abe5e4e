package engine

import (
	"io"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation_manager"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

func testEngine(t *testing.T, opts ...EngineBuilderOption) Engine {
	t.Helper()
	cfg := config.DefaultManager()
	cfg.UpdateRate = 0
	cfg.MaxTimeStep = 0
	logger := log.New(io.Discard)
	m := animation_manager.NewAnimationManager(animation_manager.WithConfig(cfg), animation_manager.WithLogger(logger))
	t.Cleanup(m.Close)
	return NewEngine(append([]EngineBuilderOption{WithManager(m), WithLogger(logger)}, opts...)...)
}

func weightClip() clip.Clip {
	return clip.NewClip("weight", clip.WithCurves(&curve.Set{
		Generic: []curve.Named[float32]{{
			Name:  "w",
			Curve: curve.NewFloat([]curve.Keyframe[float32]{{Time: 0, Value: 0}, {Time: 2, Value: 2}}, curve.InterpolationLinear),
		}},
	}))
}

func TestStepOrdersCallbackAndManager(t *testing.T) {
	e := testEngine(t)
	a := e.Manager().NewAnimation()

	var seen []float32
	e.SetTickCallback(func(dt float32) {
		if e.Ticks() == 0 {
			a.Play(weightClip())
		}
		v, _ := a.GenericCurveValue("w")
		seen = append(seen, v)
	})

	e.Step(0.5)
	e.Step(0.5)
	e.Step(0.5)

	// the callback sees the previous tick's evaluation
	want := []float32{0, 0.5, 1}
	for i := range want {
		if mgl32.Abs(seen[i]-want[i]) > 1e-5 {
			t.Fatalf("seen = %v, expected %v", seen, want)
		}
	}
	if e.Ticks() != 3 {
		t.Errorf("Ticks() = %d, expected 3", e.Ticks())
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	e := testEngine(t, WithTickRate(1000), WithMaxTicks(5), WithProfiling(true))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		e.Quit()
		t.Fatal("Run did not stop at the tick limit")
	}
	if e.Ticks() != 5 {
		t.Errorf("Ticks() = %d, expected 5", e.Ticks())
	}
}

func TestQuitStopsRun(t *testing.T) {
	e := testEngine(t, WithTickRate(1000))
	a := e.Manager().NewAnimation()
	a.Play(weightClip())

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	e.SetTickRate(500)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}
