package animation_manager

import (
	"io"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testConfig(rate, maxStep float32) config.Manager {
	cfg := config.DefaultManager()
	cfg.UpdateRate = rate
	cfg.MaxTimeStep = maxStep
	return cfg
}

func newManager(t *testing.T, cfg config.Manager) AnimationManager {
	t.Helper()
	m := NewAnimationManager(WithConfig(cfg), WithLogger(quietLogger()))
	t.Cleanup(m.Close)
	return m
}

func rig(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s, err := skeleton.NewSkeleton([]skeleton.Bone{
		{Name: "root", ParentIndex: -1, InverseBindPose: mgl32.Ident4(), Local: skeleton.IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton() error = %v", err)
	}
	return s
}

// slide moves root from the origin to (10,0,0) over one second.
func slide(opts ...clip.ClipBuilderOption) clip.Clip {
	set := &curve.Set{
		Position: []curve.Named[mgl32.Vec3]{{
			Name: "root",
			Curve: curve.NewVec3([]curve.Keyframe[mgl32.Vec3]{
				{Time: 0, Value: mgl32.Vec3{}},
				{Time: 1, Value: mgl32.Vec3{10, 0, 0}},
			}, curve.InterpolationLinear),
		}},
	}
	return clip.NewClip("slide", append([]clip.ClipBuilderOption{clip.WithCurves(set)}, opts...)...)
}

func frame(m AnimationManager, dt float32) {
	m.PostUpdate(dt)
	m.PreUpdate()
}

func rootX(a animation.Animation) float32 {
	return a.LocalPose().Positions[0].X()
}

func TestRegistryIDs(t *testing.T) {
	m := newManager(t, config.DefaultManager())

	a := m.NewAnimation()
	b := m.NewAnimation()
	if a.ID() != 1 || b.ID() != 2 {
		t.Fatalf("ids = %d %d, expected 1 2", a.ID(), b.ID())
	}
	if m.Count() != 2 || m.Animation(2) != b {
		t.Fatalf("Count() = %d, Animation(2) = %v", m.Count(), m.Animation(2))
	}

	a.Destroy()
	if m.Count() != 1 || m.Animation(1) != nil {
		t.Fatalf("after Destroy: Count() = %d, Animation(1) = %v", m.Count(), m.Animation(1))
	}

	c := m.NewAnimation()
	if c.ID() != 3 {
		t.Errorf("id after unregister = %d, expected 3 (never reused)", c.ID())
	}
}

func TestPostUpdateEvaluatesOnWorker(t *testing.T) {
	m := newManager(t, testConfig(0, 0))
	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	frame(m, 0.25)
	if got := rootX(a); mgl32.Abs(got-2.5) > 1e-4 {
		t.Errorf("root x = %v, expected 2.5", got)
	}
	if got := a.Proxy().Stats().Evaluations; got != 1 {
		t.Errorf("evaluations = %d, expected 1", got)
	}

	frame(m, 0.25)
	if got := rootX(a); mgl32.Abs(got-5) > 1e-4 {
		t.Errorf("root x = %v, expected 5", got)
	}
}

func TestUpdateRateGatesEvaluation(t *testing.T) {
	m := newManager(t, testConfig(10, 0))
	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	frame(m, 0.05)
	if got := a.Proxy().Stats().Evaluations; got != 0 {
		t.Fatalf("evaluations after half an interval = %d, expected 0", got)
	}
	if m.AnimationTime() != 0 {
		t.Fatalf("AnimationTime() = %v, expected 0", m.AnimationTime())
	}

	frame(m, 0.05)
	if got := a.Proxy().Stats().Evaluations; got != 1 {
		t.Fatalf("evaluations after a full interval = %d, expected 1", got)
	}
	if got := m.AnimationTime(); mgl32.Abs(got-0.1) > 1e-5 {
		t.Errorf("AnimationTime() = %v, expected 0.1", got)
	}
	if got := rootX(a); mgl32.Abs(got-1) > 1e-3 {
		t.Errorf("root x = %v, expected 1", got)
	}
}

func TestMaxTimeStepCapsLongFrames(t *testing.T) {
	m := newManager(t, testConfig(60, 0.1))
	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	frame(m, 0.5)
	if got := m.AnimationTime(); got != 0.1 {
		t.Errorf("AnimationTime() = %v, expected 0.1", got)
	}
	if got := rootX(a); mgl32.Abs(got-1) > 1e-4 {
		t.Errorf("root x = %v, expected 1", got)
	}
}

func TestPausedEvaluatesWithoutAdvancing(t *testing.T) {
	cfg := testConfig(0, 0)
	cfg.Paused = true
	m := newManager(t, cfg)
	if !m.Paused() {
		t.Fatal("Paused() = false, expected config value")
	}

	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Sample(slide(), 0.5)
	frame(m, 1)

	if m.AnimationTime() != 0 {
		t.Errorf("AnimationTime() = %v, expected 0 while paused", m.AnimationTime())
	}
	if got := rootX(a); mgl32.Abs(got-5) > 1e-4 {
		t.Errorf("sampled root x = %v, expected 5", got)
	}

	m.SetPaused(false)
	frame(m, 0.25)
	if got := m.AnimationTime(); got != 0.25 {
		t.Errorf("AnimationTime() = %v, expected 0.25 after resume", got)
	}
}

func TestEventsDeliveredInPreUpdate(t *testing.T) {
	m := newManager(t, testConfig(0, 0))

	var fired []string
	a := m.NewAnimation(
		animation.WithSkeleton(rig(t)),
		animation.WithEventHandler(func(_ animation.Animation, ev animation.FiredEvent) {
			fired = append(fired, ev.Event.Name)
		}),
	)
	a.Play(slide(clip.WithEvents(clip.Event{Name: "hit", Time: 0.05})))

	m.PostUpdate(0.1)
	if len(fired) != 0 {
		t.Fatalf("events fired before PreUpdate: %v", fired)
	}
	m.PreUpdate()
	if len(fired) != 1 || fired[0] != "hit" {
		t.Errorf("fired = %v, expected [hit]", fired)
	}
}

// brokenProxy panics during evaluation.
type brokenProxy struct {
	animation.Animation
}

func (brokenProxy) Proxy() *animation.AnimationProxy {
	panic("broken proxy")
}

func TestPanickingEvaluationIsIsolated(t *testing.T) {
	m := newManager(t, testConfig(0, 0))

	inner := animation.NewAnimation(animation.WithSkeleton(rig(t)))
	m.RegisterAnimation(brokenProxy{inner})

	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	frame(m, 0.5)
	if got := rootX(a); mgl32.Abs(got-5) > 1e-4 {
		t.Errorf("healthy animation root x = %v, expected 5", got)
	}

	frame(m, 0.1)
	if got := a.Proxy().Stats().Evaluations; got != 2 {
		t.Errorf("evaluations = %d, expected 2", got)
	}
}

func TestDestroyDuringEvaluation(t *testing.T) {
	m := newManager(t, testConfig(0, 0))
	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	m.PostUpdate(0.1)
	a.Destroy()
	m.PreUpdate()

	if m.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", m.Count())
	}
	frame(m, 0.1)
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewAnimationManager(WithConfig(testConfig(0, 0)), WithLogger(quietLogger()))
	a := m.NewAnimation(animation.WithSkeleton(rig(t)))
	a.Play(slide())

	m.PostUpdate(0.1)
	m.Close()
	m.Close()

	before := a.Proxy().Stats().Evaluations
	m.PostUpdate(0.1)
	m.PreUpdate()
	if got := a.Proxy().Stats().Evaluations; got != before {
		t.Errorf("evaluations after Close = %d, expected %d", got, before)
	}
}

func TestSharedPoolOutlivesManager(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(1, 4, time.Second)
	m := NewAnimationManager(WithConfig(testConfig(0, 0)), WithLogger(quietLogger()), WithWorkerPool(pool))
	frame(m, 0.1)
	m.Close()

	done := make(chan struct{})
	pool.SubmitTask(worker.Task{ID: 1, Do: func() (any, error) {
		close(done)
		return nil, nil
	}})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shared pool stopped by Close")
	}
	pool.Stop()
}

func TestInvalidConfigPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid config")
		}
	}()
	cfg := config.DefaultManager()
	cfg.Workers = 0
	NewAnimationManager(WithConfig(cfg), WithLogger(quietLogger()))
}
