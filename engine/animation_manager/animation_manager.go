package animation_manager

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/charmbracelet/log"
)

// stepEpsilon absorbs float drift when comparing accumulated time against the update interval.
const stepEpsilon = 1e-5

type animationManager struct {
	mu *sync.RWMutex

	animations map[uint64]animation.Animation
	order      []uint64
	nextID     uint64

	cfg    config.Manager
	logger *log.Logger

	pool     worker.DynamicWorkerPool
	ownsPool bool
	taskID   int

	paused        bool
	accumulated   float32
	animationTime float32

	// pending is closed by the evaluation task once every submitted proxy is evaluated.
	pending  chan struct{}
	inFlight []animation.Animation

	closed bool
}

// AnimationManager owns the registered animations and schedules their evaluation.
// PostUpdate and PreUpdate must be called from the owning thread: PostUpdate after the frame's
// game logic, PreUpdate before the next frame's game logic reads poses.
type AnimationManager interface {
	animation.Registrar

	// NewAnimation creates an Animation registered with this manager.
	//
	// Parameters:
	//   - options: functional options for the animation; the registrar is set by the manager
	//
	// Returns:
	//   - animation.Animation: the registered animation
	NewAnimation(options ...animation.AnimationBuilderOption) animation.Animation

	// PostUpdate advances animation time by frameDelta, refreshes every proxy on the calling
	// thread and submits one evaluation task to the worker pool. Frames arriving faster than
	// the configured update rate accumulate time without evaluating.
	//
	// Parameters:
	//   - frameDelta: the elapsed frame time in seconds
	PostUpdate(frameDelta float32)

	// PreUpdate blocks until the outstanding evaluation task completes, then applies the
	// results (scene objects, events) on the calling thread. A no-op when nothing is pending.
	PreUpdate()

	// SetPaused pauses or resumes animation time. A paused manager still evaluates with a zero
	// delta so state changes stay visible.
	//
	// Parameters:
	//   - paused: true to pause
	SetPaused(paused bool)

	// Paused reports whether animation time is paused.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// AnimationTime returns the total animation time applied so far, in seconds.
	//
	// Returns:
	//   - float32: the accumulated applied time
	AnimationTime() float32

	// Animation returns the registered animation with the given ID.
	//
	// Parameters:
	//   - id: the animation ID
	//
	// Returns:
	//   - animation.Animation: the animation, or nil if not registered
	Animation(id uint64) animation.Animation

	// Count returns the number of registered animations.
	//
	// Returns:
	//   - int: the registered count
	Count() int

	// Close joins any outstanding evaluation and stops the worker pool if the manager created it.
	// Safe to call multiple times.
	Close()
}

var _ AnimationManager = (*animationManager)(nil)

// NewAnimationManager creates an AnimationManager with the provided options.
// Without WithConfig the embedded defaults apply; without WithWorkerPool the manager creates and
// owns a pool sized by the config.
//
// Parameters:
//   - options: functional options for manager configuration
//
// Returns:
//   - AnimationManager: the newly created manager
func NewAnimationManager(options ...AnimationManagerBuilderOption) AnimationManager {
	m := &animationManager{
		mu:         &sync.RWMutex{},
		animations: make(map[uint64]animation.Animation),
		nextID:     1,
		cfg:        config.DefaultManager(),
	}

	for _, opt := range options {
		opt(m)
	}

	if err := m.cfg.Validate(); err != nil {
		panic(fmt.Sprintf("animation_manager: %v", err))
	}
	if m.logger == nil {
		m.logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "animation",
		})
		m.logger.SetLevel(m.cfg.Level())
	}
	if m.pool == nil {
		m.pool = worker.NewDynamicWorkerPool(m.cfg.Workers, m.cfg.QueueSize, 1*time.Second)
		m.ownsPool = true
	}
	m.paused = m.cfg.Paused

	return m
}

func (m *animationManager) RegisterAnimation(a animation.Animation) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.animations[id] = a
	m.order = append(m.order, id)
	m.logger.Debug("registered animation", "id", id, "count", len(m.order))
	return id
}

func (m *animationManager) UnregisterAnimation(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.animations[id]; !ok {
		return
	}
	delete(m.animations, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.logger.Debug("unregistered animation", "id", id, "count", len(m.order))
}

func (m *animationManager) NewAnimation(options ...animation.AnimationBuilderOption) animation.Animation {
	opts := append(options[:len(options):len(options)], animation.WithRegistrar(m))
	return animation.NewAnimation(opts...)
}

func (m *animationManager) PostUpdate(frameDelta float32) {
	if m.closed {
		return
	}
	// At most one evaluation is outstanding; apply the previous one before starting another.
	m.PreUpdate()

	delta, ok := m.step(frameDelta)
	if !ok {
		return
	}
	m.animationTime += delta

	anims := m.snapshot()
	for _, a := range anims {
		a.UpdateAnimProxy(delta)
	}

	done := make(chan struct{})
	m.pending = done
	m.inFlight = anims
	m.taskID++

	m.pool.SubmitTask(worker.Task{
		ID:      m.taskID,
		Payload: len(anims),
		Do: func() (any, error) {
			defer close(done)
			failed := 0
			for _, a := range anims {
				if !m.evaluate(a) {
					failed++
				}
			}
			if failed > 0 {
				return failed, fmt.Errorf("animation_manager: %d evaluations failed", failed)
			}
			return nil, nil
		},
	})
}

// evaluate runs one proxy evaluation, recovering a panic so a single broken animation cannot
// take down the worker or the rest of the batch.
func (m *animationManager) evaluate(a animation.Animation) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("animation evaluation panicked", "id", a.ID(), "panic", r)
			ok = false
		}
	}()
	if p := a.Proxy(); p != nil {
		p.Evaluate()
	}
	return true
}

// step applies the pacing rules to frameDelta and reports whether this frame evaluates.
// A paused manager evaluates every frame with a zero delta.
func (m *animationManager) step(frameDelta float32) (float32, bool) {
	if m.paused {
		return 0, true
	}
	if frameDelta > 0 {
		m.accumulated += frameDelta
	}
	if m.cfg.UpdateRate > 0 && m.accumulated+stepEpsilon < 1/m.cfg.UpdateRate {
		return 0, false
	}

	delta := m.accumulated
	m.accumulated = 0
	if m.cfg.MaxTimeStep > 0 && delta > m.cfg.MaxTimeStep {
		m.logger.Warn("animation step clamped", "delta", delta, "max", m.cfg.MaxTimeStep)
		delta = m.cfg.MaxTimeStep
	}
	return delta, true
}

func (m *animationManager) PreUpdate() {
	if m.pending == nil {
		return
	}
	<-m.pending
	m.pending = nil

	anims := m.inFlight
	m.inFlight = nil
	for _, a := range anims {
		// destroyed animations ignore this
		a.UpdateFromProxy()
	}
}

func (m *animationManager) SetPaused(paused bool) {
	m.paused = paused
	if paused {
		m.accumulated = 0
	}
}

func (m *animationManager) Paused() bool {
	return m.paused
}

func (m *animationManager) AnimationTime() float32 {
	return m.animationTime
}

func (m *animationManager) Animation(id uint64) animation.Animation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.animations[id]
}

func (m *animationManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

func (m *animationManager) Close() {
	if m.closed {
		return
	}
	if m.pending != nil {
		<-m.pending
		m.pending = nil
		m.inFlight = nil
	}
	m.closed = true
	if m.ownsPool {
		m.pool.Stop()
	}
}

// snapshot returns the registered animations in registration order.
func (m *animationManager) snapshot() []animation.Animation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]animation.Animation, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.animations[id])
	}
	return out
}
