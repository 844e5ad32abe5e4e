package engine

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation_manager"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/charmbracelet/log"
)

// engine implements the Engine interface.
// Drives the animation manager from a fixed-rate tick loop.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	manager animation_manager.AnimationManager
	logger  *log.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	maxTicks int // stop after this many ticks; 0 = run until Quit
	ticks    atomic.Int64
}

// Engine is the host loop for animation.
// Each tick applies the previous evaluation (PreUpdate), runs the tick callback for game logic,
// then hands the frame to the animation manager (PostUpdate).
type Engine interface {
	// Manager returns the animation manager the engine drives.
	//
	// Returns:
	//   - animation_manager.AnimationManager: the manager
	Manager() animation_manager.AnimationManager

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after the previous
	// animation results are applied and before the manager advances.
	// Use this for game logic that plays, blends or stops clips.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Step runs one tick synchronously with the given delta. Not for use while Run is active.
	//
	// Parameters:
	//   - deltaTime: the tick delta in seconds
	Step(deltaTime float32)

	// Ticks returns the number of ticks run so far.
	//
	// Returns:
	//   - int64: the tick count
	Ticks() int64

	// Run starts the tick loop and blocks until Quit is called or the tick limit is reached.
	// The final evaluation is applied before Run returns.
	Run()

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithManager the engine creates a manager with default settings.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "engine",
		})
	}
	if e.manager == nil {
		e.manager = animation_manager.NewAnimationManager(animation_manager.WithLogger(e.logger))
	}
	e.profiler = profiler.NewProfiler(e.logger)

	return e
}

func (e *engine) Manager() animation_manager.AnimationManager {
	return e.manager
}

func (e *engine) Run() {
	e.running.Store(true)
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
	e.wg.Wait()
	e.running.Store(false)
	e.manager.PreUpdate()
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("engine goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.Step(dt)
			if e.maxTicks > 0 && e.ticks.Load() >= int64(e.maxTicks) {
				e.signalQuit()
				return
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

func (e *engine) Step(deltaTime float32) {
	start := time.Now()
	e.manager.PreUpdate()
	applied := time.Since(start)

	if e.tickCallback != nil {
		e.tickCallback(deltaTime)
	}

	start = time.Now()
	e.manager.PostUpdate(deltaTime)
	e.ticks.Add(1)

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Observe(applied+time.Since(start), e.manager.Count())
		e.profiler.Tick()
	}
}

func (e *engine) Ticks() int64 {
	return e.ticks.Load()
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}
