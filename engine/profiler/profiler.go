package profiler

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"
)

// Profiler tracks tick rate, animation update cost and memory statistics.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger *log.Logger

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	updateTotal time.Duration
	updateMax   time.Duration
	animations  int
}

// NewProfiler creates a new Profiler logging to logger, or to the default logger if nil.
// Update interval defaults to 1 second.
//
// Parameters:
//   - logger: destination for the periodic stats
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger) *Profiler {
	if logger == nil {
		logger = log.Default()
	}
	return &Profiler{
		logger:         logger,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often stats are logged. Non-positive values are ignored.
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Observe records the wall time one animation update took and how many animations it covered.
//
// Parameters:
//   - d: the PostUpdate + PreUpdate duration
//   - animations: the registered animation count
func (p *Profiler) Observe(d time.Duration, animations int) {
	p.updateTotal += d
	p.updateMax = max(p.updateMax, d)
	p.animations = animations
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: tick rate, average and worst animation update, heap usage, allocation rate,
// GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	avgUpdate := p.updateTotal / time.Duration(p.frameCount)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("profiler",
		"tps", fps,
		"animations", p.animations,
		"update_avg", avgUpdate,
		"update_max", p.updateMax,
		"heap_mb", allocMB,
		"alloc_mb_s", allocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", sysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.updateTotal = 0
	p.updateMax = 0
	return true
}
