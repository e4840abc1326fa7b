package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler samples frame rate and heap statistics while the viewer runs.
// Call Tick once per frame; a summary line is logged every interval.
type Profiler struct {
	interval time.Duration

	frames      int
	windowStart time.Time

	memStats   runtime.MemStats
	lastAlloc  uint64 // TotalAlloc at the previous log line
	lastGCSeen uint32
}

// NewProfiler creates a Profiler that logs once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		interval:    time.Second,
		windowStart: time.Now(),
	}
}

// SetInterval changes how often Tick emits a summary line.
//
// Parameters:
//   - interval: time between log lines (values <= 0 reset to 1s)
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	p.interval = interval
}

// Tick records one frame and logs a summary when the interval has elapsed.
// The summary covers FPS, live heap, allocation churn since the previous
// line, and garbage collections with the most recent pause.
//
// Returns:
//   - bool: true if a summary was logged this tick
func (p *Profiler) Tick() bool {
	p.frames++
	elapsed := time.Since(p.windowStart)
	if elapsed < p.interval {
		return false
	}

	fps := float64(p.frames) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	churnMB := float64(p.memStats.TotalAlloc-p.lastAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	}
	gcDelta := gcCount - p.lastGCSeen

	log.Printf("[profiler] fps=%.1f heap=%.1fMB churn=%.1fMB/s gc=%d(+%d, last %dµs) sys=%.1fMB",
		fps, heapMB, churnMB, gcCount, gcDelta, lastPauseUs, sysMB)

	p.frames = 0
	p.windowStart = time.Now()
	p.lastAlloc = p.memStats.TotalAlloc
	p.lastGCSeen = gcCount
	return true
}
