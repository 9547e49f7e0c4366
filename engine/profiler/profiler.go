package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats is a snapshot of the counters accumulated since the last report.
type Stats struct {
	Frames        int
	StagedBytes   int
	DroppedLights int
	Elapsed       time.Duration
}

// ProfilerOption configures a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithInterval sets how often Tick reports. Non-positive intervals keep the default.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithQuiet suppresses log output. Counters and snapshots still work.
func WithQuiet() ProfilerOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}

// Profiler tracks frame assembly throughput and memory statistics for performance
// monitoring. Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu             sync.Mutex
	frameCount     int
	stagedBytes    int
	droppedLights  int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	quiet          bool
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - opts: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Frame records one assembled frame: the bytes it staged for upload and how many
// active lights did not fit the light array.
//
// Parameters:
//   - stagedBytes: bytes staged across every provider of the frame
//   - droppedLights: lights left out by the overflow policy
//
// Returns:
//   - bool: true if stats were logged as a result of this frame
func (p *Profiler) Frame(stagedBytes, droppedLights int) bool {
	p.mu.Lock()
	p.stagedBytes += stagedBytes
	p.droppedLights += droppedLights
	p.mu.Unlock()
	return p.Tick()
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: frame rate, staged upload rate, dropped lights, heap usage,
// allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	stagedKB := float64(p.stagedBytes) / 1024 / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] Frames/s: %.2f | Staged: %.2f KB/s | Dropped lights: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			fps, stagedKB, p.droppedLights, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)
	}

	p.last = Stats{
		Frames:        p.frameCount,
		StagedBytes:   p.stagedBytes,
		DroppedLights: p.droppedLights,
		Elapsed:       elapsed,
	}
	p.frameCount = 0
	p.stagedBytes = 0
	p.droppedLights = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the counters of the most recent report.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
