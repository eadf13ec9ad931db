package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Per-tick phase timing. Phases are keyed "pkg.Operation".

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
	tickCounts = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("world.StreamTick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		tickCounts[name]++
		mu.Unlock()
	}
}

// ResetTick clears the current per-tick totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickTotals)
	clear(tickCounts)
	mu.Unlock()
}

// Phase is the accumulated time of one named phase.
type Phase struct {
	Name  string
	Total time.Duration
	Calls int
}

// Snapshot returns the current totals, slowest first.
func Snapshot() []Phase {
	mu.Lock()
	out := make([]Phase, 0, len(tickTotals))
	for k, v := range tickTotals {
		out = append(out, Phase{Name: k, Total: v, Calls: tickCounts[k]})
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n slowest phases of the current tick.
// Example: "world.StreamTick:4.2ms, meshing.Rebuild:2.1ms"
func TopN(n int) string {
	phases := Snapshot()
	n = min(n, len(phases))
	parts := make([]string, 0, n)
	for _, p := range phases[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", p.Name, float64(p.Total.Microseconds())/1000.0))
	}
	return strings.Join(parts, ", ")
}
