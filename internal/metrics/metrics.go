// Package metrics exports streaming and meshing activity as Prometheus metrics.
//
// Metrics (namespace "voxel"):
//   - chunks_generated_total, chunks_evicted_total: counters
//   - chunks_loaded, chunks_pending: gauges, updated once per streaming tick
//   - chunk_generate_seconds, mesh_build_seconds: histograms
//   - meshes_rebuilt_total, mesh_quads_total: counters
package metrics

import (
	"time"

	"mini-voxel/internal/world"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// Collector implements world.StreamObserver and meshing.Observer.
type Collector struct {
	chunksGenerated prometheus.Counter
	chunksEvicted   prometheus.Counter
	chunksLoaded    prometheus.Gauge
	chunksPending   prometheus.Gauge
	generateSeconds prometheus.Histogram
	meshesRebuilt   prometheus.Counter
	meshQuads       prometheus.Counter
	meshSeconds     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Collector {
	buckets := []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1}
	c := &Collector{
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks generated and installed by the streamer.",
		}),
		chunksEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_evicted_total",
			Help:      "Chunks evicted for leaving the render window.",
		}),
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Chunks currently loaded.",
		}),
		chunksPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_pending",
			Help:      "Window coordinates still missing after the last streaming tick.",
		}),
		generateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generate_seconds",
			Help:      "Time to generate one chunk.",
			Buckets:   buckets,
		}),
		meshesRebuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meshes_rebuilt_total",
			Help:      "Chunk meshes rebuilt by the dirty-mesh pass.",
		}),
		meshQuads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_quads_total",
			Help:      "Quads emitted across all mesh rebuilds.",
		}),
		meshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mesh_build_seconds",
			Help:      "Time to extract one chunk mesh.",
			Buckets:   buckets,
		}),
	}
	reg.MustRegister(
		c.chunksGenerated, c.chunksEvicted, c.chunksLoaded, c.chunksPending,
		c.generateSeconds, c.meshesRebuilt, c.meshQuads, c.meshSeconds,
	)
	return c
}

// ChunkGenerated records one generated chunk.
func (c *Collector) ChunkGenerated(_ world.ChunkCoord, took time.Duration) {
	c.chunksGenerated.Inc()
	c.generateSeconds.Observe(took.Seconds())
}

// ChunksEvicted records an eviction batch.
func (c *Collector) ChunksEvicted(n int) {
	c.chunksEvicted.Add(float64(n))
}

// StreamTicked updates the window gauges.
func (c *Collector) StreamTicked(stats world.StreamStats) {
	c.chunksLoaded.Set(float64(stats.Loaded))
	c.chunksPending.Set(float64(stats.Pending))
}

// MeshRebuilt records one installed mesh.
func (c *Collector) MeshRebuilt(_ world.ChunkCoord, quads int, took time.Duration) {
	c.meshesRebuilt.Inc()
	c.meshQuads.Add(float64(quads))
	c.meshSeconds.Observe(took.Seconds())
}
