package meshing

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"golang.org/x/sync/errgroup"
)

// MeshJob is one dirty chunk queued for extraction.
type MeshJob struct {
	Chunk *world.Chunk
	Coord world.ChunkCoord
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord world.ChunkCoord
	Mesh  *world.Mesh
	Took  time.Duration
}

// Observer is notified of every mesh installed by a rebuild pass.
type Observer interface {
	MeshRebuilt(coord world.ChunkCoord, quads int, took time.Duration)
}

// Rebuilder runs the per-tick dirty-mesh pass. Extraction fans out over a
// bounded set of workers; results are installed in coordinate order on the
// calling goroutine, so the store and sink only ever see one writer.
type Rebuilder struct {
	store    *world.ChunkStore
	sink     world.MeshSink
	observer Observer
	workers  int
	log      *slog.Logger
}

// NewRebuilder creates a rebuild pass over store. workers <= 0 uses GOMAXPROCS.
func NewRebuilder(store *world.ChunkStore, workers int, log *slog.Logger) *Rebuilder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Rebuilder{
		store:   store,
		workers: workers,
		log:     log.With("component", "mesher"),
	}
}

// SetMeshSink sets the rendering collaborator that receives rebuilt meshes.
func (r *Rebuilder) SetMeshSink(sink world.MeshSink) { r.sink = sink }

// SetObserver installs a rebuild observer (metrics).
func (r *Rebuilder) SetObserver(o Observer) { r.observer = o }

// Workers returns the extraction concurrency.
func (r *Rebuilder) Workers() int { return r.workers }

// Rebuild extracts a mesh for every dirty chunk, stores it in the chunk's
// arena entry, clears the dirty flag and hands the mesh to the sink.
// It must run after the streaming phase of a tick, never concurrently with it.
// On cancellation nothing from the pass is installed.
func (r *Rebuilder) Rebuild(ctx context.Context) (int, error) {
	defer profiling.Track("meshing.Rebuild")()

	dirty := r.store.DirtyChunks()
	if len(dirty) == 0 {
		return 0, nil
	}

	jobs := make([]MeshJob, len(dirty))
	for i, d := range dirty {
		jobs[i] = MeshJob{Chunk: d.Chunk, Coord: d.Coord}
	}
	results, err := r.extract(ctx, jobs)
	if err != nil {
		return 0, err
	}

	installed := 0
	for _, res := range results {
		if !r.store.SetMesh(res.Coord, res.Mesh) {
			continue
		}
		installed++
		if r.sink != nil {
			r.sink.UploadMesh(res.Coord, res.Mesh)
		}
		if r.observer != nil {
			r.observer.MeshRebuilt(res.Coord, res.Mesh.QuadCount(), res.Took)
		}
	}
	r.log.Debug("rebuilt meshes", "count", installed)
	return installed, nil
}

// extract builds meshes for jobs; results[i] belongs to jobs[i].
func (r *Rebuilder) extract(ctx context.Context, jobs []MeshJob) ([]MeshResult, error) {
	results := make([]MeshResult, len(jobs))
	if len(jobs) == 1 || r.workers == 1 {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = buildMesh(job)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = buildMesh(job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a cancel that lands after the last job started still aborts the pass
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildMesh(job MeshJob) MeshResult {
	start := time.Now()
	mesh := job.Chunk.GenerateMesh()
	return MeshResult{Coord: job.Coord, Mesh: mesh, Took: time.Since(start)}
}
