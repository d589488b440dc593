package dbg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-pbmer/dnabit"
	"github.com/forestrie/go-pbmer/parallel"
	"github.com/forestrie/go-pbmer/reads"
	"github.com/google/uuid"
)

// Report summarises a single build.
type Report struct {
	BuildID    string
	Reads      int64
	Skipped    int64
	Kmers      int64
	Suppressed int
}

// Builder streams reads from a source through a worker pool into a Graph.
type Builder struct {
	cfg     Config
	log     logger.Logger
	metrics *Metrics
}

type BuilderOption func(*Builder)

// WithMetrics directs the builder's counters to m.
func WithMetrics(m *Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

func NewBuilder(cfg Config, log logger.Logger, opts ...BuilderOption) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.QueueMultiplier < 1 {
		cfg.QueueMultiplier = DefaultQueueMultiplier
	}
	b := &Builder{cfg: cfg, log: log}
	for _, o := range opts {
		o(b)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics(nil)
	}
	return b, nil
}

func (b *Builder) Config() Config { return b.cfg }

// Build creates a graph and fills it from src. On failure the partially built
// graph is returned with the error; every node in it is consistent.
func (b *Builder) Build(ctx context.Context, src reads.Source) (*Graph, Report, error) {
	g, err := NewGraph(b.cfg.KmerSize, WithShards(b.cfg.Shards))
	if err != nil {
		return nil, Report{}, err
	}
	rep, err := b.BuildInto(ctx, g, src)
	return g, rep, err
}

type buildCounters struct {
	reads   atomic.Int64
	skipped atomic.Int64
	kmers   atomic.Int64
}

// BuildInto adds every read of src to g.
//
// Reads are batched and dispatched to the worker pool. A read containing an
// invalid base is skipped unless StrictReads is set. The first worker failure
// stops dispatch; it is returned, as a *parallel.TaskError, once all queued
// work has drained. Cancelling ctx also stops dispatch.
func (b *Builder) BuildInto(ctx context.Context, g *Graph, src reads.Source) (Report, error) {
	if g.K() != b.cfg.KmerSize {
		return Report{}, fmt.Errorf("%w: got %d, want %d", ErrKmerWidth, g.K(), b.cfg.KmerSize)
	}

	rep := Report{BuildID: uuid.NewString()}
	b.log.Infof("build %s: k=%d workers=%d batch=%d strict=%v",
		rep.BuildID, b.cfg.KmerSize, b.cfg.Workers, b.cfg.BatchSize, b.cfg.StrictReads)

	pool, err := parallel.New(b.cfg.Workers, parallel.WithQueueMultiplier(b.cfg.QueueMultiplier))
	if err != nil {
		return rep, err
	}

	buildID := rep.BuildID
	var counts buildCounters
	batch := make([]reads.Read, 0, b.cfg.BatchSize)
	dispatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		work := batch
		batch = make([]reads.Read, 0, b.cfg.BatchSize)
		return pool.ProduceWith(ctx, func(index int) error {
			return b.addBatch(buildID, index, g, work, &counts)
		})
	}

	var produceErr error
	for produceErr == nil {
		if produceErr = ctx.Err(); produceErr != nil {
			break
		}
		r, err := src.Next()
		if errors.Is(err, io.EOF) {
			produceErr = dispatch()
			break
		}
		if err != nil {
			produceErr = fmt.Errorf("dbg: read source: %w", err)
			break
		}
		batch = append(batch, r)
		if len(batch) >= b.cfg.BatchSize {
			produceErr = dispatch()
		}
	}
	poolErr := pool.Finalize()

	rep.Reads = counts.reads.Load()
	rep.Skipped = counts.skipped.Load()
	rep.Kmers = counts.kmers.Load()
	rep.Suppressed = pool.Suppressed()
	b.metrics.TaskErrorsSuppressed.Add(float64(rep.Suppressed))
	b.metrics.Nodes.Set(float64(g.Len()))

	// a producer error may be the pool failure surfacing early; prefer the
	// pool's own report of it.
	err = poolErr
	if err == nil {
		err = produceErr
	}
	if err != nil {
		b.log.Infof("build %s: failed after %d reads (%d skipped, %d suppressed errors): %v",
			rep.BuildID, rep.Reads, rep.Skipped, rep.Suppressed, err)
		return rep, err
	}
	b.log.Infof("build %s: %d reads, %d skipped, %d k-mers, %d nodes",
		rep.BuildID, rep.Reads, rep.Skipped, rep.Kmers, g.Len())
	return rep, nil
}

func (b *Builder) addBatch(buildID string, worker int, g *Graph, batch []reads.Read, counts *buildCounters) error {
	for _, r := range batch {
		n, err := g.AddRead(r.ID, r.Seq)
		if err != nil {
			if errors.Is(err, dnabit.ErrInvalidBase) && !b.cfg.StrictReads {
				counts.skipped.Add(1)
				b.metrics.ReadsSkipped.Inc()
				b.log.Debugf("build %s: worker %d: skipping read %d %s: %v", buildID, worker, r.ID, r.Name, err)
				continue
			}
			return fmt.Errorf("read %d %s: %w", r.ID, r.Name, err)
		}
		counts.reads.Add(1)
		counts.kmers.Add(int64(n))
		b.metrics.ReadsProcessed.Inc()
		b.metrics.KmersInserted.Add(float64(n))
	}
	return nil
}
