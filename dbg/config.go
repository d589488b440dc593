package dbg

import (
	"fmt"
	"runtime"

	"github.com/forestrie/go-pbmer/dnabit"
)

const (
	DefaultKmerSize        = 31
	DefaultQueueMultiplier = 2
	DefaultBatchSize       = 256
)

// Config controls graph construction. The toml tags are used by the command
// line front end.
type Config struct {
	// KmerSize is the k-mer width, 1..32.
	KmerSize uint8 `toml:"kmer_size"`

	// Workers is the number of goroutines inserting k-mers.
	Workers int `toml:"workers"`

	// QueueMultiplier bounds the number of queued batches to
	// Workers*QueueMultiplier.
	QueueMultiplier int `toml:"queue_multiplier"`

	// BatchSize is the number of reads handed to a worker at once.
	BatchSize int `toml:"batch_size"`

	// Shards is the number of lock stripes over the node map.
	Shards int `toml:"shards"`

	// StrictReads makes a read with an invalid base fail the build instead of
	// being skipped.
	StrictReads bool `toml:"strict_reads"`
}

func DefaultConfig() Config {
	return Config{
		KmerSize:        DefaultKmerSize,
		Workers:         runtime.NumCPU(),
		QueueMultiplier: DefaultQueueMultiplier,
		BatchSize:       DefaultBatchSize,
		Shards:          DefaultShards,
	}
}

// Validate checks the configuration. Errors returned here are fatal to a
// build before any work starts.
func (c Config) Validate() error {
	if err := dnabit.CheckLength(int(c.KmerSize)); err != nil {
		return fmt.Errorf("kmer size: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrBadWorkers, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: got %d", ErrBadBatchSize, c.BatchSize)
	}
	if c.Shards < 1 || c.Shards > MaxShards {
		return fmt.Errorf("%w: got %d", ErrBadShards, c.Shards)
	}
	return nil
}
