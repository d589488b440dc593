package dbg

import "errors"

var (
	ErrKmerWidth    = errors.New("dbg: k-mer width does not match the graph")
	ErrNotCanonical = errors.New("dbg: k-mer is not in canonical form")
	ErrBadWorkers   = errors.New("dbg: workers must be at least 1")
	ErrBadBatchSize = errors.New("dbg: batch size must be at least 1")
	ErrBadShards    = errors.New("dbg: shards must be in 1..65536")
)
