// Package parallel provides a fixed-size worker pool where every worker knows
// its own index.
//
// Tasks are produced into a bounded queue and executed by the first free
// worker, which passes its index to the task so that tasks can address
// per-worker state without locking. The first task failure aborts the pool:
// producers see the failure on their next ProduceWith, queued tasks are
// drained without being run, and Finalize reports the failure once every
// worker has stopped. Later failures are kept as suppressed errors.
package parallel
