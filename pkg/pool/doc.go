// Package pool implements a bounded, fitness-ranked candidate pool for
// search and optimization loops.
//
// A Pool retains the best-scoring candidates seen so far, up to a fixed
// capacity. Candidates sharing an exact score live in one bucket, in
// insertion order; buckets are kept sorted by score. Once full, the pool
// only accepts candidates that score strictly better than the current
// worst, and culling always discards the lowest-scoring candidates first.
//
// Pools exchange candidates through merge operations that route through the
// destination's own Add, so the destination's capacity and fullness rules
// always apply. Uniform random sampling without replacement is delegated to
// an IndexPicker supplied by the caller.
//
// A Pool carries no internal locking. Callers that search concurrently
// should give each worker its own pool and merge the results afterward.
package pool
