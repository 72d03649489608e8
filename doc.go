// Package poolsearch provides a bounded, fitness-ranked candidate pool and
// the iterative search loop that owns it.
//
// The heart of the module is pool.Pool, an ordered multiset of candidates
// keyed by a totally-ordered fitness score and capped at a fixed capacity.
// Once the pool is full, a new candidate is only accepted when it scores
// strictly better than the current worst; culling always discards the
// lowest-fitness candidates first. Pools can exchange candidates through a
// family of merge operations: best-first with a budget, by explicit subset
// mask, by uniform random sample without replacement, or wholesale.
//
// Key Components:
//
//   - pool: the generic Pool[F, E] container, its merge/sampling family and
//     the IndexPicker collaborator used for unbiased sampling.
//
//   - search: a generation-based search engine that fans candidate
//     evaluation out over worker-owned pools and merges the survivors into
//     a shared elite pool.
//
//   - config: YAML-backed configuration with struct validation and
//     defaults.
//
//   - errors, logging: structured errors and severity-filtered logging used
//     throughout the module.
//
// Simple Example:
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/stephengold/poolsearch/pkg/pool"
//	)
//
//	func main() {
//	    elite, err := pool.New[float64, string](3)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    _ = elite.Add("coarse guess", 0.2)
//	    _ = elite.Add("refined guess", 0.8)
//	    _ = elite.Add("wild guess", 0.1)
//	    _ = elite.Add("best guess", 0.9) // evicts "wild guess"
//
//	    best, _ := elite.Fittest()
//	    fmt.Println(best)
//	}
//
// The container is single-threaded by design; concurrent searches give each
// worker its own pool and merge the results afterward, which is exactly what
// the search package does.
//
// poolsearch is released under the MIT License.
package poolsearch
