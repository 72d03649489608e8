package pool

import (
	"cmp"

	"github.com/google/btree"

	"github.com/stephengold/poolsearch/pkg/errors"
)

// btreeDegree controls the branching factor of the bucket tree. Pools are
// typically small (tens to hundreds of distinct scores), so a low degree
// keeps rebalancing cheap.
const btreeDegree = 4

// bucket holds every element sharing one exact score, in insertion order.
// A bucket is never retained empty.
type bucket[F cmp.Ordered, E comparable] struct {
	score    F
	elements []E
}

// Pool is a bounded multiset of elements ranked by a totally-ordered
// fitness score. Higher scores are better.
//
// Within one bucket, elements are unique: submitting an equal element to
// the same score is silently dropped. Equal elements submitted under
// different scores are NOT deduplicated against each other; that is
// documented behavior, not an accident to correct.
//
// The zero value of E is reserved as the invalid element handle and is
// rejected by Add. Element types with a meaningful zero value should be
// wrapped in a struct or pointer handle.
type Pool[F cmp.Ordered, E comparable] struct {
	capacity int
	size     int
	buckets  *btree.BTreeG[*bucket[F, E]]
}

// IndexPicker chooses a not-yet-excluded index in [0, max]. It is the one
// external collaborator of the Pool, used for sampling without replacement.
//
// The caller records each returned index in the exclusion set before the
// next call, and never requests more distinct indices than exist.
type IndexPicker interface {
	Pick(excluded map[int]struct{}, max int) (int, error)
}

// New creates an empty pool with the given capacity.
func New[F cmp.Ordered, E comparable](capacity int) (*Pool[F, E], error) {
	if capacity <= 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidArgument, "pool capacity must be positive"),
			errors.Fields{"capacity": capacity})
	}

	less := func(a, b *bucket[F, E]) bool {
		return a.score < b.score
	}
	return &Pool[F, E]{
		capacity: capacity,
		buckets:  btree.NewG(btreeDegree, less),
	}, nil
}

// Size returns the number of elements currently retained.
func (p *Pool[F, E]) Size() int {
	return p.size
}

// Capacity returns the maximum number of elements ever retained.
func (p *Pool[F, E]) Capacity() int {
	return p.capacity
}

// SetCapacity changes the capacity, culling immediately if the pool holds
// more elements than the new bound.
func (p *Pool[F, E]) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return errors.WithFields(
			errors.New(errors.InvalidArgument, "pool capacity must be positive"),
			errors.Fields{"capacity": capacity})
	}

	p.capacity = capacity
	if p.size > capacity {
		return p.Cull(capacity)
	}
	return nil
}

// Add inserts one element at the given score.
//
// If the pool is full and score is not strictly greater than the current
// worst score, the element is silently discarded: a full pool only accepts
// a candidate that beats something it would replace. Ties with the worst
// score are rejected, not swapped in.
func (p *Pool[F, E]) Add(element E, score F) error {
	var zero E
	if element == zero {
		return errors.New(errors.InvalidArgument, "element must not be the zero value")
	}

	if p.size >= p.capacity {
		worst, _ := p.WorstScore()
		if score <= worst {
			return nil
		}
	}

	p.insert(element, score)
	return p.Cull(p.capacity)
}

// AddAll inserts a batch of elements at a single score.
//
// The fullness check runs once against the state before any element of the
// batch is added, so an accepted batch is inserted whole and then clamped
// back to capacity by the trailing cull. This is deliberately different
// from repeated single-element Add calls.
func (p *Pool[F, E]) AddAll(elements []E, score F) error {
	var zero E
	for _, element := range elements {
		if element == zero {
			return errors.New(errors.InvalidArgument, "element must not be the zero value")
		}
	}

	if p.size >= p.capacity {
		worst, _ := p.WorstScore()
		if score <= worst {
			return nil
		}
	}

	for _, element := range elements {
		p.insert(element, score)
	}
	return p.Cull(p.capacity)
}

// insert places element into the bucket for score, creating the bucket if
// absent. Duplicates within the bucket are dropped. Reports whether the
// element was actually stored.
func (p *Pool[F, E]) insert(element E, score F) bool {
	probe := &bucket[F, E]{score: score}
	b, found := p.buckets.Get(probe)
	if !found {
		probe.elements = []E{element}
		p.buckets.ReplaceOrInsert(probe)
		p.size++
		return true
	}

	for _, existing := range b.elements {
		if existing == element {
			return false
		}
	}
	b.elements = append(b.elements, element)
	p.size++
	return true
}

// BestScore returns the highest score present, or false if the pool is
// empty.
func (p *Pool[F, E]) BestScore() (F, bool) {
	b, ok := p.buckets.Max()
	if !ok {
		var zero F
		return zero, false
	}
	return b.score, true
}

// WorstScore returns the lowest score present, or false if the pool is
// empty.
func (p *Pool[F, E]) WorstScore() (F, bool) {
	b, ok := p.buckets.Min()
	if !ok {
		var zero F
		return zero, false
	}
	return b.score, true
}

// Fittest returns the first-inserted element of the best-score bucket, or
// false if the pool is empty.
func (p *Pool[F, E]) Fittest() (E, bool) {
	b, ok := p.buckets.Max()
	if !ok {
		var zero E
		return zero, false
	}
	return b.elements[0], true
}

// Cull reduces the pool to at most target elements, discarding
// lowest-scoring elements first. Within the bucket that straddles the
// target, elements are removed in insertion order.
func (p *Pool[F, E]) Cull(target int) error {
	if target < 0 {
		return errors.WithFields(
			errors.New(errors.InvalidArgument, "cull target must be non-negative"),
			errors.Fields{"target": target})
	}

	for p.size > target {
		worst, _ := p.buckets.Min()
		if p.size-len(worst.elements) >= target {
			// The whole bucket can go.
			p.buckets.DeleteMin()
			p.size -= len(worst.elements)
			continue
		}

		drop := p.size - target
		worst.elements = worst.elements[drop:]
		p.size = target
	}
	return nil
}

// ListElements returns a snapshot of all elements ordered by descending
// score; elements sharing a score appear in insertion order.
func (p *Pool[F, E]) ListElements() []E {
	result := make([]E, 0, p.size)
	p.buckets.Descend(func(b *bucket[F, E]) bool {
		result = append(result, b.elements...)
		return true
	})
	return result
}

// MergeFittestTo copies up to maxCount of this pool's best elements into
// destination, walking buckets best-first. Whole buckets are merged as a
// batch while the budget allows; the bucket that would overflow the budget
// contributes only enough elements, in insertion order, to reach it.
//
// The returned count is the number of elements handed to the destination;
// the destination's own capacity and fullness rules decide which of them
// survive there.
func (p *Pool[F, E]) MergeFittestTo(maxCount int, destination *Pool[F, E]) (int, error) {
	if destination == nil {
		return 0, errors.New(errors.InvalidArgument, "destination pool must not be nil")
	}
	if maxCount < 0 {
		return 0, errors.WithFields(
			errors.New(errors.InvalidArgument, "merge budget must be non-negative"),
			errors.Fields{"maxCount": maxCount})
	}

	merged := 0
	var mergeErr error
	p.buckets.Descend(func(b *bucket[F, E]) bool {
		if merged >= maxCount {
			return false
		}

		take := b.elements
		if merged+len(take) > maxCount {
			take = take[:maxCount-merged]
		}
		if err := destination.AddAll(take, b.score); err != nil {
			mergeErr = err
			return false
		}
		merged += len(take)
		return merged < maxCount
	})
	return merged, mergeErr
}

// MergeSubsetTo merges the elements selected by mask into destination.
// Mask index 0 denotes the LEAST-fit element: indices are assigned walking
// buckets in ascending score order, each bucket in insertion order. Set
// bits beyond the pool's size are ignored.
func (p *Pool[F, E]) MergeSubsetTo(mask []bool, destination *Pool[F, E]) (int, error) {
	if destination == nil {
		return 0, errors.New(errors.InvalidArgument, "destination pool must not be nil")
	}

	merged := 0
	index := 0
	var mergeErr error
	p.buckets.Ascend(func(b *bucket[F, E]) bool {
		for _, element := range b.elements {
			if index >= len(mask) {
				return false
			}
			if mask[index] {
				if err := destination.Add(element, b.score); err != nil {
					mergeErr = err
					return false
				}
				merged++
			}
			index++
		}
		return true
	})
	return merged, mergeErr
}

// MergeUniformTo merges a uniformly random subset of min(maxCount, Size())
// elements into destination, using picker to draw distinct indices without
// replacement. When maxCount covers the whole pool, sampling is bypassed
// and everything is merged.
func (p *Pool[F, E]) MergeUniformTo(maxCount int, picker IndexPicker, destination *Pool[F, E]) (int, error) {
	if destination == nil {
		return 0, errors.New(errors.InvalidArgument, "destination pool must not be nil")
	}
	if maxCount < 0 {
		return 0, errors.WithFields(
			errors.New(errors.InvalidArgument, "merge budget must be non-negative"),
			errors.Fields{"maxCount": maxCount})
	}
	if maxCount >= p.size {
		return p.MergeTo(destination)
	}
	if picker == nil {
		return 0, errors.New(errors.InvalidArgument, "index picker must not be nil")
	}

	excluded := make(map[int]struct{}, maxCount)
	mask := make([]bool, p.size)
	for i := 0; i < maxCount; i++ {
		index, err := picker.Pick(excluded, p.size-1)
		if err != nil {
			return 0, errors.Wrap(err, errors.InvalidArgument, "index picker failed")
		}
		if index < 0 || index >= p.size {
			return 0, errors.WithFields(
				errors.New(errors.InvalidState, "index picker returned an out-of-range index"),
				errors.Fields{"index": index, "size": p.size})
		}
		excluded[index] = struct{}{}
		mask[index] = true
	}
	return p.MergeSubsetTo(mask, destination)
}

// MergeTo merges every element into destination, bucket by bucket in
// ascending score order.
func (p *Pool[F, E]) MergeTo(destination *Pool[F, E]) (int, error) {
	if destination == nil {
		return 0, errors.New(errors.InvalidArgument, "destination pool must not be nil")
	}

	merged := 0
	var mergeErr error
	p.buckets.Ascend(func(b *bucket[F, E]) bool {
		if err := destination.AddAll(b.elements, b.score); err != nil {
			mergeErr = err
			return false
		}
		merged += len(b.elements)
		return true
	})
	return merged, mergeErr
}

// CheckInvariants verifies the pool's internal consistency: size within
// capacity, no empty bucket, no duplicate within a bucket, and size equal
// to the sum of bucket lengths. A non-nil result indicates a defect in this
// package.
func (p *Pool[F, E]) CheckInvariants() error {
	if p.size < 0 || p.size > p.capacity {
		return errors.WithFields(
			errors.New(errors.InvalidState, "pool size out of bounds"),
			errors.Fields{"size": p.size, "capacity": p.capacity})
	}

	counted := 0
	var invariantErr error
	p.buckets.Ascend(func(b *bucket[F, E]) bool {
		if len(b.elements) == 0 {
			invariantErr = errors.WithFields(
				errors.New(errors.InvalidState, "empty bucket retained"),
				errors.Fields{"score": b.score})
			return false
		}
		seen := make(map[E]struct{}, len(b.elements))
		for _, element := range b.elements {
			if _, dup := seen[element]; dup {
				invariantErr = errors.WithFields(
					errors.New(errors.InvalidState, "duplicate element within a bucket"),
					errors.Fields{"score": b.score})
				return false
			}
			seen[element] = struct{}{}
		}
		counted += len(b.elements)
		return true
	})
	if invariantErr != nil {
		return invariantErr
	}

	if counted != p.size {
		return errors.WithFields(
			errors.New(errors.InvalidState, "size does not match bucket contents"),
			errors.Fields{"size": p.size, "counted": counted})
	}
	return nil
}
