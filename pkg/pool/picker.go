package pool

import (
	"math/rand"
	"time"

	"github.com/stephengold/poolsearch/pkg/errors"
)

// RandomPicker is the default IndexPicker, backed by a seeded PRNG. It is
// not safe for concurrent use; give each caller its own instance.
type RandomPicker struct {
	rng *rand.Rand
}

// NewRandomPicker creates a picker seeded for reproducible sampling. A
// non-positive seed selects a time-based one.
func NewRandomPicker(seed int64) *RandomPicker {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPicker{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Pick returns an index in [0, max] absent from excluded. It fails when
// every index in range is already excluded.
//
// While the exclusion set is sparse, rejection sampling is cheap and
// unbiased. Once more than half the range is excluded, the remaining free
// indices are enumerated and one is drawn directly, keeping the draw
// uniform without unbounded retries.
func (p *RandomPicker) Pick(excluded map[int]struct{}, max int) (int, error) {
	if max < 0 {
		return 0, errors.WithFields(
			errors.New(errors.InvalidArgument, "upper bound must be non-negative"),
			errors.Fields{"max": max})
	}
	if len(excluded) > max {
		return 0, errors.WithFields(
			errors.New(errors.InvalidArgument, "no unexcluded index remains"),
			errors.Fields{"max": max, "excluded": len(excluded)})
	}

	if 2*len(excluded) <= max+1 {
		for {
			index := p.rng.Intn(max + 1)
			if _, taken := excluded[index]; !taken {
				return index, nil
			}
		}
	}

	free := make([]int, 0, max+1-len(excluded))
	for index := 0; index <= max; index++ {
		if _, taken := excluded[index]; !taken {
			free = append(free, index)
		}
	}
	return free[p.rng.Intn(len(free))], nil
}
