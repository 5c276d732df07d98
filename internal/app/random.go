package app

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the source of randomness for sampling and shuffling.
// *rand.Rand satisfies it, so tests can pass a seeded generator.
type Random interface {
	Intn(n int) int
}

// lockedRandom makes a *rand.Rand safe to share between game connections.
type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a time-seeded Random that is safe for concurrent use.
func NewRandom() Random {
	return &lockedRandom{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// sampleIndexes picks k distinct indexes out of [0, n) uniformly, using a
// partial Fisher-Yates shuffle.
func sampleIndexes(rnd Random, n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

func shuffleStrings(rnd Random, values []string) {
	for i := len(values) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
