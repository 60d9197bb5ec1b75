package exam

import "math/rand"

// Sample draws n items uniformly without replacement by shuffling a copy of pool
// and keeping the first n. The result is in shuffled order. n is capped at
// len(pool); pool is not modified.
func Sample[T any](rng *rand.Rand, pool []T, n int) []T {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	cp := append([]T(nil), pool...)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp[:n]
}
