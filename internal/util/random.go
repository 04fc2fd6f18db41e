package util

import "math/rand"

// RandomInRange returns a uniformly distributed integer in [min, max],
// inclusive on both ends. min greater than max panics.
func RandomInRange(min, max int) int {
	if min > max {
		panic("util: RandomInRange called with min > max")
	}

	return min + rand.Intn(max-min+1)
}

// Chance returns true with probability p in [0, 1].
func Chance(p float64) bool {
	return rand.Float64() < p
}
