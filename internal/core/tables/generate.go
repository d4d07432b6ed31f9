package tables

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// pick returns a random element of options.
func pick[T any](rng *rand.Rand, options []T) T {
	return options[rng.IntN(len(options))]
}

// octoberDate returns a day in October 2025 between 1 and maxDay.
func octoberDate(rng *rand.Rand, maxDay int) string {
	return fmt.Sprintf("2025-10-%02d", rng.IntN(maxDay)+1)
}

// round rounds f to the given number of decimal places.
func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

// NewRand returns a generator seeded deterministically from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
