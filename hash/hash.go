// Package hash implements the modular hash used to derive reproducible seeds
package hash

import "math"

// Hash mixes n with salt s and reduces the result into [0, max).
func Hash(n uint32, s uint32, max uint32) uint32 {
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	m += s

	// multiply shift reduction instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Fold hashes values into salt one after another.
func Fold(salt uint32, values ...int) uint32 {
	for _, v := range values {
		salt = Hash(uint32(v), salt, math.MaxUint32)
	}
	return salt
}

// Seed derives a random source seed from a base seed and values, such as
// the hyperparameters of one grid combination. Equal inputs give equal
// seeds across runs.
func Seed(base int64, values ...int) int64 {
	lo := Fold(uint32(base), values...)
	hi := Fold(uint32(uint64(base)>>32)^lo, values...)
	return int64(uint64(hi)<<32 | uint64(lo))
}
