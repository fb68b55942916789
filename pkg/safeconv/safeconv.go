// Package safeconv provides safe integer type conversion functions that panic on overflow.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxInt64 is the maximum value for int64 type.
const MaxInt64 = int64(math.MaxInt64)

// MustUintToInt converts uint to int, panics on overflow.
// Use only when overflow is logically impossible.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: uint to int overflow")
	}

	return int(v)
}

// MustUintToInt64 converts uint to int64, panics on overflow.
// Use only when overflow is logically impossible.
func MustUintToInt64(v uint) int64 {
	if uint64(v) > uint64(MaxInt64) {
		panic("safeconv: uint to int64 overflow")
	}

	return int64(v)
}

// MustUint64ToInt64 converts uint64 to int64, panics on overflow.
// Use only when overflow is logically impossible.
func MustUint64ToInt64(v uint64) int64 {
	if v > uint64(MaxInt64) {
		panic("safeconv: uint64 to int64 overflow")
	}

	return int64(v)
}

// MustIntToUint converts int to uint, panics if negative.
// Use only when negative values are logically impossible.
func MustIntToUint(v int) uint {
	if v < 0 {
		panic("safeconv: negative int to uint conversion")
	}

	return uint(v)
}
