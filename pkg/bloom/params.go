package bloom

import (
	"fmt"
	"math"
)

// ln2Squared is ln(2) squared, used in the optimal sizing formulas.
const ln2Squared = math.Ln2 * math.Ln2

// OptimalM computes the optimal bit-array capacity for n expected elements at
// false-positive rate fp using the formula m = ceil(-n * ln(fp) / ln(2)^2).
func OptimalM(expectedElements uint, falsePositiveRate float64) (uint, error) {
	if expectedElements == 0 {
		return 0, fmt.Errorf("%w: expected elements must be positive", ErrInvalidParameter)
	}

	err := validateRate(falsePositiveRate)
	if err != nil {
		return 0, err
	}

	m := math.Ceil(-float64(expectedElements) * math.Log(falsePositiveRate) / ln2Squared)

	return uint(m), nil
}

// OptimalK computes the optimal number of hash positions for a filter of m
// bits holding n elements using the formula k = max(1, floor(m/n * ln 2)).
// The floor never drops below one hash position, even when m is far smaller
// than n.
func OptimalK(capacity, expectedElements uint) (uint, error) {
	if capacity == 0 {
		return 0, fmt.Errorf("%w: capacity must be positive", ErrInvalidParameter)
	}

	if expectedElements == 0 {
		return 0, fmt.Errorf("%w: expected elements must be positive", ErrInvalidParameter)
	}

	k := uint(float64(capacity) / float64(expectedElements) * math.Ln2)
	if k < 1 {
		return 1, nil
	}

	return k, nil
}

// BitsPerElement returns the bit cost per stored element at the given
// false-positive rate: -ln(fp) / ln(2)^2. A 1% rate costs about 9.6 bits per
// element regardless of how many elements the filter holds.
func BitsPerElement(falsePositiveRate float64) (float64, error) {
	err := validateRate(falsePositiveRate)
	if err != nil {
		return 0, err
	}

	return -math.Log(falsePositiveRate) / ln2Squared, nil
}

// validateRate rejects false-positive rates outside the open interval (0, 1).
// NaN fails the check too.
func validateRate(falsePositiveRate float64) error {
	if math.IsNaN(falsePositiveRate) || falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return fmt.Errorf("%w: false-positive rate must be in the open interval (0, 1), got %v",
			ErrInvalidParameter, falsePositiveRate)
	}

	return nil
}
