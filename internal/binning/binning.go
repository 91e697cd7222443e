// Package binning computes the tick thresholds of a color-bar legend.
package binning

import (
	"errors"
	"fmt"
	"math"
)

// epsilon absorbs floating point drift when counting steps.
const epsilon = 1e-9

// MaxBins bounds the number of thresholds a legend can carry.
const MaxBins = 500

// Binning errors.
var (
	ErrInvalidStep     = errors.New("step must be positive")
	ErrInvalidRange    = errors.New("min and max must be finite with max not less than min")
	ErrInvalidDecimals = errors.New("decimals must be non-negative")
	ErrTooManyBins     = errors.New("range holds too many steps")
)

// BinSet holds ordered thresholds and their display labels.
type BinSet struct {
	Values []float64
	Labels []string
}

// Len returns the number of thresholds.
func (b BinSet) Len() int {
	return len(b.Values)
}

// Bins returns thresholds min, min+step, ... up to the first value that
// reaches max, so the last threshold is always >= max. Labels are
// percentages with the given number of decimals.
func Bins(lo, hi, step float64, decimals int) (BinSet, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return BinSet{}, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}

	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi < lo {
		return BinSet{}, fmt.Errorf("%w: min %v, max %v", ErrInvalidRange, lo, hi)
	}

	if decimals < 0 {
		return BinSet{}, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}

	count := math.Ceil((hi-lo)/step + 1 - epsilon)
	if count > MaxBins {
		return BinSet{}, fmt.Errorf("%w: %.0f thresholds, at most %d", ErrTooManyBins, count, MaxBins)
	}

	n := int(count)

	set := BinSet{
		Values: make([]float64, n),
		Labels: make([]string, n),
	}

	for k := 0; k < n; k++ {
		v := lo + float64(k)*step
		set.Values[k] = v
		set.Labels[k] = Label(v, decimals)
	}

	return set, nil
}

// Label formats v as a percentage with the given precision.
func Label(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}
