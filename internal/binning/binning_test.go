package binning

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBins_FineScale(t *testing.T) {
	set, err := Bins(3, 11.5, 0.85, 1)
	if err != nil {
		t.Fatalf("Bins failed: %v", err)
	}

	if set.Len() != 11 {
		t.Errorf("Len() = %d, want 11", set.Len())
	}

	if set.Labels[0] != "3.0%" {
		t.Errorf("first label = %q, want 3.0%%", set.Labels[0])
	}

	for i := 1; i < set.Len(); i++ {
		if set.Values[i] <= set.Values[i-1] {
			t.Errorf("values not strictly increasing at %d: %v <= %v", i, set.Values[i], set.Values[i-1])
		}
	}

	if last := set.Values[set.Len()-1]; last < 11.5 {
		t.Errorf("last threshold = %v, want >= 11.5", last)
	}

	if len(set.Labels) != len(set.Values) {
		t.Errorf("labels (%d) and values (%d) differ in length", len(set.Labels), len(set.Values))
	}
}

func TestBins_WholeScale(t *testing.T) {
	set, err := Bins(9, 36, 3, 0)
	if err != nil {
		t.Fatalf("Bins failed: %v", err)
	}

	want := []string{"9%", "12%", "15%", "18%", "21%", "24%", "27%", "30%", "33%", "36%"}
	if diff := cmp.Diff(want, set.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	if set.Len() != 10 {
		t.Errorf("Len() = %d, want 10", set.Len())
	}
}

func TestBins_OvershootsOffGridMax(t *testing.T) {
	set, err := Bins(0, 10, 4, 0)
	if err != nil {
		t.Fatalf("Bins failed: %v", err)
	}

	if diff := cmp.Diff([]float64{0, 4, 8, 12}, set.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBins_SinglePoint(t *testing.T) {
	set, err := Bins(5, 5, 1, 2)
	if err != nil {
		t.Fatalf("Bins failed: %v", err)
	}

	if diff := cmp.Diff([]string{"5.00%"}, set.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBins_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		step     float64
		decimals int
		wantErr  error
	}{
		{"zero step", 0, 10, 0, 0, ErrInvalidStep},
		{"negative step", 0, 10, -1, 0, ErrInvalidStep},
		{"inverted range", 10, 0, 1, 0, ErrInvalidRange},
		{"negative decimals", 0, 10, 1, -1, ErrInvalidDecimals},
		{"NaN min", math.NaN(), 10, 1, 0, ErrInvalidRange},
		{"infinite max", 0, math.Inf(1), 1, 0, ErrInvalidRange},
		{"tiny step over wide range", 0, 1e12, 1e-6, 0, ErrTooManyBins},
		{"one past the limit", 0, MaxBins, 1, 0, ErrTooManyBins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Bins(tt.lo, tt.hi, tt.step, tt.decimals); !errors.Is(err, tt.wantErr) {
				t.Errorf("Bins error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBins_AtLimit(t *testing.T) {
	set, err := Bins(0, MaxBins-1, 1, 0)
	if err != nil {
		t.Fatalf("Bins error = %v", err)
	}

	if set.Len() != MaxBins {
		t.Errorf("Len() = %d, want %d", set.Len(), MaxBins)
	}
}
