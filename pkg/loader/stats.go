package loader

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the decoded voxel values of a volume for inspection
// reports.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// scanVolumeRange decodes the buffer and returns its minimum and maximum
// sample values. An empty volume keeps the degenerate (0, 0) range.
func scanVolumeRange(v *Volume) (lo, hi float32, err error) {
	samples, err := v.Samples()
	if err != nil {
		return 0, 0, err
	}
	if len(samples) == 0 {
		return 0, 0, nil
	}
	lo, hi = samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi, nil
}

// Summarize computes value statistics over the whole volume.
func Summarize(v *Volume) (Stats, error) {
	if !v.Info.ParseSucceeded {
		return Stats{}, errors.New("loader: cannot summarize an unparsed volume")
	}
	samples, err := v.Samples()
	if err != nil {
		return Stats{}, err
	}
	if len(samples) == 0 {
		return Stats{}, nil
	}

	values := make([]float64, len(samples))
	s := Stats{Min: float64(samples[0]), Max: float64(samples[0])}
	for i, sample := range samples {
		f := float64(sample)
		values[i] = f
		if f < s.Min {
			s.Min = f
		}
		if f > s.Max {
			s.Max = f
		}
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s, nil
}
