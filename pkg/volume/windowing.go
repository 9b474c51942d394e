package volume

// Default windowing and value-range constants. These are imaging-modality
// defaults (CT-style Hounsfield range) shared with the configuration layer.
const (
	DefaultWindowCenter float32 = 0.5
	DefaultWindowWidth  float32 = 1.0
	DefaultMinValue     float32 = -1000
	DefaultMaxValue     float32 = 3000
)

// Windowing holds DICOM-style display window parameters over normalized [0,1]
// voxel intensities. The window maps [Center-Width/2, Center+Width/2] linearly
// onto [0,1]; values outside the window are clipped to 0 or 1 only when the
// corresponding cutoff is enabled, otherwise they extrapolate unclipped.
type Windowing struct {
	Center     float32
	Width      float32
	LowCutoff  bool
	HighCutoff bool
}

// DefaultWindowing returns the full open window over the normalized range.
func DefaultWindowing() Windowing {
	return Windowing{
		Center:     DefaultWindowCenter,
		Width:      DefaultWindowWidth,
		LowCutoff:  true,
		HighCutoff: true,
	}
}

// ChannelVector packs the window into an ordered (center, width, lowCutoff,
// highCutoff) 4-tuple for transport to a shader-parameter channel. Booleans
// convert to 1.0/0.0.
func (w Windowing) ChannelVector() [4]float32 {
	vec := [4]float32{w.Center, w.Width, 0, 0}
	if w.LowCutoff {
		vec[2] = 1
	}
	if w.HighCutoff {
		vec[3] = 1
	}
	return vec
}

// Apply maps a normalized intensity through the window. A zero-width window
// degenerates to a step at Center.
func (w Windowing) Apply(v float32) float32 {
	var out float32
	if w.Width == 0 {
		if v < w.Center {
			out = 0
		} else {
			out = 1
		}
	} else {
		out = (v - (w.Center - w.Width/2)) / w.Width
	}
	if w.LowCutoff && out < 0 {
		return 0
	}
	if w.HighCutoff && out > 1 {
		return 1
	}
	return out
}
