// Package volume defines the metadata contract shared by every stage of the
// volumetric loading and rendering pipeline: the voxel format enumeration,
// DICOM-style windowing parameters, and the Info record a loader publishes
// after parsing a volume file.
//
// An Info is written exactly once, by its loader, during the one-shot
// parse-and-convert step. After the loader returns it, the record is
// immutable and safe to read concurrently from any number of goroutines
// without locking. It describes a voxel buffer; it never owns one.
package volume

import (
	"fmt"
	"strings"
)

// IntVec3 is a voxel-space extent.
type IntVec3 struct {
	X, Y, Z int32
}

// Vec3 is a physical-space vector, in millimeters throughout this package.
type Vec3 struct {
	X, Y, Z float64
}

// Info describes one loaded volume: its geometry, voxel encoding, original
// value range and default visualization window.
//
// Only the canonical fields are stored. Everything derivable from them
// (world dimensions, signedness, bytes per voxel, voxel and byte counts) is
// computed on demand, so a stale cached copy can never disagree with the
// field it mirrors.
type Info struct {
	// ParseSucceeded is false when the loader could not parse the source
	// file. Every other field is meaningless then; consumers must check
	// this flag before reading anything else.
	ParseSucceeded bool

	// DataFileName is the name of the loaded volume file, including
	// extension. Informational only.
	DataFileName string

	// OriginalFormat is the voxel encoding as read from the source file.
	OriginalFormat Format

	// ActualFormat is the encoding after in-memory conversion. It can
	// differ from OriginalFormat, e.g. after a conversion to Float32, so
	// size computations must never use OriginalFormat.
	ActualFormat Format

	// Dimensions is the volume extent in voxels. All components are
	// non-negative; (0,0,0) signals an empty volume.
	Dimensions IntVec3

	// Spacing is the physical size of one voxel in mm.
	Spacing Vec3

	// DefaultWindowing is the display window applied when the volume is
	// first shown.
	DefaultWindowing Windowing

	// Normalized is true once voxel values have been rescaled from
	// [MinValue, MaxValue] into [0,1].
	Normalized bool

	// MinValue and MaxValue are the original physical value range before
	// normalization.
	MinValue float32
	MaxValue float32

	// Compressed reports whether the stored voxel buffer is compressed;
	// CompressedByteSize is its byte length and is meaningful only then.
	Compressed         bool
	CompressedByteSize int64
}

// NewInfo returns an Info in the canonical unparsed state, carrying the
// default windowing and value range. Loaders flip ParseSucceeded and fill in
// geometry only after a successful parse.
func NewInfo(dataFileName string) Info {
	return Info{
		DataFileName:     dataFileName,
		DefaultWindowing: DefaultWindowing(),
		MinValue:         DefaultMinValue,
		MaxValue:         DefaultMaxValue,
	}
}

// WorldDimensions is the physical size of the whole volume in mm, always
// Dimensions * Spacing component-wise.
func (i Info) WorldDimensions() Vec3 {
	return Vec3{
		X: float64(i.Dimensions.X) * i.Spacing.X,
		Y: float64(i.Dimensions.Y) * i.Spacing.Y,
		Z: float64(i.Dimensions.Z) * i.Spacing.Z,
	}
}

// Signed mirrors the signedness of ActualFormat, not OriginalFormat.
// Panics on an invalid format tag; a published Info always carries a valid one.
func (i Info) Signed() bool {
	return mustSigned(i.ActualFormat)
}

// BytesPerVoxel mirrors the byte width of ActualFormat, not OriginalFormat.
// Panics on an invalid format tag; a published Info always carries a valid one.
func (i Info) BytesPerVoxel() int {
	return mustByteSize(i.ActualFormat)
}

// TotalVoxels returns the number of voxels in the volume. Computed in 64-bit
// arithmetic; large scans exceed 2^31 voxels.
func (i Info) TotalVoxels() int64 {
	return int64(i.Dimensions.X) * int64(i.Dimensions.Y) * int64(i.Dimensions.Z)
}

// ByteSize returns the uncompressed in-memory size of the voxel buffer in
// ActualFormat. Distinct from CompressedByteSize when Compressed is set.
func (i Info) ByteSize() int64 {
	return i.TotalVoxels() * int64(i.BytesPerVoxel())
}

// NormalizeValue maps an absolute value from [MinValue, MaxValue] to [0,1].
// Inputs outside the range are not clamped: MinValue - (MaxValue - MinValue)
// normalizes to -1. Callers rely on that headroom for out-of-window math.
//
// Degenerate-range policy: when MinValue == MaxValue the linear map is
// undefined, and NormalizeValue returns 0.
func (i Info) NormalizeValue(v float32) float32 {
	r := i.MaxValue - i.MinValue
	if r == 0 {
		return 0
	}
	return (v - i.MinValue) / r
}

// DenormalizeValue maps a [0,1] normalized value back to [MinValue, MaxValue].
// Exact inverse of NormalizeValue for any input, in or out of [0,1].
//
// Degenerate-range policy: when MinValue == MaxValue it returns MinValue.
func (i Info) DenormalizeValue(n float32) float32 {
	return i.MinValue + n*(i.MaxValue-i.MinValue)
}

// NormalizeRange scales a value delta (not an absolute value) into normalized
// units. Returns 0 for a degenerate range.
func (i Info) NormalizeRange(r float32) float32 {
	d := i.MaxValue - i.MinValue
	if d == 0 {
		return 0
	}
	return r / d
}

// DenormalizeRange scales a normalized delta back into original-data units,
// e.g. 1 converts to MaxValue - MinValue. Returns 0 for a degenerate range.
func (i Info) DenormalizeRange(r float32) float32 {
	return r * (i.MaxValue - i.MinValue)
}

// String renders a multi-line diagnostic summary of the record. Write-only
// output for logs; there is no parsing round-trip.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Volume %q\n", i.DataFileName)
	if !i.ParseSucceeded {
		b.WriteString("  parse succeeded:  false (record unusable)\n")
		return b.String()
	}
	world := i.WorldDimensions()
	fmt.Fprintf(&b, "  parse succeeded:  true\n")
	fmt.Fprintf(&b, "  original format:  %s\n", i.OriginalFormat)
	fmt.Fprintf(&b, "  actual format:    %s (%d bytes/voxel, signed=%t)\n", i.ActualFormat, i.BytesPerVoxel(), i.Signed())
	fmt.Fprintf(&b, "  dimensions:       %d x %d x %d voxels\n", i.Dimensions.X, i.Dimensions.Y, i.Dimensions.Z)
	fmt.Fprintf(&b, "  spacing:          %.3f x %.3f x %.3f mm\n", i.Spacing.X, i.Spacing.Y, i.Spacing.Z)
	fmt.Fprintf(&b, "  world dimensions: %.3f x %.3f x %.3f mm\n", world.X, world.Y, world.Z)
	fmt.Fprintf(&b, "  value range:      [%.3f, %.3f], normalized=%t\n", i.MinValue, i.MaxValue, i.Normalized)
	fmt.Fprintf(&b, "  windowing:        center=%.3f width=%.3f lowCutoff=%t highCutoff=%t\n",
		i.DefaultWindowing.Center, i.DefaultWindowing.Width, i.DefaultWindowing.LowCutoff, i.DefaultWindowing.HighCutoff)
	fmt.Fprintf(&b, "  compressed:       %t (%d bytes compressed)\n", i.Compressed, i.CompressedByteSize)
	fmt.Fprintf(&b, "  total voxels:     %d (%d bytes uncompressed)\n", i.TotalVoxels(), i.ByteSize())
	return b.String()
}
