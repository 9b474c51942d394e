package volume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalVoxels64Bit(t *testing.T) {
	// 2048^3 voxels exceed 2^31; the product must be computed in 64-bit
	// arithmetic.
	info := Info{
		ParseSucceeded: true,
		ActualFormat:   Uint8,
		Dimensions:     IntVec3{X: 2048, Y: 2048, Z: 2048},
	}
	assert.Equal(t, int64(8589934592), info.TotalVoxels())
	assert.Equal(t, int64(8589934592), info.ByteSize())
}

func TestWorldDimensions(t *testing.T) {
	cases := []struct {
		name    string
		dims    IntVec3
		spacing Vec3
		want    Vec3
	}{
		{"isotropic", IntVec3{10, 10, 10}, Vec3{1, 1, 1}, Vec3{10, 10, 10}},
		{"anisotropic", IntVec3{256, 256, 128}, Vec3{1, 1, 2}, Vec3{256, 256, 256}},
		{"zero spacing", IntVec3{64, 64, 64}, Vec3{0, 0, 0}, Vec3{0, 0, 0}},
		{"empty volume", IntVec3{0, 0, 0}, Vec3{1.5, 1.5, 3}, Vec3{0, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := Info{Dimensions: c.dims, Spacing: c.spacing}
			assert.Equal(t, c.want, info.WorldDimensions())
		})
	}
}

func TestNormalizeValueUnclamped(t *testing.T) {
	info := Info{MinValue: 0, MaxValue: 100}

	assert.InDelta(t, 0.0, info.NormalizeValue(0), 1e-6)
	assert.InDelta(t, 0.5, info.NormalizeValue(50), 1e-6)
	assert.InDelta(t, 1.0, info.NormalizeValue(100), 1e-6)

	// Out-of-range inputs pass through unclamped; headroom computations
	// depend on that.
	assert.InDelta(t, -0.5, info.NormalizeValue(-50), 1e-6)
	assert.InDelta(t, 1.5, info.NormalizeValue(150), 1e-6)
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	infos := []Info{
		{MinValue: -1000, MaxValue: 3000},
		{MinValue: 0, MaxValue: 255},
		{MinValue: -0.5, MaxValue: 0.5},
		{MinValue: 100, MaxValue: 100.125},
	}
	values := []float32{-2000, -1000, -1, 0, 0.25, 1, 99.5, 100, 3000, 12345}

	for _, info := range infos {
		for _, v := range values {
			got := info.DenormalizeValue(info.NormalizeValue(v))
			tolerance := 1e-5 * maxAbs(v, 1)
			assert.InDelta(t, v, got, float64(tolerance), "value %v range [%v,%v]", v, info.MinValue, info.MaxValue)

			gotRange := info.DenormalizeRange(info.NormalizeRange(v))
			assert.InDelta(t, v, gotRange, float64(tolerance), "range %v range [%v,%v]", v, info.MinValue, info.MaxValue)
		}
	}
}

func TestNormalizeRangeScalesDeltas(t *testing.T) {
	info := Info{MinValue: -1000, MaxValue: 3000}

	// A delta spanning the full range normalizes to 1 regardless of where
	// the range sits; NormalizeValue of the same number would not.
	assert.InDelta(t, 1.0, info.NormalizeRange(4000), 1e-6)
	assert.InDelta(t, 0.25, info.NormalizeRange(1000), 1e-6)
	assert.InDelta(t, 4000.0, info.DenormalizeRange(1), 1e-2)
}

func TestDegenerateRangePolicy(t *testing.T) {
	info := Info{MinValue: 500, MaxValue: 500}

	// Documented policy: normalize returns 0, denormalize returns
	// MinValue/0. Never NaN or Inf.
	assert.Equal(t, float32(0), info.NormalizeValue(500))
	assert.Equal(t, float32(0), info.NormalizeValue(9999))
	assert.Equal(t, float32(0), info.NormalizeRange(123))
	assert.Equal(t, float32(500), info.DenormalizeValue(0.5))
	assert.Equal(t, float32(0), info.DenormalizeRange(0.5))
}

func TestExampleScenario(t *testing.T) {
	info := Info{
		ParseSucceeded: true,
		OriginalFormat: Uint16,
		ActualFormat:   Float32,
		Dimensions:     IntVec3{X: 256, Y: 256, Z: 128},
		Spacing:        Vec3{X: 1, Y: 1, Z: 2},
	}

	assert.Equal(t, Vec3{256, 256, 256}, info.WorldDimensions())
	assert.Equal(t, 4, info.BytesPerVoxel())
	assert.True(t, info.Signed())
	assert.Equal(t, int64(33554432), info.ByteSize())
}

func TestNewInfoDefaults(t *testing.T) {
	info := NewInfo("head.mhd")

	require.False(t, info.ParseSucceeded)
	assert.Equal(t, "head.mhd", info.DataFileName)
	assert.Equal(t, IntVec3{}, info.Dimensions)
	assert.Equal(t, DefaultMinValue, info.MinValue)
	assert.Equal(t, DefaultMaxValue, info.MaxValue)
	assert.Equal(t, DefaultWindowing(), info.DefaultWindowing)
}

func TestStringDiagnostics(t *testing.T) {
	info := NewInfo("broken.raw")
	out := info.String()
	assert.Contains(t, out, `"broken.raw"`)
	assert.Contains(t, out, "parse succeeded:  false")
	// A failed parse must not render geometry no loader ever produced.
	assert.NotContains(t, out, "dimensions")

	info = Info{
		ParseSucceeded:   true,
		DataFileName:     "head.mhd",
		OriginalFormat:   Uint16,
		ActualFormat:     Float32,
		Dimensions:       IntVec3{X: 256, Y: 256, Z: 128},
		Spacing:          Vec3{X: 1, Y: 1, Z: 2},
		DefaultWindowing: DefaultWindowing(),
		MinValue:         -1000,
		MaxValue:         3000,
	}
	out = info.String()
	assert.Contains(t, out, "256 x 256 x 128 voxels")
	assert.Contains(t, out, "original format:  Uint16")
	assert.Contains(t, out, "actual format:    Float32")
	assert.Contains(t, out, "33554432 bytes uncompressed")
	// Deterministic output: two renders agree.
	assert.Equal(t, out, info.String())
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func maxAbs(v, floor float32) float32 {
	if v < 0 {
		v = -v
	}
	if v < floor {
		return floor
	}
	return v
}
