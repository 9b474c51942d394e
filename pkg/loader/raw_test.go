package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelkit/pkg/volume"
)

func TestLoadRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "block.raw")
	require.NoError(t, os.WriteFile(path, []byte{10, 20, 30, 40, 50, 60, 70, 80}, 0644))

	vol, err := LoadRaw(path, RawDescriptor{
		Dimensions: volume.IntVec3{X: 2, Y: 2, Z: 2},
		Spacing:    volume.Vec3{X: 0.5, Y: 0.5, Z: 1},
		Format:     volume.Uint8,
	})
	require.NoError(t, err)

	info := vol.Info
	require.True(t, info.ParseSucceeded)
	assert.Equal(t, "block.raw", info.DataFileName)
	assert.Equal(t, int64(8), info.TotalVoxels())
	assert.Equal(t, volume.Vec3{X: 1, Y: 1, Z: 2}, info.WorldDimensions())
	assert.Equal(t, float32(10), info.MinValue)
	assert.Equal(t, float32(80), info.MaxValue)
	assert.False(t, info.Signed())
	assert.Equal(t, 1, info.BytesPerVoxel())
}

func TestLoadRawExplicitRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ct.raw")
	require.NoError(t, os.WriteFile(path, []byte{0, 0}, 0644))

	vol, err := LoadRaw(path, RawDescriptor{
		Dimensions: volume.IntVec3{X: 2, Y: 1, Z: 1},
		Format:     volume.Uint8,
		MinValue:   -1000,
		MaxValue:   3000,
	})
	require.NoError(t, err)
	assert.Equal(t, float32(-1000), vol.Info.MinValue)
	assert.Equal(t, float32(3000), vol.Info.MaxValue)
}

func TestLoadRawBigEndian(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "be.raw")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x00}, 0644))

	vol, err := LoadRaw(path, RawDescriptor{
		Dimensions: volume.IntVec3{X: 1, Y: 1, Z: 1},
		Format:     volume.Uint16,
		ByteOrder:  binary.BigEndian,
	})
	require.NoError(t, err)

	samples, err := vol.Samples()
	require.NoError(t, err)
	assert.Equal(t, []float32{256}, samples)
}

func TestLoadRawSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.raw")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	vol, err := LoadRaw(path, RawDescriptor{
		Dimensions: volume.IntVec3{X: 2, Y: 2, Z: 1},
		Format:     volume.Uint8,
	})
	require.Error(t, err)
	assert.False(t, vol.Info.ParseSucceeded)
	assert.Equal(t, volume.IntVec3{}, vol.Info.Dimensions)
}

func TestLoadRawInvalidFormat(t *testing.T) {
	vol, err := LoadRaw(filepath.Join(t.TempDir(), "missing.raw"), RawDescriptor{
		Dimensions: volume.IntVec3{X: 1, Y: 1, Z: 1},
		Format:     volume.Format(99),
	})
	require.Error(t, err)
	assert.False(t, vol.Info.ParseSucceeded)
}

func TestLoadThenConvertThenNormalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.raw")
	require.NoError(t, os.WriteFile(path, []byte{0, 128, 255}, 0644))

	vol, err := LoadRaw(path, RawDescriptor{
		Dimensions: volume.IntVec3{X: 3, Y: 1, Z: 1},
		Format:     volume.Uint8,
	})
	require.NoError(t, err)
	require.NoError(t, ConvertToFloat32(vol))
	require.NoError(t, NormalizeFloat32(vol))

	samples, err := vol.Samples()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, float64(128)/255, samples[1], 1e-6)
	assert.InDelta(t, 1.0, samples[2], 1e-6)

	stats, err := Summarize(vol)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, stats.Min, 1e-6)
	assert.InDelta(t, 1.0, stats.Max, 1e-6)
	assert.InDelta(t, (0+128.0/255+1)/3, stats.Mean, 1e-6)
}
