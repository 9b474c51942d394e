// Package gpu maps voxel formats onto single-channel GPU texture pixel
// formats. The mapping is a plain table injected by the caller, so the core
// metadata stays agnostic of whichever rendering backend consumes it.
package gpu

import (
	"github.com/pkg/errors"

	"voxelkit/pkg/volume"
)

// PixelFormat tags a single-channel texture pixel format of the rendering
// backend. The tags below follow the common graphics-API naming; a backend
// with different names supplies its own table.
type PixelFormat string

const (
	R8       PixelFormat = "R8"
	R8SNorm  PixelFormat = "R8_SNORM"
	R16      PixelFormat = "R16"
	R16SNorm PixelFormat = "R16_SNORM"
	R32UInt  PixelFormat = "R32_UINT"
	R32SInt  PixelFormat = "R32_SINT"
	R32Float PixelFormat = "R32_FLOAT"
)

// ErrUnmappedFormat is returned when a table has no entry for a voxel format.
var ErrUnmappedFormat = errors.New("gpu: no pixel format mapped for voxel format")

// FormatTable maps each voxel format to the closest single-channel pixel
// format the target backend supports.
type FormatTable map[volume.Format]PixelFormat

// DefaultTable returns the stock mapping covering every voxel format:
// integer widths keep their width (normalized or signed-normalized channel),
// Float32 maps to a 32-bit float channel.
func DefaultTable() FormatTable {
	return FormatTable{
		volume.Uint8:   R8,
		volume.Int8:    R8SNorm,
		volume.Uint16:  R16,
		volume.Int16:   R16SNorm,
		volume.Uint32:  R32UInt,
		volume.Int32:   R32SInt,
		volume.Float32: R32Float,
	}
}

// PixelFormat resolves a voxel format through the table. Unmapped formats
// are an error, never a guessed default.
func (t FormatTable) PixelFormat(f volume.Format) (PixelFormat, error) {
	pf, ok := t[f]
	if !ok {
		return "", errors.Wrapf(ErrUnmappedFormat, "%s", f)
	}
	return pf, nil
}
