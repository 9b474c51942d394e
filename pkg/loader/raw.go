package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"voxelkit/pkg/volume"
)

// RawDescriptor supplies the metadata a headerless .raw file cannot carry
// itself. Dimensions and Format are mandatory; the rest defaults sensibly.
type RawDescriptor struct {
	Dimensions volume.IntVec3
	Spacing    volume.Vec3
	Format     volume.Format

	// ByteOrder of the on-disk samples. Nil means little-endian.
	ByteOrder binary.ByteOrder

	// MinValue/MaxValue override the value range when the caller already
	// knows it. When both are zero the buffer is scanned instead.
	MinValue float32
	MaxValue float32

	// Windowing overrides the default display window when non-zero width.
	Windowing volume.Windowing
}

// LoadRaw reads a headerless raw volume file. The file length must match the
// descriptor exactly; a truncated or oversized buffer is a parse failure.
//
// On error the returned Volume carries the canonical failed-parse Info
// (ParseSucceeded false, zero geometry) alongside the error, so callers that
// publish records unconditionally still publish an unusable one.
func LoadRaw(path string, desc RawDescriptor) (*Volume, error) {
	name := filepath.Base(path)

	if err := validateDimensions(desc.Dimensions); err != nil {
		return failed(name), err
	}
	width, err := desc.Format.ByteSize()
	if err != nil {
		return failed(name), err
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return failed(name), errors.Wrap(err, "reading raw volume")
	}

	expected := int64(desc.Dimensions.X) * int64(desc.Dimensions.Y) * int64(desc.Dimensions.Z) * int64(width)
	if int64(len(buf)) != expected {
		return failed(name), errors.Errorf("raw volume %s: got %d bytes, descriptor requires %d", name, len(buf), expected)
	}

	bo := desc.ByteOrder
	if bo == nil {
		bo = binary.LittleEndian
	}
	if bo == binary.ByteOrder(binary.BigEndian) {
		buf, err = swapToLittleEndian(buf, width)
		if err != nil {
			return failed(name), err
		}
	}

	info := volume.NewInfo(name)
	info.ParseSucceeded = true
	info.OriginalFormat = desc.Format
	info.ActualFormat = desc.Format
	info.Dimensions = desc.Dimensions
	info.Spacing = desc.Spacing
	if desc.Windowing.Width != 0 {
		info.DefaultWindowing = desc.Windowing
	}

	vol := &Volume{Info: info, Data: buf}

	if desc.MinValue == 0 && desc.MaxValue == 0 {
		lo, hi, err := scanVolumeRange(vol)
		if err != nil {
			return failed(name), err
		}
		vol.Info.MinValue, vol.Info.MaxValue = lo, hi
	} else {
		vol.Info.MinValue, vol.Info.MaxValue = desc.MinValue, desc.MaxValue
	}

	return vol, nil
}

// swapToLittleEndian byte-swaps every sample of the given width. 1-byte
// formats pass through.
func swapToLittleEndian(buf []byte, width int) ([]byte, error) {
	switch width {
	case 1:
		return buf, nil
	case 2, 4:
	default:
		return nil, errors.Errorf("loader: unsupported sample width %d for byte swap", width)
	}
	out := make([]byte, len(buf))
	for off := 0; off+width <= len(buf); off += width {
		for i := 0; i < width; i++ {
			out[off+i] = buf[off+width-1-i]
		}
	}
	return out, nil
}
