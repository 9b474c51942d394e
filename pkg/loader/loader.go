// Package loader reads volume files into memory and publishes the
// volume.Info record every downstream stage consumes. Two formats are
// supported: headerless .raw buffers described by an explicit RawDescriptor,
// and MetaImage (.mhd) headers with a companion data file, optionally
// zlib-compressed.
//
// Loading is one-shot: a loader parses, converts and scans with no concurrent
// readers, then returns a freshly constructed Volume. After that the Info is
// immutable and safe to share across goroutines.
package loader

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"voxelkit/pkg/volume"
)

// Volume pairs a parsed Info with the voxel buffer it describes. Data holds
// the uncompressed buffer encoded per Info.ActualFormat; when the source was
// compressed, Info.Compressed and Info.CompressedByteSize record the on-disk
// form while Data is already inflated.
type Volume struct {
	Info volume.Info
	Data []byte
}

// Samples decodes the buffer into float32 samples, whatever the actual
// format. The slice is freshly allocated; mutating it does not touch Data.
func (v *Volume) Samples() ([]float32, error) {
	return decodeSamples(v.Data, v.Info.ActualFormat, v.byteOrder())
}

func (v *Volume) byteOrder() binary.ByteOrder {
	// Buffers are kept little-endian in memory; big-endian sources are
	// swapped at load time.
	return binary.LittleEndian
}

// failed returns the canonical failed-parse record for a file: the
// ParseSucceeded flag down and every geometry field at its zero value, so a
// consumer that skips the flag check still cannot read plausible geometry.
func failed(dataFileName string) *Volume {
	return &Volume{Info: volume.NewInfo(dataFileName)}
}

func validateDimensions(d volume.IntVec3) error {
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return errors.Errorf("loader: negative dimensions %dx%dx%d", d.X, d.Y, d.Z)
	}
	return nil
}
