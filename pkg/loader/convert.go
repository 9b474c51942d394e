package loader

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"voxelkit/pkg/volume"
)

// decodeSamples decodes a raw voxel buffer into float32 samples. The buffer
// length must be an exact multiple of the format's byte width.
func decodeSamples(buf []byte, f volume.Format, bo binary.ByteOrder) ([]float32, error) {
	width, err := f.ByteSize()
	if err != nil {
		return nil, err
	}
	if len(buf)%width != 0 {
		return nil, errors.Errorf("loader: buffer length %d not a multiple of %d-byte voxels", len(buf), width)
	}

	n := len(buf) / width
	out := make([]float32, n)
	switch f {
	case volume.Uint8:
		for i, b := range buf {
			out[i] = float32(b)
		}
	case volume.Int8:
		for i, b := range buf {
			out[i] = float32(int8(b))
		}
	case volume.Uint16:
		for i := 0; i < n; i++ {
			out[i] = float32(bo.Uint16(buf[i*2:]))
		}
	case volume.Int16:
		for i := 0; i < n; i++ {
			out[i] = float32(int16(bo.Uint16(buf[i*2:])))
		}
	case volume.Uint32:
		for i := 0; i < n; i++ {
			out[i] = float32(bo.Uint32(buf[i*4:]))
		}
	case volume.Int32:
		for i := 0; i < n; i++ {
			out[i] = float32(int32(bo.Uint32(buf[i*4:])))
		}
	case volume.Float32:
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(bo.Uint32(buf[i*4:]))
		}
	default:
		return nil, errors.Wrapf(volume.ErrUnknownFormat, "tag %d", int32(f))
	}
	return out, nil
}

// encodeFloat32 packs samples into a little-endian float32 buffer.
func encodeFloat32(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

// ConvertToFloat32 re-encodes the volume's buffer as little-endian Float32
// and updates ActualFormat. OriginalFormat is untouched, so the record keeps
// the source encoding on file. Already-Float32 volumes are left as they are.
func ConvertToFloat32(v *Volume) error {
	if !v.Info.ParseSucceeded {
		return errors.New("loader: cannot convert an unparsed volume")
	}
	if v.Info.ActualFormat == volume.Float32 {
		return nil
	}
	samples, err := v.Samples()
	if err != nil {
		return errors.Wrap(err, "converting to Float32")
	}
	v.Data = encodeFloat32(samples)
	v.Info.ActualFormat = volume.Float32
	return nil
}

// NormalizeFloat32 rescales every sample from [MinValue, MaxValue] into
// [0,1] in place, per Info.NormalizeValue semantics (degenerate ranges map
// to 0). The volume must already be Float32; convert first.
func NormalizeFloat32(v *Volume) error {
	if !v.Info.ParseSucceeded {
		return errors.New("loader: cannot normalize an unparsed volume")
	}
	if v.Info.ActualFormat != volume.Float32 {
		return errors.Errorf("loader: normalization requires Float32, volume is %s", v.Info.ActualFormat)
	}
	if v.Info.Normalized {
		return nil
	}
	for off := 0; off+4 <= len(v.Data); off += 4 {
		s := math.Float32frombits(binary.LittleEndian.Uint32(v.Data[off:]))
		s = v.Info.NormalizeValue(s)
		binary.LittleEndian.PutUint32(v.Data[off:], math.Float32bits(s))
	}
	v.Info.Normalized = true
	return nil
}
