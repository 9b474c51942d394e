package loader

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"voxelkit/pkg/volume"
)

// MHDHeader holds the fields of a MetaImage (.mhd) text header this loader
// understands. Unknown keys are ignored.
type MHDHeader struct {
	NDims          int
	Dimensions     volume.IntVec3
	Spacing        volume.Vec3
	Format         volume.Format
	DataFile       string
	Compressed     bool
	CompressedSize int64
	BigEndian      bool

	// ElementMin/ElementMax from the header, when present. Saves a full
	// buffer scan at load time.
	HasRange bool
	MinValue float32
	MaxValue float32
}

// elementTypes maps MetaImage ElementType names onto voxel formats.
var elementTypes = map[string]volume.Format{
	"MET_UCHAR":  volume.Uint8,
	"MET_CHAR":   volume.Int8,
	"MET_USHORT": volume.Uint16,
	"MET_SHORT":  volume.Int16,
	"MET_UINT":   volume.Uint32,
	"MET_INT":    volume.Int32,
	"MET_FLOAT":  volume.Float32,
}

// ParseMHDHeader parses the key = value lines of a MetaImage header.
// NDims other than 3 and unknown element types are errors; a header without
// ElementDataFile is useless to a file loader and is rejected too.
func ParseMHDHeader(r io.Reader) (MHDHeader, error) {
	h := MHDHeader{NDims: 3, Spacing: volume.Vec3{X: 1, Y: 1, Z: 1}, Format: -1}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return h, errors.Errorf("mhd: malformed header line %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "NDims":
			h.NDims, err = strconv.Atoi(value)
		case "DimSize":
			h.Dimensions, err = parseIntVec3(value)
		case "ElementSpacing", "ElementSize":
			h.Spacing, err = parseVec3(value)
		case "ElementType":
			f, ok := elementTypes[value]
			if !ok {
				return h, errors.Wrapf(volume.ErrUnknownFormat, "mhd ElementType %q", value)
			}
			h.Format = f
		case "ElementDataFile":
			h.DataFile = value
		case "CompressedData":
			h.Compressed = parseBool(value)
		case "CompressedDataSize":
			h.CompressedSize, err = strconv.ParseInt(value, 10, 64)
		case "ElementByteOrderMSB", "BinaryDataByteOrderMSB":
			h.BigEndian = parseBool(value)
		case "ElementMin":
			var f float64
			f, err = strconv.ParseFloat(value, 32)
			h.MinValue = float32(f)
			h.HasRange = true
		case "ElementMax":
			var f float64
			f, err = strconv.ParseFloat(value, 32)
			h.MaxValue = float32(f)
			h.HasRange = true
		}
		if err != nil {
			return h, errors.Wrapf(err, "mhd: parsing %s", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return h, errors.Wrap(err, "mhd: reading header")
	}

	if h.NDims != 3 {
		return h, errors.Errorf("mhd: NDims %d unsupported, need a 3D volume", h.NDims)
	}
	if h.Format < 0 {
		return h, errors.New("mhd: header has no ElementType")
	}
	if h.DataFile == "" {
		return h, errors.New("mhd: header has no ElementDataFile")
	}
	if h.DataFile == "LOCAL" {
		return h, errors.New("mhd: inline LOCAL payloads are not supported")
	}
	if err := validateDimensions(h.Dimensions); err != nil {
		return h, err
	}
	return h, nil
}

// LoadMHD loads a MetaImage volume: the .mhd header plus its companion data
// file, inflating zlib-compressed payloads. The value range comes from
// ElementMin/ElementMax when the header carries them, otherwise from a full
// scan of the decoded samples.
//
// On error the returned Volume carries the canonical failed-parse Info, as
// with LoadRaw.
func LoadMHD(path string) (*Volume, error) {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return failed(name), errors.Wrap(err, "opening mhd header")
	}
	defer f.Close()

	h, err := ParseMHDHeader(f)
	if err != nil {
		return failed(name), err
	}

	dataPath := h.DataFile
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(filepath.Dir(path), dataPath)
	}
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return failed(name), errors.Wrap(err, "reading mhd data file")
	}

	var (
		buf            = raw
		compressedSize int64
	)
	if h.Compressed {
		compressedSize = int64(len(raw))
		if h.CompressedSize > 0 && h.CompressedSize != compressedSize {
			return failed(name), errors.Errorf("mhd: CompressedDataSize %d does not match data file length %d", h.CompressedSize, compressedSize)
		}
		buf, err = inflate(raw)
		if err != nil {
			return failed(name), errors.Wrap(err, "inflating mhd data")
		}
	}

	width, err := h.Format.ByteSize()
	if err != nil {
		return failed(name), err
	}
	expected := int64(h.Dimensions.X) * int64(h.Dimensions.Y) * int64(h.Dimensions.Z) * int64(width)
	if int64(len(buf)) != expected {
		return failed(name), errors.Errorf("mhd: data is %d bytes, header geometry requires %d", len(buf), expected)
	}

	if h.BigEndian {
		buf, err = swapToLittleEndian(buf, width)
		if err != nil {
			return failed(name), err
		}
	}

	info := volume.NewInfo(name)
	info.ParseSucceeded = true
	info.OriginalFormat = h.Format
	info.ActualFormat = h.Format
	info.Dimensions = h.Dimensions
	info.Spacing = h.Spacing
	info.Compressed = h.Compressed
	info.CompressedByteSize = compressedSize

	vol := &Volume{Info: info, Data: buf}

	if h.HasRange {
		vol.Info.MinValue, vol.Info.MaxValue = h.MinValue, h.MaxValue
	} else {
		lo, hi, err := scanVolumeRange(vol)
		if err != nil {
			return failed(name), err
		}
		vol.Info.MinValue, vol.Info.MaxValue = lo, hi
	}

	return vol, nil
}

func inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseIntVec3(s string) (volume.IntVec3, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return volume.IntVec3{}, errors.Errorf("expected 3 components, got %q", s)
	}
	var out [3]int32
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return volume.IntVec3{}, err
		}
		out[i] = int32(n)
	}
	return volume.IntVec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseVec3(s string) (volume.Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return volume.Vec3{}, errors.Errorf("expected 3 components, got %q", s)
	}
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return volume.Vec3{}, err
		}
		out[i] = v
	}
	return volume.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}
