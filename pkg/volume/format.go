package volume

import (
	"github.com/pkg/errors"
)

// Format identifies the numeric encoding of a single voxel as stored on disk
// or in memory: integer width plus signedness, or 32-bit floating point.
type Format int32

const (
	// 1 byte
	Uint8 Format = iota
	Int8
	// 2 bytes
	Uint16
	Int16
	// 4 bytes
	Uint32
	Int32
	// 4 bytes float
	Float32

	formatCount
)

// ErrUnknownFormat is returned by the format lookups when given a tag outside
// the defined range. A wrong byte size would corrupt every downstream size
// computation, so the lookups never fall back to a default.
var ErrUnknownFormat = errors.New("volume: unknown voxel format")

// Per-format byte widths and signedness. Float32 counts as signed for range
// purposes.
var (
	formatByteSizes = [formatCount]int{1, 1, 2, 2, 4, 4, 4}
	formatSigned    = [formatCount]bool{false, true, false, true, false, true, true}
	formatNames     = [formatCount]string{"Uint8", "Int8", "Uint16", "Int16", "Uint32", "Int32", "Float32"}
)

// Valid reports whether f is one of the defined voxel formats.
func (f Format) Valid() bool {
	return f >= 0 && f < formatCount
}

// ByteSize returns the number of bytes one voxel occupies in this format.
func (f Format) ByteSize() (int, error) {
	if !f.Valid() {
		return 0, errors.Wrapf(ErrUnknownFormat, "tag %d", int32(f))
	}
	return formatByteSizes[f], nil
}

// Signed reports whether the format carries a sign. Float32 is signed.
func (f Format) Signed() (bool, error) {
	if !f.Valid() {
		return false, errors.Wrapf(ErrUnknownFormat, "tag %d", int32(f))
	}
	return formatSigned[f], nil
}

func (f Format) String() string {
	if !f.Valid() {
		return "Unknown"
	}
	return formatNames[f]
}

// ParseFormat maps a format name ("Uint8", "Float32", ...) back to its tag.
// Used by the configuration layer to address formats by name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if n == name {
			return Format(f), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownFormat, "name %q", name)
}

// mustByteSize is the internal lookup used by Info accessors, which only ever
// see formats validated at load time. Panics on an invalid tag rather than
// returning a plausible-looking size.
func mustByteSize(f Format) int {
	n, err := f.ByteSize()
	if err != nil {
		panic(err)
	}
	return n
}

func mustSigned(f Format) bool {
	s, err := f.Signed()
	if err != nil {
		panic(err)
	}
	return s
}
