// Package visualization extracts axis-aligned 2D slices from a loaded volume
// for quick inspection without a GPU pipeline. Slices are rendered through
// the volume's display window, the same mapping the renderer applies.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"voxelkit/pkg/loader"
	"voxelkit/pkg/volume"
)

// Viewer renders grayscale slices of a normalized volume.
type Viewer struct {
	samples []float32
	info    volume.Info
	window  volume.Windowing
}

// NewViewer builds a viewer over a loaded volume. The volume must be
// normalized Float32; convert and normalize first.
func NewViewer(vol *loader.Volume) (*Viewer, error) {
	if !vol.Info.ParseSucceeded {
		return nil, errors.New("visualization: cannot view an unparsed volume")
	}
	if vol.Info.ActualFormat != volume.Float32 || !vol.Info.Normalized {
		return nil, errors.Errorf("visualization: need a normalized Float32 volume, have %s normalized=%t",
			vol.Info.ActualFormat, vol.Info.Normalized)
	}
	samples, err := vol.Samples()
	if err != nil {
		return nil, err
	}
	if int64(len(samples)) != vol.Info.TotalVoxels() {
		return nil, errors.Errorf("visualization: %d samples for %d voxels", len(samples), vol.Info.TotalVoxels())
	}
	return &Viewer{
		samples: samples,
		info:    vol.Info,
		window:  vol.Info.DefaultWindowing,
	}, nil
}

// SetWindow overrides the display window inherited from the volume.
func (v *Viewer) SetWindow(w volume.Windowing) {
	v.window = w
}

// gray maps a normalized sample through the window to a 16-bit gray level.
func (v *Viewer) gray(s float32) color.Gray16 {
	windowed := v.window.Apply(s)
	if windowed < 0 {
		windowed = 0
	} else if windowed > 1 {
		windowed = 1
	}
	return color.Gray16{Y: uint16(windowed * 65535)}
}

func (v *Viewer) at(x, y, z int32) float32 {
	d := v.info.Dimensions
	return v.samples[int64(z)*int64(d.X)*int64(d.Y)+int64(y)*int64(d.X)+int64(x)]
}

// ExtractSlice renders the 2D slice at the given position along the axis
// ("x", "y" or "z").
func (v *Viewer) ExtractSlice(axis string, position int32) (image.Image, error) {
	if position < 0 {
		return nil, errors.New("visualization: position must be non-negative")
	}
	d := v.info.Dimensions

	switch axis {
	case "x", "X":
		if position >= d.X {
			return nil, errors.Errorf("visualization: position %d exceeds X extent %d", position, d.X)
		}
		img := image.NewGray16(image.Rect(0, 0, int(d.Z), int(d.Y)))
		for y := int32(0); y < d.Y; y++ {
			for z := int32(0); z < d.Z; z++ {
				img.SetGray16(int(z), int(y), v.gray(v.at(position, y, z)))
			}
		}
		return img, nil

	case "y", "Y":
		if position >= d.Y {
			return nil, errors.Errorf("visualization: position %d exceeds Y extent %d", position, d.Y)
		}
		img := image.NewGray16(image.Rect(0, 0, int(d.X), int(d.Z)))
		for z := int32(0); z < d.Z; z++ {
			for x := int32(0); x < d.X; x++ {
				img.SetGray16(int(x), int(z), v.gray(v.at(x, position, z)))
			}
		}
		return img, nil

	case "z", "Z":
		if position >= d.Z {
			return nil, errors.Errorf("visualization: position %d exceeds Z extent %d", position, d.Z)
		}
		img := image.NewGray16(image.Rect(0, 0, int(d.X), int(d.Y)))
		for y := int32(0); y < d.Y; y++ {
			for x := int32(0); x < d.X; x++ {
				img.SetGray16(int(x), int(y), v.gray(v.at(x, y, position)))
			}
		}
		return img, nil
	}

	return nil, errors.Errorf("visualization: invalid axis %q (must be x, y, or z)", axis)
}

// SaveSlice writes a slice as a PNG file. PNG keeps the full 16-bit gray
// range lossless.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along the given axis into
// outputDir as slice_<axis>_NNN.png.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int32
	switch axis {
	case "x", "X":
		maxPos = v.info.Dimensions.X
	case "y", "Y":
		maxPos = v.info.Dimensions.Y
	case "z", "Z":
		maxPos = v.info.Dimensions.Z
	default:
		return errors.Errorf("visualization: invalid axis %q (must be x, y, or z)", axis)
	}

	for pos := int32(0); pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
