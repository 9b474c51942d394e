package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"voxelkit/internal/logging"
	"voxelkit/pkg/config"
	"voxelkit/pkg/loader"
	"voxelkit/pkg/visualization"
	"voxelkit/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Volume file to load (.mhd header or headerless .raw)")
	configPath := flag.String("config", "voxelkit.yaml", "Configuration file")
	formatName := flag.String("format", "", "Voxel format for raw input (Uint8, Int8, Uint16, Int16, Uint32, Int32, Float32)")
	dimsArg := flag.String("dims", "", "Dimensions for raw input, e.g. 256,256,128")
	spacingArg := flag.String("spacing", "1,1,1", "Voxel spacing in mm for raw input, e.g. 1,1,2")
	outPath := flag.String("out", "", "Write the (converted) voxel buffer to this file")
	extractSlices := flag.Bool("extract-slices", false, "Extract and save slices along all axes")
	slicesDir := flag.String("slices-dir", "", "Directory to save extracted slices (default from config)")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(*verbose || cfg.Output.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	vol, err := loadVolume(*inputPath, *formatName, *dimsArg, *spacingArg, cfg)
	if err != nil {
		logger.Error("load failed", zap.String("input", *inputPath), zap.Error(err))
		// The failed-parse record is still printable diagnostics.
		if vol != nil {
			fmt.Print(vol.Info.String())
		}
		os.Exit(1)
	}
	logger.Debug("volume loaded",
		zap.String("file", vol.Info.DataFileName),
		zap.Int64("voxels", vol.Info.TotalVoxels()),
		zap.Int64("bytes", vol.Info.ByteSize()))

	if cfg.Loading.ConvertToFloat {
		if err := loader.ConvertToFloat32(vol); err != nil {
			logger.Fatal("conversion failed", zap.Error(err))
		}
	}
	if cfg.Loading.Normalize {
		if err := loader.NormalizeFloat32(vol); err != nil {
			logger.Fatal("normalization failed", zap.Error(err))
		}
	}

	fmt.Print(vol.Info.String())

	table, err := cfg.FormatTable()
	if err != nil {
		logger.Fatal("bad gpu format table", zap.Error(err))
	}
	pixelFormat, err := table.PixelFormat(vol.Info.ActualFormat)
	if err != nil {
		logger.Fatal("no gpu pixel format", zap.Error(err))
	}
	channel := vol.Info.DefaultWindowing.ChannelVector()
	fmt.Printf("  gpu pixel format: %s\n", pixelFormat)
	fmt.Printf("  window channel:   (%.3f, %.3f, %.1f, %.1f)\n", channel[0], channel[1], channel[2], channel[3])

	stats, err := loader.Summarize(vol)
	if err != nil {
		logger.Fatal("statistics failed", zap.Error(err))
	}
	fmt.Printf("  value stats:      min=%.3f max=%.3f mean=%.3f stddev=%.3f\n",
		stats.Min, stats.Max, stats.Mean, stats.StdDev)

	if *outPath != "" {
		if err := os.WriteFile(*outPath, vol.Data, 0644); err != nil {
			logger.Fatal("writing output buffer", zap.Error(err))
		}
		logger.Info("buffer written", zap.String("path", *outPath), zap.Int("bytes", len(vol.Data)))
	}

	if *extractSlices {
		dir := *slicesDir
		if dir == "" {
			dir = cfg.Output.SlicesDir
		}
		viewer, err := visualization.NewViewer(vol)
		if err != nil {
			logger.Fatal("viewer construction failed", zap.Error(err))
		}
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(dir, axis)
			logger.Info("saving slices", zap.String("axis", axis), zap.String("dir", axisDir))
			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				logger.Warn("slice extraction failed", zap.String("axis", axis), zap.Error(err))
			}
		}
	}
}

// loadVolume dispatches on the input extension: .mhd headers are
// self-describing, anything else is treated as a headerless raw buffer
// described by the -format/-dims/-spacing flags.
func loadVolume(path, formatName, dimsArg, spacingArg string, cfg *config.Config) (*loader.Volume, error) {
	if strings.EqualFold(filepath.Ext(path), ".mhd") {
		vol, err := loader.LoadMHD(path)
		if err != nil {
			return vol, err
		}
		vol.Info.DefaultWindowing = cfg.WindowingParameters()
		return vol, nil
	}

	if formatName == "" || dimsArg == "" {
		return nil, fmt.Errorf("raw input requires -format and -dims")
	}
	format, err := volume.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	dims, err := parseDims(dimsArg)
	if err != nil {
		return nil, fmt.Errorf("parsing -dims: %w", err)
	}
	spacing, err := parseSpacing(spacingArg)
	if err != nil {
		return nil, fmt.Errorf("parsing -spacing: %w", err)
	}

	return loader.LoadRaw(path, loader.RawDescriptor{
		Dimensions: dims,
		Spacing:    spacing,
		Format:     format,
		MinValue:   cfg.Loading.MinValue,
		MaxValue:   cfg.Loading.MaxValue,
		Windowing:  cfg.WindowingParameters(),
	})
}

func parseDims(s string) (volume.IntVec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return volume.IntVec3{}, fmt.Errorf("expected 3 comma-separated components, got %q", s)
	}
	var out [3]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return volume.IntVec3{}, err
		}
		out[i] = int32(n)
	}
	return volume.IntVec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseSpacing(s string) (volume.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return volume.Vec3{}, fmt.Errorf("expected 3 comma-separated components, got %q", s)
	}
	var out [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return volume.Vec3{}, err
		}
		out[i] = v
	}
	return volume.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}
