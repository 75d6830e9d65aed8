// Package config loads the toolkit's environment-based configuration.
package config

import (
	"os"
	"strconv"

	"github.com/pablomc88/megtools/domain/atlas"
)

// Config represents the complete application configuration
type Config struct {
	Paths  PathConfig
	Render RenderConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	// AtlasFile is the 4D parcellation volume.
	AtlasFile string
	// FsaverageDir holds the fsaverage surface meshes (lh.pial, rh.sulc, ...).
	FsaverageDir string
	// OutputDir receives rendered plots and exported tables.
	OutputDir string
}

// RenderConfig holds surface plot raster settings
type RenderConfig struct {
	Width  int
	Height int
}

// Load builds configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Paths: PathConfig{
			AtlasFile:    getEnv("MEGTOOLS_ATLAS_FILE", atlas.DefaultAtlasFile),
			FsaverageDir: getEnv("MEGTOOLS_FSAVERAGE_DIR", "fsaverage"),
			OutputDir:    getEnv("MEGTOOLS_OUTPUT_DIR", "."),
		},
		Render: RenderConfig{
			Width:  getEnvInt("MEGTOOLS_RENDER_WIDTH", 600),
			Height: getEnvInt("MEGTOOLS_RENDER_HEIGHT", 500),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
