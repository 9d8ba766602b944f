// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/color-legend-util/internal/annotate"
	"github.com/ironsheep/color-legend-util/internal/store"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalid is wrapped by every Load and Validate error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the application configuration.
type Config struct {
	Addr      string
	DBPath    string
	ImagesDir string
	SeedFile  string

	Threshold         int
	MarkerRadius      float64
	DoubleStroke      bool
	MarkerColor       string
	BoxColor          string
	ArrowColor        string
	ArrowOutlineColor string

	CacheImages bool
	OCR         bool
	LogLevel    string
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	style := annotate.DefaultStyle()
	return &Config{
		Addr:              ":8080",
		DBPath:            "./data/images.db",
		ImagesDir:         "./wwwroot/images",
		SeedFile:          "./wwwroot/legend_bounding_boxes_seed_data.json",
		Threshold:         annotate.DefaultThreshold,
		MarkerRadius:      style.MarkerRadius,
		MarkerColor:       style.MarkerColor,
		BoxColor:          style.BoxColor,
		ArrowColor:        style.ArrowColor,
		ArrowOutlineColor: style.ArrowOutlineColor,
		LogLevel:          "info",
	}
}

// Load reads LEGEND_* environment variables over the defaults and validates
// the result.
func Load() (*Config, error) {
	cfg := Default()
	var err error

	loadString("LEGEND_ADDR", &cfg.Addr)
	loadString("LEGEND_DB_PATH", &cfg.DBPath)
	loadString("LEGEND_IMAGES_DIR", &cfg.ImagesDir)
	loadString("LEGEND_SEED_FILE", &cfg.SeedFile)
	loadString("LEGEND_MARKER_COLOR", &cfg.MarkerColor)
	loadString("LEGEND_BOX_COLOR", &cfg.BoxColor)
	loadString("LEGEND_ARROW_COLOR", &cfg.ArrowColor)
	loadString("LEGEND_ARROW_OUTLINE_COLOR", &cfg.ArrowOutlineColor)
	loadString("LEGEND_LOG_LEVEL", &cfg.LogLevel)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if v := os.Getenv("LEGEND_MATCH_THRESHOLD"); v != "" {
		if cfg.Threshold, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("%w: LEGEND_MATCH_THRESHOLD=%q: %v", ErrInvalid, v, err)
		}
	}
	if v := os.Getenv("LEGEND_MARKER_RADIUS"); v != "" {
		if cfg.MarkerRadius, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("%w: LEGEND_MARKER_RADIUS=%q: %v", ErrInvalid, v, err)
		}
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"LEGEND_DOUBLE_STROKE", &cfg.DoubleStroke},
		{"LEGEND_CACHE_IMAGES", &cfg.CacheImages},
		{"LEGEND_OCR", &cfg.OCR},
	} {
		if v := os.Getenv(b.name); v != "" {
			if *b.dst, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, b.name, v, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and color syntax.
func (c *Config) Validate() error {
	if c.Threshold < 1 || c.Threshold > 256 {
		return fmt.Errorf("%w: match threshold %d outside 1-256", ErrInvalid, c.Threshold)
	}
	if c.MarkerRadius <= 0 {
		return fmt.Errorf("%w: marker radius must be positive, got %g", ErrInvalid, c.MarkerRadius)
	}
	for _, col := range []struct {
		name, hex string
	}{
		{"marker color", c.MarkerColor},
		{"box color", c.BoxColor},
		{"arrow color", c.ArrowColor},
		{"arrow outline color", c.ArrowOutlineColor},
	} {
		if _, err := colorful.Hex(col.hex); err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalid, col.name, col.hex, err)
		}
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: empty database path", ErrInvalid)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// AnnotateOptions returns the annotator options described by c.
func (c *Config) AnnotateOptions() annotate.Options {
	style := annotate.DefaultStyle()
	style.MarkerRadius = c.MarkerRadius
	style.MarkerColor = c.MarkerColor
	style.BoxColor = c.BoxColor
	style.ArrowColor = c.ArrowColor
	style.ArrowOutlineColor = c.ArrowOutlineColor
	style.DoubleStroke = c.DoubleStroke
	return annotate.Options{Threshold: c.Threshold, Style: style}
}

// StoreConfig returns the database configuration described by c.
func (c *Config) StoreConfig() store.Config {
	return store.Config{Path: c.DBPath}
}

func loadString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
