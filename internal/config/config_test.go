package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %q", cfg.Addr)
	}
	if cfg.Threshold != 15 {
		t.Errorf("Threshold: got %d, want 15", cfg.Threshold)
	}
	if cfg.MarkerRadius != 5 {
		t.Errorf("MarkerRadius: got %g, want 5", cfg.MarkerRadius)
	}
	if cfg.DoubleStroke || cfg.CacheImages || cfg.OCR {
		t.Errorf("feature flags should default off: %+v", cfg)
	}
	if cfg.Debug() {
		t.Error("debug should default off")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEGEND_ADDR", "127.0.0.1:9000")
	t.Setenv("LEGEND_DB_PATH", "/tmp/x.db")
	t.Setenv("LEGEND_MATCH_THRESHOLD", "30")
	t.Setenv("LEGEND_MARKER_RADIUS", "7.5")
	t.Setenv("LEGEND_DOUBLE_STROKE", "true")
	t.Setenv("LEGEND_CACHE_IMAGES", "1")
	t.Setenv("LEGEND_ARROW_COLOR", "#00ff00")
	t.Setenv("LEGEND_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:9000" || cfg.DBPath != "/tmp/x.db" {
		t.Errorf("paths: %+v", cfg)
	}
	if cfg.Threshold != 30 || cfg.MarkerRadius != 7.5 {
		t.Errorf("numbers: threshold=%d radius=%g", cfg.Threshold, cfg.MarkerRadius)
	}
	if !cfg.DoubleStroke || !cfg.CacheImages || cfg.OCR {
		t.Errorf("flags: %+v", cfg)
	}
	if !cfg.Debug() {
		t.Error("LEGEND_LOG_LEVEL=DEBUG should enable debug")
	}

	opts := cfg.AnnotateOptions()
	if opts.Threshold != 30 || opts.Style.MarkerRadius != 7.5 || !opts.Style.DoubleStroke || opts.Style.ArrowColor != "#00ff00" {
		t.Errorf("AnnotateOptions: %+v", opts)
	}
	if cfg.StoreConfig().Path != "/tmp/x.db" {
		t.Errorf("StoreConfig: %+v", cfg.StoreConfig())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold not a number", "LEGEND_MATCH_THRESHOLD", "abc"},
		{"threshold zero", "LEGEND_MATCH_THRESHOLD", "0"},
		{"threshold too large", "LEGEND_MATCH_THRESHOLD", "257"},
		{"radius zero", "LEGEND_MARKER_RADIUS", "0"},
		{"radius not a number", "LEGEND_MARKER_RADIUS", "big"},
		{"bad bool", "LEGEND_OCR", "maybe"},
		{"bad color", "LEGEND_BOX_COLOR", "blackish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_ReportsFirstInvalidInOrder(t *testing.T) {
	t.Setenv("LEGEND_DOUBLE_STROKE", "sometimes")
	t.Setenv("LEGEND_CACHE_IMAGES", "never-ish")
	t.Setenv("LEGEND_OCR", "maybe")

	for i := 0; i < 20; i++ {
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "LEGEND_DOUBLE_STROKE") {
			t.Fatalf("run %d: error = %v, want LEGEND_DOUBLE_STROKE reported", i, err)
		}
	}
}

func TestValidate_ReportsFirstBadColorInOrder(t *testing.T) {
	cfg := Default()
	cfg.MarkerColor = "nope"
	cfg.BoxColor = "nope"
	cfg.ArrowColor = "nope"
	cfg.ArrowOutlineColor = "nope"

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "marker color") {
			t.Fatalf("run %d: error = %v, want marker color reported", i, err)
		}
	}
}

func TestValidate_ThresholdBounds(t *testing.T) {
	tests := []struct {
		threshold int
		valid     bool
	}{
		{1, true},
		{15, true},
		{256, true},
		{0, false},
		{-3, false},
		{257, false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Threshold = tt.threshold
		err := cfg.Validate()
		if (err == nil) != tt.valid {
			t.Errorf("threshold %d: err = %v, valid want %v", tt.threshold, err, tt.valid)
		}
	}
}
