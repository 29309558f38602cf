package utils

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-spaceships/patterns"
)

const jsonConfig = `{
	"width": 30,
	"height": 20,
	"frame_delay_ms": 250,
	"max_generations": 50,
	"workers": 4,
	"use_memory_pool": true,
	"display": "screen",
	"dead_glyph": ".",
	"live_glyph": "@",
	"pattern_dir": "ships",
	"patterns": [
		{"name": "glider", "enabled": true},
		{"name": "block", "enabled": false},
		{"name": "lwss", "enabled": true, "anchor": {"x": 2, "y": 10}}
	]
}`

const iniConfig = `
[grid]
width = 30
height = 20
frame_delay_ms = 250
max_generations = 50
workers = 4
use_memory_pool = true

[display]
mode = screen
dead_glyph = .
live_glyph = @

[patterns]
dir = ships
glider = On
block = Off
lwss = 2, 10
`

func expectedConfig() Config {
	return Config{
		Width:          30,
		Height:         20,
		FrameDelayMs:   250,
		MaxGenerations: 50,
		Workers:        4,
		UseMemoryPool:  true,
		Display:        DisplayScreen,
		DeadGlyph:      ".",
		LiveGlyph:      "@",
		PatternDir:     "ships",
		Patterns: []PatternRef{
			{Name: "glider", Enabled: true},
			{Name: "block", Enabled: false},
			{Name: "lwss", Enabled: true, Anchor: &patterns.Coord{X: 2, Y: 10}},
		},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadConfigFormatsAgree(t *testing.T) {
	for name, content := range map[string]string{
		"config.json": jsonConfig,
		"config.ini":  iniConfig,
	} {
		t.Run(name, func(t *testing.T) {
			config, err := LoadConfig(writeFile(t, name, content))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if want := expectedConfig(); !reflect.DeepEqual(config, want) {
				t.Fatalf("got %+v\nwant %+v", config, want)
			}
			if got := config.FrameDelay(); got != 250*time.Millisecond {
				t.Errorf("FrameDelay() = %v", got)
			}
		})
	}
}

func TestParseINISquareSize(t *testing.T) {
	config, err := ParseINI([]byte("[grid]\nsize = 12\n\n[patterns]\nglider = on\n"))
	if err != nil {
		t.Fatalf("ParseINI: %v", err)
	}
	if config.Width != 12 || config.Height != 12 {
		t.Fatalf("size = 12 gave %dx%d", config.Width, config.Height)
	}
	if config.FrameDelayMs != DefaultConfig().FrameDelayMs {
		t.Errorf("frame delay should keep its default, got %d", config.FrameDelayMs)
	}
}

func TestParseINILegacyLayout(t *testing.T) {
	content := "[global]\nmatrice_size = 12\nsleep_time = 500\n\n[spaceships]\nglider = On\nlwss = Off\n"
	config, err := ParseINI([]byte(content))
	if err != nil {
		t.Fatalf("ParseINI: %v", err)
	}

	if config.Width != 12 || config.Height != 12 {
		t.Errorf("matrice_size = 12 gave %dx%d", config.Width, config.Height)
	}
	if config.FrameDelayMs != 500 {
		t.Errorf("sleep_time = 500 gave %d ms", config.FrameDelayMs)
	}
	want := []PatternRef{{Name: "glider", Enabled: true}, {Name: "lwss", Enabled: false}}
	if !reflect.DeepEqual(config.Patterns, want) {
		t.Errorf("Patterns = %+v, want %+v", config.Patterns, want)
	}
	if config.PatternDir != "." {
		t.Errorf("ships should be looked up in the working directory, got %q", config.PatternDir)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseINIRejectsUnknownSettings(t *testing.T) {
	for name, content := range map[string]string{
		"unknown section":     "[world]\nsize = 12\n",
		"unknown grid key":    "[grid]\ncolour = red\n",
		"unknown global key":  "[global]\nmatrix_size = 12\n",
		"unknown display key": "[display]\nglyph = x\n",
		"top-level key":       "size = 12\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseINI([]byte(content)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("ParseINI error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseINIErrors(t *testing.T) {
	for name, content := range map[string]string{
		"non-numeric size":  "[grid]\nsize = big\n",
		"bad pool flag":     "[grid]\nuse_memory_pool = maybe\n",
		"bad pattern value": "[patterns]\nglider = sometimes\n",
		"bad anchor":        "[patterns]\nglider = 1,two\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseINI([]byte(content)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestEnabledPatterns(t *testing.T) {
	refs := expectedConfig().EnabledPatterns()
	if len(refs) != 2 || refs[0].Name != "glider" || refs[1].Name != "lwss" {
		t.Fatalf("EnabledPatterns() = %+v", refs)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"negative delay", func(c *Config) { c.FrameDelayMs = -1 }},
		{"negative generations", func(c *Config) { c.MaxGenerations = -1 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"unknown display", func(c *Config) { c.Display = "hologram" }},
		{"empty glyph", func(c *Config) { c.LiveGlyph = "" }},
		{"same glyphs", func(c *Config) { c.LiveGlyph = c.DeadGlyph }},
		{"unnamed pattern", func(c *Config) { c.Patterns = []PatternRef{{Enabled: true}} }},
		{"negative anchor", func(c *Config) {
			c.Patterns = []PatternRef{{Name: "glider", Enabled: true, Anchor: &patterns.Coord{X: -1}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := LoadConfig(writeFile(t, "config.yaml", "width: 3")); err == nil {
		t.Error("unsupported extension should fail")
	}
	if _, err := LoadConfig(writeFile(t, "config.json", `{"width": "wide"}`)); err == nil {
		t.Error("malformed json should fail")
	}
	if _, err := LoadConfig(writeFile(t, "config.json", `{"colour": "red"}`)); err == nil {
		t.Error("unknown json field should fail")
	}
	_, err := LoadConfig(writeFile(t, "config.ini", "[grid]\nwidth = 0\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero width ini error = %v, want ErrInvalidConfig", err)
	}
}

func TestStatsUpdate(t *testing.T) {
	s := NewStats()
	s.Update(1, 100, 500*time.Millisecond)
	if s.GenerationsPerSecond != 2 {
		t.Errorf("GenerationsPerSecond = %v, want 2", s.GenerationsPerSecond)
	}
	if s.AveragePopulation != 100 {
		t.Errorf("AveragePopulation = %v, want 100", s.AveragePopulation)
	}

	s.Update(2, 200, 0)
	if s.TotalGenerations != 2 {
		t.Errorf("TotalGenerations = %d, want 2", s.TotalGenerations)
	}
	if math.Abs(s.AveragePopulation-110) > 1e-9 {
		t.Errorf("AveragePopulation = %v, want 110", s.AveragePopulation)
	}
	if s.GenerationsPerSecond != 2 {
		t.Errorf("zero duration should keep the last rate, got %v", s.GenerationsPerSecond)
	}
}
