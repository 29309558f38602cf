package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/sheikhrachel/go-gol-spaceships/patterns"
)

const (
	DisplayANSI   = "ansi"
	DisplayScreen = "screen"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// PatternRef enables a named pattern, optionally overriding its anchor
type PatternRef struct {
	Name    string          `json:"name"`
	Enabled bool            `json:"enabled"`
	Anchor  *patterns.Coord `json:"anchor,omitempty"`
}

// Config holds the configuration for the game
type Config struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	FrameDelayMs   int          `json:"frame_delay_ms"`
	MaxGenerations int          `json:"max_generations"`
	Workers        int          `json:"workers"`
	UseMemoryPool  bool         `json:"use_memory_pool"`
	Display        string       `json:"display"`
	DeadGlyph      string       `json:"dead_glyph"`
	LiveGlyph      string       `json:"live_glyph"`
	PatternDir     string       `json:"pattern_dir"`
	Patterns       []PatternRef `json:"patterns"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:          40,
		Height:         40,
		FrameDelayMs:   100,
		MaxGenerations: 0, // run until interrupted
		Workers:        1,
		UseMemoryPool:  false,
		Display:        DisplayANSI,
		DeadGlyph:      "⬜",
		LiveGlyph:      "⬛",
	}
}

// FrameDelay is the pause between two rendered frames
func (c Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMs) * time.Millisecond
}

// EnabledPatterns returns the enabled pattern references in declaration order
func (c Config) EnabledPatterns() []PatternRef {
	var refs []PatternRef
	for _, ref := range c.Patterns {
		if ref.Enabled {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Validate rejects configurations the simulation cannot start with
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	case c.FrameDelayMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame delay must not be negative, got %d", c.FrameDelayMs)
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "max generations must not be negative, got %d", c.MaxGenerations)
	case c.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	case c.Display != DisplayANSI && c.Display != DisplayScreen:
		return errors.Wrapf(ErrInvalidConfig, "unknown display %q", c.Display)
	case c.DeadGlyph == "" || c.LiveGlyph == "":
		return errors.Wrap(ErrInvalidConfig, "glyphs must not be empty")
	case c.DeadGlyph == c.LiveGlyph:
		return errors.Wrapf(ErrInvalidConfig, "dead and live glyphs are both %q", c.DeadGlyph)
	}
	for i, ref := range c.Patterns {
		if ref.Name == "" {
			return errors.Wrapf(ErrInvalidConfig, "pattern %d has no name", i)
		}
		if ref.Anchor != nil && (ref.Anchor.X < 0 || ref.Anchor.Y < 0) {
			return errors.Wrapf(ErrInvalidConfig, "pattern %q anchor is negative: %+v", ref.Name, *ref.Anchor)
		}
	}
	return nil
}

// LoadConfig loads and validates configuration from a .json or .ini file
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		config, err = ParseJSON(data)
	case ".ini":
		config, err = ParseINI(data)
	default:
		return DefaultConfig(), errors.Errorf("[LoadConfig] unsupported config format: %+v", filename)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to parse file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] %+v", filename)
	}
	return config, nil
}

// ParseJSON decodes a JSON configuration on top of DefaultConfig
func ParseJSON(data []byte) (Config, error) {
	config := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return config, errors.Wrap(err, "[ParseJSON] failed to unmarshal data")
	}
	return config, nil
}

// iniKeys lists the settings each INI section accepts. [patterns] and
// [spaceships] take pattern names as keys and are checked separately.
var iniKeys = map[string][]string{
	ini.DefaultSection: nil,
	"grid":             {"size", "width", "height", "frame_delay_ms", "max_generations", "workers", "use_memory_pool"},
	"global":           {"matrice_size", "sleep_time"},
	"display":          {"mode", "dead_glyph", "live_glyph"},
}

// ParseINI decodes an INI configuration on top of DefaultConfig:
//
//	[grid]
//	size = 40            ; or width / height
//	frame_delay_ms = 100
//
//	[display]
//	mode = ansi
//
//	[patterns]
//	dir = ./patterns
//	glider = on
//	lwss = 2,10          ; enabled, anchored at (2, 10)
//
// The legacy layout ([global] matrice_size and sleep_time, [spaceships]
// name = On) is read as well; its ships are looked up in the working
// directory before the embedded library. Unknown sections and keys are
// rejected.
func ParseINI(data []byte) (Config, error) {
	config := DefaultConfig()

	file, err := ini.Load(data)
	if err != nil {
		return config, errors.Wrap(err, "[ParseINI] failed to load data")
	}
	if err = checkINILayout(file); err != nil {
		return config, err
	}

	global := file.Section("global")
	if global.HasKey("matrice_size") {
		if err = intKey(global, "matrice_size", &config.Width); err != nil {
			return config, err
		}
		config.Height = config.Width
	}
	if err = intKey(global, "sleep_time", &config.FrameDelayMs); err != nil {
		return config, err
	}

	grid := file.Section("grid")
	if grid.HasKey("size") {
		if err = intKey(grid, "size", &config.Width); err != nil {
			return config, err
		}
		config.Height = config.Width
	}
	for name, dst := range map[string]*int{
		"width":           &config.Width,
		"height":          &config.Height,
		"frame_delay_ms":  &config.FrameDelayMs,
		"max_generations": &config.MaxGenerations,
		"workers":         &config.Workers,
	} {
		if err = intKey(grid, name, dst); err != nil {
			return config, err
		}
	}
	if grid.HasKey("use_memory_pool") {
		if config.UseMemoryPool, err = grid.Key("use_memory_pool").Bool(); err != nil {
			return config, errors.Wrap(err, "[ParseINI] grid.use_memory_pool")
		}
	}

	display := file.Section("display")
	config.Display = display.Key("mode").MustString(config.Display)
	config.DeadGlyph = display.Key("dead_glyph").MustString(config.DeadGlyph)
	config.LiveGlyph = display.Key("live_glyph").MustString(config.LiveGlyph)

	for _, key := range file.Section("patterns").Keys() {
		if key.Name() == "dir" {
			config.PatternDir = key.String()
			continue
		}
		ref, err := parsePatternRef(key)
		if err != nil {
			return config, err
		}
		config.Patterns = append(config.Patterns, ref)
	}

	spaceships := file.Section("spaceships").Keys()
	if len(spaceships) > 0 && config.PatternDir == "" {
		config.PatternDir = "."
	}
	for _, key := range spaceships {
		ref, err := parsePatternRef(key)
		if err != nil {
			return config, err
		}
		config.Patterns = append(config.Patterns, ref)
	}

	return config, nil
}

func checkINILayout(file *ini.File) error {
	for _, section := range file.Sections() {
		name := section.Name()
		if name == "patterns" || name == "spaceships" {
			continue
		}
		allowed, ok := iniKeys[name]
		if !ok {
			return errors.Wrapf(ErrInvalidConfig, "[ParseINI] unknown section [%s]", name)
		}
		for _, key := range section.Keys() {
			if !slices.Contains(allowed, key.Name()) {
				return errors.Wrapf(ErrInvalidConfig, "[ParseINI] unknown key %s.%s", name, key.Name())
			}
		}
	}
	return nil
}

func intKey(section *ini.Section, name string, dst *int) error {
	if !section.HasKey(name) {
		return nil
	}
	v, err := section.Key(name).Int()
	if err != nil {
		return errors.Wrapf(err, "[ParseINI] %s.%s", section.Name(), name)
	}
	*dst = v
	return nil
}

// parsePatternRef reads "on"/"off" or an "x,y" anchor that also enables the pattern
func parsePatternRef(key *ini.Key) (PatternRef, error) {
	ref := PatternRef{Name: key.Name()}
	if enabled, err := key.Bool(); err == nil {
		ref.Enabled = enabled
		return ref, nil
	}

	xs, ys, ok := strings.Cut(key.String(), ",")
	if !ok {
		return ref, errors.Errorf("[ParseINI] patterns.%s: want on, off or x,y, got %q", key.Name(), key.String())
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return ref, errors.Wrapf(err, "[ParseINI] patterns.%s anchor x", key.Name())
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return ref, errors.Wrapf(err, "[ParseINI] patterns.%s anchor y", key.Name())
	}
	ref.Enabled = true
	ref.Anchor = &patterns.Coord{X: x, Y: y}
	return ref, nil
}
