package danmaku

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the layout and scheduling parameters of a Manager.
type Config struct {
	// TrackHeight is the height of every lane. Taller captions are dropped.
	TrackHeight float64 `yaml:"track_height"`
	// MinHorizontalGap is the clearance kept between consecutive captions
	// in a lane.
	MinHorizontalGap float64 `yaml:"min_horizontal_gap"`
	// MinVerticalGap is the spacing between lanes.
	MinVerticalGap float64 `yaml:"min_vertical_gap"`
	// MaxLaunchCountPerTick caps launches per tick.
	MaxLaunchCountPerTick int `yaml:"max_launch_count_per_tick"`
	// MaxRowCount caps the number of lanes.
	MaxRowCount int `yaml:"max_row_count"`
	// Alignment places captions vertically inside their lane.
	Alignment Alignment `yaml:"alignment"`
	// Interval is the tick period.
	Interval time.Duration `yaml:"interval"`
}

// DefaultConfig returns the settings used by the examples.
func DefaultConfig() Config {
	return Config{
		TrackHeight:           40,
		MinHorizontalGap:      20,
		MinVerticalGap:        10,
		MaxLaunchCountPerTick: 16,
		MaxRowCount:           100,
		Alignment:             AlignCenter,
		Interval:              100 * time.Millisecond,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.TrackHeight <= 0:
		return fmt.Errorf("%w: track_height must be positive, got %v", ErrInvalidConfig, c.TrackHeight)
	case c.MinHorizontalGap < 0:
		return fmt.Errorf("%w: min_horizontal_gap must not be negative, got %v", ErrInvalidConfig, c.MinHorizontalGap)
	case c.MinVerticalGap < 0:
		return fmt.Errorf("%w: min_vertical_gap must not be negative, got %v", ErrInvalidConfig, c.MinVerticalGap)
	case c.MaxLaunchCountPerTick <= 0:
		return fmt.Errorf("%w: max_launch_count_per_tick must be positive, got %d", ErrInvalidConfig, c.MaxLaunchCountPerTick)
	case c.MaxRowCount <= 0:
		return fmt.Errorf("%w: max_row_count must be positive, got %d", ErrInvalidConfig, c.MaxRowCount)
	case c.Alignment > AlignBottom:
		return fmt.Errorf("%w: unknown alignment %d", ErrInvalidConfig, uint8(c.Alignment))
	case c.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidConfig, c.Interval)
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("danmaku: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("danmaku: read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
