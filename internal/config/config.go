package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"mini-voxel/internal/world"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath     = "VOXEL_CONFIG"
	EnvSeed           = "VOXEL_SEED"
	EnvRenderDistance = "VOXEL_RENDER_DISTANCE"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the startup configuration of a simulation run.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Targeting TargetingConfig `yaml:"targeting"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
}

type WorldConfig struct {
	Seed        int64 `yaml:"seed"`
	ChunkSize   int   `yaml:"chunk_size"`
	ChunkHeight int   `yaml:"chunk_height"`
}

type StreamingConfig struct {
	RenderDistance int `yaml:"render_distance"`
	ChunksPerTick  int `yaml:"chunks_per_tick"`
}

type TargetingConfig struct {
	Reach float32 `yaml:"reach"`
}

type RuntimeConfig struct {
	TickRate    int    `yaml:"tick_rate"` // ticks per second, 0 = unpaced
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the /metrics listener
	MeshWorkers int    `yaml:"mesh_workers"` // 0 = GOMAXPROCS
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:        42,
			ChunkSize:   world.DefaultChunkSize,
			ChunkHeight: world.DefaultChunkHeight,
		},
		Streaming: StreamingConfig{
			RenderDistance: world.DefaultStreamSettings.RenderDistance,
			ChunksPerTick:  world.DefaultStreamSettings.ChunksPerTick,
		},
		Targeting: TargetingConfig{Reach: 8.0},
		Runtime: RuntimeConfig{
			TickRate: 60,
			LogLevel: "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// $VOXEL_CONFIG and then to the defaults alone. Environment overrides are
// applied last. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.World.Seed = seed
	}
	if v := os.Getenv(EnvRenderDistance); v != "" {
		rd, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRenderDistance, err)
		}
		c.Streaming.RenderDistance = rd
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if c.World.ChunkSize <= 0 {
		invalid("world.chunk_size must be positive, got %d", c.World.ChunkSize)
	}
	if c.World.ChunkHeight <= 0 {
		invalid("world.chunk_height must be positive, got %d", c.World.ChunkHeight)
	}
	if c.Streaming.RenderDistance <= 0 {
		invalid("streaming.render_distance must be positive, got %d", c.Streaming.RenderDistance)
	}
	if c.Streaming.ChunksPerTick <= 0 {
		invalid("streaming.chunks_per_tick must be positive, got %d", c.Streaming.ChunksPerTick)
	}
	if c.Targeting.Reach <= 0 {
		invalid("targeting.reach must be positive, got %g", c.Targeting.Reach)
	}
	if c.Runtime.TickRate < 0 {
		invalid("runtime.tick_rate must not be negative, got %d", c.Runtime.TickRate)
	}
	if c.Runtime.MeshWorkers < 0 {
		invalid("runtime.mesh_workers must not be negative, got %d", c.Runtime.MeshWorkers)
	}
	if _, err := ParseLevel(c.Runtime.LogLevel); err != nil {
		invalid("runtime.log_level: %v", err)
	}
	return errors.Join(errs...)
}

// Dims returns the chunk dimensions.
func (c *Config) Dims() world.Dims {
	return world.Dims{Size: c.World.ChunkSize, Height: c.World.ChunkHeight}
}

// StreamSettings returns the streaming scalars.
func (c *Config) StreamSettings() world.StreamSettings {
	return world.StreamSettings{
		RenderDistance: c.Streaming.RenderDistance,
		ChunksPerTick:  c.Streaming.ChunksPerTick,
	}
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
