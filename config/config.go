// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Bird       BirdConfig       `yaml:"bird"`
	Pipes      PipesConfig      `yaml:"pipes"`
	Score      ScoreConfig      `yaml:"score"`
	Population PopulationConfig `yaml:"population"`
	Neural     NeuralConfig     `yaml:"neural"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The simulation runs in screen space.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds bird physics parameters. Speeds are in pixels per second.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	Gravity        float64 `yaml:"gravity"`
	FlapVelocity   float64 `yaml:"flap_velocity"`    // upward speed set by a flap
	MaxFallSpeed   float64 `yaml:"max_fall_speed"`   // terminal velocity
	DeadDriftSpeed float64 `yaml:"dead_drift_speed"` // leftward speed of dead birds
}

// BirdConfig holds bird spawn parameters.
type BirdConfig struct {
	StartXFrac float64 `yaml:"start_x_frac"` // spawn x as a fraction of screen width
	StartYFrac float64 `yaml:"start_y_frac"` // spawn y as a fraction of screen height
	Radius     float64 `yaml:"radius"`
}

// PipesConfig holds pipe course parameters.
type PipesConfig struct {
	Speed        float64 `yaml:"speed"`       // scroll speed
	Width        float64 `yaml:"width"`       // pipe width
	Gap          float64 `yaml:"gap"`         // opening between upper and lower pipe
	SpacingMin   float64 `yaml:"spacing_min"` // horizontal distance between consecutive pipes
	SpacingMax   float64 `yaml:"spacing_max"`
	GapMargin    float64 `yaml:"gap_margin"`    // min distance from gap edge to screen edge or ground
	GroundHeight float64 `yaml:"ground_height"` // height of the ground strip at the bottom
}

// ScoreConfig holds the survival score parameters.
type ScoreConfig struct {
	PipeBonus float64 `yaml:"pipe_bonus"` // added when a live bird clears a pipe
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Size int `yaml:"size"`
}

// NeuralConfig holds network shape parameters.
type NeuralConfig struct {
	Topology         []int  `yaml:"topology"`          // layer sizes, input first
	HiddenActivation string `yaml:"hidden_activation"` // sigmoid or tanh
}

// EvolutionConfig holds genetic algorithm parameters.
type EvolutionConfig struct {
	Elites         int     `yaml:"elites"`
	Selection      string  `yaml:"selection"` // roulette or tournament
	TournamentSize int     `yaml:"tournament_size"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate"`
	MutationSigma  float64 `yaml:"mutation_sigma"`
	ResetRate      float64 `yaml:"reset_rate"`
	MaxWeight      float64 `yaml:"max_weight"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow     int `yaml:"perf_window"`       // ticks averaged by the perf collector
	HallOfFameSize int `yaml:"hall_of_fame_size"` // champions kept across generations
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW  float64 // Screen.Width as float64
	ScreenH  float64 // Screen.Height as float64
	GroundY  float64 // top of the ground strip
	StartX   float64 // bird spawn position
	StartY   float64
	NumInput int // Neural.Topology[0]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten. Lists replace wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside the simulation.
// Evolution rates are checked by the neural package when the evolver is built.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.DeadDriftSpeed <= 0 {
		return fmt.Errorf("physics.dead_drift_speed must be positive, got %v", c.Physics.DeadDriftSpeed)
	}
	if c.Pipes.SpacingMin <= 0 || c.Pipes.SpacingMax < c.Pipes.SpacingMin {
		return fmt.Errorf("pipes spacing range [%v, %v] is invalid", c.Pipes.SpacingMin, c.Pipes.SpacingMax)
	}
	playable := float64(c.Screen.Height) - c.Pipes.GroundHeight - 2*c.Pipes.GapMargin
	if c.Pipes.Gap <= 0 || c.Pipes.Gap > playable {
		return fmt.Errorf("pipes.gap %v does not fit playable height %v", c.Pipes.Gap, playable)
	}
	if c.Population.Size < 2 {
		return fmt.Errorf("population.size must be at least 2, got %d", c.Population.Size)
	}
	if len(c.Neural.Topology) < 2 {
		return fmt.Errorf("neural.topology needs at least 2 layers, got %v", c.Neural.Topology)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	c.Derived.GroundY = c.Derived.ScreenH - c.Pipes.GroundHeight
	c.Derived.StartX = c.Derived.ScreenW * c.Bird.StartXFrac
	c.Derived.StartY = c.Derived.ScreenH * c.Bird.StartYFrac
	c.Derived.NumInput = c.Neural.Topology[0]
}

// Clone returns a deep copy, for callers that tweak a config per run.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Neural.Topology = append([]int(nil), c.Neural.Topology...)
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
