package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/simplify"
)

// FileName is the config file looked up in the working directory.
const FileName = "settle.yaml"

// Config represents the top-level settle.yaml configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Advanced AdvancedConfig `yaml:"advanced"`
	Log      LogConfig      `yaml:"log"`
	Bench    BenchConfig    `yaml:"bench"`
}

// EngineConfig selects and bounds the simplification strategy.
type EngineConfig struct {
	Strategy string `yaml:"strategy"`

	// DPMaxParticipants refuses dynamic programming above this many open
	// participants. Zero disables the check.
	DPMaxParticipants int `yaml:"dp_max_participants"`
	DPMaxStates       int `yaml:"dp_max_states"` // 0 = unbounded

	// CycleMaxIterations caps cycle cancellation rounds. Zero uses
	// min(2*transactions, 50); negative skips cancellation.
	CycleMaxIterations int `yaml:"cycle_max_iterations"`
}

// AdvancedConfig controls valuation of dated obligations.
type AdvancedConfig struct {
	EvaluationDate string `yaml:"evaluation_date,omitempty"` // "YYYY-MM-DD", empty = today
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// BenchConfig describes the generated cases used by the bench command.
type BenchConfig struct {
	Cases     []BenchCase `yaml:"cases"`
	Runs      int         `yaml:"runs"`
	Seed      uint64      `yaml:"seed"`
	MaxAmount int64       `yaml:"max_amount"` // whole currency units
}

// BenchCase is one generated ledger size.
type BenchCase struct {
	People       int `yaml:"people"`
	Transactions int `yaml:"transactions"`
}

// Load reads a settle.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults if it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy:          simplify.Greedy.String(),
			DPMaxParticipants: 7,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Bench: BenchConfig{
			Cases: []BenchCase{
				{People: 3, Transactions: 3},
				{People: 5, Transactions: 10},
				{People: 7, Transactions: 20},
				{People: 10, Transactions: 50},
			},
			Runs:      3,
			Seed:      1,
			MaxAmount: 1000,
		},
	}
}

// Validate checks the values that cannot be fixed up later.
func (c *Config) Validate() error {
	if _, err := simplify.ParseStrategy(c.Engine.Strategy); err != nil {
		return fmt.Errorf("engine.strategy: %w", err)
	}
	if c.Engine.DPMaxParticipants < 0 || c.Engine.DPMaxStates < 0 {
		return errors.New("engine: limits cannot be negative")
	}
	if c.Advanced.EvaluationDate != "" {
		if _, err := model.ParseDate(c.Advanced.EvaluationDate); err != nil {
			return fmt.Errorf("advanced.evaluation_date: %w", err)
		}
	}
	if c.Bench.Runs < 1 {
		return errors.New("bench.runs must be at least 1")
	}
	if c.Bench.MaxAmount < 1 {
		return errors.New("bench.max_amount must be at least 1")
	}
	for i, bc := range c.Bench.Cases {
		if bc.People < 2 || bc.Transactions < 1 {
			return fmt.Errorf("bench.cases[%d]: need at least 2 people and 1 transaction", i)
		}
	}
	return nil
}

// Strategy returns the configured strategy.
func (c *Config) Strategy() (simplify.Strategy, error) {
	return simplify.ParseStrategy(c.Engine.Strategy)
}

// EvaluationDate returns the configured evaluation date, or today's date
// taken from now when none is set.
func (c *Config) EvaluationDate(now time.Time) (time.Time, error) {
	if c.Advanced.EvaluationDate == "" {
		return model.Truncate(now), nil
	}
	d, err := model.ParseDate(c.Advanced.EvaluationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing evaluation date: %w", err)
	}
	return d, nil
}

// EngineOptions converts the engine limits into strategy options.
func (c *Config) EngineOptions() []simplify.Option {
	return []simplify.Option{
		simplify.WithMaxStates(c.Engine.DPMaxStates),
		simplify.WithMaxCycleIterations(c.Engine.CycleMaxIterations),
	}
}
