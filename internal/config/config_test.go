package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/simplify"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Engine.Strategy = "mcmf"
	cfg.Advanced.EvaluationDate = "2024-06-01"
	cfg.Bench.Cases = []BenchCase{{People: 4, Transactions: 8}}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Engine, got.Engine)
	assert.Equal(t, cfg.Advanced.EvaluationDate, got.Advanced.EvaluationDate)
	assert.Equal(t, cfg.Log, got.Log)
	require.Len(t, got.Bench.Cases, 1)
	assert.Equal(t, 4, got.Bench.Cases[0].People)
	assert.Equal(t, 8, got.Bench.Cases[0].Transactions)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "greedy", cfg.Engine.Strategy)
	assert.Equal(t, 7, cfg.Engine.DPMaxParticipants)
	assert.Zero(t, cfg.Engine.DPMaxStates)
	assert.Zero(t, cfg.Engine.CycleMaxIterations)
	assert.Empty(t, cfg.Advanced.EvaluationDate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Bench.Runs)
	assert.Equal(t, uint64(1), cfg.Bench.Seed)
	assert.NotEmpty(t, cfg.Bench.Cases)
	assert.NoError(t, cfg.Validate())

	st, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, simplify.Greedy, st)
	assert.Len(t, cfg.EngineOptions(), 2)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  strategy: dp\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dp", cfg.Engine.Strategy)
	assert.Equal(t, 7, cfg.Engine.DPMaxParticipants)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown strategy", func(c *Config) { c.Engine.Strategy = "magic" }, "engine.strategy"},
		{"negative limit", func(c *Config) { c.Engine.DPMaxStates = -1 }, "cannot be negative"},
		{"bad date", func(c *Config) { c.Advanced.EvaluationDate = "06/01/2024" }, "evaluation_date"},
		{"zero runs", func(c *Config) { c.Bench.Runs = 0 }, "bench.runs"},
		{"zero amount", func(c *Config) { c.Bench.MaxAmount = 0 }, "max_amount"},
		{"tiny case", func(c *Config) { c.Bench.Cases = []BenchCase{{People: 1, Transactions: 1}} }, "bench.cases[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluationDate(t *testing.T) {
	now := time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)

	cfg := Default()
	got, err := cfg.EvaluationDate(now)
	require.NoError(t, err)
	assert.Equal(t, model.Date(2024, time.March, 9), got)

	cfg.Advanced.EvaluationDate = "2023-12-31"
	got, err = cfg.EvaluationDate(now)
	require.NoError(t, err)
	assert.Equal(t, model.Date(2023, time.December, 31), got)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "strategy: greedy")
	assert.Contains(t, contents, "dp_max_participants: 7")
	assert.Contains(t, contents, "format: console")
	assert.NotContains(t, contents, "evaluation_date")
}
