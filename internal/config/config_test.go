package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Engine.BaselineStrength)
	assert.Equal(t, 0.95, cfg.Engine.MaxProcPerMinute)
	assert.Equal(t, 3600.0, cfg.Engine.BaseXPPerHour)
	assert.Equal(t, 30, cfg.Engine.LevelAllowance)
	assert.Equal(t, 100, cfg.Engine.MaxLevel)
	assert.Equal(t, 3*time.Second, cfg.Valuation.TTL)
	assert.True(t, cfg.Valuation.Enabled)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoad_UserFileOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "engine:\n  baseline_strength: 50\nvaluation:\n  ttl: 10s\nevents_per_hour:\n  onHarvest: 120\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Engine.BaselineStrength)
	assert.Equal(t, 10*time.Second, cfg.Valuation.TTL)
	assert.Equal(t, 120.0, cfg.EventsPerHour["onHarvest"])
	// untouched fields keep their defaults
	assert.Equal(t, 0.95, cfg.Engine.MaxProcPerMinute)
	assert.Equal(t, 1000.0, cfg.Hunger.DefaultCapacity)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"proc cap above one":   "engine:\n  max_proc_per_minute: 1.5\n",
		"zero proc cap":        "engine:\n  max_proc_per_minute: 0\n",
		"negative baseline":    "engine:\n  baseline_strength: -1\n",
		"negative capacity":    "hunger:\n  default_capacity: -5\n",
		"negative event rate":  "events_per_hour:\n  onHatch: -1\n",
		"baseline above limit": "engine:\n  baseline_strength: 120\n",
		"zero level allowance": "engine:\n  level_allowance: 0\n",
		"negative allowance":   "engine:\n  level_allowance: -3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := MustLoad("")
	cfg.Engine.NearCapWithin = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, again.Engine.NearCapWithin)
	assert.Equal(t, cfg.Valuation.TTL, again.Valuation.TTL)
}

func TestEngineOptions_FromDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, 100, opts.Proc.BaselineStrength)
	assert.Equal(t, 0.95, opts.Proc.MaxPerMinute)
	assert.Empty(t, opts.Proc.EventsPerHour)
	assert.Equal(t, 30, opts.Rules.LevelAllowance)
	assert.Equal(t, 100, opts.Rules.MaxLevel)
	require.NotNil(t, opts.FallbackCapacity)
	assert.Equal(t, 1000.0, *opts.FallbackCapacity)
}

func TestEngineOptions_ParsesEventRates(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.EventsPerHour = map[string]float64{"onharvest": 120, "onSellBatch": 4}
	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Len(t, opts.Proc.EventsPerHour, 2)

	cfg.EventsPerHour = map[string]float64{"onDance": 1}
	_, err = cfg.EngineOptions()
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg.EventsPerHour = map[string]float64{"continuous": 1}
	_, err = cfg.EngineOptions()
	require.ErrorIs(t, err, ErrInvalidConfig)
}
