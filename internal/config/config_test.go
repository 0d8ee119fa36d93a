package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFestivalDates(t *testing.T) {
	got := ParseFestivalDates(" 2025-10-20, not-a-date ,,2025-11-01")

	assert.Equal(t, []time.Time{
		time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	}, got)
	assert.Empty(t, ParseFestivalDates(""))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PIPELINE_OUTPUT_DIR", t.TempDir())
	t.Setenv("PLANNER_FESTIVAL_MULTIPLIER", "1.6")

	cfg := Load()

	assert.Same(t, cfg, Load())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1.6, cfg.Planner.FestivalMultiplier)
	assert.Equal(t, 1.35, cfg.Planner.FestivalScreenMultiplier)
	assert.Equal(t, 1.2, cfg.Planner.BufferFactor)
	assert.Equal(t, 15.0, cfg.Planner.CostReference)
	assert.Len(t, cfg.Planner.FestivalDates, 2)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.False(t, cfg.Cache.Enabled)
}
