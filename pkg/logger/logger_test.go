package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputJSON(t *testing.T) {
	t.Cleanup(func() {
		SetFormat("console")
		SetLevel("info")
	})

	var buf bytes.Buffer
	SetOutput(&buf, "json")
	SetLevel("debug")

	log.Debug().Str("dataset", "north").Msg("planned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planned", entry["message"])
	assert.Equal(t, "north", entry["dataset"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetLevelInvalid(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetLevel("WARN")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
