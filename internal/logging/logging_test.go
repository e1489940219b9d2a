package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/config"
)

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, config.LogConfig{Level: "warn"})
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	log := Setup(&bytes.Buffer{}, config.LogConfig{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, config.LogConfig{Level: "info", JSON: true})
	log.WithField("row", 3).Warn("skipping malformed row")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warning", got["loglevel"])
	assert.Equal(t, "skipping malformed row", got["msg"])
	assert.EqualValues(t, 3, got["row"])
}
