package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/smart-garage/internal/config"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	t.Cleanup(func() { SetupWithOutput(config.LogConfig{}, &bytes.Buffer{}) })

	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.WithFields(log.Fields{"kind": "Car"}).Debug("Vehicle turned on")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Vehicle turned on", entry["msg"])
	assert.Equal(t, "Car", entry["kind"])
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupWithOutput(config.LogConfig{Level: "chatty"}, &buf)
	t.Cleanup(func() { SetupWithOutput(config.LogConfig{}, &bytes.Buffer{}) })

	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Unknown log level")
}
