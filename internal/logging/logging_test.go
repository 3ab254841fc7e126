package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiviie/bbsfront/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	l.WithField("component", "test").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(config.LogConfig{Level: "loud"}, &buf)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Unknown log level")
}
