package diagnostics

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joestump/experiment40/internal/config"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"DEV":        ModeDev,
		"test":       ModeTest,
		" Staging ":  ModeStaging,
		"production": ModeProduction,
		"":           ModeDev,
		"qa":         ModeDev,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseMode(in), in)
	}
}

func TestModeColor(t *testing.T) {
	assert.Equal(t, "#22c55e", ModeDev.Color())
	assert.Equal(t, "#ef4444", ModeProduction.Color())
	assert.Equal(t, "#22c55e", Mode("other").Color())
}

func testConfig(mode string) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Experiment 40"
	cfg.App.Mode = mode
	cfg.API.URL = "http://localhost:8000"
	return cfg
}

func TestCollect(t *testing.T) {
	r := Collect(testConfig("staging"))
	assert.Equal(t, "Experiment 40", r.App)
	assert.Equal(t, ModeStaging, r.Mode)
	assert.Equal(t, "http://localhost:8000", r.APIURL)
	assert.Equal(t, runtime.GOOS, r.OS)
	assert.Equal(t, runtime.NumCPU(), r.CPUs)
	assert.NotZero(t, r.PID)
	assert.NotEmpty(t, r.Build.GoVersion)
}

func TestLogStartup(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	LogStartup(log, Collect(testConfig("DEV")))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Experiment 40", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "DEV", fields["mode"])
	assert.Equal(t, "http://localhost:8000", fields["api_url"])

	LogStartup(log, Collect(testConfig("PRODUCTION")))
	assert.Equal(t, 1, logs.Len(), "silent in production")
}
