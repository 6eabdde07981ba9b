// Package diagnostics reports what the process is running with at startup.
package diagnostics

import (
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/build"
	"github.com/joestump/experiment40/internal/config"
)

type Mode string

const (
	ModeDev        Mode = "DEV"
	ModeTest       Mode = "TEST"
	ModeStaging    Mode = "STAGING"
	ModeProduction Mode = "PRODUCTION"
)

// ParseMode is case-insensitive. Anything unrecognised is ModeDev.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeDev, ModeTest, ModeStaging, ModeProduction:
		return m
	default:
		return ModeDev
	}
}

// Color is the badge color shown next to the mode in the page footer.
func (m Mode) Color() string {
	switch m {
	case ModeTest:
		return "#f59e0b"
	case ModeStaging:
		return "#06b6d4"
	case ModeProduction:
		return "#ef4444"
	default:
		return "#22c55e"
	}
}

type Report struct {
	App       string
	Mode      Mode
	APIURL    string
	Build     build.Info
	OS        string
	Arch      string
	CPUs      int
	Hostname  string
	Timezone  string
	PID       int
	StartedAt time.Time
}

func Collect(cfg *config.Config) Report {
	host, err := os.Hostname()
	if err != nil {
		host = "n/a"
	}
	now := time.Now()
	zone, _ := now.Zone()
	return Report{
		App:       cfg.App.Name,
		Mode:      ParseMode(cfg.App.Mode),
		APIURL:    cfg.API.URL,
		Build:     build.Current(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		Hostname:  host,
		Timezone:  now.Location().String() + " (" + zone + ")",
		PID:       os.Getpid(),
		StartedAt: now,
	}
}

// LogStartup writes the report unless running in production.
func LogStartup(log *zap.Logger, r Report) {
	if r.Mode == ModeProduction {
		return
	}
	log.Info(r.App,
		zap.String("mode", string(r.Mode)),
		zap.String("api_url", r.APIURL),
		zap.String("version", r.Build.Version),
		zap.String("commit", r.Build.Commit),
		zap.String("branch", r.Build.Branch),
		zap.String("go", r.Build.GoVersion),
		zap.String("platform", r.OS+"/"+r.Arch),
		zap.Int("cpu_cores", r.CPUs),
		zap.String("hostname", r.Hostname),
		zap.String("timezone", r.Timezone),
		zap.Int("pid", r.PID),
		zap.Time("time", r.StartedAt),
	)
}
