package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type Alarm struct {
	scanInterval time.Duration
	strictBatch  bool
}

func (x *Alarm) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "alarm-scan-interval",
			Usage:       "Interval of the background alarm scan (0 disables it)",
			Category:    "Alarm",
			Value:       10 * time.Minute,
			Destination: &x.scanInterval,
			Sources:     cli.EnvVars("CASELINE_ALARM_SCAN_INTERVAL"),
		},
		&cli.BoolFlag{
			Name:        "strict-alarm-batch",
			Usage:       "Fail alarm listings on a broken case instead of skipping it",
			Category:    "Alarm",
			Destination: &x.strictBatch,
			Sources:     cli.EnvVars("CASELINE_STRICT_ALARM_BATCH"),
		},
	}
}

func (x Alarm) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("scan_interval", x.scanInterval),
		slog.Bool("strict_batch", x.strictBatch),
	)
}

// ScanEnabled reports whether the background scan should run
func (x *Alarm) ScanEnabled() bool {
	return x.scanInterval > 0
}

// ScanInterval returns the background scan interval
func (x *Alarm) ScanInterval() time.Duration {
	return x.scanInterval
}

// UseCaseOptions returns use case options derived from the alarm flags
func (x *Alarm) UseCaseOptions() []usecase.Option {
	return []usecase.Option{usecase.WithStrictBatch(x.strictBatch)}
}
