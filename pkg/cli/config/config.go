package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Alarm AlarmConfig `toml:"alarm"`
}

// AlarmConfig holds business calendar and message settings for alarm evaluation
type AlarmConfig struct {
	Timezone string            `toml:"timezone"`
	Messages map[string]string `toml:"messages"`
}

// Location resolves Timezone. An empty timezone means UTC.
func (a *AlarmConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTimezone, err.Error(), goerr.V(TimezoneKey, a.Timezone))
	}
	return loc, nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if _, err := a.Alarm.Location(); err != nil {
		return goerr.Wrap(err, "invalid alarm timezone")
	}
	if _, err := model.NewAlarmMessages(a.Alarm.Messages); err != nil {
		return goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the --config flag and the alarm settings derived from the file
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("CASELINE_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x App) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the configuration file. Without --config the defaults apply.
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}

// UseCaseOptions converts the loaded configuration into use case options
func (a *AppConfig) UseCaseOptions() ([]usecase.Option, error) {
	loc, err := a.Alarm.Location()
	if err != nil {
		return nil, err
	}
	messages, err := model.NewAlarmMessages(a.Alarm.Messages)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return []usecase.Option{
		usecase.WithCalendar(model.NewCalendar(loc)),
		usecase.WithAlarmMessages(messages),
	}, nil
}
