package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		path := writeConfig(t, `
[alarm]
timezone = "Asia/Tokyo"

[alarm.messages]
in_progress = "Case {{.CaseID}} stuck for {{.Elapsed}} days"
`)
		cfg, err := config.LoadAppConfiguration(path)
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Alarm.Timezone).Equal("Asia/Tokyo")
		gt.Value(t, cfg.Alarm.Messages["in_progress"]).Equal("Case {{.CaseID}} stuck for {{.Elapsed}} days")

		loc, err := cfg.Alarm.Location()
		gt.NoError(t, err).Required()
		gt.Value(t, loc.String()).Equal("Asia/Tokyo")
	})

	t.Run("empty file uses defaults", func(t *testing.T) {
		cfg, err := config.LoadAppConfiguration(writeConfig(t, ""))
		gt.NoError(t, err).Required()

		loc, err := cfg.Alarm.Location()
		gt.NoError(t, err).Required()
		gt.Value(t, loc.String()).Equal("UTC")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("broken TOML", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[alarm\ntimezone ="))
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[alarm]\ntimezone = \"Mars/Olympus\"\n"))
		gt.Error(t, err).Is(config.ErrInvalidTimezone)
	})

	t.Run("unknown message key", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[alarm.messages]\nno_such_rule = \"x\"\n"))
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestApp_Configure(t *testing.T) {
	t.Run("no path returns defaults", func(t *testing.T) {
		cfg, err := config.NewAppForTest("").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Alarm.Timezone).Equal("")

		opts, err := cfg.UseCaseOptions()
		gt.NoError(t, err).Required()
		gt.Array(t, opts).Length(2)
	})

	t.Run("loads file", func(t *testing.T) {
		path := writeConfig(t, "[alarm]\ntimezone = \"Europe/Rome\"\n")
		cfg, err := config.NewAppForTest(path).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Alarm.Timezone).Equal("Europe/Rome")
	})
}
