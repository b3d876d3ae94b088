package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken     string
	alarmChannel string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting alarm notices)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("CASELINE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-alarm-channel",
			Usage:       "Slack channel ID that receives alarm notices",
			Category:    "Slack",
			Destination: &x.alarmChannel,
			Sources:     cli.EnvVars("CASELINE_SLACK_ALARM_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("alarm-channel", x.alarmChannel),
	)
}

// IsConfigured reports whether both the token and the alarm channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.alarmChannel != ""
}

// AlarmChannel returns the channel ID for alarm notices
func (x *Slack) AlarmChannel() string {
	return x.alarmChannel
}

// Configure creates the Slack service. It returns nil without error when Slack is not configured.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.alarmChannel == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.New("both --slack-bot-token and --slack-alarm-channel are required for Slack notices")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
