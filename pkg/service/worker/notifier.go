package worker

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/service/slack"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
)

// SlackAlarmNotifier posts alarm notices to one Slack channel
type SlackAlarmNotifier struct {
	slackService slack.Service
	channelID    string
}

func NewSlackAlarmNotifier(slackSvc slack.Service, channelID string) *SlackAlarmNotifier {
	return &SlackAlarmNotifier{
		slackService: slackSvc,
		channelID:    channelID,
	}
}

func (n *SlackAlarmNotifier) NotifyAlarm(ctx context.Context, alarm *usecase.CaseAlarm) error {
	blocks := slack.BuildAlarmBlocks(alarm.Case, alarm.Result, alarm.Message)
	ts, err := n.slackService.PostMessage(ctx, n.channelID, blocks, alarm.Message)
	if err != nil {
		return goerr.Wrap(err, "failed to post alarm notice",
			goerr.V(usecase.CaseIDKey, alarm.Case.ID),
			goerr.V("channel_id", n.channelID))
	}

	// Channel names are cached by the Slack service, so this rarely hits the API
	logger := logging.From(ctx)
	names, err := n.slackService.GetChannelNames(ctx, []string{n.channelID})
	if err != nil {
		logger.Debug("failed to look up alarm channel name", "channel_id", n.channelID, "error", err)
	}
	logger.Info("posted alarm notice",
		"case_id", alarm.Case.ID,
		"channel_id", n.channelID,
		"channel_name", names[n.channelID],
		"ts", ts)
	return nil
}

// LogAlarmNotifier writes alarm notices to the log. Used when Slack is not configured.
type LogAlarmNotifier struct{}

func (LogAlarmNotifier) NotifyAlarm(ctx context.Context, alarm *usecase.CaseAlarm) error {
	logging.From(ctx).Warn("case in alarm",
		"case_id", alarm.Case.ID,
		"status", alarm.Result.Status,
		"elapsed_days", alarm.Result.ElapsedDays,
		"limit", alarm.Result.Limit(),
		"message", alarm.Message)
	return nil
}
