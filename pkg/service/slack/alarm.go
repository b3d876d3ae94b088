package slack

import (
	"fmt"

	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/slack-go/slack"
)

// BuildAlarmBlocks renders an alarm notice for a case as Block Kit blocks
func BuildAlarmBlocks(c *model.Case, result *model.AlarmResult, message string) []slack.Block {
	header := fmt.Sprintf(":rotating_light: *Case #%d %s*", c.ID, c.Title)
	if c.CustomerName != "" {
		header += fmt.Sprintf(" (%s)", c.CustomerName)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, header, false, false),
			nil, nil,
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.PlainTextType, message, false, false),
			nil, nil,
		),
	}

	if result != nil && result.Rule != nil {
		detail := fmt.Sprintf("rule `%s` | status `%s` | %d/%d business days since %s",
			result.Rule.ID, result.Status, result.ElapsedDays, result.Limit(),
			result.ReferenceAt.Format("2006-01-02"))
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, detail, false, false),
		))
	}

	return blocks
}
