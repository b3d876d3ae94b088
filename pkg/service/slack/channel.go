package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var ErrChannelNotFound = goerr.New("slack channel not found")

// ResolveChannelName returns the name of channelID, or ErrChannelNotFound when the bot cannot see it
func ResolveChannelName(ctx context.Context, svc Service, channelID string) (string, error) {
	names, err := svc.GetChannelNames(ctx, []string{channelID})
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up slack channel", goerr.V("channel_id", channelID))
	}

	name, ok := names[channelID]
	if !ok {
		return "", goerr.Wrap(ErrChannelNotFound, "failed to resolve slack channel", goerr.V("channel_id", channelID))
	}
	return name, nil
}
