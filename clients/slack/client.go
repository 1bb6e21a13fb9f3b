package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"dailydose/clients"
	"dailydose/models"
)

const continuationText = "(continued)"

// SlackClient implements clients.MessagingTransport using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack transport with the provided bot token
func NewSlackClient(authToken string) clients.MessagingTransport {
	return &SlackClient{
		Client: slack.New(authToken),
	}
}

// SendDirectMessage posts into the bot's DM with the user; Slack opens it implicitly for a user ID.
// Messages over the block limit are sent as consecutive messages.
func (c *SlackClient) SendDirectMessage(ctx context.Context, recipientRef string, msg *models.Message) error {
	for i, options := range messageBatches(msg) {
		if _, _, err := c.Client.PostMessageContext(ctx, recipientRef, options...); err != nil {
			return fmt.Errorf("failed to send slack direct message part %d to %s: %w", i+1, recipientRef, err)
		}
	}
	return nil
}

// PostChannelMessage posts to a channel and returns the message timestamp, which anchors threads.
// Blocks over the per-message limit continue as replies in the message's thread.
func (c *SlackClient) PostChannelMessage(ctx context.Context, channelRef string, msg *models.Message) (string, error) {
	batches := messageBatches(msg)
	_, timestamp, err := c.Client.PostMessageContext(ctx, channelRef, batches[0]...)
	if err != nil {
		return "", fmt.Errorf("failed to post slack message to %s: %w", channelRef, err)
	}

	for i, options := range batches[1:] {
		options = append(options, slack.MsgOptionTS(timestamp))
		if _, _, err := c.Client.PostMessageContext(ctx, channelRef, options...); err != nil {
			return "", fmt.Errorf("failed to post slack message part %d to %s: %w", i+2, channelRef, err)
		}
	}
	return timestamp, nil
}

// PostThreadReply posts under the parent timestamp; broadcast sets reply_broadcast on the first part only
func (c *SlackClient) PostThreadReply(
	ctx context.Context,
	channelRef, parentRef string,
	msg *models.Message,
	broadcast bool,
) error {
	for i, options := range messageBatches(msg) {
		options = append(options, slack.MsgOptionTS(parentRef))
		if broadcast && i == 0 {
			options = append(options, slack.MsgOptionBroadcast())
		}

		if _, _, err := c.Client.PostMessageContext(ctx, channelRef, options...); err != nil {
			return fmt.Errorf("failed to post slack thread reply to %s/%s: %w", channelRef, parentRef, err)
		}
	}
	return nil
}

// messageBatches returns the options of each message msg is sent as; there is always at least one
func messageBatches(msg *models.Message) [][]slack.MsgOption {
	batches := ToSlackBlockBatches(msg)
	if len(batches) == 0 {
		return [][]slack.MsgOption{{slack.MsgOptionText(msg.Text, false)}}
	}

	out := make([][]slack.MsgOption, 0, len(batches))
	for i, blocks := range batches {
		text := msg.Text
		if i > 0 {
			text = continuationText
		}
		out = append(out, []slack.MsgOption{
			slack.MsgOptionText(text, false),
			slack.MsgOptionBlocks(blocks...),
		})
	}
	return out
}
