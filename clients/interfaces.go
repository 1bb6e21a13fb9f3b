package clients

import (
	"context"

	"dailydose/models"
)

// MessagingTransport is the chat platform boundary. Implementations make exactly one attempt per call.
type MessagingTransport interface {
	// SendDirectMessage delivers msg privately to the platform user identified by recipientRef
	SendDirectMessage(ctx context.Context, recipientRef string, msg *models.Message) error
	// PostChannelMessage posts msg to a channel and returns the platform reference of the new message
	PostChannelMessage(ctx context.Context, channelRef string, msg *models.Message) (string, error)
	// PostThreadReply replies under parentRef. broadcast also surfaces the reply in the channel.
	PostThreadReply(ctx context.Context, channelRef, parentRef string, msg *models.Message, broadcast bool) error
}
