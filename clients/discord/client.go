package discord

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"dailydose/clients"
	"dailydose/models"
)

const (
	threadName            = "Standup updates"
	threadArchiveDuration = 1440
)

// DiscordClient implements clients.MessagingTransport on top of the discordgo REST session
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient creates a Discord transport for the given bot token.
// No gateway connection is opened; only REST endpoints are used.
func NewDiscordClient(httpClient *http.Client, botToken string) (clients.MessagingTransport, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if httpClient != nil {
		session.Client = httpClient
	}

	return &DiscordClient{session: session}, nil
}

func (c *DiscordClient) SendDirectMessage(ctx context.Context, recipientRef string, msg *models.Message) error {
	channel, err := c.session.UserChannelCreate(recipientRef, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open Discord DM channel for %s: %w", recipientRef, err)
	}

	if err := c.sendAll(ctx, channel.ID, ToDiscordMessages(msg)); err != nil {
		return fmt.Errorf("failed to send Discord direct message to %s: %w", recipientRef, err)
	}
	return nil
}

// PostChannelMessage returns the ID of the first message, which doubles as the thread ID once a thread is started.
// Embeds over the per-message limits follow as consecutive channel messages.
func (c *DiscordClient) PostChannelMessage(ctx context.Context, channelRef string, msg *models.Message) (string, error) {
	sends := ToDiscordMessages(msg)
	posted, err := c.session.ChannelMessageSendComplex(channelRef, sends[0], discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to post Discord message to %s: %w", channelRef, err)
	}
	if err := c.sendAll(ctx, channelRef, sends[1:]); err != nil {
		return "", fmt.Errorf("failed to post Discord message continuation to %s: %w", channelRef, err)
	}
	return posted.ID, nil
}

// PostThreadReply posts into the thread anchored on parentRef, starting the thread on first use.
// Broadcast additionally posts a channel reply referencing the parent message.
func (c *DiscordClient) PostThreadReply(
	ctx context.Context,
	channelRef, parentRef string,
	msg *models.Message,
	broadcast bool,
) error {
	sends := ToDiscordMessages(msg)

	if _, err := c.session.ChannelMessageSendComplex(parentRef, sends[0], discordgo.WithContext(ctx)); err != nil {
		log.Printf("📋 Thread for message %s not available, starting one: %v", parentRef, err)

		thread, err := c.session.MessageThreadStart(
			channelRef,
			parentRef,
			threadName,
			threadArchiveDuration,
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to start Discord thread on %s: %w", parentRef, err)
		}
		if err := c.sendAll(ctx, thread.ID, sends); err != nil {
			return fmt.Errorf("failed to post Discord thread reply to %s: %w", thread.ID, err)
		}
	} else if err := c.sendAll(ctx, parentRef, sends[1:]); err != nil {
		return fmt.Errorf("failed to post Discord thread reply continuation to %s: %w", parentRef, err)
	}

	if !broadcast {
		return nil
	}

	replies := ToDiscordMessages(msg)
	replies[0].Reference = &discordgo.MessageReference{
		MessageID: parentRef,
		ChannelID: channelRef,
	}
	if err := c.sendAll(ctx, channelRef, replies); err != nil {
		return fmt.Errorf("failed to broadcast Discord reply to %s: %w", channelRef, err)
	}
	return nil
}

func (c *DiscordClient) sendAll(ctx context.Context, channelID string, sends []*discordgo.MessageSend) error {
	for i, send := range sends {
		if _, err := c.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	return nil
}
