package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dailydose/models"
)

// MockMessagingTransport is a mock implementation of MessagingTransport
type MockMessagingTransport struct {
	mock.Mock
}

func (m *MockMessagingTransport) SendDirectMessage(ctx context.Context, recipientRef string, msg *models.Message) error {
	args := m.Called(ctx, recipientRef, msg)
	return args.Error(0)
}

func (m *MockMessagingTransport) PostChannelMessage(
	ctx context.Context,
	channelRef string,
	msg *models.Message,
) (string, error) {
	args := m.Called(ctx, channelRef, msg)
	return args.String(0), args.Error(1)
}

func (m *MockMessagingTransport) PostThreadReply(
	ctx context.Context,
	channelRef, parentRef string,
	msg *models.Message,
	broadcast bool,
) error {
	args := m.Called(ctx, channelRef, parentRef, msg, broadcast)
	return args.Error(0)
}
