package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dailydose/clients"
	"dailydose/models"
)

func member(userID, externalID string, receive bool) *models.TeamMember {
	return &models.TeamMember{
		Membership: &models.Membership{
			ID:                   "mb_" + userID,
			TeamID:               "tm_1",
			UserID:               userID,
			Role:                 models.MembershipRoleMember,
			Active:               true,
			ReceiveNotifications: receive,
		},
		User: &models.User{ID: userID, ExternalID: externalID, DisplayName: userID},
	}
}

func textMessage(recipient *models.TeamMember) *models.Message {
	return &models.Message{Text: "hello " + recipient.User.DisplayName}
}

func TestNotificationsService_SendToMany(t *testing.T) {
	ctx := context.Background()

	t.Run("CountsSentFailedAndSkipped", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 4)
		defer service.Stop()

		transport.On("SendDirectMessage", mock.Anything, "U1", mock.Anything).Return(nil)
		transport.On("SendDirectMessage", mock.Anything, "U2", mock.Anything).Return(errors.New("channel_not_found"))
		transport.On("SendDirectMessage", mock.Anything, "U4", mock.Anything).Return(nil)

		recipients := []*models.TeamMember{
			member("u_1", "U1", true),
			member("u_2", "U2", true),
			member("u_3", "U3", false),
			member("u_4", "U4", true),
			member("u_5", "", true),
		}

		result := service.SendToMany(ctx, recipients, textMessage)

		assert.Equal(t, models.DispatchResult{Sent: 2, Failed: 1, Skipped: 2}, result)
		transport.AssertNumberOfCalls(t, "SendDirectMessage", 3)
		transport.AssertNotCalled(t, "SendDirectMessage", mock.Anything, "U3", mock.Anything)
	})

	t.Run("PanicInTransportIsIsolated", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 2)
		defer service.Stop()

		transport.On("SendDirectMessage", mock.Anything, "U1", mock.Anything).Panic("boom")
		transport.On("SendDirectMessage", mock.Anything, "U2", mock.Anything).Return(nil)

		result := service.SendToMany(ctx, []*models.TeamMember{
			member("u_1", "U1", true),
			member("u_2", "U2", true),
		}, textMessage)

		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("NilMessageIsSkipped", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 1)
		defer service.Stop()

		result := service.SendToMany(ctx, []*models.TeamMember{member("u_1", "U1", true)},
			func(*models.TeamMember) *models.Message { return nil })

		assert.Equal(t, models.DispatchResult{Skipped: 1}, result)
		transport.AssertNotCalled(t, "SendDirectMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyRecipients", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 1)
		defer service.Stop()

		assert.Equal(t, models.DispatchResult{}, service.SendToMany(ctx, nil, textMessage))
	})

	t.Run("BuildsMessagePerRecipient", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 2)
		defer service.Stop()

		transport.On("SendDirectMessage", mock.Anything, "U1", &models.Message{Text: "hello u_1"}).Return(nil)
		transport.On("SendDirectMessage", mock.Anything, "U2", &models.Message{Text: "hello u_2"}).Return(nil)

		result := service.SendToMany(ctx, []*models.TeamMember{
			member("u_1", "U1", true),
			member("u_2", "U2", true),
		}, textMessage)

		assert.Equal(t, 2, result.Sent)
		transport.AssertExpectations(t)
	})
}

func TestNotificationsService_SendToManyAsync(t *testing.T) {
	t.Run("SendsAfterCallerContextIsCancelled", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 1)
		defer service.Stop()

		var wg sync.WaitGroup
		wg.Add(1)
		transport.On("SendDirectMessage", mock.Anything, "U1", mock.Anything).Run(func(args mock.Arguments) {
			defer wg.Done()
			sendCtx := args.Get(0).(context.Context)
			assert.NoError(t, sendCtx.Err())
		}).Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		service.SendToManyAsync(ctx, []*models.TeamMember{member("u_1", "U1", true)}, textMessage)
		cancel()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("async notification was not sent")
		}
	})
}

func TestNotificationsService_Stop(t *testing.T) {
	ctx := context.Background()

	t.Run("WaitsForBackgroundBatches", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 2)

		transport.On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { time.Sleep(20 * time.Millisecond) }).
			Return(nil)

		service.SendToManyAsync(ctx, []*models.TeamMember{
			member("u_1", "U1", true),
			member("u_2", "U2", true),
			member("u_3", "U3", true),
		}, textMessage)
		service.Stop()

		transport.AssertNumberOfCalls(t, "SendDirectMessage", 3)
	})

	t.Run("RejectsBatchesAfterStop", func(t *testing.T) {
		transport := &clients.MockMessagingTransport{}
		service := NewNotificationsService(transport, 1)
		service.Stop()

		assert.NotPanics(t, func() {
			service.SendToManyAsync(ctx, []*models.TeamMember{member("u_1", "U1", true)}, textMessage)
		})
		result := service.SendToMany(ctx, []*models.TeamMember{
			member("u_1", "U1", true),
			member("u_2", "U2", true),
		}, textMessage)

		assert.Equal(t, models.DispatchResult{Failed: 2}, result)
		transport.AssertNotCalled(t, "SendDirectMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StopIsIdempotent", func(t *testing.T) {
		service := NewNotificationsService(&clients.MockMessagingTransport{}, 1)
		service.Stop()
		assert.NotPanics(t, service.Stop)
	})
}
