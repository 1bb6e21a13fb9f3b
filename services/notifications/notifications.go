package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gammazero/workerpool"

	"dailydose/clients"
	"dailydose/models"
	"dailydose/services"
)

// NotificationsService sends direct messages through the messaging transport on a bounded worker pool.
// Each recipient gets exactly one attempt; a failed send never affects its siblings.
type NotificationsService struct {
	transport  clients.MessagingTransport
	workerPool *workerpool.WorkerPool

	mu       sync.Mutex
	stopped  bool
	inflight sync.WaitGroup
}

func NewNotificationsService(transport clients.MessagingTransport, maxWorkers int) *NotificationsService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &NotificationsService{
		transport:  transport,
		workerPool: workerpool.New(maxWorkers),
	}
}

// SendToMany delivers one message per recipient and blocks until every send has finished.
// After Stop every recipient is counted as failed.
func (s *NotificationsService) SendToMany(
	ctx context.Context,
	recipients []*models.TeamMember,
	build services.MessageBuilder,
) models.DispatchResult {
	if !s.begin() {
		log.Printf("⚠️ Notifications service is stopped, dropping %d notifications", len(recipients))
		return models.DispatchResult{Failed: len(recipients)}
	}
	defer s.inflight.Done()

	return s.dispatch(ctx, recipients, build)
}

func (s *NotificationsService) dispatch(
	ctx context.Context,
	recipients []*models.TeamMember,
	build services.MessageBuilder,
) models.DispatchResult {
	log.Printf("📋 Starting to send notifications to %d recipients", len(recipients))

	var sent, failed, skipped atomic.Int64
	var wg sync.WaitGroup

	for _, recipient := range recipients {
		if !canReceive(recipient) {
			skipped.Add(1)
			continue
		}

		msg := build(recipient)
		if msg == nil {
			skipped.Add(1)
			continue
		}

		wg.Add(1)
		s.workerPool.Submit(func() {
			defer wg.Done()
			if err := s.send(ctx, recipient, msg); err != nil {
				log.Printf("⚠️ Failed to notify user %s: %v", recipient.User.ID, err)
				failed.Add(1)
				return
			}
			sent.Add(1)
		})
	}
	wg.Wait()

	result := models.DispatchResult{
		Sent:    int(sent.Load()),
		Failed:  int(failed.Load()),
		Skipped: int(skipped.Load()),
	}
	log.Printf(
		"📋 Completed successfully - sent %d notifications, %d failed, %d skipped",
		result.Sent,
		result.Failed,
		result.Skipped,
	)
	return result
}

// SendToManyAsync sends in the background, detached from ctx cancellation. Stop waits for the batch.
func (s *NotificationsService) SendToManyAsync(
	ctx context.Context,
	recipients []*models.TeamMember,
	build services.MessageBuilder,
) {
	if len(recipients) == 0 {
		return
	}

	if !s.begin() {
		log.Printf("⚠️ Notifications service is stopped, dropping %d background notifications", len(recipients))
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		defer s.inflight.Done()
		result := s.dispatch(detached, recipients, build)
		if result.Failed > 0 {
			log.Printf("⚠️ Background notification batch finished with %d failures", result.Failed)
		}
	}()
}

// Stop rejects new batches, waits for in-flight ones (background batches included) and releases the workers
func (s *NotificationsService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.inflight.Wait()
	s.workerPool.StopWait()
}

// begin registers an in-flight batch; false once Stop has been called
func (s *NotificationsService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *NotificationsService) send(ctx context.Context, recipient *models.TeamMember, msg *models.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sending: %v", r)
		}
	}()

	if err := s.transport.SendDirectMessage(ctx, recipient.User.ExternalID, msg); err != nil {
		return fmt.Errorf("failed to send direct message: %w", err)
	}
	return nil
}

func canReceive(recipient *models.TeamMember) bool {
	if recipient == nil || recipient.Membership == nil || recipient.User == nil {
		return false
	}
	return recipient.Membership.ReceiveNotifications && recipient.User.ExternalID != ""
}
