package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type alertSender func(ctx context.Context, webhookURL string, msg *slack.WebhookMessage) error

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	send          alertSender
	wg            sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
		send:          slack.PostWebhookContext,
	}
}

// HTTPMiddleware recovers handler panics and alerts on them
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				m.alertOnPanic(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), recovered)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask alerts when a scheduled job fails or panics
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.alertOnPanic(fmt.Sprintf("Background task: %s", taskName), r)
				err = fmt.Errorf("background task %s panicked: %v", taskName, r)
			}
		}()

		if err := task(); err != nil {
			log.Printf("❌ Background task %s failed: %v", taskName, err)
			m.alertOnError(err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

// Wait blocks until in-flight alerts have been delivered
func (m *ErrorAlertMiddleware) Wait() {
	m.wg.Wait()
}

func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return
	}

	m.dispatch(errorMsg, source)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) alertOnPanic(source string, recovered any) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", source, recovered)
	log.Printf("❌ %s", errorMsg)
	m.dispatch(errorMsg, source+" (PANIC)")
}

func (m *ErrorAlertMiddleware) dispatch(errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sendSlackAlert(errorMsg, source)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, source string) {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	msg := &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.send(ctx, m.config.WebhookURL, msg); err != nil {
		log.Printf("❌ Failed to send Slack alert: %v", err)
	}
}
