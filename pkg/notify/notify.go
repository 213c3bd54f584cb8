// Package notify sends verification run results to configured channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	ntfy "github.com/go-pkgz/notify"

	"github.com/feedvet/feedvet/pkg/config"
)

// Service sends run summaries through configured channels. A nil Service is
// safe to call, so callers don't need to guard the unconfigured case.
type Service struct {
	channels  []channel
	onSuccess bool
	timeoutMs int
	hostname  string
}

// channel pairs a notifier with its destination URI.
type channel struct {
	notifier   ntfy.Notifier
	dest       string
	htmlEscape bool // telegram uses HTML parse mode
}

// Result holds completion data for a verification run.
type Result struct {
	Passed   int
	Failed   int
	Duration time.Duration
	Failures []string // "scenario: error" lines
}

// New creates a Service from the notify config section.
// Returns nil, nil when no channels are configured.
func New(cfg config.Notify) (*Service, error) {
	if len(cfg.Channels) == 0 {
		return nil, nil //nolint:nilnil // nil signals "not configured", Send is nil-safe
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	svc := &Service{
		onSuccess: cfg.OnSuccess,
		timeoutMs: cfg.TimeoutMs,
		hostname:  hostname,
	}
	if svc.timeoutMs <= 0 {
		svc.timeoutMs = 10000
	}

	for _, ch := range cfg.Channels {
		switch strings.TrimSpace(strings.ToLower(ch)) {
		case "telegram":
			if cfg.TelegramToken == "" || cfg.TelegramChat == "" {
				return nil, errors.New("telegram channel: telegram_token and telegram_chat are required")
			}
			tg, tgErr := ntfy.NewTelegram(ntfy.TelegramParams{Token: cfg.TelegramToken})
			if tgErr != nil {
				return nil, fmt.Errorf("create telegram notifier: %w", tgErr)
			}
			dest := fmt.Sprintf("telegram:%s?parseMode=HTML", cfg.TelegramChat)
			svc.channels = append(svc.channels, channel{notifier: tg, dest: dest, htmlEscape: true})
		case "slack":
			if cfg.SlackToken == "" || cfg.SlackChannel == "" {
				return nil, errors.New("slack channel: slack_token and slack_channel are required")
			}
			sl := ntfy.NewSlack(cfg.SlackToken)
			svc.channels = append(svc.channels, channel{notifier: sl, dest: "slack:" + cfg.SlackChannel})
		case "webhook":
			if len(cfg.WebhookURLs) == 0 {
				return nil, errors.New("webhook channel: webhook_urls is required")
			}
			wh := ntfy.NewWebhook(ntfy.WebhookParams{})
			for _, u := range cfg.WebhookURLs {
				svc.channels = append(svc.channels, channel{notifier: wh, dest: u})
			}
		default:
			return nil, fmt.Errorf("unknown notification channel: %q", ch)
		}
	}

	return svc, nil
}

// Send delivers the run result to all channels. Failed runs are always sent;
// successful ones only when on_success is set. Errors are logged by the
// notifiers themselves and never fail the harness (best-effort).
func (s *Service) Send(ctx context.Context, r Result) error {
	if s == nil {
		return nil
	}
	if r.Failed == 0 && !s.onSuccess {
		return nil
	}

	msg := s.formatMessage(r)

	sendCtx, cancel := context.WithTimeout(ctx, time.Duration(s.timeoutMs)*time.Millisecond)
	defer cancel()

	var errs []error
	for _, ch := range s.channels {
		text := msg
		if ch.htmlEscape {
			text = html.EscapeString(msg)
		}
		if err := ch.notifier.Send(sendCtx, ch.dest, text); err != nil {
			errs = append(errs, fmt.Errorf("send via %s: %w", ch.dest, err))
		}
	}
	return errors.Join(errs...)
}

// formatMessage creates a plain text notification message from the result.
func (s *Service) formatMessage(r Result) string {
	var b strings.Builder

	if r.Failed == 0 {
		fmt.Fprintf(&b, "feedvet run passed on %s\n", s.hostname)
	} else {
		fmt.Fprintf(&b, "feedvet run failed on %s\n", s.hostname)
	}

	fmt.Fprintf(&b, "\nscenarios: %d passed, %d failed\n", r.Passed, r.Failed)
	fmt.Fprintf(&b, "duration:  %s\n", r.Duration.Round(time.Millisecond))

	for _, f := range r.Failures {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	return b.String()
}
