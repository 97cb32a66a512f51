package notification

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"acc-notifications/internal/common/email"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/common/metrics"
	"acc-notifications/internal/models"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

const (
	// emailLookupBatch bounds the id list sent to one EmailRecipients query.
	emailLookupBatch = 10000
	// DefaultEmailConcurrency bounds in-flight sends per invocation.
	DefaultEmailConcurrency = 16

	fallbackPath = "/notifications"
)

// TextFunc picks the email text for one recipient.
type TextFunc func(userID int64) string

// SameText sends every recipient the same description.
func SameText(description string) TextFunc {
	return func(int64) string { return description }
}

type DeliveryReport struct {
	Attempted int
	Sent      int
	Failed    int
}

func (r *DeliveryReport) add(other DeliveryReport) {
	r.Attempted += other.Attempted
	r.Sent += other.Sent
	r.Failed += other.Failed
}

// Dispatcher emails opted-in recipients. Delivery is best effort: failures are logged and
// counted, never returned.
type Dispatcher struct {
	sender      email.Sender
	store       NotificationStore
	logger      logger.Logger
	concurrency int
	siteURL     string
	subject     string
}

func NewDispatcher(sender email.Sender, store NotificationStore, log logger.Logger, concurrency int, siteURL, subject string) *Dispatcher {
	if concurrency <= 0 {
		concurrency = DefaultEmailConcurrency
	}
	return &Dispatcher{
		sender:      sender,
		store:       store,
		logger:      log,
		concurrency: concurrency,
		siteURL:     strings.TrimRight(siteURL, "/"),
		subject:     subject,
	}
}

// DeliverToUsers emails the opted-in subset of userIDs, each with their own text and link.
func (d *Dispatcher) DeliverToUsers(ctx context.Context, t Type, referenceID int64, userIDs []int64, text TextFunc, link LinkFunc) DeliveryReport {
	var report DeliveryReport
	for start := 0; start < len(userIDs); start += emailLookupBatch {
		end := start + emailLookupBatch
		if end > len(userIDs) {
			end = len(userIDs)
		}
		recipients, err := d.store.EmailRecipients(ctx, userIDs[start:end])
		if err != nil {
			d.logger.Error("Failed to load email recipients", map[string]interface{}{
				"type":        t,
				"referenceId": referenceID,
				"error":       err.Error(),
			})
			return report
		}
		report.add(d.sendAll(ctx, t, referenceID, recipients, text, link))
	}
	return report
}

// DeliverToAll emails every opted-in user, paging by ascending user id.
func (d *Dispatcher) DeliverToAll(ctx context.Context, t Type, referenceID int64, description string, link LinkFunc) DeliveryReport {
	var (
		report DeliveryReport
		after  int64
	)
	for {
		page, err := d.store.EmailRecipientsAfter(ctx, after, emailLookupBatch)
		if err != nil {
			d.logger.Error("Failed to page email recipients", map[string]interface{}{
				"type":        t,
				"referenceId": referenceID,
				"afterUserId": after,
				"error":       err.Error(),
			})
			return report
		}
		if len(page) == 0 {
			return report
		}
		report.add(d.sendAll(ctx, t, referenceID, page, SameText(description), link))
		if len(page) < emailLookupBatch {
			return report
		}
		after = page[len(page)-1].UserID
	}
}

func (d *Dispatcher) sendAll(ctx context.Context, t Type, referenceID int64, recipients []models.EmailRecipient, text TextFunc, link LinkFunc) DeliveryReport {
	var sent, failed atomic.Int64

	p := pool.New().WithMaxGoroutines(d.concurrency)
	for _, r := range recipients {
		r := r
		p.Go(func() {
			var (
				catcher panics.Catcher
				err     error
			)
			catcher.Try(func() { err = d.sendOne(ctx, r, text(r.UserID), link) })
			if recovered := catcher.Recovered(); recovered != nil {
				err = recovered.AsError()
			}

			if err != nil {
				failed.Add(1)
				metrics.NotificationEmails.WithLabelValues(d.sender.Provider(), "failed").Inc()
				d.logger.Warn("Failed to send notification email", map[string]interface{}{
					"userId":      r.UserID,
					"type":        t,
					"referenceId": referenceID,
					"error":       err.Error(),
				})
				return
			}
			sent.Add(1)
			metrics.NotificationEmails.WithLabelValues(d.sender.Provider(), "sent").Inc()
		})
	}
	p.Wait()

	return DeliveryReport{
		Attempted: len(recipients),
		Sent:      int(sent.Load()),
		Failed:    int(failed.Load()),
	}
}

func (d *Dispatcher) sendOne(ctx context.Context, r models.EmailRecipient, description string, link LinkFunc) error {
	path := ""
	if link != nil {
		p, err := link(ctx, r.UserID)
		if err != nil {
			d.logger.Debug("Falling back to notification list link", map[string]interface{}{
				"userId": r.UserID,
				"error":  err.Error(),
			})
		} else {
			path = p
		}
	}

	return d.sender.Send(ctx, email.Message{
		To:      r.Email,
		ToName:  r.Username,
		Subject: d.subject,
		Body:    composeBody(description, d.siteURL, path),
	})
}

// composeBody renders the plain-text email. An empty path links to the notification list.
func composeBody(description, siteURL, path string) string {
	if path == "" {
		path = fallbackPath
	}
	return fmt.Sprintf("%s\n\n%s%s", description, siteURL, path)
}
