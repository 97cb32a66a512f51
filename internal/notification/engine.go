// Package notification classifies site events, fans them out to per-user notification rows
// and emails opted-in recipients a deep link back into the site.
package notification

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/email"
	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/common/metrics"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "acc-notifications/notification"

type Options struct {
	SiteURL          string
	ChunkSize        int
	ThreadPageSize   int
	EmailConcurrency int
	EmailSubject     string
}

func OptionsFromConfig(cfg config.NotificationConfig) Options {
	return Options{
		SiteURL:          cfg.SiteURL,
		ChunkSize:        cfg.ChunkSize,
		ThreadPageSize:   cfg.ThreadPageSize,
		EmailConcurrency: cfg.EmailConcurrency,
		EmailSubject:     cfg.Email.Subject,
	}
}

// Request is one invocation: a loosely typed reference id, a type identifier and the actor.
type Request struct {
	ID      string
	Type    string
	ActorID int64
}

type Result struct {
	InvocationID  string `json:"invocationId"`
	Type          string `json:"type"`
	ReferenceID   int64  `json:"referenceId"`
	Global        bool   `json:"global"`
	Recipients    int    `json:"recipients"`
	Emailed       int    `json:"emailed"`
	EmailFailures int    `json:"emailFailures"`
	Skipped       bool   `json:"skipped"`
}

type Engine struct {
	store       Store
	perms       PermissionChecker
	persister   *Persister
	dispatcher  *Dispatcher
	logger      logger.Logger
	opts        Options
	classifiers map[Type]classifier
	tracer      trace.Tracer
}

func New(store Store, perms PermissionChecker, sender email.Sender, log logger.Logger, opts Options) *Engine {
	if opts.ThreadPageSize <= 0 {
		opts.ThreadPageSize = DefaultThreadPageSize
	}
	return &Engine{
		store:       store,
		perms:       perms,
		persister:   NewPersister(store, opts.ChunkSize, log),
		dispatcher:  NewDispatcher(sender, store, log, opts.EmailConcurrency, opts.SiteURL, opts.EmailSubject),
		logger:      log,
		opts:        opts,
		classifiers: classifiers(),
		tracer:      otel.Tracer(tracerName),
	}
}

// Create runs one invocation end to end. User errors abort before any write. Email failures
// never fail the invocation.
func (e *Engine) Create(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	ctx, span := e.tracer.Start(ctx, "notification.Create", trace.WithAttributes(
		attribute.String("notification.type", req.Type),
		attribute.String("notification.id", req.ID),
	))
	defer span.End()

	result, err := e.create(ctx, req)

	label := req.Type
	if Type(label).Family() == "" {
		label = "unknown"
	}
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.NotificationEvents.WithLabelValues(label, "error").Inc()
		e.logger.Warn("Notification rejected", map[string]interface{}{
			"type":      req.Type,
			"id":        req.ID,
			"actorId":   req.ActorID,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		return nil, err
	case result.Skipped:
		metrics.NotificationEvents.WithLabelValues(label, "skipped").Inc()
	default:
		metrics.NotificationEvents.WithLabelValues(label, "created").Inc()
	}

	span.SetAttributes(
		attribute.Int64("notification.reference_id", result.ReferenceID),
		attribute.Int("notification.recipients", result.Recipients),
	)
	e.logger.Info("Notification processed", map[string]interface{}{
		"invocationId":  result.InvocationID,
		"type":          result.Type,
		"referenceId":   result.ReferenceID,
		"recipients":    result.Recipients,
		"emailed":       result.Emailed,
		"emailFailures": result.EmailFailures,
		"skipped":       result.Skipped,
		"durationMs":    time.Since(started).Milliseconds(),
	})
	return result, nil
}

func (e *Engine) create(ctx context.Context, req Request) (*Result, error) {
	t := Type(req.Type)
	if t.SchedulerOnly() {
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("type %s is raised by scheduled jobs only", t))
	}
	if req.ActorID <= 0 {
		return nil, apperrors.NewLoginNeededError()
	}

	referenceID, err := parseReferenceID(req.ID)
	if err != nil {
		return nil, err
	}

	typeID, err := e.store.NotificationTypeID(ctx, req.Type)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("unknown notification type %q", req.Type))
	}
	if err != nil {
		return nil, err
	}

	classify, ok := e.classifiers[t]
	if !ok {
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("no handler for notification type %q", req.Type))
	}

	if req.ActorID > maxReferenceID {
		return nil, apperrors.NewNotFoundError(apperrors.ErrCodeNoSuchUser, req.ActorID)
	}
	actor, err := e.store.User(ctx, req.ActorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchUser, req.ActorID)
	}

	result := &Result{
		InvocationID: uuid.NewString(),
		Type:         req.Type,
		ReferenceID:  referenceID,
	}

	ev, err := classify(e, ctx, classifyInput{Type: t, ReferenceID: referenceID, Actor: actor})
	if err != nil {
		return nil, err
	}
	if ev == nil {
		result.Skipped = true
		return result, nil
	}
	if strings.TrimSpace(ev.Description) == "" {
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("empty description for type %s", t))
	}
	result.ReferenceID = ev.ReferenceID

	n := &models.Notification{
		ReferenceID:      ev.ReferenceID,
		ReferenceTypeID:  typeID,
		Type:             string(t),
		Description:      ev.Description,
		ChildReferenceID: ev.ChildReferenceID,
	}

	if ev.Global {
		result.Global = true
		if _, err := e.store.InsertGlobalNotification(ctx, models.GlobalNotification{
			ReferenceID:     ev.ReferenceID,
			ReferenceTypeID: typeID,
			Type:            string(t),
			Description:     ev.Description,
		}); err != nil {
			return nil, err
		}
		report := e.dispatcher.DeliverToAll(ctx, t, ev.ReferenceID, ev.Description, e.deliveryLinker(ctx, n))
		result.Emailed = report.Sent
		result.EmailFailures = report.Failed
		return result, nil
	}

	recipients, err := e.resolveRecipients(ctx, ev)
	if err != nil {
		return nil, err
	}
	result.Recipients = recipients.Len()
	if recipients.Len() == 0 {
		return result, nil
	}

	ids := recipients.IDs()
	persisted, err := e.persister.Persist(ctx, PersistRequest{
		Type:             t,
		UserIDs:          ids,
		ReferenceID:      ev.ReferenceID,
		ReferenceTypeID:  typeID,
		Description:      ev.Description,
		MergeDescription: ev.MergeDescription,
		ChildReferenceID: ev.ChildReferenceID,
	})
	if err != nil {
		return nil, err
	}

	report := e.dispatcher.DeliverToUsers(ctx, t, ev.ReferenceID, ids, emailText(ev, persisted.MergedUsers), e.deliveryLinker(ctx, n))
	result.Emailed = report.Sent
	result.EmailFailures = report.Failed
	return result, nil
}

// emailText mirrors the in-app row: users whose unread row was merged get the merge description.
func emailText(ev *Event, merged RecipientSet) TextFunc {
	if merged.Len() == 0 || ev.MergeDescription == "" {
		return SameText(ev.Description)
	}
	return func(userID int64) string {
		if merged.Contains(userID) {
			return ev.MergeDescription
		}
		return ev.Description
	}
}

// resolveRecipients applies the escalation once, then the exclusions. The actor is always removed.
func (e *Engine) resolveRecipients(ctx context.Context, ev *Event) (RecipientSet, error) {
	recipients := ev.Recipients
	if ev.Escalation.Widens() {
		widened, err := e.groupMembers(ctx, ev.Escalation.Groups()...)
		if err != nil {
			return RecipientSet{}, err
		}
		recipients = recipients.Union(widened)
	}
	return recipients.Without(ev.Exclude.IDs()...).Without(ev.ActorID), nil
}

// deliveryLinker never fails: when shared link context cannot be loaded every email falls
// back to the notification list.
func (e *Engine) deliveryLinker(ctx context.Context, n *models.Notification) LinkFunc {
	link, err := e.linker(ctx, n)
	if err != nil {
		e.logger.Warn("Failed to prepare notification links", map[string]interface{}{
			"type":        n.Type,
			"referenceId": n.ReferenceID,
			"error":       err.Error(),
		})
		return nil
	}
	return link
}

// maxReferenceID is the largest value the INTEGER id columns hold.
const maxReferenceID = math.MaxInt32

// parseReferenceID accepts a positive integer within the id column range, also when it arrives
// in float notation.
func parseReferenceID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id <= 0 || id > maxReferenceID {
			return 0, apperrors.NewBadFormatError(fmt.Sprintf("id out of range: %s", raw))
		}
		return id, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f > maxReferenceID {
		return 0, apperrors.NewBadFormatError(fmt.Sprintf("id is not a valid reference: %q", raw))
	}
	return int64(f), nil
}
