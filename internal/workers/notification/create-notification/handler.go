// internal/workers/notification/create-notification/handler.go
package createnotification

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"acc-notifications/internal/common/camunda"
	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/errors"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/common/metrics"
	"acc-notifications/internal/common/observability"
	"acc-notifications/internal/common/validation"
	"acc-notifications/internal/notification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "create-notification"
	WorkerName = "create-notification"
)

// Notifier is the slice of the notification engine the worker drives.
type Notifier interface {
	Create(ctx context.Context, req notification.Request) (*notification.Result, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	engine       Notifier
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        Notifier
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("notification engine is required")
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		engine:       opts.Engine,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing notification job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		h.record(ctx, "complete_failed", startTime)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.record(ctx, "completed", startTime)
}

// Execute runs one engine invocation for already-parsed input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.engine.Create(ctx, notification.Request{
		ID:      input.ID,
		Type:    input.Type,
		ActorID: input.ActorUserID,
	})
	if err != nil {
		return nil, err
	}
	if h.obs != nil && !result.Skipped {
		h.obs.RecordRecipients(ctx, result.Type, result.Recipients)
	}
	return outputFrom(result), nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("validation errors: %v", result.GetErrorMessages()))
	}

	return &Input{
		ID:          referenceString(variables["id"]),
		Type:        variables["type"].(string),
		ActorUserID: actorID(variables["actorUserId"]),
	}, nil
}

// referenceString hands the id to the engine as text. Values that are neither strings nor numbers
// are rendered as-is so the engine rejects them.
func referenceString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// actorID returns 0 for anything but a whole positive number, which the engine treats as login-needed.
func actorID(v interface{}) int64 {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	err := camunda.Retry(ctx, h.config.Retry, "complete job", func(ctx context.Context) error {
		cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
		if err != nil {
			return err
		}
		_, err = cmd.Send(ctx)
		return err
	})
	if err != nil {
		return err
	}

	h.logger.Info("Notification job completed", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"invocationId": output.InvocationID,
		"recipients":   output.Recipients,
		"skipped":      output.Skipped,
	})
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
	h.record(ctx, "failed", startTime)
}

func (h *Handler) record(ctx context.Context, status string, startTime time.Time) {
	if h.obs == nil {
		return
	}
	h.obs.RecordJobProcessed(ctx, status)
	h.obs.RecordJobDuration(ctx, time.Since(startTime), status)
}

// Register opens the job worker. A disabled worker registers nothing and returns nil.
func (h *Handler) Register(client *camunda.Client) *camunda.CamundaWorker {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", nil)
		return nil
	}
	return camunda.NewWorker(client.GetClient(), camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h, h.logger)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return string(code)
	}
	return "UNKNOWN_ERROR"
}
