package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	contactactivities "github.com/dohungiy/ManageContacts/internal/platform/temporal/activities/contacts"
	contactworkflows "github.com/dohungiy/ManageContacts/internal/platform/temporal/workflows/contacts"
	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalContactWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineContactWorkflows)(nil)
)

// TemporalContactWorkflows starts contact workflows on a Temporal cluster.
type TemporalContactWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalContactWorkflows wires a Temporal client into the orchestrator.
func NewTemporalContactWorkflows(c client.Client) *TemporalContactWorkflows {
	return &TemporalContactWorkflows{client: c, taskQueue: contactworkflows.ContactImportTaskQueue}
}

// ImportContacts starts the import workflow and waits for its result.
//
// A request carrying an idempotency key maps to a fixed workflow id. A replay while that
// run is open, or after it completed, waits on the existing run and returns its outcome.
// Only a failed, terminated or timed-out run lets the same key start a fresh import.
func (o *TemporalContactWorkflows) ImportContacts(ctx context.Context, input contacttypes.ImportContactsInput) (*contacttypes.ImportResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal contact workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildImportWorkflowID(input, traceComponent)
	run, err := o.client.ExecuteWorkflow(
		ctx,
		importStartOptions(input, workflowID, o.taskQueue),
		contactworkflows.ContactImportWorkflowName,
		contactworkflows.ContactImportWorkflowInput{
			Command: input,
			ActorID: audit.ActorFrom(ctx),
			TraceID: traceComponent,
		},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || strings.TrimSpace(input.IdempotencyKey) == "" {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result contacttypes.ImportResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, unwrapApplicationError(err)
	}
	return &result, nil
}

// unwrapApplicationError restores the service error kinds lost in serialization so the
// HTTP layer can map them.
func unwrapApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case contactactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case contactactivities.ErrorTypeConflict:
		return fmt.Errorf("%w: %s", application.ErrConflict, appErr.Message())
	case contactactivities.ErrorTypeNotFound:
		return fmt.Errorf("%w: %s", ports.ErrNotFound, appErr.Message())
	default:
		return err
	}
}

// InlineContactWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineContactWorkflows struct {
	service ports.Service
}

// NewInlineContactWorkflows wraps the contacts service for synchronous execution.
func NewInlineContactWorkflows(service ports.Service) *InlineContactWorkflows {
	return &InlineContactWorkflows{service: service}
}

// ImportContacts delegates to the application service without durable orchestration.
func (o *InlineContactWorkflows) ImportContacts(ctx context.Context, input contacttypes.ImportContactsInput) (*contacttypes.ImportResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline contact workflows not configured")
	}
	return o.service.ImportContacts(ctx, input)
}

// importStartOptions makes keyed starts report a duplicate id instead of silently attaching,
// so the caller can join the recorded run.
func importStartOptions(input contacttypes.ImportContactsInput, workflowID, taskQueue string) client.StartWorkflowOptions {
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: taskQueue,
	}
	if strings.TrimSpace(input.IdempotencyKey) != "" {
		options.WorkflowExecutionErrorWhenAlreadyStarted = true
		options.WorkflowIDReusePolicy = enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY
	}
	return options
}

func buildImportWorkflowID(input contacttypes.ImportContactsInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return "contact-import-idem-" + hashIdempotencyKey(key)
	}
	return fmt.Sprintf("contact-import-%s-%s", uuid.NewString(), traceComponent)
}

// hashIdempotencyKey keeps the first 16 hex chars so workflow ids stay readable.
func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
