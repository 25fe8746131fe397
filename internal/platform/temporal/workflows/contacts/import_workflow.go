package contacts

import (
	"github.com/google/uuid"
	"go.temporal.io/sdk/workflow"

	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/platform/temporal/sequences"
)

const (
	// ContactImportWorkflowName is the public identifier for registering the workflow.
	ContactImportWorkflowName = "contacts.workflows.Import"
	// ContactImportTaskQueue is the queue consumed by the worker processing contact imports.
	ContactImportTaskQueue = "CONTACT_IMPORT"
)

// ContactImportWorkflowInput captures the batch plus the request metadata that must survive
// the trip to the worker.
type ContactImportWorkflowInput struct {
	Command contacttypes.ImportContactsInput
	ActorID *uuid.UUID
	TraceID string
}

// ContactImportWorkflow bulk imports a batch of contacts.
func ContactImportWorkflow(ctx workflow.Context, input ContactImportWorkflowInput) (*contacttypes.ImportResult, error) {
	logger := workflow.GetLogger(ctx)
	requested := len(input.Command.Contacts)
	logger.Info("ContactImportWorkflow started", withTraceID(input.TraceID, "requested", requested)...)
	result, err := sequences.RunContactImportSequence(ctx, input.Command, input.ActorID)
	if err != nil {
		logger.Error("ContactImportWorkflow failed", withTraceID(input.TraceID, "requested", requested, "error", err)...)
		return nil, err
	}
	logger.Info("ContactImportWorkflow completed", withTraceID(input.TraceID, "imported", len(result.Imported), "skipped", result.Skipped)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
