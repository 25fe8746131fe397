package sequences

import (
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	contactactivities "github.com/dohungiy/ManageContacts/internal/platform/temporal/activities/contacts"
)

// RunContactImportSequence executes the activities needed to import a batch of contacts.
func RunContactImportSequence(ctx workflow.Context, input contacttypes.ImportContactsInput, actorID *uuid.UUID) (*contacttypes.ImportResult, error) {
	logger := workflow.GetLogger(ctx)
	requested := len(input.Contacts)
	logger.Info("contact import sequence started", "requested", requested)
	importOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				contactactivities.ErrorTypeInvalidInput,
				contactactivities.ErrorTypeConflict,
				contactactivities.ErrorTypeNotFound,
			},
		},
	}

	var result contacttypes.ImportResult
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, importOptions),
		contactactivities.ImportContactsActivityName,
		contactactivities.ImportInput{Command: input, ActorID: actorID},
	).Get(ctx, &result)
	if err != nil {
		logger.Error("contact import sequence failed", "requested", requested, "error", err)
		return nil, err
	}
	logger.Info("contact import sequence completed", "imported", len(result.Imported), "skipped", result.Skipped)
	return &result, nil
}
