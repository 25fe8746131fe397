package contacts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	contactsports "github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

const (
	// ImportContactsActivityName bulk inserts a batch of contacts.
	ImportContactsActivityName = "contacts.activities.ImportContacts"

	// Application error types carried across the workflow boundary. Both are non-retryable.
	ErrorTypeInvalidInput = "InvalidInput"
	ErrorTypeConflict     = "Conflict"
	ErrorTypeNotFound     = "NotFound"
)

// ImportInput is the activity payload. The acting user travels explicitly because the
// request context does not survive the hop through Temporal.
type ImportInput struct {
	Command contacttypes.ImportContactsInput
	ActorID *uuid.UUID
}

// Activities groups activities that operate on the contacts bounded context.
type Activities struct {
	service contactsports.Service
}

// NewActivities wires the contacts service into the Temporal activities bundle.
func NewActivities(service contactsports.Service) *Activities {
	return &Activities{service: service}
}

// ImportContacts restores the actor and runs the bulk import.
func (a *Activities) ImportContacts(ctx context.Context, input ImportInput) (*contacttypes.ImportResult, error) {
	logger := activity.GetLogger(ctx)
	requested := len(input.Command.Contacts)
	if a == nil || a.service == nil {
		logger.Error("contact import activity not initialized", "requested", requested)
		return nil, errors.New("contact import activity not initialized")
	}
	if input.ActorID != nil {
		ctx = audit.WithActor(ctx, *input.ActorID)
	}
	logger.Info("ImportContacts activity started", "requested", requested)
	result, err := a.service.ImportContacts(ctx, input.Command)
	if err != nil {
		logger.Error("ImportContacts activity failed", "requested", requested, "error", err)
		return nil, classify(err)
	}
	logger.Info("ImportContacts activity completed", "imported", len(result.Imported), "skipped", result.Skipped)
	return result, nil
}

// classify marks business failures as non-retryable; everything else is retried.
func classify(err error) error {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, application.ErrConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeConflict, err)
	case errors.Is(err, contactsports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeNotFound, err)
	default:
		return err
	}
}
