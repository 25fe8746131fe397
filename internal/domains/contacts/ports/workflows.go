package ports

import (
	"context"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the contacts bounded context.
type WorkflowOrchestrator interface {
	ImportContacts(ctx context.Context, input types.ImportContactsInput) (*types.ImportResult, error)
}
