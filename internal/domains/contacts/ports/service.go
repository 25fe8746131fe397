package ports

import (
	"context"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
)

// Service defines the contacts use cases exposed to adapters (inbound/driving port).
type Service interface {
	List(ctx context.Context, input types.ListContactsInput) (*types.ContactPage, error)
	Get(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error)
	GetUnscoped(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error)
	ListByGroup(ctx context.Context, input types.GroupIdentifier) ([]*domain.Contact, error)
	Create(ctx context.Context, input types.ContactInput) (*domain.Contact, error)
	Update(ctx context.Context, input types.UpdateContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, input types.ContactIdentifier) error

	CreateGroup(ctx context.Context, input types.GroupInput) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]*domain.Group, error)
	DeleteGroup(ctx context.Context, input types.GroupIdentifier) error
	AssignGroup(ctx context.Context, input types.AssignGroupInput) ([]*domain.Contact, error)
	ImportContacts(ctx context.Context, input types.ImportContactsInput) (*types.ImportResult, error)
	PurgeDeletedGroups(ctx context.Context, input types.PurgeGroupsInput) (int, error)
}
