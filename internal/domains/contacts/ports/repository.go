package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

var ErrNotFound = errors.New("contact resource not found")

// ContactQuery filters the contact listing. Soft-deleted rows are always excluded.
type ContactQuery struct {
	Search string
	Sort   domain.SortKey
	Page   pagination.Request
}

// DuplicateQuery matches active contacts sharing any non-empty name field.
type DuplicateQuery struct {
	FirstName string
	LastName  string
	NickName  string
	ExcludeID *uuid.UUID
}

// Empty reports whether no field can match.
func (q DuplicateQuery) Empty() bool {
	return q.FirstName == "" && q.LastName == "" && q.NickName == ""
}

// Repository is the read side of the contacts store. Writes go through the unit of work.
type Repository interface {
	ListContacts(ctx context.Context, query ContactQuery) ([]*domain.Contact, int64, error)
	// GetContact loads a contact with its group, company and child collections.
	GetContact(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contact, error)
	ContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Contact, error)
	HasDuplicate(ctx context.Context, query DuplicateQuery) (bool, error)

	GetGroup(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]*domain.Group, error)
	// GroupContacts returns the active contacts of a group, newest first.
	GroupContacts(ctx context.Context, groupID uuid.UUID) ([]*domain.Contact, error)
	GroupNameTaken(ctx context.Context, ownerID *uuid.UUID, name string) (bool, error)
	DeletedGroupsBefore(ctx context.Context, cutoff time.Time) ([]*domain.Group, error)
}
