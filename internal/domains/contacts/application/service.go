package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	"github.com/dohungiy/ManageContacts/internal/shared/audit"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

// Service orchestrates the contacts bounded context use cases.
//
// Reads go through the repository. Single-entity writes are queued in a unit of work
// committed through committer, which is expected to be an audit interceptor. List writes
// go through the bulk writer.
type Service struct {
	repo      ports.Repository
	committer persistence.Committer
	bulk      *persistence.BulkWriter
	limits    pagination.Limits
	now       audit.Clock
}

// Option configures the service.
type Option func(*Service)

// WithPageLimits overrides the default and maximum page sizes.
func WithPageLimits(limits pagination.Limits) Option {
	return func(s *Service) {
		s.limits = limits
	}
}

// WithClock swaps the time source used for input validation.
func WithClock(clock audit.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService wires the contacts service with its dependencies.
func NewService(repo ports.Repository, committer persistence.Committer, bulk *persistence.BulkWriter, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		committer: committer,
		bulk:      bulk,
		limits:    pagination.DefaultLimits(),
		now:       audit.UTCNow,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns one page of active contacts whose last name contains the search term.
func (s *Service) List(ctx context.Context, input types.ListContactsInput) (*types.ContactPage, error) {
	page := pagination.Request{PageIndex: input.PageIndex, PageSize: input.PageSize}.Normalize(s.limits)
	query := ports.ContactQuery{
		Search: strings.TrimSpace(input.Search),
		Sort:   domain.ParseSortKey(input.Sort),
		Page:   page,
	}
	items, total, err := s.repo.ListContacts(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return pagination.NewList(items, page, total), nil
}

// Get loads an active contact with its related collections.
func (s *Service) Get(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, input.ID, false)
	if err != nil {
		return nil, mapError(err)
	}
	return contact, nil
}

// GetUnscoped loads a contact even when it has been soft deleted.
func (s *Service) GetUnscoped(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, input.ID, true)
	if err != nil {
		return nil, mapError(err)
	}
	return contact, nil
}

// ListByGroup returns the active contacts of an active group, newest first.
func (s *Service) ListByGroup(ctx context.Context, input types.GroupIdentifier) ([]*domain.Contact, error) {
	if _, err := s.repo.GetGroup(ctx, input.ID, false); err != nil {
		return nil, mapError(err)
	}
	contacts, err := s.repo.GroupContacts(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return contacts, nil
}

// Create persists a new contact and its child records in one commit.
func (s *Service) Create(ctx context.Context, input types.ContactInput) (*domain.Contact, error) {
	actor := audit.ActorFrom(ctx)
	draft, err := s.buildContact(input, actor)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureGroup(ctx, draft.contact.GroupID); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureUnique(ctx, draft.contact, nil); err != nil {
		return nil, err
	}
	uow := persistence.NewUnitOfWork(s.committer)
	if err := uow.Insert(draft.entities()...); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return s.Get(ctx, types.ContactIdentifier{ID: draft.contact.ID})
}

// Update overwrites the scalar fields of a contact and merges its phone numbers and
// email addresses by id. Children absent from the input are kept.
func (s *Service) Update(ctx context.Context, input types.UpdateContactInput) (*domain.Contact, error) {
	existing, err := s.repo.GetContact(ctx, input.ID, false)
	if err != nil {
		return nil, mapError(err)
	}
	if err := existing.Rename(input.FirstName, input.LastName, input.NickName); err != nil {
		return nil, mapError(err)
	}
	if err := existing.SetBirthday(input.Birthday, s.now()); err != nil {
		return nil, mapError(err)
	}
	existing.Note = strings.TrimSpace(input.Note)
	if !sameID(existing.GroupID, input.GroupID) {
		if err := s.ensureGroup(ctx, input.GroupID); err != nil {
			return nil, mapError(err)
		}
		existing.MoveToGroup(input.GroupID)
		existing.Group = nil
	}
	if err := s.ensureUnique(ctx, existing, &existing.ID); err != nil {
		return nil, err
	}

	uow := persistence.NewUnitOfWork(s.committer)
	if input.Company != nil {
		if err := s.mergeCompany(uow, existing, *input.Company); err != nil {
			return nil, mapError(err)
		}
	}
	if err := uow.Update(existing); err != nil {
		return nil, err
	}
	if err := mergePhoneNumbers(uow, existing, input.PhoneNumbers); err != nil {
		return nil, mapError(err)
	}
	if err := mergeEmailAddresses(uow, existing, input.EmailAddresses); err != nil {
		return nil, mapError(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return s.Get(ctx, types.ContactIdentifier{ID: existing.ID})
}

// Delete is not supported for contacts.
func (s *Service) Delete(_ context.Context, input types.ContactIdentifier) error {
	return fmt.Errorf("%w: delete contact %s", ErrNotImplemented, input.ID)
}

func (s *Service) ensureGroup(ctx context.Context, groupID *uuid.UUID) error {
	if groupID == nil || *groupID == uuid.Nil {
		return nil
	}
	_, err := s.repo.GetGroup(ctx, *groupID, false)
	return err
}

// ensureUnique rejects a contact whose first name, last name or nickname is already
// used by another active contact. Empty fields never match.
func (s *Service) ensureUnique(ctx context.Context, contact *domain.Contact, exclude *uuid.UUID) error {
	query := ports.DuplicateQuery{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		NickName:  contact.NickName,
		ExcludeID: exclude,
	}
	if query.Empty() {
		return nil
	}
	duplicate, err := s.repo.HasDuplicate(ctx, query)
	if err != nil {
		return mapError(err)
	}
	if duplicate {
		return fmt.Errorf("%w: a contact named %q already exists", ErrConflict, contact.DisplayName())
	}
	return nil
}

func (s *Service) mergeCompany(uow *persistence.UnitOfWork, contact *domain.Contact, input types.CompanyInput) error {
	if contact.Company != nil {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return domain.ErrEmptyCompany
		}
		contact.Company.Name = name
		contact.Company.Website = strings.TrimSpace(input.Website)
		return uow.Update(contact.Company)
	}
	company, err := domain.NewCompany(input.Name, input.Website)
	if err != nil {
		return err
	}
	contact.Company = company
	contact.CompanyID = &company.ID
	return uow.Insert(company)
}

func mergePhoneNumbers(uow *persistence.UnitOfWork, contact *domain.Contact, inputs []types.PhoneNumberInput) error {
	for _, in := range inputs {
		if in.ID != nil {
			if phone := contact.Phone(*in.ID); phone != nil {
				if err := phone.Change(in.Phone, in.Type); err != nil {
					return err
				}
				if err := uow.Update(phone); err != nil {
					return err
				}
				continue
			}
		}
		phone, err := domain.NewPhoneNumber(contact.ID, in.Phone, in.Type)
		if err != nil {
			return err
		}
		if err := uow.Insert(phone); err != nil {
			return err
		}
	}
	return nil
}

func mergeEmailAddresses(uow *persistence.UnitOfWork, contact *domain.Contact, inputs []types.EmailAddressInput) error {
	for _, in := range inputs {
		if in.ID != nil {
			if email := contact.Email(*in.ID); email != nil {
				if err := email.Change(in.Email, in.Type); err != nil {
					return err
				}
				if err := uow.Update(email); err != nil {
					return err
				}
				continue
			}
		}
		email, err := domain.NewEmailAddress(contact.ID, in.Email, in.Type)
		if err != nil {
			return err
		}
		if err := uow.Insert(email); err != nil {
			return err
		}
	}
	return nil
}

func sameID(a, b *uuid.UUID) bool {
	switch {
	case a == nil || *a == uuid.Nil:
		return b == nil || *b == uuid.Nil
	case b == nil:
		return false
	default:
		return *a == *b
	}
}

var _ ports.Service = (*Service)(nil)
