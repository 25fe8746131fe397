package application

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

// CreateGroup adds a group owned by the request actor. Active group names are unique per owner.
func (s *Service) CreateGroup(ctx context.Context, input types.GroupInput) (*domain.Group, error) {
	group, err := domain.NewGroup(input.Name, input.Description, audit.ActorFrom(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	taken, err := s.repo.GroupNameTaken(ctx, group.OwnerID, group.Name)
	if err != nil {
		return nil, mapError(err)
	}
	if taken {
		return nil, fmt.Errorf("%w: group %q already exists", ErrConflict, group.Name)
	}
	uow := persistence.NewUnitOfWork(s.committer)
	if err := uow.Insert(group); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return group, nil
}

// ListGroups returns every active group ordered by name.
func (s *Service) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return groups, nil
}

// DeleteGroup soft deletes a group. Its contacts keep their membership until the group is purged.
func (s *Service) DeleteGroup(ctx context.Context, input types.GroupIdentifier) error {
	group, err := s.repo.GetGroup(ctx, input.ID, false)
	if err != nil {
		return mapError(err)
	}
	uow := persistence.NewUnitOfWork(s.committer)
	if err := uow.Delete(group); err != nil {
		return err
	}
	return mapError(uow.Commit(ctx))
}

// AssignGroup moves active contacts into an active group with a single bulk update.
func (s *Service) AssignGroup(ctx context.Context, input types.AssignGroupInput) ([]*domain.Contact, error) {
	if _, err := s.repo.GetGroup(ctx, input.GroupID, false); err != nil {
		return nil, mapError(err)
	}
	ids := uniqueIDs(input.ContactIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one contact id is required", ErrInvalidInput)
	}
	contacts, err := s.repo.ContactsByIDs(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	if missing := missingIDs(ids, contacts); len(missing) > 0 {
		return nil, fmt.Errorf("%w: contacts %v", ports.ErrNotFound, missing)
	}
	groupID := input.GroupID
	for _, c := range contacts {
		c.MoveToGroup(&groupID)
		c.Group = nil
	}
	if err := persistence.BulkUpdate(ctx, s.bulk, contacts); err != nil {
		return nil, mapError(err)
	}
	return contacts, nil
}

// PurgeDeletedGroups physically removes groups soft deleted before the cutoff.
func (s *Service) PurgeDeletedGroups(ctx context.Context, input types.PurgeGroupsInput) (int, error) {
	groups, err := s.repo.DeletedGroupsBefore(ctx, input.Before)
	if err != nil {
		return 0, mapError(err)
	}
	if len(groups) == 0 {
		return 0, nil
	}
	if err := persistence.BulkDelete(ctx, s.bulk, groups); err != nil {
		return 0, mapError(err)
	}
	return len(groups), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func missingIDs(want []uuid.UUID, found []*domain.Contact) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range want {
		if !slices.ContainsFunc(found, func(c *domain.Contact) bool { return c.ID == id }) {
			missing = append(missing, id)
		}
	}
	return missing
}
