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
)

// ImportContacts validates a batch and writes it with bulk inserts.
//
// Entries that collide with an active contact, or with an earlier entry of the same
// batch, are skipped and counted. Any invalid entry rejects the whole batch.
func (s *Service) ImportContacts(ctx context.Context, input types.ImportContactsInput) (*types.ImportResult, error) {
	actor := audit.ActorFrom(ctx)
	batch := &importBatch{}
	seen := newNameIndex()
	checkedGroups := map[uuid.UUID]bool{}
	result := &types.ImportResult{}

	for i, in := range input.Contacts {
		draft, err := s.buildContact(in, actor)
		if err != nil {
			return nil, fmt.Errorf("contact %d: %w", i, mapError(err))
		}
		if gid := draft.contact.GroupID; gid != nil && !checkedGroups[*gid] {
			if err := s.ensureGroup(ctx, gid); err != nil {
				return nil, fmt.Errorf("contact %d: %w", i, mapError(err))
			}
			checkedGroups[*gid] = true
		}
		if seen.collides(draft.contact) {
			result.Skipped++
			continue
		}
		query := ports.DuplicateQuery{
			FirstName: draft.contact.FirstName,
			LastName:  draft.contact.LastName,
			NickName:  draft.contact.NickName,
		}
		if !query.Empty() {
			duplicate, err := s.repo.HasDuplicate(ctx, query)
			if err != nil {
				return nil, mapError(err)
			}
			if duplicate {
				result.Skipped++
				continue
			}
		}
		seen.add(draft.contact)
		batch.add(draft)
		result.Imported = append(result.Imported, draft.contact.ID)
	}

	if err := s.bulk.Transaction(ctx, func(tx *persistence.BulkWriter) error {
		return batch.write(ctx, tx)
	}); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// importBatch collects rows per table so each table gets one bulk insert. The inserts of a
// batch share one transaction, so a failed import leaves nothing behind to skip on retry.
type importBatch struct {
	companies []*domain.Company
	contacts  []*domain.Contact
	phones    []*domain.PhoneNumber
	emails    []*domain.EmailAddress
	addresses []*domain.Address
	relatives []*domain.Relative
}

func (b *importBatch) add(d *contactDraft) {
	if d.company != nil {
		b.companies = append(b.companies, d.company)
	}
	b.contacts = append(b.contacts, d.contact)
	b.phones = append(b.phones, d.phones...)
	b.emails = append(b.emails, d.emails...)
	b.addresses = append(b.addresses, d.addresses...)
	b.relatives = append(b.relatives, d.relatives...)
}

func (b *importBatch) write(ctx context.Context, w *persistence.BulkWriter) error {
	if len(b.companies) > 0 {
		if err := persistence.BulkInsert(ctx, w, b.companies); err != nil {
			return err
		}
	}
	if len(b.contacts) == 0 {
		return nil
	}
	if err := persistence.BulkInsert(ctx, w, b.contacts); err != nil {
		return err
	}
	if len(b.phones) > 0 {
		if err := persistence.BulkInsert(ctx, w, b.phones); err != nil {
			return err
		}
	}
	if len(b.emails) > 0 {
		if err := persistence.BulkInsert(ctx, w, b.emails); err != nil {
			return err
		}
	}
	if len(b.addresses) > 0 {
		if err := persistence.BulkInsert(ctx, w, b.addresses); err != nil {
			return err
		}
	}
	if len(b.relatives) > 0 {
		if err := persistence.BulkInsert(ctx, w, b.relatives); err != nil {
			return err
		}
	}
	return nil
}

// nameIndex applies the duplicate rule within a batch.
type nameIndex struct {
	first, last, nick map[string]struct{}
}

func newNameIndex() *nameIndex {
	return &nameIndex{first: map[string]struct{}{}, last: map[string]struct{}{}, nick: map[string]struct{}{}}
}

func (n *nameIndex) collides(c *domain.Contact) bool {
	return hasKey(n.first, c.FirstName) || hasKey(n.last, c.LastName) || hasKey(n.nick, c.NickName)
}

func (n *nameIndex) add(c *domain.Contact) {
	putKey(n.first, c.FirstName)
	putKey(n.last, c.LastName)
	putKey(n.nick, c.NickName)
}

func hasKey(m map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := m[strings.ToLower(v)]
	return ok
}

func putKey(m map[string]struct{}, v string) {
	if v != "" {
		m[strings.ToLower(v)] = struct{}{}
	}
}
