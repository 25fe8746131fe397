package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

var (
	_ ports.Repository          = (*Store)(nil)
	_ persistence.Committer     = (*Store)(nil)
	_ persistence.BulkPrimitive = (*Store)(nil)
	_ persistence.BulkPrimitive = (*bulkTx)(nil)
)

// Store is an in-memory implementation used for demos/tests. It keeps one table per
// entity type and behaves like the relational schema: relations are stored as ids,
// writes within one commit are atomic, and deleting a contact cascades to its children.
type Store struct {
	mu     sync.RWMutex
	tables tables
}

type tables struct {
	contacts  map[uuid.UUID]domain.Contact
	groups    map[uuid.UUID]domain.Group
	companies map[uuid.UUID]domain.Company
	phones    map[uuid.UUID]domain.PhoneNumber
	emails    map[uuid.UUID]domain.EmailAddress
	addresses map[uuid.UUID]domain.Address
	relatives map[uuid.UUID]domain.Relative
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{tables: tables{
		contacts:  map[uuid.UUID]domain.Contact{},
		groups:    map[uuid.UUID]domain.Group{},
		companies: map[uuid.UUID]domain.Company{},
		phones:    map[uuid.UUID]domain.PhoneNumber{},
		emails:    map[uuid.UUID]domain.EmailAddress{},
		addresses: map[uuid.UUID]domain.Address{},
		relatives: map[uuid.UUID]domain.Relative{},
	}}
}

func (t tables) clone() tables {
	return tables{
		contacts:  maps.Clone(t.contacts),
		groups:    maps.Clone(t.groups),
		companies: maps.Clone(t.companies),
		phones:    maps.Clone(t.phones),
		emails:    maps.Clone(t.emails),
		addresses: maps.Clone(t.addresses),
		relatives: maps.Clone(t.relatives),
	}
}

// Commit applies the entries atomically.
func (s *Store) Commit(ctx context.Context, entries []persistence.Entry) error {
	return s.transaction(ctx, func(t *tables) error {
		for _, entry := range entries {
			if err := t.apply(entry.Entity, entry.Op); err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkInsert inserts every element of records.
func (s *Store) BulkInsert(ctx context.Context, records any) error {
	return s.bulk(ctx, records, persistence.OpInsert)
}

// BulkUpdate upserts every element of records.
func (s *Store) BulkUpdate(ctx context.Context, records any) error {
	return s.bulk(ctx, records, persistence.OpUpdate)
}

// BulkDelete physically deletes every element of records.
func (s *Store) BulkDelete(ctx context.Context, records any) error {
	return s.bulk(ctx, records, persistence.OpDelete)
}

// BulkTransaction applies every bulk call made by fn to one working copy of the tables,
// which replaces the live tables only when fn succeeds.
func (s *Store) BulkTransaction(ctx context.Context, fn func(tx persistence.BulkPrimitive) error) error {
	return s.transaction(ctx, func(t *tables) error {
		return fn(&bulkTx{work: t})
	})
}

func (s *Store) bulk(ctx context.Context, records any, op persistence.Operation) error {
	return s.transaction(ctx, func(t *tables) error {
		return t.applyAll(records, op)
	})
}

// bulkTx writes to a working copy already held by Store.transaction.
type bulkTx struct {
	work *tables
}

func (b *bulkTx) BulkInsert(ctx context.Context, records any) error {
	return b.apply(ctx, records, persistence.OpInsert)
}

func (b *bulkTx) BulkUpdate(ctx context.Context, records any) error {
	return b.apply(ctx, records, persistence.OpUpdate)
}

func (b *bulkTx) BulkDelete(ctx context.Context, records any) error {
	return b.apply(ctx, records, persistence.OpDelete)
}

// BulkTransaction nests into the enclosing working copy.
func (b *bulkTx) BulkTransaction(_ context.Context, fn func(tx persistence.BulkPrimitive) error) error {
	return fn(b)
}

func (b *bulkTx) apply(ctx context.Context, records any, op persistence.Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.work.applyAll(records, op)
}

func (t *tables) applyAll(records any, op persistence.Operation) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("bulk records must be a slice, got %T", records)
	}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() != reflect.Pointer {
			elem = elem.Addr()
		}
		if err := t.apply(elem.Interface(), op); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) transaction(ctx context.Context, fn func(*tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.tables.clone()
	if err := fn(&work); err != nil {
		return err
	}
	s.tables = work
	return nil
}

func (t *tables) apply(entity any, op persistence.Operation) error {
	if op == persistence.OpUnchanged {
		return nil
	}
	switch e := entity.(type) {
	case *domain.Contact:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if op == persistence.OpDelete {
			t.deleteContact(e.ID)
			return nil
		}
		if e.GroupID != nil {
			if _, ok := t.groups[*e.GroupID]; !ok {
				return fmt.Errorf("%w: contact %s references group %s", persistence.ErrForeignKey, e.ID, *e.GroupID)
			}
		}
		if e.CompanyID != nil {
			if _, ok := t.companies[*e.CompanyID]; !ok {
				return fmt.Errorf("%w: contact %s references company %s", persistence.ErrForeignKey, e.ID, *e.CompanyID)
			}
		}
		return write(t.contacts, e.ID, storedContact(e), op, "contact")
	case *domain.Group:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if op == persistence.OpDelete {
			t.deleteGroup(e.ID)
			return nil
		}
		g := *e.Clone()
		g.Contacts = nil
		return write(t.groups, e.ID, g, op, "group")
	case *domain.Company:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if op == persistence.OpDelete {
			delete(t.companies, e.ID)
			for id, c := range t.contacts {
				if c.CompanyID != nil && *c.CompanyID == e.ID {
					c.CompanyID = nil
					t.contacts[id] = c
				}
			}
			return nil
		}
		return write(t.companies, e.ID, *e, op, "company")
	case *domain.PhoneNumber:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if err := t.requireContact(op, e.ContactID, "phone number"); err != nil {
			return err
		}
		return write(t.phones, e.ID, *e, op, "phone number")
	case *domain.EmailAddress:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if err := t.requireContact(op, e.ContactID, "email address"); err != nil {
			return err
		}
		return write(t.emails, e.ID, *e, op, "email address")
	case *domain.Address:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if err := t.requireContact(op, e.ContactID, "address"); err != nil {
			return err
		}
		return write(t.addresses, e.ID, e.Clone(), op, "address")
	case *domain.Relative:
		if e == nil {
			return persistence.ErrNilEntity
		}
		if err := t.requireContact(op, e.ContactID, "relative"); err != nil {
			return err
		}
		return write(t.relatives, e.ID, *e, op, "relative")
	default:
		return fmt.Errorf("memory store cannot persist %T", entity)
	}
}

// write stores v under id. Updates upsert, as the GORM primitives do.
func write[T any](table map[uuid.UUID]T, id uuid.UUID, v T, op persistence.Operation, kind string) error {
	switch op {
	case persistence.OpInsert:
		if _, ok := table[id]; ok {
			return fmt.Errorf("%w: %s %s", persistence.ErrDuplicateKey, kind, id)
		}
		table[id] = v
	case persistence.OpUpdate:
		table[id] = v
	case persistence.OpDelete:
		delete(table, id)
	}
	return nil
}

func (t *tables) requireContact(op persistence.Operation, id uuid.UUID, kind string) error {
	if op == persistence.OpDelete {
		return nil
	}
	if _, ok := t.contacts[id]; !ok {
		return fmt.Errorf("%w: %s references contact %s", persistence.ErrForeignKey, kind, id)
	}
	return nil
}

func (t *tables) deleteContact(id uuid.UUID) {
	delete(t.contacts, id)
	maps.DeleteFunc(t.phones, func(_ uuid.UUID, p domain.PhoneNumber) bool { return p.ContactID == id })
	maps.DeleteFunc(t.emails, func(_ uuid.UUID, e domain.EmailAddress) bool { return e.ContactID == id })
	maps.DeleteFunc(t.addresses, func(_ uuid.UUID, a domain.Address) bool { return a.ContactID == id })
	maps.DeleteFunc(t.relatives, func(_ uuid.UUID, r domain.Relative) bool { return r.ContactID == id })
}

func (t *tables) deleteGroup(id uuid.UUID) {
	delete(t.groups, id)
	for cid, c := range t.contacts {
		if c.GroupID != nil && *c.GroupID == id {
			c.GroupID = nil
			t.contacts[cid] = c
		}
	}
}

// storedContact drops loaded relations; they live in their own tables.
func storedContact(c *domain.Contact) domain.Contact {
	out := *c.Clone()
	out.Group = nil
	out.Company = nil
	out.PhoneNumbers = nil
	out.EmailAddresses = nil
	out.Addresses = nil
	out.Relatives = nil
	return out
}

// ListContacts filters, sorts and pages active contacts.
func (s *Store) ListContacts(ctx context.Context, query ports.ContactQuery) ([]*domain.Contact, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(query.Search)
	matches := make([]*domain.Contact, 0, len(s.tables.contacts))
	for _, c := range s.tables.contacts {
		if c.Deleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.LastName), search) {
			continue
		}
		matches = append(matches, c.Clone())
	}
	slices.SortFunc(matches, query.Sort.Compare)
	return pagination.Slice(matches, query.Page), int64(len(matches)), nil
}

// GetContact assembles a contact with its relations.
func (s *Store) GetContact(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.tables.contacts[id]
	if !ok || (stored.Deleted && !includeDeleted) {
		return nil, ports.ErrNotFound
	}
	return s.tables.assemble(stored), nil
}

func (t *tables) assemble(stored domain.Contact) *domain.Contact {
	c := stored.Clone()
	if c.GroupID != nil {
		if g, ok := t.groups[*c.GroupID]; ok && !g.Deleted {
			c.Group = g.Clone()
		}
	}
	if c.CompanyID != nil {
		if co, ok := t.companies[*c.CompanyID]; ok {
			c.Company = &co
		}
	}
	c.PhoneNumbers = children(t.phones, c.ID, func(p domain.PhoneNumber) (uuid.UUID, uuid.UUID, time.Time) {
		return p.ContactID, p.ID, p.CreatedTime
	})
	c.EmailAddresses = children(t.emails, c.ID, func(e domain.EmailAddress) (uuid.UUID, uuid.UUID, time.Time) {
		return e.ContactID, e.ID, e.CreatedTime
	})
	c.Addresses = children(t.addresses, c.ID, func(a domain.Address) (uuid.UUID, uuid.UUID, time.Time) {
		return a.ContactID, a.ID, a.CreatedTime
	})
	for i := range c.Addresses {
		c.Addresses[i] = c.Addresses[i].Clone()
	}
	c.Relatives = children(t.relatives, c.ID, func(r domain.Relative) (uuid.UUID, uuid.UUID, time.Time) {
		return r.ContactID, r.ID, time.Time{}
	})
	return c
}

// children selects the rows owned by contactID, oldest first.
func children[T any](table map[uuid.UUID]T, contactID uuid.UUID, keys func(T) (owner, id uuid.UUID, created time.Time)) []T {
	var out []T
	for _, row := range table {
		if owner, _, _ := keys(row); owner == contactID {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		_, aid, at := keys(a)
		_, bid, bt := keys(b)
		if c := at.Compare(bt); c != 0 {
			return c
		}
		return strings.Compare(aid.String(), bid.String())
	})
	return out
}

// ContactsByIDs returns the active contacts among ids.
func (s *Store) ContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Contact, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.tables.contacts[id]; ok && !c.Deleted {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// HasDuplicate reports whether an active contact shares any non-empty name field, ignoring case.
func (s *Store) HasDuplicate(ctx context.Context, query ports.DuplicateQuery) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.tables.contacts {
		if c.Deleted || (query.ExcludeID != nil && *query.ExcludeID == id) {
			continue
		}
		if sameName(c.FirstName, query.FirstName) || sameName(c.LastName, query.LastName) || sameName(c.NickName, query.NickName) {
			return true, nil
		}
	}
	return false, nil
}

func sameName(stored, candidate string) bool {
	return candidate != "" && strings.EqualFold(stored, candidate)
}

// GetGroup fetches a group without its contacts.
func (s *Store) GetGroup(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.tables.groups[id]
	if !ok || (g.Deleted && !includeDeleted) {
		return nil, ports.ErrNotFound
	}
	return g.Clone(), nil
}

// ListGroups returns active groups ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Group, 0, len(s.tables.groups))
	for _, g := range s.tables.groups {
		if !g.Deleted {
			out = append(out, g.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *domain.Group) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID.String(), b.ID.String()))
	})
	return out, nil
}

// GroupContacts returns the active members of a group, newest first.
func (s *Store) GroupContacts(ctx context.Context, groupID uuid.UUID) ([]*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Contact
	for _, c := range s.tables.contacts {
		if !c.Deleted && c.GroupID != nil && *c.GroupID == groupID {
			out = append(out, c.Clone())
		}
	}
	slices.SortFunc(out, domain.SortCreateTimeDesc.Compare)
	return out, nil
}

// GroupNameTaken reports whether the owner already has an active group with this name.
func (s *Store) GroupNameTaken(ctx context.Context, ownerID *uuid.UUID, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.tables.groups {
		if g.Deleted || !sameOwner(g.OwnerID, ownerID) {
			continue
		}
		if strings.EqualFold(g.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DeletedGroupsBefore returns soft-deleted groups last modified before cutoff.
func (s *Store) DeletedGroupsBefore(ctx context.Context, cutoff time.Time) ([]*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Group
	for _, g := range s.tables.groups {
		if g.Deleted && g.ModifiedTime != nil && g.ModifiedTime.Before(cutoff) {
			out = append(out, g.Clone())
		}
	}
	return out, nil
}
