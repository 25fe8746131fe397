package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

func newContact(t *testing.T, first, last string) *domain.Contact {
	t.Helper()
	c, err := domain.NewContact(first, last, "")
	require.NoError(t, err)
	return c
}

func TestCommitIsAtomic(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	contact := newContact(t, "Ann", "Lee")
	orphan := &domain.PhoneNumber{ID: uuid.New(), ContactID: uuid.New(), Phone: "1"}

	err := store.Commit(ctx, []persistence.Entry{
		{Entity: contact, Op: persistence.OpInsert},
		{Entity: orphan, Op: persistence.OpInsert},
	})
	require.ErrorIs(t, err, persistence.ErrForeignKey)

	_, err = store.GetContact(ctx, contact.ID, true)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	contact := newContact(t, "Ann", "Lee")
	entry := []persistence.Entry{{Entity: contact, Op: persistence.OpInsert}}

	require.NoError(t, store.Commit(ctx, entry))
	assert.ErrorIs(t, store.Commit(ctx, entry), persistence.ErrDuplicateKey)
}

func TestGetContactAssemblesRelations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	group, err := domain.NewGroup("Friends", "", nil)
	require.NoError(t, err)
	company, err := domain.NewCompany("Acme", "")
	require.NoError(t, err)
	contact := newContact(t, "Ann", "Lee")
	contact.MoveToGroup(&group.ID)
	contact.CompanyID = &company.ID
	phone, err := domain.NewPhoneNumber(contact.ID, "555", "home")
	require.NoError(t, err)
	relative := &domain.Relative{ID: uuid.New(), ContactID: contact.ID, Name: "Sam"}

	require.NoError(t, store.Commit(ctx, []persistence.Entry{
		{Entity: group, Op: persistence.OpInsert},
		{Entity: company, Op: persistence.OpInsert},
		{Entity: contact, Op: persistence.OpInsert},
		{Entity: phone, Op: persistence.OpInsert},
		{Entity: relative, Op: persistence.OpInsert},
	}))

	got, err := store.GetContact(ctx, contact.ID, false)
	require.NoError(t, err)
	require.NotNil(t, got.Group)
	assert.Equal(t, "Friends", got.Group.Name)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Acme", got.Company.Name)
	assert.Len(t, got.PhoneNumbers, 1)
	assert.Len(t, got.Relatives, 1)
}

func TestBulkAcceptsValuesAndPointers(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	values := []domain.Contact{*newContact(t, "Ann", "Lee"), *newContact(t, "Bob", "Ray")}

	require.NoError(t, store.BulkInsert(ctx, values))
	require.NoError(t, store.BulkDelete(ctx, []*domain.Contact{&values[0]}))

	_, total, err := store.ListContacts(ctx, ports.ContactQuery{Page: pagination.Request{PageIndex: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Error(t, store.BulkInsert(ctx, "not a slice"))
}

func TestBulkTransactionIsAtomic(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	contact := newContact(t, "Ann", "Lee")
	orphan := &domain.PhoneNumber{ID: uuid.New(), ContactID: uuid.New(), Phone: "1"}

	err := store.BulkTransaction(ctx, func(tx persistence.BulkPrimitive) error {
		if err := tx.BulkInsert(ctx, []*domain.Contact{contact}); err != nil {
			return err
		}
		return tx.BulkInsert(ctx, []*domain.PhoneNumber{orphan})
	})
	require.ErrorIs(t, err, persistence.ErrForeignKey)
	_, err = store.GetContact(ctx, contact.ID, true)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	phone := &domain.PhoneNumber{ID: uuid.New(), ContactID: contact.ID, Phone: "2"}
	require.NoError(t, store.BulkTransaction(ctx, func(tx persistence.BulkPrimitive) error {
		if err := tx.BulkInsert(ctx, []*domain.Contact{contact}); err != nil {
			return err
		}
		return tx.BulkInsert(ctx, []*domain.PhoneNumber{phone})
	}))
	got, err := store.GetContact(ctx, contact.ID, false)
	require.NoError(t, err)
	assert.Len(t, got.PhoneNumbers, 1)
}

func TestDeletingContactCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	contact := newContact(t, "Ann", "Lee")
	phone, err := domain.NewPhoneNumber(contact.ID, "555", "")
	require.NoError(t, err)
	require.NoError(t, store.BulkInsert(ctx, []*domain.Contact{contact}))
	require.NoError(t, store.BulkInsert(ctx, []*domain.PhoneNumber{phone}))

	require.NoError(t, store.BulkDelete(ctx, []*domain.Contact{contact}))

	assert.Empty(t, store.tables.phones)
}

func TestPurgingGroupDetachesContacts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	group, err := domain.NewGroup("Old", "", nil)
	require.NoError(t, err)
	contact := newContact(t, "Ann", "Lee")
	contact.MoveToGroup(&group.ID)
	require.NoError(t, store.BulkInsert(ctx, []*domain.Group{group}))
	require.NoError(t, store.BulkInsert(ctx, []*domain.Contact{contact}))

	require.NoError(t, store.BulkDelete(ctx, []*domain.Group{group}))

	got, err := store.GetContact(ctx, contact.ID, false)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}

func TestDeletedGroupsBefore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	old, _ := domain.NewGroup("old", "", nil)
	old.MarkDeleted()
	oldTime := cutoff.Add(-time.Hour)
	old.ModifiedTime = &oldTime
	recent, _ := domain.NewGroup("recent", "", nil)
	recent.MarkDeleted()
	recentTime := cutoff.Add(time.Hour)
	recent.ModifiedTime = &recentTime
	active, _ := domain.NewGroup("active", "", nil)

	require.NoError(t, store.BulkInsert(ctx, []*domain.Group{old, recent, active}))

	got, err := store.DeletedGroupsBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, old.ID, got[0].ID)
}

func TestReadsHonourCancellation(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.ListContacts(ctx, ports.ContactQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Commit(ctx, nil), context.Canceled)
}
