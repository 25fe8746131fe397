//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	contactspostgres "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/persistence/postgres"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/migrations"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	platformpostgres "github.com/dohungiy/ManageContacts/internal/platform/postgres"
	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("contacts_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn, platformpostgres.Options{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

type fixture struct {
	repo      *contactspostgres.Repository
	committer persistence.Committer
	svc       *application.Service
}

func newFixture(db *gorm.DB) fixture {
	repo := contactspostgres.NewRepository(db)
	stamper := audit.NewStamper()
	committer := persistence.NewAuditInterceptor(persistence.NewGormCommitter(db), stamper)
	bulk := persistence.NewBulkWriter(persistence.NewGormBulk(db, 2), stamper)
	return fixture{repo: repo, committer: committer, svc: application.NewService(repo, committer, bulk)}
}

func TestPostgresRepository_SoftDeleteKeepsRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	f := newFixture(db)
	ctx := audit.WithActor(context.Background(), uuid.New())

	created, err := f.svc.Create(ctx, types.ContactInput{
		FirstName:    "Ann",
		LastName:     "Lee",
		NickName:     "al",
		PhoneNumbers: []types.PhoneNumberInput{{Phone: "555-0100", Type: "mobile"}},
		Addresses:    []types.AddressInput{{Lines: []string{"1 Main St", "Apt 2"}, City: "Springfield"}},
		Relatives:    []types.RelativeInput{{Name: "Sam"}},
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedTime.IsZero())
	assert.Len(t, created.PhoneNumbers, 1)
	require.Len(t, created.Addresses, 1)
	assert.Equal(t, []string{"1 Main St", "Apt 2"}, []string(created.Addresses[0].Lines))

	_, err = f.svc.Create(ctx, types.ContactInput{FirstName: "Bob", LastName: "lee"})
	require.ErrorIs(t, err, application.ErrConflict)

	contact, err := f.repo.GetContact(ctx, created.ID, false)
	require.NoError(t, err)
	uow := persistence.NewUnitOfWork(f.committer)
	require.NoError(t, uow.Delete(contact))
	require.NoError(t, uow.Commit(ctx))

	_, err = f.repo.GetContact(ctx, created.ID, false)
	require.ErrorIs(t, err, ports.ErrNotFound)

	var rows int64
	require.NoError(t, db.Model(&domain.Contact{}).Where("id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	retained, err := f.repo.GetContact(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, retained.Deleted)
	require.NotNil(t, retained.ModifiedTime)
	assert.Len(t, retained.PhoneNumbers, 1)
}

func TestPostgresRepository_ListSearchAndSort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	f := newFixture(db)
	ctx := context.Background()

	uow := persistence.NewUnitOfWork(f.committer)
	var seeded []*domain.Contact
	for _, n := range [][2]string{{"Ann", "Lee"}, {"Bob", "Lee"}, {"Cara", "Lee"}, {"Dan", "Kim"}, {"Eve", "100%_Lee"}} {
		c, err := domain.NewContact(n[0], n[1], "")
		require.NoError(t, err)
		require.NoError(t, uow.Insert(c))
		seeded = append(seeded, c)
	}
	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Delete(seeded[0]))
	require.NoError(t, uow.Commit(ctx))

	page, err := f.svc.List(ctx, types.ListContactsInput{Search: "lee", Sort: "last_name_desc", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Cara", page.Items[0].FirstName)
	assert.Equal(t, "Bob", page.Items[1].FirstName)

	literal, err := f.svc.List(ctx, types.ListContactsInput{Search: "%_"})
	require.NoError(t, err)
	require.Len(t, literal.Items, 1)
	assert.Equal(t, "Eve", literal.Items[0].FirstName)
}

func TestPostgresRepository_BulkPaths(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	f := newFixture(db)
	ctx := context.Background()

	result, err := f.svc.ImportContacts(ctx, types.ImportContactsInput{Contacts: []types.ContactInput{
		{FirstName: "Ann", LastName: "Lee", EmailAddresses: []types.EmailAddressInput{{Email: "ann@example.com"}}},
		{FirstName: "Bob", LastName: "Ray", Company: &types.CompanyInput{Name: "Acme"}},
		{FirstName: "Cara", LastName: "Moss"},
	}})
	require.NoError(t, err)
	require.Len(t, result.Imported, 3)

	group, err := f.svc.CreateGroup(ctx, types.GroupInput{Name: "Imported"})
	require.NoError(t, err)
	moved, err := f.svc.AssignGroup(ctx, types.AssignGroupInput{GroupID: group.ID, ContactIDs: result.Imported})
	require.NoError(t, err)
	assert.Len(t, moved, 3)

	members, err := f.svc.ListByGroup(ctx, types.GroupIdentifier{ID: group.ID})
	require.NoError(t, err)
	assert.Len(t, members, 3)
	for _, m := range members {
		assert.NotNil(t, m.ModifiedTime)
	}

	require.NoError(t, f.svc.DeleteGroup(ctx, types.GroupIdentifier{ID: group.ID}))
	purged, err := f.svc.PurgeDeletedGroups(ctx, types.PurgeGroupsInput{Before: time.Now().Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	var groups int64
	require.NoError(t, db.Model(&domain.Group{}).Count(&groups).Error)
	assert.Zero(t, groups)

	ann, err := f.svc.Get(ctx, types.ContactIdentifier{ID: result.Imported[0]})
	require.NoError(t, err)
	assert.Nil(t, ann.GroupID)
	assert.Len(t, ann.EmailAddresses, 1)
}
