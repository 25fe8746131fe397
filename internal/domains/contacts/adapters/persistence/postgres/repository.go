package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads contacts and groups from PostgreSQL using GORM. Writes go through
// the persistence package. The caller owns the DB lifecycle and runs migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}

// ListContacts pages active contacts whose last name contains the search term (case-insensitive).
func (r *Repository) ListContacts(ctx context.Context, query ports.ContactQuery) ([]*domain.Contact, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scope := r.db.WithContext(ctx).Model(&domain.Contact{}).Where("deleted = ?", false)
	if query.Search != "" {
		scope = scope.Where("last_name ILIKE ?", "%"+escapeLike(query.Search)+"%")
	}
	scope = scope.Session(&gorm.Session{})

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page := scope
	for _, term := range query.Sort.Terms() {
		page = page.Order(clause.OrderByColumn{Column: clause.Column{Name: term.Column}, Desc: term.Desc})
	}
	if query.Page.PageSize > 0 {
		page = page.Offset(query.Page.Offset()).Limit(query.Page.PageSize)
	}
	var rows []*domain.Contact
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetContact loads a contact with its group, company and child collections.
func (r *Repository) GetContact(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contact, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).
		Preload("Group", "deleted = ?", false).
		Preload("Company").
		Preload("PhoneNumbers", oldestFirst).
		Preload("EmailAddresses", oldestFirst).
		Preload("Addresses", oldestFirst).
		Preload("Relatives", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if !includeDeleted {
		q = q.Where("deleted = ?", false)
	}
	var contact domain.Contact
	if err := q.First(&contact, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_time").Order("id")
}

// ContactsByIDs returns the active contacts among ids, without relations.
func (r *Repository) ContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Contact, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*domain.Contact
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted = ?", ids, false).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HasDuplicate reports whether an active contact shares any non-empty name field, ignoring case.
func (r *Repository) HasDuplicate(ctx context.Context, query ports.DuplicateQuery) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	if query.Empty() {
		return false, nil
	}
	var (
		conds []string
		args  []any
	)
	for column, value := range map[string]string{
		"first_name": query.FirstName,
		"last_name":  query.LastName,
		"nick_name":  query.NickName,
	} {
		if value != "" {
			conds = append(conds, "lower("+column+") = lower(?)")
			args = append(args, value)
		}
	}
	q := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("deleted = ?", false).
		Where("("+strings.Join(conds, " OR ")+")", args...)
	if query.ExcludeID != nil {
		q = q.Where("id <> ?", *query.ExcludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetGroup fetches a group without its contacts.
func (r *Repository) GetGroup(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Group, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx)
	if !includeDeleted {
		q = q.Where("deleted = ?", false)
	}
	var group domain.Group
	if err := q.First(&group, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

// ListGroups returns active groups ordered by name.
func (r *Repository) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []*domain.Group
	if err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("name").Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GroupContacts returns the active members of a group, newest first.
func (r *Repository) GroupContacts(ctx context.Context, groupID uuid.UUID) ([]*domain.Contact, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []*domain.Contact
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND deleted = ?", groupID, false).
		Order("created_time DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GroupNameTaken reports whether the owner already has an active group with this name.
func (r *Repository) GroupNameTaken(ctx context.Context, ownerID *uuid.UUID, name string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	q := r.db.WithContext(ctx).Model(&domain.Group{}).
		Where("deleted = ? AND lower(name) = lower(?)", false, name)
	if ownerID == nil {
		q = q.Where("owner_id IS NULL")
	} else {
		q = q.Where("owner_id = ?", *ownerID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeletedGroupsBefore returns soft-deleted groups last modified before cutoff.
func (r *Repository) DeletedGroupsBefore(ctx context.Context, cutoff time.Time) ([]*domain.Group, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []*domain.Group
	if err := r.db.WithContext(ctx).
		Where("deleted = ? AND modified_time < ?", true, cutoff).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
