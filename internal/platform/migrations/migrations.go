package migrations

import (
	"gorm.io/gorm"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
)

// Run applies the schema for the bounded contexts. Tables are listed parents first so
// foreign keys resolve.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&domain.Group{},
		&domain.Company{},
		&domain.Contact{},
		&domain.PhoneNumber{},
		&domain.EmailAddress{},
		&domain.Address{},
		&domain.Relative{},
	); err != nil {
		return err
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Partial indexes backing the active-row lookups; AutoMigrate cannot express them.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_contacts_active_last_name ON contacts (lower(last_name)) WHERE NOT deleted`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_active_first_name ON contacts (lower(first_name)) WHERE NOT deleted`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_active_nick_name ON contacts (lower(nick_name)) WHERE NOT deleted`,
	`CREATE INDEX IF NOT EXISTS idx_groups_purge ON groups (modified_time) WHERE deleted`,
}
