package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

// ListContactsInput filters and pages the contact listing.
type ListContactsInput struct {
	Search    string
	Sort      string
	PageIndex int
	PageSize  int
}

// PhoneNumberInput carries a phone number. A nil or unknown ID adds a new number on update.
type PhoneNumberInput struct {
	ID    *uuid.UUID
	Phone string
	Type  string
}

// EmailAddressInput carries an email address. A nil or unknown ID adds a new address on update.
type EmailAddressInput struct {
	ID    *uuid.UUID
	Email string
	Type  string
}

// AddressInput carries a postal address.
type AddressInput struct {
	Lines      []string
	City       string
	Region     string
	PostalCode string
	Country    string
	Type       string
}

// RelativeInput names a relation of the contact.
type RelativeInput struct {
	Name     string
	Relation string
}

// CompanyInput names the contact's organization.
type CompanyInput struct {
	Name    string
	Website string
}

// ContactInput is the payload for creating or updating a contact.
type ContactInput struct {
	FirstName      string
	LastName       string
	NickName       string
	Birthday       *time.Time
	Note           string
	GroupID        *uuid.UUID
	Company        *CompanyInput
	PhoneNumbers   []PhoneNumberInput
	EmailAddresses []EmailAddressInput
	Addresses      []AddressInput
	Relatives      []RelativeInput
}

// UpdateContactInput targets an existing contact.
type UpdateContactInput struct {
	ID uuid.UUID
	ContactInput
}

// ContactIdentifier references a contact by id.
type ContactIdentifier struct {
	ID uuid.UUID
}

// GroupInput is the payload for creating a group.
type GroupInput struct {
	Name        string
	Description string
}

// GroupIdentifier references a group by id.
type GroupIdentifier struct {
	ID uuid.UUID
}

// AssignGroupInput moves contacts into a group.
type AssignGroupInput struct {
	GroupID    uuid.UUID
	ContactIDs []uuid.UUID
}

// ImportContactsInput is a batch of contacts inserted without per-row tracking.
// IdempotencyKey lets a durable orchestrator return the result of an earlier run instead of
// importing the batch twice.
type ImportContactsInput struct {
	Contacts       []ContactInput
	IdempotencyKey string
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Imported []uuid.UUID
	Skipped  int
}

// PurgeGroupsInput selects soft-deleted groups last modified before Before.
type PurgeGroupsInput struct {
	Before time.Time
}

// ContactPage is one page of contacts.
type ContactPage = pagination.List[*domain.Contact]
