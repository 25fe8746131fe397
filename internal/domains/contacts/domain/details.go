package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

// Company is the organization a contact works for. Companies are only creation audited.
type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"size:200;not null" json:"name"`
	Website string    `gorm:"size:255" json:"website,omitempty"`

	audit.CreationAudit
}

func (Company) TableName() string { return "companies" }

// NewCompany validates the name and assigns a fresh identifier.
func NewCompany(name, website string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCompany
	}
	return &Company{ID: uuid.New(), Name: name, Website: strings.TrimSpace(website)}, nil
}

// PhoneNumber belongs to exactly one contact.
type PhoneNumber struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"contact_id"`
	Phone         string     `gorm:"size:50;not null" json:"phone"`
	Type          string     `gorm:"size:50" json:"type,omitempty"`
	FormattedType string     `gorm:"size:50" json:"formatted_type,omitempty"`
	PhoneTypeID   *uuid.UUID `gorm:"type:uuid" json:"phone_type_id,omitempty"`

	audit.CreationAudit
	audit.ModificationAudit
}

func (PhoneNumber) TableName() string { return "phone_numbers" }

// NewPhoneNumber builds a phone number owned by contactID.
func NewPhoneNumber(contactID uuid.UUID, phone, kind string) (*PhoneNumber, error) {
	p := &PhoneNumber{ID: uuid.New(), ContactID: contactID}
	if err := p.Change(phone, kind); err != nil {
		return nil, err
	}
	return p, nil
}

// Change overwrites the number and its type label.
func (p *PhoneNumber) Change(phone, kind string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	p.Phone = phone
	p.Type = strings.TrimSpace(kind)
	p.FormattedType = formatType(p.Type)
	return nil
}

// EmailAddress belongs to exactly one contact.
type EmailAddress struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"contact_id"`
	Email         string     `gorm:"size:255;not null" json:"email"`
	Type          string     `gorm:"size:50" json:"type,omitempty"`
	FormattedType string     `gorm:"size:50" json:"formatted_type,omitempty"`
	EmailTypeID   *uuid.UUID `gorm:"type:uuid" json:"email_type_id,omitempty"`

	audit.CreationAudit
	audit.ModificationAudit
}

func (EmailAddress) TableName() string { return "email_addresses" }

// NewEmailAddress builds an email address owned by contactID.
func NewEmailAddress(contactID uuid.UUID, email, kind string) (*EmailAddress, error) {
	e := &EmailAddress{ID: uuid.New(), ContactID: contactID}
	if err := e.Change(email, kind); err != nil {
		return nil, err
	}
	return e, nil
}

// Change overwrites the address and its type label.
func (e *EmailAddress) Change(email, kind string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	e.Email = email
	e.Type = strings.TrimSpace(kind)
	e.FormattedType = formatType(e.Type)
	return nil
}

// Address is a postal address. Only creation is audited.
type Address struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"contact_id"`
	Lines      pq.StringArray `gorm:"type:text[]" json:"lines"`
	City       string         `gorm:"size:100" json:"city,omitempty"`
	Region     string         `gorm:"size:100" json:"region,omitempty"`
	PostalCode string         `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string         `gorm:"size:100" json:"country,omitempty"`
	Type       string         `gorm:"size:50" json:"type,omitempty"`

	audit.CreationAudit
}

func (Address) TableName() string { return "addresses" }

// Clone copies the address lines.
func (a Address) Clone() Address {
	a.Lines = append(pq.StringArray(nil), a.Lines...)
	a.CreatorID = cloneID(a.CreatorID)
	return a
}

// Relative records a named relation of a contact. Relatives carry no audit metadata.
type Relative struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;index" json:"contact_id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Relation  string    `gorm:"size:50" json:"relation,omitempty"`
}

func (Relative) TableName() string { return "relatives" }

// formatType renders a type label for display: "mobile" becomes "Mobile".
func formatType(kind string) string {
	if kind == "" {
		return ""
	}
	lower := strings.ToLower(kind)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
