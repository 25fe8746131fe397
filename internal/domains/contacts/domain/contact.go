package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

var (
	ErrEmptyName       = errors.New("contact first name or last name is required")
	ErrEmptyGroupName  = errors.New("group name is required")
	ErrEmptyPhone      = errors.New("phone number is required")
	ErrEmptyEmail      = errors.New("email address is required")
	ErrEmptyCompany    = errors.New("company name is required")
	ErrInvalidBirthday = errors.New("birthday cannot be in the future")
)

// Contact is a person in an owner's address book.
type Contact struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	GroupID   *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Group     *Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company   *Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:SET NULL" json:"company,omitempty"`
	FirstName string     `gorm:"size:100;index" json:"first_name"`
	LastName  string     `gorm:"size:100;index" json:"last_name"`
	NickName  string     `gorm:"size:100;index" json:"nick_name"`
	Birthday  *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	Note      string     `gorm:"type:text" json:"note"`

	PhoneNumbers   []PhoneNumber  `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"phone_numbers,omitempty"`
	EmailAddresses []EmailAddress `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"email_addresses,omitempty"`
	Addresses      []Address      `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Relatives      []Relative     `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"relatives,omitempty"`

	audit.CreationAudit
	audit.ModificationAudit
	audit.DeletionAudit
}

func (Contact) TableName() string { return "contacts" }

// NewContact validates names and assigns a fresh identifier.
func NewContact(firstName, lastName, nickName string) (*Contact, error) {
	c := &Contact{ID: uuid.New()}
	if err := c.Rename(firstName, lastName, nickName); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename replaces the name triple. At least one of first and last name must be set.
func (c *Contact) Rename(firstName, lastName, nickName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return ErrEmptyName
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.NickName = strings.TrimSpace(nickName)
	return nil
}

// SetBirthday stores the date part of birthday; nil clears it.
func (c *Contact) SetBirthday(birthday *time.Time, now time.Time) error {
	if birthday == nil {
		c.Birthday = nil
		return nil
	}
	day := time.Date(birthday.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(now) {
		return ErrInvalidBirthday
	}
	c.Birthday = &day
	return nil
}

// MoveToGroup changes the group membership; nil removes the contact from its group.
func (c *Contact) MoveToGroup(groupID *uuid.UUID) {
	if groupID == nil || *groupID == uuid.Nil {
		c.GroupID = nil
		return
	}
	id := *groupID
	c.GroupID = &id
}

// DisplayName joins first and last name.
func (c *Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Phone returns the phone number with the given id.
func (c *Contact) Phone(id uuid.UUID) *PhoneNumber {
	for i := range c.PhoneNumbers {
		if c.PhoneNumbers[i].ID == id {
			return &c.PhoneNumbers[i]
		}
	}
	return nil
}

// Email returns the email address with the given id.
func (c *Contact) Email(id uuid.UUID) *EmailAddress {
	for i := range c.EmailAddresses {
		if c.EmailAddresses[i].ID == id {
			return &c.EmailAddresses[i]
		}
	}
	return nil
}

// Clone returns a deep copy, including loaded relations.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	out.OwnerID = cloneID(c.OwnerID)
	out.GroupID = cloneID(c.GroupID)
	out.CompanyID = cloneID(c.CompanyID)
	out.CreatorID = cloneID(c.CreatorID)
	out.ModifierID = cloneID(c.ModifierID)
	if c.Birthday != nil {
		b := *c.Birthday
		out.Birthday = &b
	}
	if c.ModifiedTime != nil {
		m := *c.ModifiedTime
		out.ModifiedTime = &m
	}
	if c.Group != nil {
		g := c.Group.Clone()
		g.Contacts = nil
		out.Group = g
	}
	if c.Company != nil {
		co := *c.Company
		out.Company = &co
	}
	out.PhoneNumbers = append([]PhoneNumber(nil), c.PhoneNumbers...)
	out.EmailAddresses = append([]EmailAddress(nil), c.EmailAddresses...)
	out.Addresses = make([]Address, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		out.Addresses = append(out.Addresses, a.Clone())
	}
	out.Relatives = append([]Relative(nil), c.Relatives...)
	return &out
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
