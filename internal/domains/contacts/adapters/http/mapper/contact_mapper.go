package mapper

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
)

// DateLayout is the wire format of birthdays.
const DateLayout = "2006-01-02"

// PhoneNumber is the HTTP representation of a contact phone number.
type PhoneNumber struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Phone         string     `json:"phone"`
	Type          string     `json:"type,omitempty"`
	FormattedType string     `json:"formattedType,omitempty"`
}

// EmailAddress is the HTTP representation of a contact email address.
type EmailAddress struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Email         string     `json:"email"`
	Type          string     `json:"type,omitempty"`
	FormattedType string     `json:"formattedType,omitempty"`
}

type Address struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Lines      []string   `json:"lines,omitempty"`
	City       string     `json:"city,omitempty"`
	Region     string     `json:"region,omitempty"`
	PostalCode string     `json:"postalCode,omitempty"`
	Country    string     `json:"country,omitempty"`
	Type       string     `json:"type,omitempty"`
}

type Relative struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Name     string     `json:"name"`
	Relation string     `json:"relation,omitempty"`
}

type Company struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Name    string     `json:"name"`
	Website string     `json:"website,omitempty"`
}

// ContactRequest captures inbound payloads for create, update and import flows.
type ContactRequest struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	NickName       string         `json:"nickName"`
	Birthday       *string        `json:"birthday,omitempty"`
	Note           string         `json:"note"`
	GroupID        *uuid.UUID     `json:"groupId,omitempty"`
	Company        *Company       `json:"company,omitempty"`
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers,omitempty"`
	EmailAddresses []EmailAddress `json:"emailAddresses,omitempty"`
	Addresses      []Address      `json:"addresses,omitempty"`
	Relatives      []Relative     `json:"relatives,omitempty"`
}

// Audit exposes the stamped bookkeeping fields.
type Audit struct {
	CreatedTime  time.Time  `json:"createdTime"`
	CreatorID    *uuid.UUID `json:"creatorId,omitempty"`
	ModifiedTime *time.Time `json:"modifiedTime,omitempty"`
	ModifierID   *uuid.UUID `json:"modifierId,omitempty"`
	Deleted      bool       `json:"deleted,omitempty"`
}

// Contact is the HTTP representation of a contact and its loaded relations.
type Contact struct {
	ID             uuid.UUID      `json:"id"`
	OwnerID        *uuid.UUID     `json:"ownerId,omitempty"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	NickName       string         `json:"nickName"`
	DisplayName    string         `json:"displayName"`
	Birthday       *string        `json:"birthday,omitempty"`
	Note           string         `json:"note,omitempty"`
	Group          *Group         `json:"group,omitempty"`
	Company        *Company       `json:"company,omitempty"`
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
	Addresses      []Address      `json:"addresses"`
	Relatives      []Relative     `json:"relatives"`
	Audit
}

// ContactPage is a page of contacts.
type ContactPage struct {
	Items      []Contact `json:"items"`
	PageIndex  int       `json:"pageIndex"`
	PageSize   int       `json:"pageSize"`
	TotalCount int64     `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	HasNext    bool      `json:"hasNext"`
}

// ImportRequest is a batch of contacts.
type ImportRequest struct {
	Contacts []ContactRequest `json:"contacts" binding:"required"`
}

// ImportResponse reports the outcome of an import.
type ImportResponse struct {
	Imported []uuid.UUID `json:"imported"`
	Skipped  int         `json:"skipped"`
}

// ToContactInput maps a request body onto the application input. Only the birthday can fail.
func ToContactInput(req ContactRequest) (types.ContactInput, error) {
	input := types.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		NickName:  req.NickName,
		Note:      req.Note,
		GroupID:   req.GroupID,
	}
	if req.Birthday != nil && *req.Birthday != "" {
		day, err := time.Parse(DateLayout, *req.Birthday)
		if err != nil {
			return types.ContactInput{}, fmt.Errorf("birthday must use the %s layout", DateLayout)
		}
		input.Birthday = &day
	}
	if req.Company != nil {
		input.Company = &types.CompanyInput{Name: req.Company.Name, Website: req.Company.Website}
	}
	for _, p := range req.PhoneNumbers {
		input.PhoneNumbers = append(input.PhoneNumbers, types.PhoneNumberInput{ID: p.ID, Phone: p.Phone, Type: p.Type})
	}
	for _, e := range req.EmailAddresses {
		input.EmailAddresses = append(input.EmailAddresses, types.EmailAddressInput{ID: e.ID, Email: e.Email, Type: e.Type})
	}
	for _, a := range req.Addresses {
		input.Addresses = append(input.Addresses, types.AddressInput{
			Lines:      a.Lines,
			City:       a.City,
			Region:     a.Region,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			Type:       a.Type,
		})
	}
	for _, r := range req.Relatives {
		input.Relatives = append(input.Relatives, types.RelativeInput{Name: r.Name, Relation: r.Relation})
	}
	return input, nil
}

// ToImportInput maps every entry; the first malformed entry fails the batch.
func ToImportInput(req ImportRequest) (types.ImportContactsInput, error) {
	out := types.ImportContactsInput{Contacts: make([]types.ContactInput, 0, len(req.Contacts))}
	for i, c := range req.Contacts {
		in, err := ToContactInput(c)
		if err != nil {
			return types.ImportContactsInput{}, fmt.Errorf("contacts[%d]: %w", i, err)
		}
		out.Contacts = append(out.Contacts, in)
	}
	return out, nil
}

func FromImportResult(result *types.ImportResult) ImportResponse {
	if result == nil {
		return ImportResponse{Imported: []uuid.UUID{}}
	}
	imported := result.Imported
	if imported == nil {
		imported = []uuid.UUID{}
	}
	return ImportResponse{Imported: imported, Skipped: result.Skipped}
}

// FromContact maps the domain contact into its transport shape.
func FromContact(c *domain.Contact) Contact {
	if c == nil {
		return Contact{}
	}
	out := Contact{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		NickName:       c.NickName,
		DisplayName:    c.DisplayName(),
		Note:           c.Note,
		PhoneNumbers:   make([]PhoneNumber, 0, len(c.PhoneNumbers)),
		EmailAddresses: make([]EmailAddress, 0, len(c.EmailAddresses)),
		Addresses:      make([]Address, 0, len(c.Addresses)),
		Relatives:      make([]Relative, 0, len(c.Relatives)),
		Audit: Audit{
			CreatedTime:  c.CreatedTime,
			CreatorID:    c.CreatorID,
			ModifiedTime: c.ModifiedTime,
			ModifierID:   c.ModifierID,
			Deleted:      c.Deleted,
		},
	}
	if c.Birthday != nil {
		b := c.Birthday.Format(DateLayout)
		out.Birthday = &b
	}
	if c.Group != nil {
		g := FromGroup(c.Group)
		out.Group = &g
	}
	if c.Company != nil {
		id := c.Company.ID
		out.Company = &Company{ID: &id, Name: c.Company.Name, Website: c.Company.Website}
	}
	for _, p := range c.PhoneNumbers {
		id := p.ID
		out.PhoneNumbers = append(out.PhoneNumbers, PhoneNumber{ID: &id, Phone: p.Phone, Type: p.Type, FormattedType: p.FormattedType})
	}
	for _, e := range c.EmailAddresses {
		id := e.ID
		out.EmailAddresses = append(out.EmailAddresses, EmailAddress{ID: &id, Email: e.Email, Type: e.Type, FormattedType: e.FormattedType})
	}
	for _, a := range c.Addresses {
		id := a.ID
		out.Addresses = append(out.Addresses, Address{
			ID:         &id,
			Lines:      append([]string(nil), a.Lines...),
			City:       a.City,
			Region:     a.Region,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			Type:       a.Type,
		})
	}
	for _, r := range c.Relatives {
		id := r.ID
		out.Relatives = append(out.Relatives, Relative{ID: &id, Name: r.Name, Relation: r.Relation})
	}
	return out
}

// FromContactList maps a slice of contacts.
func FromContactList(items []*domain.Contact) []Contact {
	out := make([]Contact, 0, len(items))
	for _, c := range items {
		out = append(out, FromContact(c))
	}
	return out
}

// FromContactPage maps a page of contacts.
func FromContactPage(page *types.ContactPage) ContactPage {
	if page == nil {
		return ContactPage{Items: []Contact{}}
	}
	return ContactPage{
		Items:      FromContactList(page.Items),
		PageIndex:  page.PageIndex,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext(),
	}
}
