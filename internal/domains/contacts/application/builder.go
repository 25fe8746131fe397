package application

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
)

// contactDraft is a validated contact plus the rows created alongside it.
type contactDraft struct {
	company   *domain.Company
	contact   *domain.Contact
	phones    []*domain.PhoneNumber
	emails    []*domain.EmailAddress
	addresses []*domain.Address
	relatives []*domain.Relative
}

// entities lists the rows in foreign-key order.
func (d *contactDraft) entities() []any {
	out := make([]any, 0, 2+len(d.phones)+len(d.emails)+len(d.addresses)+len(d.relatives))
	if d.company != nil {
		out = append(out, d.company)
	}
	out = append(out, d.contact)
	for _, p := range d.phones {
		out = append(out, p)
	}
	for _, e := range d.emails {
		out = append(out, e)
	}
	for _, a := range d.addresses {
		out = append(out, a)
	}
	for _, r := range d.relatives {
		out = append(out, r)
	}
	return out
}

func (s *Service) buildContact(input types.ContactInput, owner *uuid.UUID) (*contactDraft, error) {
	contact, err := domain.NewContact(input.FirstName, input.LastName, input.NickName)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		id := *owner
		contact.OwnerID = &id
	}
	if err := contact.SetBirthday(input.Birthday, s.now()); err != nil {
		return nil, err
	}
	contact.Note = strings.TrimSpace(input.Note)
	contact.MoveToGroup(input.GroupID)

	draft := &contactDraft{contact: contact}
	if input.Company != nil {
		company, err := domain.NewCompany(input.Company.Name, input.Company.Website)
		if err != nil {
			return nil, err
		}
		draft.company = company
		contact.CompanyID = &company.ID
	}
	for _, in := range input.PhoneNumbers {
		phone, err := domain.NewPhoneNumber(contact.ID, in.Phone, in.Type)
		if err != nil {
			return nil, err
		}
		draft.phones = append(draft.phones, phone)
	}
	for _, in := range input.EmailAddresses {
		email, err := domain.NewEmailAddress(contact.ID, in.Email, in.Type)
		if err != nil {
			return nil, err
		}
		draft.emails = append(draft.emails, email)
	}
	for _, in := range input.Addresses {
		draft.addresses = append(draft.addresses, &domain.Address{
			ID:         uuid.New(),
			ContactID:  contact.ID,
			Lines:      pq.StringArray(trimLines(in.Lines)),
			City:       strings.TrimSpace(in.City),
			Region:     strings.TrimSpace(in.Region),
			PostalCode: strings.TrimSpace(in.PostalCode),
			Country:    strings.TrimSpace(in.Country),
			Type:       strings.TrimSpace(in.Type),
		})
	}
	for _, in := range input.Relatives {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		draft.relatives = append(draft.relatives, &domain.Relative{
			ID:        uuid.New(),
			ContactID: contact.ID,
			Name:      name,
			Relation:  strings.TrimSpace(in.Relation),
		})
	}
	return draft, nil
}

func trimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
