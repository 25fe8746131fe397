package domain

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

// Group is an owner-defined collection of contacts.
type Group struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Name        string     `gorm:"size:150;not null;index" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Contacts    []Contact  `gorm:"foreignKey:GroupID" json:"contacts,omitempty"`

	audit.CreationAudit
	audit.ModificationAudit
	audit.DeletionAudit
}

func (Group) TableName() string { return "groups" }

// NewGroup validates the name and assigns a fresh identifier.
func NewGroup(name, description string, ownerID *uuid.UUID) (*Group, error) {
	g := &Group{ID: uuid.New(), OwnerID: cloneID(ownerID)}
	if err := g.Rename(name); err != nil {
		return nil, err
	}
	g.Description = strings.TrimSpace(description)
	return g, nil
}

// Rename replaces the group name.
func (g *Group) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGroupName
	}
	g.Name = name
	return nil
}

// Clone returns a copy without sharing pointers.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.OwnerID = cloneID(g.OwnerID)
	out.CreatorID = cloneID(g.CreatorID)
	out.ModifierID = cloneID(g.ModifierID)
	if g.ModifiedTime != nil {
		m := *g.ModifiedTime
		out.ModifiedTime = &m
	}
	out.Contacts = nil
	for i := range g.Contacts {
		out.Contacts = append(out.Contacts, *g.Contacts[i].Clone())
	}
	return &out
}
