package mapper

import (
	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
)

// GroupRequest is the payload for creating a group.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AssignRequest lists the contacts to move into a group.
type AssignRequest struct {
	ContactIDs []uuid.UUID `json:"contactIds" binding:"required"`
}

type Group struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Audit
}

func ToGroupInput(req GroupRequest) types.GroupInput {
	return types.GroupInput{Name: req.Name, Description: req.Description}
}

func ToAssignInput(groupID uuid.UUID, req AssignRequest) types.AssignGroupInput {
	return types.AssignGroupInput{GroupID: groupID, ContactIDs: req.ContactIDs}
}

func FromGroup(g *domain.Group) Group {
	if g == nil {
		return Group{}
	}
	return Group{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Name:        g.Name,
		Description: g.Description,
		Audit: Audit{
			CreatedTime:  g.CreatedTime,
			CreatorID:    g.CreatorID,
			ModifiedTime: g.ModifiedTime,
			ModifierID:   g.ModifierID,
			Deleted:      g.Deleted,
		},
	}
}

func FromGroupList(groups []*domain.Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, FromGroup(g))
	}
	return out
}
