// Package audit defines the optional audit capabilities an entity may expose and
// the stamper that writes audit metadata onto them.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// CreationAudited is implemented by entities that record when and by whom they were created.
type CreationAudited interface {
	StampCreated(at time.Time, actor *uuid.UUID)
}

// ModificationAudited is implemented by entities that record their latest modification.
type ModificationAudited interface {
	StampModified(at time.Time, actor *uuid.UUID)
}

// DeletionAudited is implemented by soft-deletable entities.
type DeletionAudited interface {
	MarkDeleted()
	IsDeleted() bool
}

// Capable reports whether v exposes at least one audit capability.
func Capable(v any) bool {
	switch v.(type) {
	case CreationAudited, ModificationAudited, DeletionAudited:
		return true
	}
	return false
}

// CreationAudit is embedded by entities that are creation audited.
type CreationAudit struct {
	CreatedTime time.Time  `gorm:"column:created_time;not null;index" json:"created_time"`
	CreatorID   *uuid.UUID `gorm:"column:creator_id;type:uuid" json:"creator_id,omitempty"`
}

// StampCreated sets the creation time. The creator is only recorded once.
func (a *CreationAudit) StampCreated(at time.Time, actor *uuid.UUID) {
	a.CreatedTime = at
	if a.CreatorID == nil && actor != nil {
		id := *actor
		a.CreatorID = &id
	}
}

// ModificationAudit is embedded by entities that are modification audited.
type ModificationAudit struct {
	ModifiedTime *time.Time `gorm:"column:modified_time" json:"modified_time,omitempty"`
	ModifierID   *uuid.UUID `gorm:"column:modifier_id;type:uuid" json:"modifier_id,omitempty"`
}

// StampModified overwrites the modification time and modifier.
func (a *ModificationAudit) StampModified(at time.Time, actor *uuid.UUID) {
	a.ModifiedTime = &at
	if actor != nil {
		id := *actor
		a.ModifierID = &id
	}
}

// DeletionAudit is embedded by soft-deletable entities.
type DeletionAudit struct {
	Deleted bool `gorm:"column:deleted;not null;default:false;index" json:"deleted"`
}

// MarkDeleted flags the entity as logically removed.
func (a *DeletionAudit) MarkDeleted() { a.Deleted = true }

// IsDeleted reports the soft-delete flag.
func (a *DeletionAudit) IsDeleted() bool { return a.Deleted }

var (
	_ CreationAudited     = (*CreationAudit)(nil)
	_ ModificationAudited = (*ModificationAudit)(nil)
	_ DeletionAudited     = (*DeletionAudit)(nil)
)
