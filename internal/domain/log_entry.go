package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit log actions.
const (
	ActionGuestCreated = "guest_created"
	ActionGuestUpdated = "guest_updated"
	ActionGuestDeleted = "guest_deleted"
	ActionRsvpUpdated  = "rsvp_updated"
	ActionBulkImport   = "bulk_import"
	ActionLogin        = "login"
	ActionAdminAdded   = "admin_added"
	ActionAdminRemoved = "admin_removed"
)

// SystemActor is recorded when no authenticated admin triggered the action.
const SystemActor = "system"

// LogEntry is an append-only audit record (collection "logs").
type LogEntry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Action    string         `gorm:"column:action;type:varchar(32);not null;index" json:"action"`
	Target    string         `gorm:"column:target;not null" json:"target"`
	Details   datatypes.JSON `gorm:"column:details" json:"details"`
	Actor     string         `gorm:"column:actor;not null" json:"actor"`
	Timestamp time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (LogEntry) TableName() string {
	return "logs"
}

func (l *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	if l.Actor == "" {
		l.Actor = SystemActor
	}
	return nil
}
