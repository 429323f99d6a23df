package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Invitation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// IsValidStatus returns true if status is one of the invitation statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusDeclined:
		return true
	}
	return false
}

// Invitation is one invitation code and the RSVP state attached to it (collection "guests").
// The code is the identity; there is no surrogate key.
type Invitation struct {
	Code            string         `gorm:"column:code;type:varchar(6);primaryKey" json:"code"`
	Name            string         `gorm:"column:name;not null;default:''" json:"name"`
	Email           string         `gorm:"column:email;not null;default:'';index" json:"email"`
	MaxGuests       int            `gorm:"column:max_guests;not null" json:"maxGuests"`
	ConfirmedGuests int            `gorm:"column:confirmed_guests;not null;default:0" json:"confirmedGuests"`
	Status          string         `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	Note            *string        `gorm:"column:note" json:"note"`
	LastResponse    datatypes.JSON `gorm:"column:last_response" json:"lastResponse,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"column:updated_at" json:"updatedAt"`
	ResponseDate    *time.Time     `gorm:"column:response_date" json:"responseDate"`
}

func (Invitation) TableName() string {
	return "guests"
}

// DeletedInvitation is the archived copy written before an invitation is removed (collection "deleted_guests").
type DeletedInvitation struct {
	Code            string         `gorm:"column:code;type:varchar(6);primaryKey" json:"code"`
	Name            string         `gorm:"column:name" json:"name"`
	Email           string         `gorm:"column:email" json:"email"`
	MaxGuests       int            `gorm:"column:max_guests" json:"maxGuests"`
	ConfirmedGuests int            `gorm:"column:confirmed_guests" json:"confirmedGuests"`
	Status          string         `gorm:"column:status;type:varchar(16)" json:"status"`
	Note            *string        `gorm:"column:note" json:"note"`
	LastResponse    datatypes.JSON `gorm:"column:last_response" json:"lastResponse,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	ResponseDate    *time.Time     `gorm:"column:response_date" json:"responseDate"`
	DeletedAt       time.Time      `gorm:"column:deleted_at" json:"deletedAt"`
	DeletedBy       string         `gorm:"column:deleted_by" json:"deletedBy"`
}

func (DeletedInvitation) TableName() string {
	return "deleted_guests"
}

// Archive copies the last known field values of inv into an archive row.
func (inv *Invitation) Archive(deletedBy string, at time.Time) *DeletedInvitation {
	return &DeletedInvitation{
		Code:            inv.Code,
		Name:            inv.Name,
		Email:           inv.Email,
		MaxGuests:       inv.MaxGuests,
		ConfirmedGuests: inv.ConfirmedGuests,
		Status:          inv.Status,
		Note:            inv.Note,
		LastResponse:    inv.LastResponse,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		ResponseDate:    inv.ResponseDate,
		DeletedAt:       at,
		DeletedBy:       deletedBy,
	}
}
