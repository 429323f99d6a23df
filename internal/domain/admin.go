package domain

import "time"

const RoleAdmin = "admin"

// Admin grants admin capability to an e-mail address (collection "admins").
type Admin struct {
	Email     string    `gorm:"column:email;primaryKey" json:"email"`
	Role      string    `gorm:"column:role;not null;default:'admin'" json:"role"`
	AddedBy   string    `gorm:"column:added_by;not null" json:"addedBy"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Admin) TableName() string {
	return "admins"
}
