package models

import "time"

// Task represents a to-do item owned by exactly one user.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null" validate:"required"`
	Description string    `json:"description" gorm:"type:text;not null" validate:"required"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(36);index;not null" validate:"required"`
	Owner       *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskQuery narrows and orders a task listing.
type TaskQuery struct {
	Completed *bool  // nil means both
	SortField string // column name, empty means unsorted
	SortDesc  bool
	Limit     int // 0 means no limit
	Skip      int
}
