package models

import "time"

// User represents an account owning tasks.
type User struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string      `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Age       *int        `json:"age,omitempty" validate:"omitempty,gte=0"`
	Email     string      `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string      `json:"-" gorm:"type:varchar(255);not null" validate:"required"` // bcrypt hash, never serialized
	Tokens    []UserToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Avatar    []byte      `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// UserToken is a bearer token issued to a user and not yet revoked.
type UserToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"type:varchar(36);index;not null"`
	Token     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}
