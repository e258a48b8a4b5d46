package model

import (
	"gorm.io/gorm"
	"time"
)

const (
	RoleOperations = "operations"
	RoleClient     = "client"
)

type User struct {
	ID uint64 `gorm:"primaryKey"`

	UserName string `gorm:"column:user_name;type:varchar(50);not null;unique"`

	Password string `gorm:"column:pass_word;type:varchar(255);not null" json:"-"`

	Email string `gorm:"column:email;type:varchar(255);not null;unique"`

	// Role decides which half of the API a user may touch:
	// operations users upload and delete, client users issue and redeem links.
	Role string `gorm:"column:role;type:varchar(20);not null;default:'client'"`

	IsActive bool `gorm:"column:is_active;not null;default:false"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "user_db"
}
