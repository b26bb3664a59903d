package models

import (
	"time"

	"gorm.io/gorm"
)

type AppRole string

const (
	RoleAdmin AppRole = "admin"
	RoleUser  AppRole = "user"
)

// User owns projects. Role gates the admin-only endpoints.
type User struct {
	ID           uint           `gorm:"primaryKey"`
	Email        string         `gorm:"uniqueIndex;not null"`
	Password     string         `gorm:"not null;column:password"`
	FirstName    string         `gorm:"not null;column:first_name"`
	LastName     string         `gorm:"not null;column:last_name"`
	Role         AppRole        `gorm:"not null;default:user;column:role"`
	Active       bool           `gorm:"default:true;column:active"`
	RefreshToken string         `gorm:"type:text;column:refresh_token"`
	Projects     []Project      `gorm:"foreignKey:OwnerID"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at"`
}

func (User) TableName() string {
	return "users"
}
