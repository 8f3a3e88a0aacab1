package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Role changes happen only through admin endpoints.
const (
	RoleStudent     = "student"
	RoleCampusStore = "campus_store"
	RoleAdmin       = "admin"
)

// User is an identity record. OAuth-originated accounts carry a GoogleID
// and a nil Password; password accounts carry the inverse.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GoogleID   *string        `gorm:"size:255;uniqueIndex" json:"-"`
	Name       string         `gorm:"size:255" json:"name"`
	Email      string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password   *string        `json:"-"`
	Role       string         `gorm:"size:20;default:'student'" json:"role"`
	CanteenID  *uuid.UUID     `gorm:"type:uuid;index" json:"canteen_id,omitempty"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	IsBanned   bool           `gorm:"default:false" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleCampusStore, RoleAdmin:
		return true
	}
	return false
}
