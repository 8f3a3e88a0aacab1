package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Campus struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	City      string         `gorm:"size:100" json:"city"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Canteen struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CampusID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"campus_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	IsOpen    bool           `gorm:"default:true" json:"is_open"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Campus Campus `gorm:"foreignKey:CampusID" json:"-"`
}
