package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Role         string      `gorm:"type:varchar(20);not null;default:'Donor'"`
	FirstName    string      `gorm:"column:firstname;type:varchar(100);not null"`
	LastName     string      `gorm:"column:lastname;type:varchar(100);not null"`
	PhoneNumber  string      `gorm:"type:varchar(15);not null"`
	Address      string      `gorm:"type:text;not null"`
	Photo        null.String `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
