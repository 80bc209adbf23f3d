package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type Orphanage struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name                 string      `gorm:"type:varchar(200);not null"`
	RegistrationNumber   null.String `gorm:"type:varchar(100)"`
	Email                null.String `gorm:"type:varchar(254)"`
	PhoneNumber          null.String `gorm:"type:varchar(20)"`
	Website              null.String `gorm:"type:varchar(200)"`
	Address              string      `gorm:"type:text;not null"`
	City                 null.String `gorm:"type:varchar(100);index"`
	State                null.String `gorm:"type:varchar(100)"`
	Country              null.String `gorm:"type:varchar(100)"`
	Capacity             int         `gorm:"not null;default:0"`
	CurrentChildrenCount int         `gorm:"not null;default:0"`
	PrimaryNeeds         null.String `gorm:"type:text"`
	Description          null.String `gorm:"type:text"`
	Image                null.String `gorm:"type:varchar(255)"`
	AddedBy              *uuid.UUID  `gorm:"type:uuid;index"`
	CreatedAt            time.Time   `gorm:"index"`
	UpdatedAt            time.Time

	AddedByUser *User `gorm:"foreignKey:AddedBy;constraint:OnDelete:SET NULL"`
}
