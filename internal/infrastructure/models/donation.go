package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Donation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	DonationType string    `gorm:"type:varchar(20);not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time `gorm:"not null;index"`

	User     *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Money    *MoneyDonation    `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
	Item     *ItemDonation     `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
	Food     *FoodDonation     `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
	Grocery  *GroceryDonation  `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
	Medicine *MedicineDonation `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
}

type MoneyDonation struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DonationID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Region            string          `gorm:"type:varchar(100);not null"`
	Purpose           string          `gorm:"type:varchar(100);not null"`
	RazorpayOrderID   null.String     `gorm:"type:varchar(100);uniqueIndex"`
	RazorpayPaymentID null.String     `gorm:"type:varchar(100)"`
	PaymentStatus     string          `gorm:"type:varchar(20);not null;default:'created'"`
}

type ItemDonation struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	DonationID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex"`
	ItemType    string      `gorm:"type:varchar(100);not null"`
	TargetGroup string      `gorm:"type:varchar(100);not null"`
	Address     string      `gorm:"type:text;not null"`
	PeopleCount int         `gorm:"not null"`
	Image       null.String `gorm:"type:varchar(255)"`
}

type FoodDonation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DonationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FoodType    string    `gorm:"type:varchar(100);not null"`
	TargetGroup string    `gorm:"type:varchar(100);not null"`
	Stock       int       `gorm:"not null"`
	Address     string    `gorm:"type:text;not null"`
}

type GroceryDonation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DonationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	GroceryType string    `gorm:"type:varchar(100);not null"`
	TargetGroup string    `gorm:"type:varchar(100);not null"`
	Stock       int       `gorm:"not null"`
	Address     string    `gorm:"type:text;not null"`
}

type MedicineDonation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DonationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	MedicineType string    `gorm:"type:varchar(100);not null"`
	TargetGroup  string    `gorm:"type:varchar(100);not null"`
	Stock        int       `gorm:"not null"`
	Address      string    `gorm:"type:text;not null"`
}
