package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Donation{},
		&MoneyDonation{},
		&ItemDonation{},
		&FoodDonation{},
		&GroceryDonation{},
		&MedicineDonation{},
		&Orphanage{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
