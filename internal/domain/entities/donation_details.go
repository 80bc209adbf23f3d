package entities

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DonationDetails is the closed set of detail payloads. Only the variants in
// this package implement it.
type DonationDetails interface {
	Type() DonationType
	Validate() error
	isDonationDetails()
}

// maxMoneyAmount is the exclusive bound of a decimal(10,2) column
var maxMoneyAmount = decimal.New(1, 8)

// MoneyDetails is the detail row of a money donation
type MoneyDetails struct {
	Amount        decimal.Decimal
	Region        string
	Purpose       string
	OrderID       null.String
	PaymentID     null.String
	PaymentStatus PaymentStatus
}

func (*MoneyDetails) Type() DonationType { return DonationTypeMoney }
func (*MoneyDetails) isDonationDetails() {}

func (m *MoneyDetails) Validate() error {
	if !m.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if m.Amount.GreaterThanOrEqual(maxMoneyAmount) {
		return errors.New("amount must be less than 100000000")
	}
	if m.Region == "" || m.Purpose == "" {
		return errors.New("region and purpose are required")
	}
	return nil
}

// AmountMinor returns the amount in paise
func (m *MoneyDetails) AmountMinor() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

// ItemDetails is the detail row of an item donation
type ItemDetails struct {
	ItemType    string
	TargetGroup string
	Address     string
	PeopleCount int
	// Image is a storage key
	Image null.String
}

func (*ItemDetails) Type() DonationType { return DonationTypeItems }
func (*ItemDetails) isDonationDetails() {}

func (d *ItemDetails) Validate() error {
	if d.ItemType == "" || d.TargetGroup == "" || d.Address == "" {
		return errors.New("item_type, target_group and address are required")
	}
	if d.PeopleCount < 0 {
		return errors.New("people_count must not be negative")
	}
	return nil
}

// FoodDetails is the detail row of a food donation
type FoodDetails struct {
	FoodType    string
	TargetGroup string
	Stock       int
	Address     string
}

func (*FoodDetails) Type() DonationType { return DonationTypeFood }
func (*FoodDetails) isDonationDetails() {}

func (d *FoodDetails) Validate() error {
	return validateStock("food_type", d.FoodType, d.TargetGroup, d.Address, d.Stock)
}

// GroceryDetails is the detail row of a grocery donation
type GroceryDetails struct {
	GroceryType string
	TargetGroup string
	Stock       int
	Address     string
}

func (*GroceryDetails) Type() DonationType { return DonationTypeGrocery }
func (*GroceryDetails) isDonationDetails() {}

func (d *GroceryDetails) Validate() error {
	return validateStock("grocery_type", d.GroceryType, d.TargetGroup, d.Address, d.Stock)
}

// MedicineDetails is the detail row of a medicine donation
type MedicineDetails struct {
	MedicineType string
	TargetGroup  string
	Stock        int
	Address      string
}

func (*MedicineDetails) Type() DonationType { return DonationTypeMedicine }
func (*MedicineDetails) isDonationDetails() {}

func (d *MedicineDetails) Validate() error {
	return validateStock("medicine_type", d.MedicineType, d.TargetGroup, d.Address, d.Stock)
}

func validateStock(kindField, kind, targetGroup, address string, stock int) error {
	if kind == "" || targetGroup == "" || address == "" {
		return errors.New(kindField + ", target_group and address are required")
	}
	if stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

// DonationRequest is the flat create payload; exactly one variant is read from it
type DonationRequest struct {
	DonationType string          `json:"donation_type" form:"donation_type"`
	Amount       decimal.Decimal `json:"amount" form:"amount"`
	Region       string          `json:"region" form:"region"`
	Purpose      string          `json:"purpose" form:"purpose"`
	ItemType     string          `json:"item_type" form:"item_type"`
	FoodType     string          `json:"food_type" form:"food_type"`
	GroceryType  string          `json:"grocery_type" form:"grocery_type"`
	MedicineType string          `json:"medicine_type" form:"medicine_type"`
	TargetGroup  string          `json:"target_group" form:"target_group"`
	Address      string          `json:"address" form:"address"`
	PeopleCount  int             `json:"people_count" form:"people_count"`
	Stock        int             `json:"stock" form:"stock"`
}

// Details decodes the request into its variant and validates it
func (r DonationRequest) Details() (DonationDetails, error) {
	if strings.TrimSpace(r.DonationType) == "" {
		return nil, errors.New("donation_type is required")
	}
	t, err := ParseDonationType(r.DonationType)
	if err != nil {
		return nil, err
	}

	trim := strings.TrimSpace
	var details DonationDetails
	switch t {
	case DonationTypeMoney:
		details = &MoneyDetails{
			Amount:        r.Amount.Round(2),
			Region:        trim(r.Region),
			Purpose:       trim(r.Purpose),
			PaymentStatus: PaymentStatusCreated,
		}
	case DonationTypeItems:
		details = &ItemDetails{ItemType: trim(r.ItemType), TargetGroup: trim(r.TargetGroup), Address: trim(r.Address), PeopleCount: r.PeopleCount}
	case DonationTypeFood:
		details = &FoodDetails{FoodType: trim(r.FoodType), TargetGroup: trim(r.TargetGroup), Address: trim(r.Address), Stock: r.Stock}
	case DonationTypeGrocery:
		details = &GroceryDetails{GroceryType: trim(r.GroceryType), TargetGroup: trim(r.TargetGroup), Address: trim(r.Address), Stock: r.Stock}
	case DonationTypeMedicine:
		details = &MedicineDetails{MedicineType: trim(r.MedicineType), TargetGroup: trim(r.TargetGroup), Address: trim(r.Address), Stock: r.Stock}
	}

	if err := details.Validate(); err != nil {
		return nil, err
	}
	return details, nil
}
