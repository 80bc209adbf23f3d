package entities

import (
	"time"

	"github.com/google/uuid"
)

// DonationView is the read-side shape of an envelope and its details
type DonationView struct {
	ID               uuid.UUID        `json:"id"`
	Type             DonationType     `json:"type"`
	Status           DonationStatus   `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	PaymentLifecycle PaymentLifecycle `json:"payment_lifecycle,omitempty"`
	User             *DonorView       `json:"user,omitempty"`
	Details          any              `json:"details"`
}

// DonorView is the owner summary attached to single-donation reads
type DonorView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type moneyView struct {
	Amount        string        `json:"amount"`
	Region        string        `json:"region"`
	Purpose       string        `json:"purpose"`
	OrderID       *string       `json:"razorpay_order_id"`
	PaymentID     *string       `json:"razorpay_payment_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

type itemView struct {
	ItemType    string  `json:"item_type"`
	TargetGroup string  `json:"target_group"`
	Address     string  `json:"address"`
	PeopleCount int     `json:"people_count"`
	Image       *string `json:"image"`
}

type foodView struct {
	FoodType    string `json:"food_type"`
	TargetGroup string `json:"target_group"`
	Stock       int    `json:"stock"`
	Address     string `json:"address"`
}

type groceryView struct {
	GroceryType string `json:"grocery_type"`
	TargetGroup string `json:"target_group"`
	Stock       int    `json:"stock"`
	Address     string `json:"address"`
}

type medicineView struct {
	MedicineType string `json:"medicine_type"`
	TargetGroup  string `json:"target_group"`
	Stock        int    `json:"stock"`
	Address      string `json:"address"`
}

// ImageURLFunc turns a storage key into a public URL
type ImageURLFunc func(key string) string

// NewDonationView renders a donation. A missing detail row renders as an empty object.
func NewDonationView(d *Donation, imageURL ImageURLFunc) DonationView {
	v := DonationView{
		ID:        d.ID,
		Type:      d.Type,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		Details:   detailsView(d.Details, imageURL),
	}
	if lc, ok := d.Lifecycle(); ok {
		v.PaymentLifecycle = lc
	}
	if d.User != nil {
		v.User = &DonorView{ID: d.User.ID, Name: d.User.FullName(), Email: d.User.Email}
	}
	return v
}

func detailsView(details DonationDetails, imageURL ImageURLFunc) any {
	switch dt := details.(type) {
	case *MoneyDetails:
		return moneyView{
			Amount:        dt.Amount.StringFixed(2),
			Region:        dt.Region,
			Purpose:       dt.Purpose,
			OrderID:       dt.OrderID.Ptr(),
			PaymentID:     dt.PaymentID.Ptr(),
			PaymentStatus: dt.PaymentStatus,
		}
	case *ItemDetails:
		var image *string
		if dt.Image.Valid {
			url := dt.Image.String
			if imageURL != nil {
				url = imageURL(dt.Image.String)
			}
			image = &url
		}
		return itemView{ItemType: dt.ItemType, TargetGroup: dt.TargetGroup, Address: dt.Address, PeopleCount: dt.PeopleCount, Image: image}
	case *FoodDetails:
		return foodView{FoodType: dt.FoodType, TargetGroup: dt.TargetGroup, Stock: dt.Stock, Address: dt.Address}
	case *GroceryDetails:
		return groceryView{GroceryType: dt.GroceryType, TargetGroup: dt.TargetGroup, Stock: dt.Stock, Address: dt.Address}
	case *MedicineDetails:
		return medicineView{MedicineType: dt.MedicineType, TargetGroup: dt.TargetGroup, Stock: dt.Stock, Address: dt.Address}
	default:
		return struct{}{}
	}
}
