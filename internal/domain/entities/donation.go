package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationType is the discriminator of a donation envelope
type DonationType string

const (
	DonationTypeMoney    DonationType = "money"
	DonationTypeItems    DonationType = "items"
	DonationTypeFood     DonationType = "food"
	DonationTypeGrocery  DonationType = "grocery"
	DonationTypeMedicine DonationType = "medicine"
)

// ErrUnknownDonationType is returned for a discriminator outside the supported set
var ErrUnknownDonationType = errors.New("unsupported donation type")

// ParseDonationType validates a raw discriminator
func ParseDonationType(raw string) (DonationType, error) {
	t := DonationType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case DonationTypeMoney, DonationTypeItems, DonationTypeFood, DonationTypeGrocery, DonationTypeMedicine:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDonationType, raw)
}

// DonationStatus is the envelope status
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// Valid reports whether s is a known status
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusFailed:
		return true
	}
	return false
}

// PaymentStatus is the gateway-side status of a money donation
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Donation is the envelope shared by every donation kind
type Donation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      DonationType
	Status    DonationStatus
	CreatedAt time.Time
	// Details is nil when the detail row is missing
	Details DonationDetails
	// User is only populated by single-donation reads
	User *User
}

// Money returns the money details when the donation carries them
func (d *Donation) Money() (*MoneyDetails, bool) {
	m, ok := d.Details.(*MoneyDetails)
	return m, ok
}

// PaymentLifecycle is the single readable state of a money donation
type PaymentLifecycle string

const (
	LifecyclePending              PaymentLifecycle = "Pending"
	LifecycleAwaitingConfirmation PaymentLifecycle = "AwaitingConfirmation"
	LifecyclePaid                 PaymentLifecycle = "Paid"
	LifecycleFailed               PaymentLifecycle = "Failed"
)

// ResolvePaymentLifecycle folds the envelope status and the payment status of
// a money donation into one state.
func ResolvePaymentLifecycle(status DonationStatus, m *MoneyDetails) PaymentLifecycle {
	switch {
	case status == DonationStatusFailed:
		return LifecycleFailed
	case m != nil && m.PaymentStatus == PaymentStatusPaid && status == DonationStatusCompleted:
		return LifecyclePaid
	case m != nil && m.OrderID.Valid:
		return LifecycleAwaitingConfirmation
	default:
		return LifecyclePending
	}
}

// Lifecycle resolves the payment lifecycle; ok is false for non-money donations
func (d *Donation) Lifecycle() (PaymentLifecycle, bool) {
	if d.Type != DonationTypeMoney {
		return "", false
	}
	m, _ := d.Money()
	return ResolvePaymentLifecycle(d.Status, m), true
}

// DonationFilter narrows cross-user donation listings
type DonationFilter struct {
	Type   DonationType
	Status DonationStatus
}

// CreateDonationResult is returned by donation creation
type CreateDonationResult struct {
	Donation *Donation
	// OrderID is set for money donations
	OrderID string
}

// PaymentProof is the signed callback triple sent by the client after checkout
type PaymentProof struct {
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature"`
}

// VerifyPaymentResult is returned by payment verification
type VerifyPaymentResult struct {
	DonationID uuid.UUID
	Amount     decimal.Decimal
}

// Order is a gateway order
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}
