package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/infrastructure/models"
	"givora.backend/pkg/utils"
)

// DonationRepository implements donation envelope and detail operations
type DonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create inserts the envelope first and then its detail row. Callers wrap it
// in UnitOfWork.Do so a failed detail insert rolls the envelope back.
func (r *DonationRepository) Create(ctx context.Context, d *entities.Donation) error {
	detail, err := toDetailModel(d.ID, d.Details)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	m := &models.Donation{
		ID:           d.ID,
		UserID:       d.UserID,
		DonationType: string(d.Type),
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
	}
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	if err := db.Create(detail).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID loads a donation with its owner and detail row
func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error) {
	var m models.Donation
	if err := r.withDetails(ctx).Preload("User").Where("donations.id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toDonationEntity(&m), nil
}

// GetByOrderID loads the money donation holding the gateway order
func (r *DonationRepository) GetByOrderID(ctx context.Context, orderID string) (*entities.Donation, error) {
	var m models.Donation
	err := r.withDetails(ctx).
		Joins("JOIN money_donations md ON md.donation_id = donations.id").
		Where("md.razorpay_order_id = ?", orderID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toDonationEntity(&m), nil
}

// ListByUser returns every donation of a user, newest first
func (r *DonationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error) {
	var ms []models.Donation
	if err := r.withDetails(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDonationEntities(ms), nil
}

// List returns donations across users, newest first
func (r *DonationRepository) List(ctx context.Context, filter entities.DonationFilter, limit, offset int) ([]*entities.Donation, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Type != "" {
			db = db.Where("donation_type = ?", string(filter.Type))
		}
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		return db
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Donation{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.withDetails(ctx).Scopes(scope).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Donation
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toDonationEntities(ms), total, nil
}

// SetOrderID stores the gateway order id on a money donation that has none yet
func (r *DonationRepository) SetOrderID(ctx context.Context, donationID uuid.UUID, orderID string) error {
	result := GetDB(ctx, r.db).Model(&models.MoneyDonation{}).
		Where("donation_id = ? AND payment_status = ? AND razorpay_order_id IS NULL", donationID, string(entities.PaymentStatusCreated)).
		Update("razorpay_order_id", orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkPaid is a compare-and-swap on payment_status created -> paid
func (r *DonationRepository) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.MoneyDonation{}).
		Where("razorpay_order_id = ? AND payment_status = ?", orderID, string(entities.PaymentStatusCreated)).
		Updates(map[string]interface{}{
			"razorpay_payment_id": paymentID,
			"payment_status":      string(entities.PaymentStatusPaid),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateStatus is a compare-and-swap on status pending -> status
func (r *DonationRepository) UpdateStatus(ctx context.Context, donationID uuid.UUID, status entities.DonationStatus) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.Donation{}).
		Where("id = ? AND status = ?", donationID, string(entities.DonationStatusPending)).
		Update("status", string(status))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the detail rows and then the envelope
func (r *DonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	for _, detail := range []interface{}{
		&models.MoneyDonation{},
		&models.ItemDonation{},
		&models.FoodDonation{},
		&models.GroceryDonation{},
		&models.MedicineDonation{},
	} {
		if err := db.Where("donation_id = ?", id).Delete(detail).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&models.Donation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *DonationRepository) withDetails(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).
		Preload("Money").
		Preload("Item").
		Preload("Food").
		Preload("Grocery").
		Preload("Medicine")
}

func toDetailModel(donationID uuid.UUID, details entities.DonationDetails) (interface{}, error) {
	id := utils.GenerateUUIDv7()
	switch d := details.(type) {
	case *entities.MoneyDetails:
		status := d.PaymentStatus
		if status == "" {
			status = entities.PaymentStatusCreated
		}
		return &models.MoneyDonation{
			ID:                id,
			DonationID:        donationID,
			Amount:            d.Amount.Round(2),
			Region:            d.Region,
			Purpose:           d.Purpose,
			RazorpayOrderID:   d.OrderID,
			RazorpayPaymentID: d.PaymentID,
			PaymentStatus:     string(status),
		}, nil
	case *entities.ItemDetails:
		return &models.ItemDonation{
			ID:          id,
			DonationID:  donationID,
			ItemType:    d.ItemType,
			TargetGroup: d.TargetGroup,
			Address:     d.Address,
			PeopleCount: d.PeopleCount,
			Image:       d.Image,
		}, nil
	case *entities.FoodDetails:
		return &models.FoodDonation{ID: id, DonationID: donationID, FoodType: d.FoodType, TargetGroup: d.TargetGroup, Stock: d.Stock, Address: d.Address}, nil
	case *entities.GroceryDetails:
		return &models.GroceryDonation{ID: id, DonationID: donationID, GroceryType: d.GroceryType, TargetGroup: d.TargetGroup, Stock: d.Stock, Address: d.Address}, nil
	case *entities.MedicineDetails:
		return &models.MedicineDonation{ID: id, DonationID: donationID, MedicineType: d.MedicineType, TargetGroup: d.TargetGroup, Stock: d.Stock, Address: d.Address}, nil
	default:
		return nil, fmt.Errorf("unsupported donation details %T", details)
	}
}

func toDonationEntities(ms []models.Donation) []*entities.Donation {
	out := make([]*entities.Donation, 0, len(ms))
	for i := range ms {
		out = append(out, toDonationEntity(&ms[i]))
	}
	return out
}

func toDonationEntity(m *models.Donation) *entities.Donation {
	d := &entities.Donation{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entities.DonationType(m.DonationType),
		Status:    entities.DonationStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		d.User = toUserEntity(m.User)
	}

	// The detail is resolved by the discriminator; rows of another kind are ignored.
	switch d.Type {
	case entities.DonationTypeMoney:
		if m.Money != nil {
			d.Details = &entities.MoneyDetails{
				Amount:        m.Money.Amount,
				Region:        m.Money.Region,
				Purpose:       m.Money.Purpose,
				OrderID:       m.Money.RazorpayOrderID,
				PaymentID:     m.Money.RazorpayPaymentID,
				PaymentStatus: entities.PaymentStatus(m.Money.PaymentStatus),
			}
		}
	case entities.DonationTypeItems:
		if m.Item != nil {
			d.Details = &entities.ItemDetails{
				ItemType:    m.Item.ItemType,
				TargetGroup: m.Item.TargetGroup,
				Address:     m.Item.Address,
				PeopleCount: m.Item.PeopleCount,
				Image:       m.Item.Image,
			}
		}
	case entities.DonationTypeFood:
		if m.Food != nil {
			d.Details = &entities.FoodDetails{FoodType: m.Food.FoodType, TargetGroup: m.Food.TargetGroup, Stock: m.Food.Stock, Address: m.Food.Address}
		}
	case entities.DonationTypeGrocery:
		if m.Grocery != nil {
			d.Details = &entities.GroceryDetails{GroceryType: m.Grocery.GroceryType, TargetGroup: m.Grocery.TargetGroup, Stock: m.Grocery.Stock, Address: m.Grocery.Address}
		}
	case entities.DonationTypeMedicine:
		if m.Medicine != nil {
			d.Details = &entities.MedicineDetails{MedicineType: m.Medicine.MedicineType, TargetGroup: m.Medicine.TargetGroup, Stock: m.Medicine.Stock, Address: m.Medicine.Address}
		}
	}
	return d
}
