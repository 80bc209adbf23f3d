package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/infrastructure/models"
)

func newDonation(owner entities.User, details entities.DonationDetails, createdAt time.Time) *entities.Donation {
	return &entities.Donation{
		ID:        newID(),
		UserID:    owner.ID,
		Type:      details.Type(),
		Status:    entities.DonationStatusPending,
		CreatedAt: createdAt,
		Details:   details,
	}
}

func moneyDetails(amount string) *entities.MoneyDetails {
	return &entities.MoneyDetails{
		Amount:        decimal.RequireFromString(amount),
		Region:        "Pune",
		Purpose:       "Education",
		PaymentStatus: entities.PaymentStatusCreated,
	}
}

func TestDonationRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	d := newDonation(*owner, moneyDetails("100.00"), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.DonationTypeMoney, got.Type)
	assert.Equal(t, entities.DonationStatusPending, got.Status)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Email, got.User.Email)

	m, ok := got.Money()
	require.True(t, ok)
	assert.Equal(t, "100.00", m.Amount.StringFixed(2))
	assert.Equal(t, entities.PaymentStatusCreated, m.PaymentStatus)
	assert.False(t, m.OrderID.Valid)

	_, err = repo.GetByID(ctx, newID())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDonationRepository_CreateRollsBackEnvelopeOnDetailFailure(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	uow := NewUnitOfWork(db)
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	first := newDonation(*owner, moneyDetails("10"), time.Now().UTC())
	first.Details.(*entities.MoneyDetails).OrderID = null.StringFrom("order_dup")
	require.NoError(t, repo.Create(context.Background(), first))

	second := newDonation(*owner, moneyDetails("20"), time.Now().UTC())
	second.Details.(*entities.MoneyDetails).OrderID = null.StringFrom("order_dup")
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		return repo.Create(ctx, second)
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Donation{}).Where("id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count, "envelope must not survive a failed detail insert")
}

func TestDonationRepository_CreateRejectsNilDetails(t *testing.T) {
	db := newTestDB(t)
	err := NewDonationRepository(db).Create(context.Background(), &entities.Donation{ID: newID(), Type: entities.DonationTypeFood})
	require.Error(t, err)
}

func TestDonationRepository_PaymentTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	d := newDonation(*owner, moneyDetails("250.50"), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.SetOrderID(ctx, d.ID, "order_1"))
	assert.ErrorIs(t, repo.SetOrderID(ctx, d.ID, "order_2"), domainerrors.ErrNotFound, "order id is set once")

	byOrder, err := repo.GetByOrderID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, byOrder.ID)
	lc, _ := byOrder.Lifecycle()
	assert.Equal(t, entities.LifecycleAwaitingConfirmation, lc)

	_, err = repo.GetByOrderID(ctx, "order_missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	applied, err := repo.MarkPaid(ctx, "order_1", "pay_1")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.MarkPaid(ctx, "order_1", "pay_2")
	require.NoError(t, err)
	assert.False(t, applied, "second swap must not apply")

	completed, err := repo.UpdateStatus(ctx, d.ID, entities.DonationStatusCompleted)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = repo.UpdateStatus(ctx, d.ID, entities.DonationStatusFailed)
	require.NoError(t, err)
	assert.False(t, completed, "completed is terminal")

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	m, _ := got.Money()
	assert.Equal(t, "pay_1", m.PaymentID.String)
	lc, _ = got.Lifecycle()
	assert.Equal(t, entities.LifecyclePaid, lc)
}

func TestDonationRepository_ListByUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)
	other := seedUser(t, db, "other@givora.org", entities.UserRoleDonor)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	all := []entities.DonationDetails{
		moneyDetails("5"),
		&entities.ItemDetails{ItemType: "clothes", TargetGroup: "kids", Address: "a", PeopleCount: 3, Image: null.StringFrom("items/x.png")},
		&entities.FoodDetails{FoodType: "rice", TargetGroup: "elders", Stock: 4, Address: "a"},
		&entities.GroceryDetails{GroceryType: "oil", TargetGroup: "families", Stock: 2, Address: "a"},
		&entities.MedicineDetails{MedicineType: "ors", TargetGroup: "kids", Stock: 9, Address: "a"},
	}
	for i, details := range all {
		require.NoError(t, repo.Create(ctx, newDonation(*owner, details, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, newDonation(*other, moneyDetails("1"), base)))

	got, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, got, len(all))
	for i, d := range got {
		want := all[len(all)-1-i]
		assert.Equal(t, want.Type(), d.Type)
		require.NotNil(t, d.Details, d.Type)
		assert.Equal(t, want.Type(), d.Details.Type())
	}
	assert.Equal(t, "items/x.png", got[3].Details.(*entities.ItemDetails).Image.String)
}

func TestDonationRepository_MissingDetailIsTolerated(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	require.NoError(t, db.Create(&models.Donation{
		ID:           newID(),
		UserID:       owner.ID,
		DonationType: string(entities.DonationTypeFood),
		Status:       string(entities.DonationStatusCompleted),
		CreatedAt:    time.Now().UTC(),
	}).Error)

	got, err := repo.ListByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Details)
}

func TestDonationRepository_ListFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newDonation(*owner, moneyDetails("1"), base.Add(time.Duration(i)*time.Second))))
	}
	food := newDonation(*owner, &entities.FoodDetails{FoodType: "rice", TargetGroup: "kids", Address: "a"}, base.Add(time.Hour))
	food.Status = entities.DonationStatusCompleted
	require.NoError(t, repo.Create(ctx, food))

	items, total, err := repo.List(ctx, entities.DonationFilter{Type: entities.DonationTypeMoney}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, entities.DonationFilter{Status: entities.DonationStatusCompleted}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, food.ID, items[0].ID)
}

func TestDonationRepository_DeleteCascadesDetail(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "donor@givora.org", entities.UserRoleDonor)

	d := newDonation(*owner, moneyDetails("9"), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, NewUnitOfWork(db).Do(ctx, func(ctx context.Context) error {
		return repo.Delete(ctx, d.ID)
	}))

	var count int64
	require.NoError(t, db.Model(&models.MoneyDonation{}).Where("donation_id = ?", d.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, d.ID), domainerrors.ErrNotFound)
}

func TestDonationRepository_DBErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)
	ctx := context.Background()
	mustExec(t, db, "DROP TABLE money_donations")

	_, err := repo.GetByOrderID(ctx, "order_1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrNotFound))

	_, err = repo.MarkPaid(ctx, "order_1", "pay_1")
	require.Error(t, err)

	require.Error(t, repo.SetOrderID(ctx, newID(), "order_1"))
}
