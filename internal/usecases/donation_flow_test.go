package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/infrastructure/models"
	"givora.backend/internal/infrastructure/repositories"
	"givora.backend/internal/usecases"
)

type donationFlow struct {
	uc      *usecases.DonationUsecase
	repo    *repositories.DonationRepository
	gateway *MockPaymentGateway
	donor   *entities.User
}

func newDonationFlow(t *testing.T) *donationFlow {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite serialises writers; one connection keeps concurrent callbacks from hitting table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	now := time.Now().UTC()
	donor := &entities.User{
		ID:           uuid.New(),
		Email:        "donor@givora.org",
		PasswordHash: "hash",
		Role:         entities.UserRoleDonor,
		FirstName:    "Asha",
		LastName:     "Rao",
		PhoneNumber:  "9800000000",
		Address:      "12 Main Road",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), donor))

	repo := repositories.NewDonationRepository(db)
	gateway := new(MockPaymentGateway)
	gateway.On("VerifySignature", mock.Anything, mock.Anything).Return(nil)

	return &donationFlow{
		uc:      usecases.NewDonationUsecase(repo, repositories.NewUnitOfWork(db), gateway, new(MockImageStore), nil, "INR"),
		repo:    repo,
		gateway: gateway,
		donor:   donor,
	}
}

func (f *donationFlow) createMoney(t *testing.T, orderID string) *entities.CreateDonationResult {
	t.Helper()
	f.gateway.On("CreateOrder", mock.Anything, int64(10000), "INR", mock.Anything).Return(&entities.Order{ID: orderID}, nil).Once()
	result, err := f.uc.CreateDonation(context.Background(), f.donor.ID, moneyRequest("100.00"), nil)
	require.NoError(t, err)
	require.Equal(t, orderID, result.OrderID)
	return result
}

func TestDonationFlow_ConcurrentVerifyIsIdempotent(t *testing.T) {
	f := newDonationFlow(t)
	ctx := context.Background()
	created := f.createMoney(t, "order_1")

	stored, err := f.repo.GetByID(ctx, created.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.DonationStatusPending, stored.Status)

	proof := entities.PaymentProof{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.VerifyPayment(ctx, proof)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	result, err := f.uc.VerifyPayment(ctx, proof)
	require.NoError(t, err)
	assert.Equal(t, created.Donation.ID, result.DonationID)
	assert.Equal(t, "100.00", result.Amount.StringFixed(2))

	got, err := f.repo.GetByID(ctx, created.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.DonationStatusCompleted, got.Status)
	money, ok := got.Money()
	require.True(t, ok)
	assert.Equal(t, entities.PaymentStatusPaid, money.PaymentStatus)
	assert.Equal(t, "pay_1", money.PaymentID.String)

	_, err = f.uc.VerifyPayment(ctx, entities.PaymentProof{OrderID: "order_1", PaymentID: "pay_2", Signature: "sig"})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	_, err = f.uc.VerifyPayment(ctx, entities.PaymentProof{OrderID: "order_missing", PaymentID: "pay_1", Signature: "sig"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestDonationFlow_VerifyOnFailedDonationRollsBackPayment(t *testing.T) {
	f := newDonationFlow(t)
	ctx := context.Background()
	created := f.createMoney(t, "order_2")

	moved, err := f.repo.UpdateStatus(ctx, created.Donation.ID, entities.DonationStatusFailed)
	require.NoError(t, err)
	require.True(t, moved)

	_, err = f.uc.VerifyPayment(ctx, entities.PaymentProof{OrderID: "order_2", PaymentID: "pay_1", Signature: "sig"})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	got, err := f.repo.GetByID(ctx, created.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.DonationStatusFailed, got.Status)
	money, _ := got.Money()
	assert.Equal(t, entities.PaymentStatusCreated, money.PaymentStatus, "paid detail must roll back with the envelope")
	assert.False(t, money.PaymentID.Valid)
}
