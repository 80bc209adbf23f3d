package usecases_test

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"givora.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Mock DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *entities.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) GetByOrderID(ctx context.Context, orderID string) (*entities.Donation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) List(ctx context.Context, filter entities.DonationFilter, limit, offset int) ([]*entities.Donation, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) SetOrderID(ctx context.Context, donationID uuid.UUID, orderID string) error {
	args := m.Called(ctx, donationID, orderID)
	return args.Error(0)
}

func (m *MockDonationRepository) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	args := m.Called(ctx, orderID, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) UpdateStatus(ctx context.Context, donationID uuid.UUID, status entities.DonationStatus) (bool, error) {
	args := m.Called(ctx, donationID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock OrphanageRepository
type MockOrphanageRepository struct {
	mock.Mock
}

func (m *MockOrphanageRepository) Create(ctx context.Context, orphanage *entities.Orphanage) error {
	args := m.Called(ctx, orphanage)
	return args.Error(0)
}

func (m *MockOrphanageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Orphanage), args.Error(1)
}

func (m *MockOrphanageRepository) Update(ctx context.Context, orphanage *entities.Orphanage) error {
	args := m.Called(ctx, orphanage)
	return args.Error(0)
}

func (m *MockOrphanageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrphanageRepository) List(ctx context.Context, filter entities.OrphanageFilter, limit, offset int) ([]*entities.Orphanage, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Orphanage), args.Get(1).(int64), args.Error(2)
}

// Mock PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) KeyID() string {
	return m.Called().String(0)
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*entities.Order, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Order), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(ctx context.Context, proof entities.PaymentProof) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

// Mock ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, folder string, upload *entities.Upload) (string, error) {
	args := m.Called(ctx, folder, upload)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) URL(key string) string {
	return "/media/" + key
}

// Mock MetricsRecorder
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) DonationCreated(donationType string) {
	m.Called(donationType)
}

func (m *MockMetrics) PaymentVerification(result string) {
	m.Called(result)
}

func (m *MockMetrics) GatewayFailure() {
	m.Called()
}

func testUpload(name string) *entities.Upload {
	return &entities.Upload{
		Filename:    name,
		ContentType: "image/png",
		Size:        3,
		Content:     io.NopCloser(strings.NewReader("png")),
	}
}
