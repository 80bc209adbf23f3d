package repositories

import (
	"context"

	"github.com/google/uuid"

	"givora.backend/internal/domain/entities"
)

// DonationRepository defines donation envelope and detail operations.
// Multi-row writes must run inside UnitOfWork.Do to be atomic.
type DonationRepository interface {
	// Create inserts the envelope and its detail row
	Create(ctx context.Context, donation *entities.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error)
	GetByOrderID(ctx context.Context, orderID string) (*entities.Donation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error)
	List(ctx context.Context, filter entities.DonationFilter, limit, offset int) ([]*entities.Donation, int64, error)
	// SetOrderID stores the gateway order on a money donation still in created state
	SetOrderID(ctx context.Context, donationID uuid.UUID, orderID string) error
	// MarkPaid moves a created order to paid. It reports false when the order was not in created state.
	MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error)
	// UpdateStatus moves a pending envelope to status. It reports false when the envelope was not pending.
	UpdateStatus(ctx context.Context, donationID uuid.UUID, status entities.DonationStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
