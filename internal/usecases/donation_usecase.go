package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/domain/repositories"
	"givora.backend/internal/infrastructure/metrics"
	"givora.backend/pkg/logger"
	"givora.backend/pkg/utils"
)

const (
	itemImageFolder = "item_donations"

	defaultListLimit = 20
	maxListLimit     = 100
)

// DonationUsecase runs the donation lifecycle and payment confirmation
type DonationUsecase struct {
	donationRepo repositories.DonationRepository
	uow          repositories.UnitOfWork
	gateway      PaymentGateway
	imageStore   ImageStore
	metrics      MetricsRecorder
	currency     string
	now          func() time.Time
}

// NewDonationUsecase creates a new donation usecase. A nil recorder disables metrics.
func NewDonationUsecase(
	donationRepo repositories.DonationRepository,
	uow repositories.UnitOfWork,
	gateway PaymentGateway,
	imageStore ImageStore,
	recorder MetricsRecorder,
	currency string,
) *DonationUsecase {
	if recorder == nil {
		recorder = noopMetrics{}
	}
	if currency == "" {
		currency = "INR"
	}
	return &DonationUsecase{
		donationRepo: donationRepo,
		uow:          uow,
		gateway:      gateway,
		imageStore:   imageStore,
		metrics:      recorder,
		currency:     currency,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Currency is the fixed currency of money donations
func (u *DonationUsecase) Currency() string {
	return u.currency
}

// KeyID is the public gateway key handed to checkout clients
func (u *DonationUsecase) KeyID() string {
	return u.gateway.KeyID()
}

// CreateDonation records a donation for userID. Money donations stay pending
// with a gateway order attached; every other kind completes immediately.
func (u *DonationUsecase) CreateDonation(ctx context.Context, userID uuid.UUID, input *entities.DonationRequest, image *entities.Upload) (*entities.CreateDonationResult, error) {
	details, err := input.Details()
	if err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	donation := &entities.Donation{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Type:      details.Type(),
		Status:    entities.DonationStatusPending,
		CreatedAt: u.now(),
		Details:   details,
	}

	var imageKey string
	if item, ok := details.(*entities.ItemDetails); ok && image != nil {
		imageKey, err = u.imageStore.Save(ctx, itemImageFolder, image)
		if err != nil {
			if errors.Is(err, domainerrors.ErrInvalidInput) {
				return nil, domainerrors.BadRequest(err.Error())
			}
			return nil, err
		}
		item.Image = null.StringFrom(imageKey)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.donationRepo.Create(txCtx, donation); err != nil {
			return err
		}
		if donation.Type == entities.DonationTypeMoney {
			return nil
		}
		if _, err := u.donationRepo.UpdateStatus(txCtx, donation.ID, entities.DonationStatusCompleted); err != nil {
			return err
		}
		donation.Status = entities.DonationStatusCompleted
		return nil
	})
	if err != nil {
		if imageKey != "" {
			if delErr := u.imageStore.Delete(ctx, imageKey); delErr != nil {
				logger.Warn(ctx, "Failed to remove orphaned image", zap.String("key", imageKey), zap.Error(delErr))
			}
		}
		return nil, err
	}
	u.metrics.DonationCreated(string(donation.Type))

	if donation.Type != entities.DonationTypeMoney {
		logger.Info(ctx, "Donation completed",
			zap.String("donation_id", donation.ID.String()),
			zap.String("type", string(donation.Type)),
		)
		return &entities.CreateDonationResult{Donation: donation}, nil
	}

	return u.openOrder(ctx, donation)
}

// openOrder creates the gateway order outside any transaction
func (u *DonationUsecase) openOrder(ctx context.Context, donation *entities.Donation) (*entities.CreateDonationResult, error) {
	money, _ := donation.Money()

	order, err := u.gateway.CreateOrder(ctx, money.AmountMinor(), u.currency, donation.ID.String())
	if err != nil {
		u.metrics.GatewayFailure()
		logger.Error(ctx, "Gateway order creation failed",
			zap.String("donation_id", donation.ID.String()),
			zap.Error(err),
		)
		if _, markErr := u.donationRepo.UpdateStatus(ctx, donation.ID, entities.DonationStatusFailed); markErr != nil {
			logger.Error(ctx, "Failed to mark donation failed", zap.String("donation_id", donation.ID.String()), zap.Error(markErr))
		}
		return nil, domainerrors.Upstream(err)
	}

	if err := u.donationRepo.SetOrderID(ctx, donation.ID, order.ID); err != nil {
		logger.Error(ctx, "Failed to store gateway order, order is orphaned",
			zap.String("donation_id", donation.ID.String()),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		if _, markErr := u.donationRepo.UpdateStatus(ctx, donation.ID, entities.DonationStatusFailed); markErr != nil {
			logger.Error(ctx, "Failed to mark donation failed", zap.String("donation_id", donation.ID.String()), zap.Error(markErr))
		}
		return nil, err
	}
	money.OrderID = null.StringFrom(order.ID)

	logger.Info(ctx, "Payment order created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("order_id", order.ID),
		zap.Int64("amount_minor", money.AmountMinor()),
	)
	return &entities.CreateDonationResult{Donation: donation, OrderID: order.ID}, nil
}

// VerifyPayment confirms a checkout callback. Replaying an accepted callback
// returns the original confirmation without writing.
func (u *DonationUsecase) VerifyPayment(ctx context.Context, proof entities.PaymentProof) (*entities.VerifyPaymentResult, error) {
	proof.OrderID = strings.TrimSpace(proof.OrderID)
	proof.PaymentID = strings.TrimSpace(proof.PaymentID)
	proof.Signature = strings.TrimSpace(proof.Signature)
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return nil, domainerrors.BadRequest("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}

	donation, err := u.donationRepo.GetByOrderID(ctx, proof.OrderID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Donation not found for this order")
		}
		return nil, err
	}
	money, ok := donation.Money()
	if !ok {
		return nil, domainerrors.NotFound("Donation not found for this order")
	}

	if err := u.gateway.VerifySignature(ctx, proof); err != nil {
		u.metrics.PaymentVerification(metrics.VerifyRejected)
		if errors.Is(err, domainerrors.ErrInvalidSignature) {
			logger.Warn(ctx, "Payment signature rejected", zap.String("order_id", proof.OrderID))
			return nil, domainerrors.InvalidSignature()
		}
		return nil, err
	}

	result := &entities.VerifyPaymentResult{DonationID: donation.ID, Amount: money.Amount}

	if money.PaymentStatus == entities.PaymentStatusPaid {
		return u.replayed(ctx, money, proof, result)
	}

	var swapped, notPending bool
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		swapped, err = u.donationRepo.MarkPaid(txCtx, proof.OrderID, proof.PaymentID)
		if err != nil || !swapped {
			return err
		}
		completed, err := u.donationRepo.UpdateStatus(txCtx, donation.ID, entities.DonationStatusCompleted)
		if err != nil {
			return err
		}
		if !completed {
			// a paid detail must never commit on an envelope that left pending
			notPending = true
			return domainerrors.Conflict("Donation is no longer awaiting payment")
		}
		return nil
	})
	if err != nil {
		if notPending {
			u.metrics.PaymentVerification(metrics.VerifyConflict)
			logger.Warn(ctx, "Payment arrived for a donation that is not pending",
				zap.String("donation_id", donation.ID.String()),
				zap.String("order_id", proof.OrderID),
				zap.String("payment_id", proof.PaymentID),
			)
		}
		return nil, err
	}

	if !swapped {
		// a concurrent callback won the swap
		current, err := u.donationRepo.GetByOrderID(ctx, proof.OrderID)
		if err != nil {
			return nil, err
		}
		currentMoney, _ := current.Money()
		if currentMoney == nil || currentMoney.PaymentStatus != entities.PaymentStatusPaid {
			u.metrics.PaymentVerification(metrics.VerifyConflict)
			return nil, domainerrors.Conflict("Payment could not be confirmed for this order")
		}
		return u.replayed(ctx, currentMoney, proof, result)
	}

	u.metrics.PaymentVerification(metrics.VerifyPaid)
	logger.Info(ctx, "Payment verified",
		zap.String("donation_id", donation.ID.String()),
		zap.String("order_id", proof.OrderID),
		zap.String("payment_id", proof.PaymentID),
	)
	return result, nil
}

func (u *DonationUsecase) replayed(ctx context.Context, money *entities.MoneyDetails, proof entities.PaymentProof, result *entities.VerifyPaymentResult) (*entities.VerifyPaymentResult, error) {
	if money.PaymentID.String != proof.PaymentID {
		u.metrics.PaymentVerification(metrics.VerifyConflict)
		logger.Warn(ctx, "Order already paid with another payment",
			zap.String("order_id", proof.OrderID),
			zap.String("payment_id", proof.PaymentID),
		)
		return nil, domainerrors.Conflict("Order is already paid with a different payment")
	}
	u.metrics.PaymentVerification(metrics.VerifyDuplicate)
	return result, nil
}

// ListUserDonations returns the donations of userID, newest first
func (u *DonationUsecase) ListUserDonations(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error) {
	return u.donationRepo.ListByUser(ctx, userID)
}

// GetDonation returns one donation to its owner or an Admin
func (u *DonationUsecase) GetDonation(ctx context.Context, id, requesterID uuid.UUID, role entities.UserRole) (*entities.Donation, error) {
	donation, err := u.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Donation not found")
		}
		return nil, err
	}
	if donation.UserID != requesterID && role != entities.UserRoleAdmin {
		return nil, domainerrors.Forbidden("You are not allowed to view this donation")
	}
	return donation, nil
}

// ListRecentDonations lists donations across all users, newest first
func (u *DonationUsecase) ListRecentDonations(ctx context.Context, filter entities.DonationFilter, pagination utils.PaginationParams) ([]*entities.Donation, utils.PaginationMeta, error) {
	if filter.Type != "" {
		t, err := entities.ParseDonationType(string(filter.Type))
		if err != nil {
			return nil, utils.PaginationMeta{}, domainerrors.BadRequest(err.Error())
		}
		filter.Type = t
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest("status must be one of pending, completed or failed")
	}

	pagination = clampPagination(pagination)
	donations, total, err := u.donationRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return donations, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// DeleteDonation removes a donation and its detail row
func (u *DonationUsecase) DeleteDonation(ctx context.Context, id uuid.UUID) error {
	var imageKey string
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		donation, err := u.donationRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if item, ok := donation.Details.(*entities.ItemDetails); ok && item.Image.Valid {
			imageKey = item.Image.String
		}
		return u.donationRepo.Delete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("Donation not found")
		}
		return err
	}

	if imageKey != "" {
		if err := u.imageStore.Delete(ctx, imageKey); err != nil {
			logger.Warn(ctx, "Failed to remove donation image", zap.String("key", imageKey), zap.Error(err))
		}
	}
	logger.Info(ctx, "Donation deleted", zap.String("donation_id", id.String()))
	return nil
}

// ImageURL resolves a stored image key
func (u *DonationUsecase) ImageURL(key string) string {
	return u.imageStore.URL(key)
}

func clampPagination(p utils.PaginationParams) utils.PaginationParams {
	p = utils.GetPaginationParams(p.Page, p.Limit)
	if p.Limit == 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	return p
}
