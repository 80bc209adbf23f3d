package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/interfaces/http/middleware"
	"givora.backend/internal/interfaces/http/response"
	"givora.backend/pkg/utils"
)

// DonationService is what the donation endpoints need from the donation usecase
type DonationService interface {
	CreateDonation(ctx context.Context, userID uuid.UUID, input *entities.DonationRequest, image *entities.Upload) (*entities.CreateDonationResult, error)
	VerifyPayment(ctx context.Context, proof entities.PaymentProof) (*entities.VerifyPaymentResult, error)
	ListUserDonations(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error)
	GetDonation(ctx context.Context, id, requesterID uuid.UUID, role entities.UserRole) (*entities.Donation, error)
	ListRecentDonations(ctx context.Context, filter entities.DonationFilter, pagination utils.PaginationParams) ([]*entities.Donation, utils.PaginationMeta, error)
	DeleteDonation(ctx context.Context, id uuid.UUID) error
	KeyID() string
	Currency() string
	ImageURL(key string) string
}

// DonationHandler handles donation endpoints
type DonationHandler struct {
	donationService DonationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreateDonation records a donation for the caller
// POST /donate
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.DonationRequest
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	image, release, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	result, err := h.donationService.CreateDonation(c.Request.Context(), userID, &input, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	if money, ok := result.Donation.Money(); ok {
		response.Success(c, http.StatusCreated, gin.H{
			"order_id":     result.OrderID,
			"razorpay_key": h.donationService.KeyID(),
			"donation_id":  result.Donation.ID,
			"amount":       money.AmountMinor(),
			"currency":     h.donationService.Currency(),
		})
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":     "Donation recorded successfully!",
		"donation_id": result.Donation.ID,
	})
}

// VerifyPayment confirms a checkout callback
// POST /donate/verify
func (h *DonationHandler) VerifyPayment(c *gin.Context) {
	var proof entities.PaymentProof
	if err := c.ShouldBind(&proof); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	result, err := h.donationService.VerifyPayment(c.Request.Context(), proof)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Payment verified successfully!",
		"donation_id": result.DonationID,
		"amount":      result.Amount.StringFixed(2),
	})
}

// ListUserDonations lists the caller's donations, newest first
// GET /user/donations
func (h *DonationHandler) ListUserDonations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	donations, err := h.donationService.ListUserDonations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]entities.DonationView, 0, len(donations))
	for _, d := range donations {
		views = append(views, entities.NewDonationView(d, h.donationService.ImageURL))
	}
	response.Success(c, http.StatusOK, views)
}

// GetDonation returns one donation with its donor
// GET /donations/:id
func (h *DonationHandler) GetDonation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound("Donation not found"))
		return
	}

	donation, err := h.donationService.GetDonation(c.Request.Context(), id, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entities.NewDonationView(donation, h.donationService.ImageURL))
}

// ListRecentDonations lists donations across all users
// GET /volunteer/donations
func (h *DonationHandler) ListRecentDonations(c *gin.Context) {
	var pagination utils.PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		response.Error(c, domainerrors.BadRequest("page and limit must be integers"))
		return
	}

	filter := entities.DonationFilter{
		Type:   entities.DonationType(c.Query("type")),
		Status: entities.DonationStatus(c.Query("status")),
	}

	donations, meta, err := h.donationService.ListRecentDonations(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]entities.DonationView, 0, len(donations))
	for _, d := range donations {
		views = append(views, entities.NewDonationView(d, h.donationService.ImageURL))
	}
	response.Paginated(c, http.StatusOK, views, meta)
}

// DeleteDonation removes a donation
// DELETE /admin/donations/:id
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound("Donation not found"))
		return
	}

	if err := h.donationService.DeleteDonation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Donation deleted"})
}
