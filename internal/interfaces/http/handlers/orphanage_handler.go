package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/interfaces/http/middleware"
	"givora.backend/internal/interfaces/http/response"
	"givora.backend/pkg/utils"
)

// OrphanageService is what the registry endpoints need from the orphanage usecase
type OrphanageService interface {
	CreateOrphanage(ctx context.Context, userID uuid.UUID, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error)
	GetOrphanage(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error)
	UpdateOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error)
	DeleteOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole) error
	ListOrphanages(ctx context.Context, filter entities.OrphanageFilter, pagination utils.PaginationParams) ([]*entities.Orphanage, utils.PaginationMeta, error)
	ImageURL(key string) string
}

// OrphanageHandler handles orphanage registry endpoints
type OrphanageHandler struct {
	orphanageService OrphanageService
}

// NewOrphanageHandler creates a new orphanage handler
func NewOrphanageHandler(orphanageService OrphanageService) *OrphanageHandler {
	return &OrphanageHandler{orphanageService: orphanageService}
}

type orphanageResponse struct {
	ID                   uuid.UUID   `json:"id"`
	Name                 string      `json:"name"`
	RegistrationNumber   null.String `json:"registration_number"`
	Email                null.String `json:"email"`
	PhoneNumber          null.String `json:"phone_number"`
	Website              null.String `json:"website"`
	Address              string      `json:"address"`
	City                 null.String `json:"city"`
	State                null.String `json:"state"`
	Country              null.String `json:"country"`
	Capacity             int         `json:"capacity"`
	CurrentChildrenCount int         `json:"current_children_count"`
	PrimaryNeeds         null.String `json:"primary_needs"`
	Description          null.String `json:"description"`
	Image                *string     `json:"image"`
	AddedBy              *uuid.UUID  `json:"added_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (h *OrphanageHandler) toResponse(o *entities.Orphanage) orphanageResponse {
	return orphanageResponse{
		ID:                   o.ID,
		Name:                 o.Name,
		RegistrationNumber:   o.RegistrationNumber,
		Email:                o.Email,
		PhoneNumber:          o.PhoneNumber,
		Website:              o.Website,
		Address:              o.Address,
		City:                 o.City,
		State:                o.State,
		Country:              o.Country,
		Capacity:             o.Capacity,
		CurrentChildrenCount: o.CurrentChildrenCount,
		PrimaryNeeds:         o.PrimaryNeeds,
		Description:          o.Description,
		Image:                imageURL(o.Image.String, h.orphanageService.ImageURL),
		AddedBy:              o.AddedBy,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ListOrphanages lists the registry; also mounted unauthenticated
// GET /orphanages, GET /public/orphanages
func (h *OrphanageHandler) ListOrphanages(c *gin.Context) {
	var pagination utils.PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		response.Error(c, domainerrors.BadRequest("page and limit must be integers"))
		return
	}
	filter := entities.OrphanageFilter{City: c.Query("city"), Search: c.Query("search")}

	orphanages, meta, err := h.orphanageService.ListOrphanages(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]orphanageResponse, 0, len(orphanages))
	for _, o := range orphanages {
		items = append(items, h.toResponse(o))
	}
	response.Paginated(c, http.StatusOK, items, meta)
}

// CreateOrphanage adds a registry entry owned by the caller
// POST /orphanages
func (h *OrphanageHandler) CreateOrphanage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.OrphanageInput
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

	orphanage, err := h.orphanageService.CreateOrphanage(c.Request.Context(), userID, &input, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.toResponse(orphanage))
}

// GetOrphanage returns one registry entry
// GET /orphanages/:id
func (h *OrphanageHandler) GetOrphanage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound("Orphanage not found"))
		return
	}

	orphanage, err := h.orphanageService.GetOrphanage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(orphanage))
}

// UpdateOrphanage replaces a registry entry
// PUT /orphanages/:id
func (h *OrphanageHandler) UpdateOrphanage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound("Orphanage not found"))
		return
	}

	var input entities.OrphanageInput
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

	orphanage, err := h.orphanageService.UpdateOrphanage(c.Request.Context(), id, userID, role, &input, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(orphanage))
}

// DeleteOrphanage removes a registry entry
// DELETE /orphanages/:id
func (h *OrphanageHandler) DeleteOrphanage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound("Orphanage not found"))
		return
	}

	if err := h.orphanageService.DeleteOrphanage(c.Request.Context(), id, userID, role); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Orphanage deleted"})
}
