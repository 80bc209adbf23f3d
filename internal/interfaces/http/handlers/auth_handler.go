package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/interfaces/http/middleware"
	"givora.backend/internal/interfaces/http/response"
	"givora.backend/pkg/jwt"
)

// AuthService is what the auth endpoints need from the auth usecase
type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput, photo *entities.Upload) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*jwt.Claims, error)
	Logout(ctx context.Context, sessionID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput, photo *entities.Upload) (*entities.User, error)
	ImageURL(key string) string
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type userResponse struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	Role        entities.UserRole `json:"role"`
	FirstName   string            `json:"firstname"`
	LastName    string            `json:"lastname"`
	PhoneNumber string            `json:"phone_number"`
	Address     string            `json:"address"`
	Photo       *string           `json:"photo"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (h *AuthHandler) toUserResponse(u *entities.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Photo:       imageURL(u.Photo.String, h.authService.ImageURL),
		CreatedAt:   u.CreatedAt,
	}
}

// Register handles user registration
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	photo, release, err := formUpload(c, "photo")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	user, err := h.authService.Register(c.Request.Context(), &input, photo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful!",
		"user":    h.toUserResponse(user),
	})
}

// Login handles user login
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":       "Login successful!",
		"role":          authResponse.User.Role,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"user":          h.toUserResponse(authResponse.User),
	})
}

// Logout revokes the session of the presented token. It succeeds even when
// there is nothing to revoke.
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader(middleware.AuthorizationHeader), middleware.BearerPrefix)
	if ok && strings.TrimSpace(token) != "" {
		if claims, err := h.authService.Authenticate(c.Request.Context(), strings.TrimSpace(token)); err == nil {
			if err := h.authService.Logout(c.Request.Context(), claims.SessionID()); err != nil {
				response.Error(c, err)
				return
			}
		}
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RefreshToken rotates the token pair of a session
// POST /refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	authResponse, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
	})
}

// GetUserRole returns the role of the caller
// GET /user-role
func (h *AuthHandler) GetUserRole(c *gin.Context) {
	role, ok := middleware.GetUserRole(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// GetProfile returns the caller's profile
// GET /user/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toUserResponse(user))
}

// UpdateProfile changes the caller's profile
// PUT /user/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	photo, release, err := formUpload(c, "photo")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &input, photo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toUserResponse(user))
}
