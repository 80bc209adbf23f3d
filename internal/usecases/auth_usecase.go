package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/domain/repositories"
	"givora.backend/pkg/crypto"
	"givora.backend/pkg/jwt"
	"givora.backend/pkg/logger"
	"givora.backend/pkg/redis"
	"givora.backend/pkg/utils"
)

const userPhotoFolder = "user_photos"

var validate = validator.New()

// AuthUsecase handles registration, sessions and profiles
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	jwtService   *jwt.JWTService
	sessionStore SessionStore
	imageStore   ImageStore
	now          func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
	imageStore ImageStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		imageStore:   imageStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a Donor, Volunteer or Receiver account. An uploaded photo
// takes precedence over a photo URL.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput, photo *entities.Upload) (*entities.User, error) {
	email := entities.NormalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.PhoneNumber)
	address := strings.TrimSpace(input.Address)
	role := entities.UserRole(strings.TrimSpace(input.Role))

	if firstName == "" || lastName == "" || email == "" || input.Password == "" || phone == "" || address == "" || role == "" {
		return nil, domainerrors.BadRequest("All fields are required.")
	}
	if validate.Var(email, "email") != nil {
		return nil, domainerrors.BadRequest("Enter a valid email address.")
	}
	if len(input.Password) < crypto.MinPasswordLength {
		return nil, domainerrors.BadRequest("Password must be at least 8 characters.")
	}
	if !role.Selectable() {
		return nil, domainerrors.BadRequest("Role must be one of Donor, Volunteer or Receiver.")
	}
	photoURL := strings.TrimSpace(input.Photo)
	if photo == nil && photoURL != "" && validate.Var(photoURL, "url") != nil {
		return nil, domainerrors.BadRequest("Photo must be a valid URL.")
	}

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.BadRequest("User already exists.")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phone,
		Address:      address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch {
	case photo != nil:
		key, err := u.saveImage(ctx, userPhotoFolder, photo)
		if err != nil {
			return nil, err
		}
		user.Photo = null.StringFrom(key)
	case photoURL != "":
		user.Photo = null.StringFrom(photoURL)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if photo != nil {
			u.discardPhoto(ctx, user.Photo)
		}
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.BadRequest("User already exists.")
		}
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and opens a session bound to a fresh token pair
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	email := entities.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.BadRequest("Email and password are required.")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}

	sessionID := uuid.NewString()
	tokenPair, err := u.issueSession(ctx, user, sessionID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User logged in", zap.String("user_id", user.ID.String()))
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// Authenticate validates an access token against its live session
func (u *AuthUsecase) Authenticate(ctx context.Context, accessToken string) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired token")
	}

	session, err := u.sessionStore.GetSession(ctx, claims.SessionID())
	if err != nil {
		if !errors.Is(err, redis.ErrSessionNotFound) {
			logger.Error(ctx, "Session lookup failed", zap.Error(err))
		}
		return nil, domainerrors.Unauthorized("Session expired or revoked")
	}
	if session.AccessToken != accessToken || session.UserID != claims.UserID.String() {
		return nil, domainerrors.Unauthorized("Session expired or revoked")
	}
	return claims, nil
}

// Logout revokes the session of the token
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}

// RefreshToken rotates the token pair of a live session
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domainerrors.BadRequest("refresh_token is required")
	}

	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired token")
	}

	session, err := u.sessionStore.GetSession(ctx, claims.SessionID())
	if err != nil || session.RefreshToken != refreshToken {
		return nil, domainerrors.Unauthorized("Session expired or revoked")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Session expired or revoked")
		}
		return nil, err
	}

	tokenPair, err := u.issueSession(ctx, user, claims.SessionID())
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the editable profile fields of a user
func (u *AuthUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput, photo *entities.Upload) (*entities.User, error) {
	user, err := u.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string, field string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return domainerrors.BadRequest(field + " must not be empty")
		}
		*dst = v
		return nil
	}
	for _, f := range []struct {
		dst   *string
		src   *string
		field string
	}{
		{&user.FirstName, input.FirstName, "firstname"},
		{&user.LastName, input.LastName, "lastname"},
		{&user.PhoneNumber, input.PhoneNumber, "phone_number"},
		{&user.Address, input.Address, "address"},
	} {
		if err := set(f.dst, f.src, f.field); err != nil {
			return nil, err
		}
	}

	previousPhoto := user.Photo
	switch {
	case photo != nil:
		key, err := u.saveImage(ctx, userPhotoFolder, photo)
		if err != nil {
			return nil, err
		}
		user.Photo = null.StringFrom(key)
	case input.Photo != nil:
		photoURL := strings.TrimSpace(*input.Photo)
		if photoURL != "" && validate.Var(photoURL, "url") != nil {
			return nil, domainerrors.BadRequest("Photo must be a valid URL.")
		}
		user.Photo = null.NewString(photoURL, photoURL != "")
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if photo != nil {
			u.discardPhoto(ctx, user.Photo)
		}
		return nil, err
	}
	if previousPhoto.String != user.Photo.String {
		u.discardPhoto(ctx, previousPhoto)
	}
	return user, nil
}

// ProvisionAdmin creates an Admin account or promotes an existing one.
// It reports whether a new account was created.
func (u *AuthUsecase) ProvisionAdmin(ctx context.Context, email, password, firstName, lastName string) (*entities.User, bool, error) {
	email = entities.NormalizeEmail(email)
	if validate.Var(email, "required,email") != nil {
		return nil, false, domainerrors.BadRequest("Enter a valid email address.")
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = entities.UserRoleAdmin
		if password != "" {
			if len(password) < crypto.MinPasswordLength {
				return nil, false, domainerrors.BadRequest("Password must be at least 8 characters.")
			}
			hash, err := crypto.HashPassword(password)
			if err != nil {
				return nil, false, err
			}
			existing.PasswordHash = hash
		}
		if err := u.userRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, false, err
	}

	if len(password) < crypto.MinPasswordLength {
		return nil, false, domainerrors.BadRequest("Password must be at least 8 characters.")
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	now := u.now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (u *AuthUsecase) issueSession(ctx context.Context, user *entities.User, sessionID string) (*jwt.TokenPair, error) {
	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role), sessionID)
	if err != nil {
		return nil, err
	}
	err = u.sessionStore.CreateSession(ctx, sessionID, &redis.SessionData{
		UserID:       user.ID.String(),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, u.jwtService.RefreshExpiry())
	if err != nil {
		return nil, err
	}
	return tokenPair, nil
}

func (u *AuthUsecase) saveImage(ctx context.Context, folder string, upload *entities.Upload) (string, error) {
	key, err := u.imageStore.Save(ctx, folder, upload)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidInput) {
			return "", domainerrors.BadRequest(err.Error())
		}
		return "", err
	}
	return key, nil
}

// discardPhoto removes a photo this service stored. External photo URLs are left alone.
func (u *AuthUsecase) discardPhoto(ctx context.Context, key null.String) {
	if !key.Valid || !strings.HasPrefix(key.String, userPhotoFolder+"/") {
		return
	}
	if err := u.imageStore.Delete(ctx, key.String); err != nil {
		logger.Warn(ctx, "Failed to remove user photo", zap.String("key", key.String), zap.Error(err))
	}
}

// ImageURL resolves a stored photo key
func (u *AuthUsecase) ImageURL(key string) string {
	return u.imageStore.URL(key)
}
