package entities

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleDonor     UserRole = "Donor"
	UserRoleVolunteer UserRole = "Volunteer"
	UserRoleReceiver  UserRole = "Receiver"
	UserRoleAdmin     UserRole = "Admin"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleDonor, UserRoleVolunteer, UserRoleReceiver, UserRoleAdmin:
		return true
	}
	return false
}

// Selectable reports whether r may be chosen at registration. Admin is only
// granted by provisioning.
func (r UserRole) Selectable() bool {
	return r.Valid() && r != UserRoleAdmin
}

// User represents a user entity
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         UserRole    `json:"role"`
	FirstName    string      `json:"firstname"`
	LastName     string      `json:"lastname"`
	PhoneNumber  string      `json:"phone_number"`
	Address      string      `json:"address"`
	Photo        null.String `json:"photo"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// FullName returns "firstname lastname"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lower-cases and trims an email so it can be used as identity key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Upload is an uploaded file handed to the image store
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// RegisterInput represents input for user registration
type RegisterInput struct {
	FirstName   string `json:"firstname" form:"firstname"`
	LastName    string `json:"lastname" form:"lastname"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Address     string `json:"address" form:"address"`
	Role        string `json:"role" form:"role"`
	// Photo is an externally hosted image URL; an uploaded file takes precedence
	Photo string `json:"photo" form:"photo"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RefreshInput carries the refresh token to rotate
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// UpdateProfileInput holds the profile fields a user may change. Nil fields are left as is.
type UpdateProfileInput struct {
	FirstName   *string `json:"firstname" form:"firstname"`
	LastName    *string `json:"lastname" form:"lastname"`
	PhoneNumber *string `json:"phone_number" form:"phone_number"`
	Address     *string `json:"address" form:"address"`
	Photo       *string `json:"photo" form:"photo"`
}
