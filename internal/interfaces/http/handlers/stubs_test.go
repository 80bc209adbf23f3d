package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"givora.backend/internal/domain/entities"
	"givora.backend/internal/interfaces/http/middleware"
	"givora.backend/pkg/jwt"
	"givora.backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authServiceStub struct {
	registerFn      func(ctx context.Context, input *entities.RegisterInput, photo *entities.Upload) (*entities.User, error)
	loginFn         func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	authenticateFn  func(ctx context.Context, token string) (*jwt.Claims, error)
	logoutFn        func(ctx context.Context, sessionID string) error
	refreshFn       func(ctx context.Context, refreshToken string) (*entities.AuthResponse, error)
	getUserByIDFn   func(ctx context.Context, id uuid.UUID) (*entities.User, error)
	updateProfileFn func(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput, photo *entities.Upload) (*entities.User, error)
}

func (s authServiceStub) Register(ctx context.Context, input *entities.RegisterInput, photo *entities.Upload) (*entities.User, error) {
	return s.registerFn(ctx, input, photo)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	return s.authenticateFn(ctx, token)
}
func (s authServiceStub) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}
func (s authServiceStub) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	return s.refreshFn(ctx, refreshToken)
}
func (s authServiceStub) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.getUserByIDFn(ctx, id)
}
func (s authServiceStub) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput, photo *entities.Upload) (*entities.User, error) {
	return s.updateProfileFn(ctx, id, input, photo)
}
func (s authServiceStub) ImageURL(key string) string { return "/media/" + key }

type donationServiceStub struct {
	createFn func(ctx context.Context, userID uuid.UUID, input *entities.DonationRequest, image *entities.Upload) (*entities.CreateDonationResult, error)
	verifyFn func(ctx context.Context, proof entities.PaymentProof) (*entities.VerifyPaymentResult, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error)
	getFn    func(ctx context.Context, id, requesterID uuid.UUID, role entities.UserRole) (*entities.Donation, error)
	recentFn func(ctx context.Context, filter entities.DonationFilter, pagination utils.PaginationParams) ([]*entities.Donation, utils.PaginationMeta, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s donationServiceStub) CreateDonation(ctx context.Context, userID uuid.UUID, input *entities.DonationRequest, image *entities.Upload) (*entities.CreateDonationResult, error) {
	return s.createFn(ctx, userID, input, image)
}
func (s donationServiceStub) VerifyPayment(ctx context.Context, proof entities.PaymentProof) (*entities.VerifyPaymentResult, error) {
	return s.verifyFn(ctx, proof)
}
func (s donationServiceStub) ListUserDonations(ctx context.Context, userID uuid.UUID) ([]*entities.Donation, error) {
	return s.listFn(ctx, userID)
}
func (s donationServiceStub) GetDonation(ctx context.Context, id, requesterID uuid.UUID, role entities.UserRole) (*entities.Donation, error) {
	return s.getFn(ctx, id, requesterID, role)
}
func (s donationServiceStub) ListRecentDonations(ctx context.Context, filter entities.DonationFilter, pagination utils.PaginationParams) ([]*entities.Donation, utils.PaginationMeta, error) {
	return s.recentFn(ctx, filter, pagination)
}
func (s donationServiceStub) DeleteDonation(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s donationServiceStub) KeyID() string              { return "rzp_test_key" }
func (s donationServiceStub) Currency() string           { return "INR" }
func (s donationServiceStub) ImageURL(key string) string { return "/media/" + key }

type orphanageServiceStub struct {
	createFn func(ctx context.Context, userID uuid.UUID, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error)
	updateFn func(ctx context.Context, id, userID uuid.UUID, role entities.UserRole, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error)
	deleteFn func(ctx context.Context, id, userID uuid.UUID, role entities.UserRole) error
	listFn   func(ctx context.Context, filter entities.OrphanageFilter, pagination utils.PaginationParams) ([]*entities.Orphanage, utils.PaginationMeta, error)
}

func (s orphanageServiceStub) CreateOrphanage(ctx context.Context, userID uuid.UUID, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
	return s.createFn(ctx, userID, input, image)
}
func (s orphanageServiceStub) GetOrphanage(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error) {
	return s.getFn(ctx, id)
}
func (s orphanageServiceStub) UpdateOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
	return s.updateFn(ctx, id, userID, role, input, image)
}
func (s orphanageServiceStub) DeleteOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole) error {
	return s.deleteFn(ctx, id, userID, role)
}
func (s orphanageServiceStub) ListOrphanages(ctx context.Context, filter entities.OrphanageFilter, pagination utils.PaginationParams) ([]*entities.Orphanage, utils.PaginationMeta, error) {
	return s.listFn(ctx, filter, pagination)
}
func (s orphanageServiceStub) ImageURL(key string) string { return "/media/" + key }

// withUser stands in for AuthMiddleware
func withUser(id uuid.UUID, role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
