package usecases

import (
	"context"
	"time"

	"givora.backend/internal/domain/entities"
	"givora.backend/pkg/redis"
)

// PaymentGateway creates orders and verifies checkout signatures
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*entities.Order, error)
	VerifySignature(ctx context.Context, proof entities.PaymentProof) error
}

// ImageStore persists uploaded images and resolves their public URLs
type ImageStore interface {
	Save(ctx context.Context, folder string, upload *entities.Upload) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// SessionStore keeps login sessions keyed by session id
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// MetricsRecorder receives domain events worth counting
type MetricsRecorder interface {
	DonationCreated(donationType string)
	PaymentVerification(result string)
	GatewayFailure()
}

type noopMetrics struct{}

func (noopMetrics) DonationCreated(string)     {}
func (noopMetrics) PaymentVerification(string) {}
func (noopMetrics) GatewayFailure()            {}
