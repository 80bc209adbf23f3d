package repositories

import (
	"context"

	"github.com/google/uuid"

	"givora.backend/internal/domain/entities"
)

// OrphanageRepository defines orphanage registry operations
type OrphanageRepository interface {
	Create(ctx context.Context, orphanage *entities.Orphanage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error)
	Update(ctx context.Context, orphanage *entities.Orphanage) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter entities.OrphanageFilter, limit, offset int) ([]*entities.Orphanage, int64, error)
}
