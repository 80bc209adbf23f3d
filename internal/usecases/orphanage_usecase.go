package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/domain/repositories"
	"givora.backend/pkg/logger"
	"givora.backend/pkg/utils"
)

const orphanageImageFolder = "orphanages"

// OrphanageUsecase manages the orphanage registry
type OrphanageUsecase struct {
	orphanageRepo repositories.OrphanageRepository
	imageStore    ImageStore
	now           func() time.Time
}

// NewOrphanageUsecase creates a new orphanage usecase
func NewOrphanageUsecase(orphanageRepo repositories.OrphanageRepository, imageStore ImageStore) *OrphanageUsecase {
	return &OrphanageUsecase{
		orphanageRepo: orphanageRepo,
		imageStore:    imageStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (u *OrphanageUsecase) CreateOrphanage(ctx context.Context, userID uuid.UUID, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
	if err := input.Validate(); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	now := u.now()
	addedBy := userID
	orphanage := &entities.Orphanage{
		ID:        utils.GenerateUUIDv7(),
		AddedBy:   &addedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(orphanage)

	if image != nil {
		key, err := u.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		orphanage.Image = null.StringFrom(key)
	}

	if err := u.orphanageRepo.Create(ctx, orphanage); err != nil {
		u.discardImage(ctx, orphanage.Image)
		return nil, err
	}

	logger.Info(ctx, "Orphanage created", zap.String("orphanage_id", orphanage.ID.String()))
	return orphanage, nil
}

func (u *OrphanageUsecase) GetOrphanage(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error) {
	orphanage, err := u.orphanageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Orphanage not found")
		}
		return nil, err
	}
	return orphanage, nil
}

// UpdateOrphanage replaces the editable fields. Only the creator or an Admin may write.
func (u *OrphanageUsecase) UpdateOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
	orphanage, err := u.GetOrphanage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(orphanage, userID, role) {
		return nil, domainerrors.Forbidden("You are not allowed to modify this orphanage")
	}
	if err := input.Validate(); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	previousImage := orphanage.Image
	input.Apply(orphanage)
	orphanage.UpdatedAt = u.now()

	if image != nil {
		key, err := u.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		orphanage.Image = null.StringFrom(key)
	}

	if err := u.orphanageRepo.Update(ctx, orphanage); err != nil {
		if image != nil {
			u.discardImage(ctx, orphanage.Image)
		}
		return nil, err
	}
	if image != nil {
		u.discardImage(ctx, previousImage)
	}
	return orphanage, nil
}

func (u *OrphanageUsecase) DeleteOrphanage(ctx context.Context, id, userID uuid.UUID, role entities.UserRole) error {
	orphanage, err := u.GetOrphanage(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(orphanage, userID, role) {
		return domainerrors.Forbidden("You are not allowed to delete this orphanage")
	}
	if err := u.orphanageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("Orphanage not found")
		}
		return err
	}
	u.discardImage(ctx, orphanage.Image)

	logger.Info(ctx, "Orphanage deleted", zap.String("orphanage_id", id.String()))
	return nil
}

// ListOrphanages lists the registry newest first
func (u *OrphanageUsecase) ListOrphanages(ctx context.Context, filter entities.OrphanageFilter, pagination utils.PaginationParams) ([]*entities.Orphanage, utils.PaginationMeta, error) {
	pagination = clampPagination(pagination)
	orphanages, total, err := u.orphanageRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return orphanages, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// ImageURL resolves a stored image key
func (u *OrphanageUsecase) ImageURL(key string) string {
	return u.imageStore.URL(key)
}

func canModify(o *entities.Orphanage, userID uuid.UUID, role entities.UserRole) bool {
	if role == entities.UserRoleAdmin {
		return true
	}
	return o.AddedBy != nil && *o.AddedBy == userID
}

func (u *OrphanageUsecase) saveImage(ctx context.Context, image *entities.Upload) (string, error) {
	key, err := u.imageStore.Save(ctx, orphanageImageFolder, image)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidInput) {
			return "", domainerrors.BadRequest(err.Error())
		}
		return "", err
	}
	return key, nil
}

func (u *OrphanageUsecase) discardImage(ctx context.Context, key null.String) {
	if !key.Valid || key.String == "" {
		return
	}
	if err := u.imageStore.Delete(ctx, key.String); err != nil {
		logger.Warn(ctx, "Failed to remove orphanage image", zap.String("key", key.String), zap.Error(err))
	}
}
