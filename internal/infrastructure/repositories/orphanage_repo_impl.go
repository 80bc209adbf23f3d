package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/internal/infrastructure/models"
)

// OrphanageRepository implements orphanage registry operations
type OrphanageRepository struct {
	db *gorm.DB
}

// NewOrphanageRepository creates a new orphanage repository
func NewOrphanageRepository(db *gorm.DB) *OrphanageRepository {
	return &OrphanageRepository{db: db}
}

func (r *OrphanageRepository) Create(ctx context.Context, o *entities.Orphanage) error {
	m := toOrphanageModel(o)
	if err := GetDB(ctx, r.db).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OrphanageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Orphanage, error) {
	var m models.Orphanage
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toOrphanageEntity(&m), nil
}

func (r *OrphanageRepository) Update(ctx context.Context, o *entities.Orphanage) error {
	o.UpdatedAt = time.Now().UTC()
	updates := map[string]interface{}{
		"name":                   o.Name,
		"registration_number":    o.RegistrationNumber,
		"email":                  o.Email,
		"phone_number":           o.PhoneNumber,
		"website":                o.Website,
		"address":                o.Address,
		"city":                   o.City,
		"state":                  o.State,
		"country":                o.Country,
		"capacity":               o.Capacity,
		"current_children_count": o.CurrentChildrenCount,
		"primary_needs":          o.PrimaryNeeds,
		"description":            o.Description,
		"image":                  o.Image,
		"updated_at":             o.UpdatedAt,
	}

	result := GetDB(ctx, r.db).Model(&models.Orphanage{}).Where("id = ?", o.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OrphanageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Orphanage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List returns orphanages newest first. Search matches name, city and primary needs.
func (r *OrphanageRepository) List(ctx context.Context, filter entities.OrphanageFilter, limit, offset int) ([]*entities.Orphanage, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if city := strings.TrimSpace(filter.City); city != "" {
			db = db.Where("LOWER(city) = ?", strings.ToLower(city))
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			term := "%" + strings.ToLower(search) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(primary_needs) LIKE ?", term, term, term)
		}
		return db
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Orphanage{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Orphanage
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Orphanage, 0, len(ms))
	for i := range ms {
		out = append(out, toOrphanageEntity(&ms[i]))
	}
	return out, total, nil
}

func toOrphanageModel(o *entities.Orphanage) *models.Orphanage {
	return &models.Orphanage{
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
		Image:                o.Image,
		AddedBy:              o.AddedBy,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func toOrphanageEntity(m *models.Orphanage) *entities.Orphanage {
	return &entities.Orphanage{
		ID:                   m.ID,
		Name:                 m.Name,
		RegistrationNumber:   m.RegistrationNumber,
		Email:                m.Email,
		PhoneNumber:          m.PhoneNumber,
		Website:              m.Website,
		Address:              m.Address,
		City:                 m.City,
		State:                m.State,
		Country:              m.Country,
		Capacity:             m.Capacity,
		CurrentChildrenCount: m.CurrentChildrenCount,
		PrimaryNeeds:         m.PrimaryNeeds,
		Description:          m.Description,
		Image:                m.Image,
		AddedBy:              m.AddedBy,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
