package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/pkg/utils"
)

func newOrphanageRouter(svc OrphanageService, userID uuid.UUID, role entities.UserRole) *gin.Engine {
	h := NewOrphanageHandler(svc)
	r := gin.New()
	r.GET("/public/orphanages", h.ListOrphanages)
	authed := r.Group("/orphanages", withUser(userID, role))
	authed.GET("", h.ListOrphanages)
	authed.POST("", h.CreateOrphanage)
	authed.GET("/:id", h.GetOrphanage)
	authed.PUT("/:id", h.UpdateOrphanage)
	authed.DELETE("/:id", h.DeleteOrphanage)
	return r
}

func TestOrphanageHandler_Create(t *testing.T) {
	userID := uuid.New()
	svc := orphanageServiceStub{
		createFn: func(_ context.Context, uid uuid.UUID, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, 12, input.Capacity)
			require.NotNil(t, image)
			o := &entities.Orphanage{ID: uuid.New(), AddedBy: &uid, Image: null.StringFrom("orphanages/h.png")}
			input.Apply(o)
			return o, nil
		},
	}

	req := multipartRequest(t, http.MethodPost, "/orphanages", map[string]string{"name": "Sunrise", "address": "Pune", "capacity": "12"}, "image", "h.png", []byte("png"))
	w := serve(newOrphanageRouter(svc, userID, entities.UserRoleDonor), req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Sunrise", body["name"])
	assert.Equal(t, "/media/orphanages/h.png", body["image"])
	assert.Nil(t, body["city"])
}

func TestOrphanageHandler_PublicList(t *testing.T) {
	svc := orphanageServiceStub{
		listFn: func(_ context.Context, filter entities.OrphanageFilter, p utils.PaginationParams) ([]*entities.Orphanage, utils.PaginationMeta, error) {
			assert.Equal(t, "Pune", filter.City)
			assert.Equal(t, "books", filter.Search)
			return []*entities.Orphanage{{ID: uuid.New(), Name: "A"}}, utils.CalculateMeta(1, 1, 20), nil
		},
	}

	w := serve(newOrphanageRouter(svc, uuid.Nil, ""), jsonRequest(t, http.MethodGet, "/public/orphanages?city=Pune&search=books", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)
}

func TestOrphanageHandler_GetUpdateDelete(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	svc := orphanageServiceStub{
		getFn: func(_ context.Context, oid uuid.UUID) (*entities.Orphanage, error) {
			if oid != id {
				return nil, domainerrors.NotFound("Orphanage not found")
			}
			return &entities.Orphanage{ID: id, Name: "A"}, nil
		},
		updateFn: func(_ context.Context, oid, uid uuid.UUID, role entities.UserRole, input *entities.OrphanageInput, image *entities.Upload) (*entities.Orphanage, error) {
			assert.Nil(t, image)
			return nil, domainerrors.Forbidden("You are not allowed to modify this orphanage")
		},
		deleteFn: func(_ context.Context, oid, uid uuid.UUID, role entities.UserRole) error {
			assert.Equal(t, entities.UserRoleAdmin, role)
			return nil
		},
	}
	r := newOrphanageRouter(svc, userID, entities.UserRoleAdmin)

	assert.Equal(t, http.StatusOK, serve(r, jsonRequest(t, http.MethodGet, "/orphanages/"+id.String(), nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, jsonRequest(t, http.MethodGet, "/orphanages/"+uuid.NewString(), nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, jsonRequest(t, http.MethodGet, "/orphanages/bad", nil)).Code)

	w := serve(r, jsonRequest(t, http.MethodPut, "/orphanages/"+id.String(), map[string]any{"name": "B", "address": "C"}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, jsonRequest(t, http.MethodDelete, "/orphanages/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
