package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innovation-admin/internal/audit"
	jwttoken "innovation-admin/internal/jwt_token"
	"innovation-admin/internal/users/models"
	"innovation-admin/internal/users/service"
	userstore "innovation-admin/internal/users/store"
	"innovation-admin/internal/validation"
	valmodels "innovation-admin/internal/validation/models"
	valstore "innovation-admin/internal/validation/store"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/platform/tx"
)

const adminToken = "valid-admin-token"

type stubValidator struct {
	role string
}

func (v *stubValidator) ValidateToken(token string) (*jwttoken.Claims, error) {
	if token != adminToken {
		return nil, errors.New("invalid token")
	}
	return &jwttoken.Claims{UserID: uuid.NewString(), Role: v.role}, nil
}

// fixture wires the real lifecycle service over the in-memory stores so the
// routes exercise actual rule evaluation.
type fixture struct {
	gateway *valstore.MemoryStore
	store   *userstore.MemoryStore
	router  chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gateway := valstore.NewMemoryStore()
	store := userstore.NewMemory(gateway)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(validation.NewRegistry(gateway), store, tx.NoopRunner{},
		audit.NewMemoryPublisher())

	h := New(svc, logger, nil, &stubValidator{role: string(id.RoleTypeAdmin)})
	router := chi.NewRouter()
	h.Register(router)
	return &fixture{gateway: gateway, store: store, router: router}
}

func (f *fixture) seedUser(t *testing.T) id.UserID {
	t.Helper()
	userID := id.UserID(uuid.New())
	f.store.Seed(models.User{
		ID:        userID,
		Email:     userID.String() + "@example.com",
		Name:      "Handler Test",
		CreatedAt: time.Now(),
	})
	return userID
}

func (f *fixture) seedRole(t *testing.T, userID id.UserID, roleType id.RoleType) valmodels.Role {
	t.Helper()
	role := valmodels.Role{
		ID:        id.RoleID(uuid.New()),
		UserID:    userID,
		Type:      roleType,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	f.gateway.SeedRole(role)
	return role
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestUserRoutes_Auth(t *testing.T) {
	f := newFixture(t)
	path := "/admin/v1/users/" + uuid.NewString() + "/lock"

	t.Run("rejects missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects non-admin token", func(t *testing.T) {
		gateway := valstore.NewMemoryStore()
		store := userstore.NewMemory(gateway)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := service.New(validation.NewRegistry(gateway), store, tx.NoopRunner{},
			audit.NewMemoryPublisher())
		h := New(svc, logger, nil, &stubValidator{role: string(id.RoleTypeInnovator)})
		router := chi.NewRouter()
		h.Register(router)

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestUserRoutes_LockUnlock(t *testing.T) {
	f := newFixture(t)

	t.Run("locks and unlocks a user", func(t *testing.T) {
		userID := f.seedUser(t)
		f.seedRole(t, userID, id.RoleTypeInnovator)

		rec := f.do(t, http.MethodPost, "/admin/v1/users/"+userID.String()+"/lock", nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		user, err := f.store.GetUser(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, user.Locked())

		rec = f.do(t, http.MethodPost, "/admin/v1/users/"+userID.String()+"/unlock", nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		user, err = f.store.GetUser(t.Context(), userID)
		require.NoError(t, err)
		assert.False(t, user.Locked())
	})

	t.Run("refuses to lock the sole assessment user", func(t *testing.T) {
		userID := f.seedUser(t)
		f.seedRole(t, userID, id.RoleTypeAssessment)

		rec := f.do(t, http.MethodPost, "/admin/v1/users/"+userID.String()+"/lock", nil, adminToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/admin/v1/users/"+uuid.NewString()+"/lock", nil, adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed user id is 422", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/admin/v1/users/not-a-uuid/lock", nil, adminToken)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUserRoutes_Delete(t *testing.T) {
	f := newFixture(t)

	t.Run("deletes an innovator", func(t *testing.T) {
		userID := f.seedUser(t)
		f.seedRole(t, userID, id.RoleTypeInnovator)

		rec := f.do(t, http.MethodDelete, "/admin/v1/users/"+userID.String(), nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := f.store.GetUser(t.Context(), userID)
		assert.Error(t, err)
	})

	t.Run("refuses to delete an admin", func(t *testing.T) {
		userID := f.seedUser(t)
		f.seedRole(t, userID, id.RoleTypeAdmin)

		rec := f.do(t, http.MethodDelete, "/admin/v1/users/"+userID.String(), nil, adminToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUserRoutes_Roles(t *testing.T) {
	f := newFixture(t)

	t.Run("adds accessor roles per unit", func(t *testing.T) {
		userID := f.seedUser(t)
		unitA := id.OrganisationUnitID(uuid.New())
		unitB := id.OrganisationUnitID(uuid.New())
		f.gateway.SeedUnit(unitA, true)
		f.gateway.SeedUnit(unitB, true)

		body := AddRoleRequest{
			RoleType:            string(id.RoleTypeAccessor),
			OrganisationUnitIDs: []string{unitA.String(), unitB.String()},
		}
		rec := f.do(t, http.MethodPost, "/admin/v1/users/"+userID.String()+"/roles", body, adminToken)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AddRoleResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Roles, 2)
	})

	t.Run("rejects an unknown role type", func(t *testing.T) {
		userID := f.seedUser(t)
		body := AddRoleRequest{RoleType: "SUPERUSER"}
		rec := f.do(t, http.MethodPost, "/admin/v1/users/"+userID.String()+"/roles", body, adminToken)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("inactivates and reactivates a role", func(t *testing.T) {
		userID := f.seedUser(t)
		role := f.seedRole(t, userID, id.RoleTypeInnovator)
		base := "/admin/v1/users/" + userID.String() + "/roles/" + role.ID.String()

		rec := f.do(t, http.MethodPatch, base+"/inactivate", nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = f.do(t, http.MethodPatch, base+"/activate", nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown role is 404", func(t *testing.T) {
		userID := f.seedUser(t)
		rec := f.do(t, http.MethodPatch,
			"/admin/v1/users/"+userID.String()+"/roles/"+uuid.NewString()+"/activate", nil, adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
