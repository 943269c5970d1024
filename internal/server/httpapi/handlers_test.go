package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/dmitrijs2005/usermanagement/internal/server/models"
	"github.com/dmitrijs2005/usermanagement/internal/server/services/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_BadInput(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body.", decodeBody(t, rec)["message"])

	rec = api.do(t, http.MethodPost, "/register", "", map[string]string{"username": "alice", "email": "alice@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username, email and password are required.", decodeBody(t, rec)["message"])
}

func TestOverlongPasswordIsReported(t *testing.T) {
	api := newTestAPI(t)
	long := strings.Repeat("p", 73)

	rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": long,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at most 72 bytes.", decodeBody(t, rec)["message"])

	token := api.register(t, "bob", "bob@x.com", "pw")
	rec = api.do(t, http.MethodPatch, "/user", token, map[string]string{
		"username": "bob", "email": "bob@x.com", "password": long,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at most 72 bytes.", decodeBody(t, rec)["message"])
}

func TestRegister_DuplicateIsInternalFault(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "alice", "alice@x.com", "pw")

	rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice2", "email": "alice@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error registering new user.", body["message"])
	assert.Contains(t, body["error"], "already exists")
}

func TestLogin_UnknownEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ghost@x.com", "password": "pw"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "User not found."}, decodeBody(t, rec))
}

func TestUpdateUser(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice", "alice@x.com", "pw")
	api.register(t, "bob", "bob@x.com", "pw")

	rec := api.do(t, http.MethodPatch, "/user", token, map[string]string{"username": "alicia"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/user", token, map[string]string{
		"username": "alicia", "email": "bob@x.com", "password": "pw2",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error updating user.", decodeBody(t, rec)["message"])

	rec = api.do(t, http.MethodPatch, "/user", token, map[string]string{
		"username": "alicia", "email": "alicia@x.com", "password": "pw2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alicia", body["username"])
	assert.Equal(t, "alicia@x.com", body["email"])
	assert.Contains(t, body, "updated_at")
	assert.Contains(t, body, "userId")

	rec = api.do(t, http.MethodPost, "/login", "", map[string]string{"email": "alicia@x.com", "password": "pw2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserByID(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice", "alice@x.com", "pw")
	bobToken := api.register(t, "bob", "bob@x.com", "pw")
	rootToken := api.register(t, "root", "root@x.com", "pw")

	root, err := api.store.FindByEmail(context.Background(), "root@x.com")
	require.NoError(t, err)
	require.NoError(t, api.store.AssignRole(context.Background(), root.ID, models.RoleAdmin))

	bob, err := api.store.FindByEmail(context.Background(), "bob@x.com")
	require.NoError(t, err)
	bobPath := "/user/" + strconv.FormatInt(bob.ID, 10)

	rec := api.do(t, http.MethodGet, bobPath, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bob", body["username"])
	assert.Equal(t, []any{"user"}, body["roles"])

	rec = api.do(t, http.MethodGet, bobPath, aliceToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"message": "Access denied."}, decodeBody(t, rec))

	rec = api.do(t, http.MethodGet, bobPath, rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob@x.com", decodeBody(t, rec)["email"])

	rec = api.do(t, http.MethodGet, "/user/999", rootToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		rec = api.do(t, http.MethodGet, "/user/"+bad, rootToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.Equal(t, "Invalid user id.", decodeBody(t, rec)["message"])
	}
}

type brokenStore struct{ *memstore.Store }

func (brokenStore) FindByID(context.Context, int64) (*models.Account, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) FindByEmail(context.Context, string) (*models.Account, error) {
	return nil, errors.New("connection refused")
}

func TestInternalFaultsCarryErrorField(t *testing.T) {
	api := newTestAPIWithStore(t, brokenStore{memstore.New()})

	rec := api.do(t, http.MethodPost, "/login", "", map[string]string{"email": "a@x.com", "password": "pw"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"message": "Error logging in.", "error": "connection refused"}, decodeBody(t, rec))

	token, err := api.tokens.Issue(testIdentity)
	require.NoError(t, err)

	rec = api.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error retrieving user.", decodeBody(t, rec)["message"])
	assert.Equal(t, "connection refused", decodeBody(t, rec)["error"])
}

func TestHandlerWithoutGuardRefuses(t *testing.T) {
	api := newTestAPI(t)
	h := NewHandler(nil, api.metrics, nil)

	rec := httptest.NewRecorder()
	h.GetUser(rec, httptest.NewRequest(http.MethodGet, "/user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
