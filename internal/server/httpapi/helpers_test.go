package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/usermanagement/internal/server/auth"
	"github.com/dmitrijs2005/usermanagement/internal/server/metrics"
	"github.com/dmitrijs2005/usermanagement/internal/server/services"
	"github.com/dmitrijs2005/usermanagement/internal/server/services/memstore"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	handler http.Handler
	store   *memstore.Store
	tokens  *auth.TokenService
	metrics *metrics.Metrics
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithStore(t, memstore.New())
}

func newTestAPIWithStore(t *testing.T, store services.AccountStore) *testAPI {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	m := metrics.New()
	svc := services.NewAuthService(store, auth.NewHasher(bcrypt.MinCost), tokens, nil)
	h := NewHandler(svc, m, nil)

	api := &testAPI{handler: NewRouter(h, tokens, m, nil), tokens: tokens, metrics: m}
	if ms, ok := store.(*memstore.Store); ok {
		api.store = ms
	}
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account over HTTP and logs it in, returning the token.
func (a *testAPI) register(t *testing.T, username, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/register", "", map[string]string{"username": username, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
