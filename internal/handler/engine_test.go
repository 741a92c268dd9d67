package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kiwari-pos/pricebook/internal/auth"
	"github.com/kiwari-pos/pricebook/internal/handler"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/store"
	"github.com/kiwari-pos/pricebook/internal/theme"
)

const (
	testSecret = "test-secret"
	testPin    = "2468"
)

// --- Helpers ---

type countingBroadcaster struct {
	n int
}

func (b *countingBroadcaster) ConfigUpdated() { b.n++ }

type env struct {
	router  chi.Router
	configs *store.ConfigStore
	live    *countingBroadcaster
}

func setup(t *testing.T) env {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPin), bcrypt.MinCost)
	require.NoError(t, err)

	configs := store.NewConfigStore(store.NewMemoryKV())
	live := &countingBroadcaster{}
	h := handler.NewEngineHandler(configs, live, hash, testSecret)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return env{router: r, configs: configs, live: live}
}

func engineToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, uuid.New(), auth.RoleEngine)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeDocument(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	return doc
}

// --- Document ---

func TestDocumentServesDefaults(t *testing.T) {
	e := setup(t)

	for _, path := range []string{"/config.json", "/engine/config.json"} {
		rr := do(t, e.router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

		doc := decodeDocument(t, rr)
		assert.Equal(t, theme.Default, doc["uiTheme"])
		assert.Len(t, doc["buckets"], len(pricing.DefaultBuckets()))
	}
}

// --- Login ---

func TestLoginSuccess(t *testing.T) {
	e := setup(t)

	rr := do(t, e.router, http.MethodPost, "/engine/login", "", []byte(`{"pin":"2468"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	claims, err := auth.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEngine, claims.Role)

	sessionID, err := auth.ValidateRefreshToken(testSecret, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, sessionID)
}

func TestLoginRejectsWrongPin(t *testing.T) {
	e := setup(t)

	rr := do(t, e.router, http.MethodPost, "/engine/login", "", []byte(`{"pin":"0000"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginValidation(t *testing.T) {
	e := setup(t)

	rr := do(t, e.router, http.MethodPost, "/engine/login", "", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, e.router, http.MethodPost, "/engine/login", "", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginThrottled(t *testing.T) {
	e := setup(t)

	var last int
	for i := 0; i < 10; i++ {
		rr := do(t, e.router, http.MethodPost, "/engine/login", "", []byte(`{"pin":"0000"}`))
		last = rr.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLoginThrottlePerClient(t *testing.T) {
	e := setup(t)

	login := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/engine/login", bytes.NewReader([]byte(`{"pin":"0000"}`)))
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)
		return rr.Code
	}

	var last int
	for i := 0; i < 10; i++ {
		last = login("198.51.100.7:40000")
	}
	require.Equal(t, http.StatusTooManyRequests, last)

	// A different port on the same host shares the bucket.
	assert.Equal(t, http.StatusTooManyRequests, login("198.51.100.7:40001"))
	// Another client still reaches the PIN check.
	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.9:40000"))

	req := httptest.NewRequest(http.MethodPost, "/engine/login", bytes.NewReader([]byte(`{"pin":"2468"}`)))
	req.RemoteAddr = "203.0.113.10:5000"
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRefresh(t *testing.T) {
	e := setup(t)
	sessionID := uuid.New()
	refresh, err := auth.GenerateRefreshToken(testSecret, sessionID)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"refresh_token": refresh})
	rr := do(t, e.router, http.MethodPost, "/engine/refresh", "", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	claims, err := auth.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)

	rr = do(t, e.router, http.MethodPost, "/engine/refresh", "", []byte(`{"refresh_token":"garbage"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- Editing ---

func TestEditingRequiresToken(t *testing.T) {
	e := setup(t)

	rr := do(t, e.router, http.MethodPut, "/engine/config", "", []byte(`{}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	other, err := auth.GenerateToken(testSecret, uuid.New(), "VIEWER")
	require.NoError(t, err)
	rr = do(t, e.router, http.MethodPut, "/engine/theme", other, []byte(`{"theme":"mocha"}`))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, e.live.n)
}

func TestUpdateConfigMergesAndBroadcasts(t *testing.T) {
	e := setup(t)
	body := []byte(`{
		"perSheet": {"Phones": {"470+": {"pct": null, "flat": 80}}},
		"buckets": "not a list",
		"uiTheme": "jade-mist"
	}`)

	rr := do(t, e.router, http.MethodPut, "/engine/config", engineToken(t), body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, e.live.n)

	ctx := context.Background()
	cfg := e.configs.Load(ctx)
	rule := cfg.PerSheet["Phones"]["470+"]
	require.True(t, rule.Flat.Valid)
	assert.Equal(t, "80", rule.Flat.Decimal.String())
	// Malformed buckets keep the stored table.
	assert.Len(t, cfg.Buckets, len(pricing.DefaultBuckets()))
	assert.Equal(t, "jade-mist", e.configs.Theme(ctx))

	doc := decodeDocument(t, rr)
	assert.Equal(t, "jade-mist", doc["uiTheme"])
}

func TestUpdateConfigRejectsNonObject(t *testing.T) {
	e := setup(t)

	rr := do(t, e.router, http.MethodPut, "/engine/config", engineToken(t), []byte(`[1,2,3]`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, e.live.n)
}

func TestResetConfig(t *testing.T) {
	e := setup(t)
	tok := engineToken(t)

	rr := do(t, e.router, http.MethodPut, "/engine/config", tok, []byte(`{"buckets":[["Only",1,"Infinity"]]}`))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, e.configs.Load(context.Background()).Buckets, 1)

	rr = do(t, e.router, http.MethodPost, "/engine/config/reset", tok, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, e.configs.Load(context.Background()).Buckets, len(pricing.DefaultBuckets()))
	assert.Equal(t, 2, e.live.n)
}

func TestUpdateThemeFallsBackToDefault(t *testing.T) {
	e := setup(t)
	tok := engineToken(t)

	rr := do(t, e.router, http.MethodPut, "/engine/theme", tok, []byte(`{"theme":"mocha"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"theme":"mocha"}`, rr.Body.String())

	rr = do(t, e.router, http.MethodPut, "/engine/theme", tok, []byte(`{"theme":"no-such-theme"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"theme":"`+theme.Default+`"}`, rr.Body.String())
	assert.Equal(t, theme.Default, e.configs.Theme(context.Background()))
	assert.Equal(t, 2, e.live.n)
}
