package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/pricebook/internal/auth"
	"github.com/kiwari-pos/pricebook/internal/metrics"
	mw "github.com/kiwari-pos/pricebook/internal/middleware"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"golang.org/x/crypto/bcrypt"
)

// maxDocumentSize bounds configuration bodies accepted by the editor.
const maxDocumentSize = 1 << 20

// ConfigStore defines the persistence methods needed by the Engine Room.
// Satisfied by *store.ConfigStore; narrow interface for testability.
type ConfigStore interface {
	Load(ctx context.Context) pricing.Config
	Save(ctx context.Context, cfg pricing.Config) error
	Reset(ctx context.Context) (pricing.Config, error)
	Theme(ctx context.Context) string
	SaveTheme(ctx context.Context, name string) (string, error)
	Document(ctx context.Context) ([]byte, error)
}

// Broadcaster notifies live clients that the configuration changed.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	ConfigUpdated()
}

// EngineHandler serves the configuration document and the PIN-gated editor
// that changes it.
type EngineHandler struct {
	store     ConfigStore
	live      Broadcaster
	pinHash   []byte
	jwtSecret string
	limiter   *ipLimiter
}

// NewEngineHandler creates a new EngineHandler. pinHash is a bcrypt hash of the
// Engine Room PIN. Login attempts are limited per client address to one per
// second with a burst of five.
func NewEngineHandler(store ConfigStore, live Broadcaster, pinHash []byte, jwtSecret string) *EngineHandler {
	return &EngineHandler{
		store:     store,
		live:      live,
		pinHash:   pinHash,
		jwtSecret: jwtSecret,
		limiter:   newIPLimiter(time.Second, 5),
	}
}

// RegisterRoutes registers the public document routes, login, and the
// authenticated editing routes.
func (h *EngineHandler) RegisterRoutes(r chi.Router) {
	r.Get("/config.json", h.Document)
	r.Get("/engine/config.json", h.Document)
	r.Post("/engine/login", h.Login)
	r.Post("/engine/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(h.jwtSecret))
		r.Use(mw.RequireRole(auth.RoleEngine))
		r.Put("/engine/config", h.UpdateConfig)
		r.Post("/engine/config/reset", h.ResetConfig)
		r.Put("/engine/theme", h.UpdateTheme)
	})
}

// --- Request / Response types ---

type loginRequest struct {
	Pin string `json:"pin"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// --- Handlers ---

// Document serves the current configuration, including the theme.
func (h *EngineHandler) Document(w http.ResponseWriter, r *http.Request) {
	metrics.IncConfigRead()
	h.writeDocument(r.Context(), w)
}

// Login exchanges the Engine Room PIN for a token pair.
func (h *EngineHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r) {
		metrics.IncLogin("throttled")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Pin == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin is required"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.pinHash, []byte(req.Pin)); err != nil {
		metrics.IncLogin("denied")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid pin"})
		return
	}

	metrics.IncLogin("ok")
	h.respondWithTokens(w, uuid.New())
}

// Refresh exchanges a valid refresh token for a new token pair bound to the
// same session.
func (h *EngineHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "refresh_token is required"})
		return
	}

	sessionID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}
	h.respondWithTokens(w, sessionID)
}

// UpdateConfig merges a configuration document into the stored one. Fields
// that are missing or malformed keep their stored values. A "uiTheme" field
// also sets the theme.
func (h *EngineHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	patch, err := pricing.DecodePatch(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "configuration must be a JSON object"})
		return
	}

	ctx := r.Context()
	cfg := patch.Apply(h.store.Load(ctx))
	if err := h.store.Save(ctx, cfg); err != nil {
		log.Printf("ERROR: save config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if patch.Theme != "" {
		if _, err := h.store.SaveTheme(ctx, patch.Theme); err != nil {
			log.Printf("ERROR: save theme: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	metrics.IncConfigSave("config")
	h.live.ConfigUpdated()
	h.writeDocument(ctx, w)
}

// ResetConfig restores the compiled-in defaults. The theme is kept.
func (h *EngineHandler) ResetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.store.Reset(ctx); err != nil {
		log.Printf("ERROR: reset config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	metrics.IncConfigSave("reset")
	h.live.ConfigUpdated()
	h.writeDocument(ctx, w)
}

// UpdateTheme stores the theme choice. Unknown names fall back to the default
// theme rather than failing.
func (h *EngineHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	name, err := h.store.SaveTheme(r.Context(), req.Theme)
	if err != nil {
		log.Printf("ERROR: save theme: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	metrics.IncConfigSave("theme")
	h.live.ConfigUpdated()
	writeJSON(w, http.StatusOK, themeRequest{Theme: name})
}

// --- Helpers ---

func (h *EngineHandler) writeDocument(ctx context.Context, w http.ResponseWriter) {
	doc, err := h.store.Document(ctx)
	if err != nil {
		log.Printf("ERROR: encode config document: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *EngineHandler) respondWithTokens(w http.ResponseWriter, sessionID uuid.UUID) {
	token, err := auth.GenerateToken(h.jwtSecret, sessionID, auth.RoleEngine)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, RefreshToken: refreshToken})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
