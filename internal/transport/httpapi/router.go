package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/engine"
)

// Admin is the engine surface exposed to operators.
type Admin interface {
	Status() engine.Status
	SetMode(mode int) error
	Flush(ctx context.Context)
}

type Handler struct {
	admin  Admin
	logger *zap.Logger
}

func NewHandler(a Admin, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{admin: a, logger: logger}
}

// Router mounts the admin endpoints. Only mode and flush mutate state.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/status", h.Status)
	r.Put("/mode/{mode}", h.SetMode)
	r.Post("/flush", h.Flush)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.admin.Status())
}

func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := strconv.Atoi(chi.URLParam(r, "mode"))
	if err != nil {
		http.Error(w, "mode must be an integer", http.StatusBadRequest)
		return
	}
	if err := h.admin.SetMode(mode); err != nil {
		if errors.Is(err, engine.ErrInvalidMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.logger.Info("mode set via admin api", zap.Int("mode", mode))
	writeJSON(w, http.StatusOK, map[string]int{"mode": mode})
}

func (h *Handler) Flush(w http.ResponseWriter, r *http.Request) {
	h.admin.Flush(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
