package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"espbridge/internal/application"
	"espbridge/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Handler exposes the integration service over REST.
type Handler struct {
	service  *application.IntegrationService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates the REST handler for ESP integrations.
func NewHandler(service *application.IntegrationService, logger zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes mounts the integration endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/integrations/esp", func(r chi.Router) {
		r.Post("/", h.CreateIntegration)
		r.Get("/", h.ListIntegrations)
		r.Get("/lists", h.GetLists)
		r.Get("/contacts", h.GetContacts)
	})
}

type createIntegrationRequest struct {
	Provider string `json:"provider" validate:"required"`
	APIKey   string `json:"apiKey" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateIntegration handles POST /api/integrations/esp.
func (h *Handler) CreateIntegration(w http.ResponseWriter, r *http.Request) {
	var req createIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "provider and apiKey are required"})
		return
	}

	integration, err := h.service.CreateIntegration(r.Context(), req.Provider, req.APIKey)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, integration)
}

// ListIntegrations handles GET /api/integrations/esp.
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.service.ListIntegrations(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, integrations)
}

// GetLists handles GET /api/integrations/esp/lists?id=.
func (h *Handler) GetLists(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetLists(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GetContacts handles GET /api/integrations/esp/contacts?id=.
func (h *Handler) GetContacts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetContacts(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// writeError maps each error class to its fixed transport status. Adapter
// errors are never reclassified here, only translated.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "integration not found"})
		return
	}

	if kind, ok := domain.KindOf(err); ok {
		switch kind {
		case domain.KindInvalidCredentials:
			h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
		case domain.KindRateLimited:
			h.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Rate limit from provider"})
		default:
			h.logger.Error().Err(err).Msg("Provider unavailable")
			h.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to reach provider"})
		}
		return
	}

	h.logger.Error().Err(err).Msg("Unhandled error")
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
