package handler

import (
	"net/http"

	"toppings-pos/internal/model"
	"toppings-pos/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles catalog HTTP requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Get handles GET /api/products/{projectName} requests.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectName := r.PathValue("projectName")

	catalog, err := h.service.GetCatalog(r.Context(), projectName)
	if err != nil {
		switch {
		case model.IsValidation(err):
			writeMessage(w, r, http.StatusBadRequest, err.Error(), h.logger)
		case model.IsNotFound(err):
			writeMessage(w, r, http.StatusNotFound, err.Error(), h.logger)
		default:
			writeMessage(w, r, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, catalog)
}
