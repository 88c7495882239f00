package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"toppings-pos/internal/model"
	"toppings-pos/internal/requestid"
	"toppings-pos/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service       service.OrderService
	exposeDetails bool
	logger        zerolog.Logger
}

// NewOrderHandler creates a new order handler. When exposeDetails is set,
// internal failures carry the underlying error text in "details".
func NewOrderHandler(service service.OrderService, exposeDetails bool, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:       service,
		exposeDetails: exposeDetails,
		logger:        logger.With().Str("handler", "order").Logger(),
	}
}

// Submit handles POST /api/orders and POST /receive requests.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.SubmitOrder(r.Context(), &req)
	if err != nil {
		if model.IsValidation(err) {
			writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
			return
		}

		body := model.ErrorResponse{
			Error:     "failed to submit order",
			RequestID: requestid.FromContext(r.Context()),
		}
		if h.exposeDetails {
			body.Details = err.Error()
		}

		h.logger.Error().
			Err(err).
			Str("request_id", body.RequestID).
			Msg("order submission failed")
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListOrderLines(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, lines)
}

// GetByID handles GET /api/orders/{orderId} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case model.IsValidation(err):
			writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		case model.IsNotFound(err):
			writeError(w, r, http.StatusNotFound, err.Error(), h.logger)
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to retrieve order", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}
