package shop

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/choco-corner/internal/common"
	"github.com/noah-isme/choco-corner/internal/inventory"
	"github.com/noah-isme/choco-corner/internal/pricing"
)

// Handler exposes the purchase flow over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	PageSize int
}

// QuoteRequest is the POST /quotes payload.
type QuoteRequest struct {
	Index    int `json:"index" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// PurchaseRequest is the POST /purchases payload. Confirm carries the
// caller's yes/no answer to the quoted price.
type PurchaseRequest struct {
	Index    int  `json:"index" validate:"required,min=1"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
	Confirm  bool `json:"confirm"`
}

// PostQuote handles POST /api/v1/quotes.
func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shop service not configured", nil)
		return
	}
	var payload QuoteRequest
	if !h.decode(w, r, &payload) {
		return
	}
	quote, err := h.Svc.Quote(payload.Index, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

// PostPurchase handles POST /api/v1/purchases. Business aborts are reported
// in the result body, not as transport errors.
func (h *Handler) PostPurchase(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shop service not configured", nil)
		return
	}
	var payload PurchaseRequest
	if !h.decode(w, r, &payload) {
		return
	}
	result := h.Svc.ConfirmAndCharge(r.Context(), payload.Index, payload.Quantity, payload.Confirm)
	status := http.StatusOK
	if result.Success {
		status = http.StatusCreated
	}
	common.JSON(w, status, map[string]any{"data": result})
}

// GetInventory handles GET /api/v1/inventory.
func (h *Handler) GetInventory(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shop service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.InventorySnapshot()})
}

// GetOrders handles GET /api/v1/orders with pagination.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shop service not configured", nil)
		return
	}
	pageSize := h.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	page, perPage := common.ParsePagination(r, pageSize)
	if perPage > 100 {
		perPage = 100
	}
	orders, total := h.Svc.OrderHistoryPage(page, perPage)
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       orders,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err))
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			h.writeError(w, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err).
				WithDetails(map[string]any{"validation": err.Error()}))
			return false
		}
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if common.IsAppError(err) {
		var appErr *common.AppError
		_ = errors.As(err, &appErr)
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrUnknownProduct):
		common.JSONError(w, http.StatusNotFound, string(ReasonUnknownProduct), "no such catalog entry", nil)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		common.JSONError(w, http.StatusBadRequest, string(ReasonInvalidQuantity), "quantity must be at least 1", nil)
	case errors.Is(err, pricing.ErrInvalidPercentage):
		common.JSONError(w, http.StatusBadRequest, string(ReasonInvalidPercentage), "percentage out of range", nil)
	case errors.Is(err, inventory.ErrInsufficientStock):
		common.JSONError(w, http.StatusConflict, string(ReasonInsufficientStock), "not enough stock on hand", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
