package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

// CartAPI is the slice of the cart service the handlers consume.
type CartAPI interface {
	Load(ctx context.Context, ownerID string) (*domain.Cart, []domain.CartItem, error)
	AddItem(ctx context.Context, ownerID string, productID int64, quantity int) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, ownerID string, itemID uuid.UUID) ([]domain.CartItem, error)
	Clear(ctx context.Context, ownerID string) error
}

// MergeAPI triggers reconciliation on the anonymous-to-authenticated
// transition.
type MergeAPI interface {
	MergeGuestCart(ctx context.Context, guestID, ownerID string) (*domain.Cart, []domain.CartItem, error)
}

type CartHandler struct {
	cart  CartAPI
	merge MergeAPI
}

func NewCartHandler(cart CartAPI, merge MergeAPI) *CartHandler {
	return &CartHandler{
		cart:  cart,
		merge: merge,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type MergeCartRequestDTO struct {
	GuestID string `json:"guest_id"`
}

type CartResponseDTO struct {
	Cart   *domain.Cart      `json:"cart"`
	Items  []domain.CartItem `json:"items"`
	Totals domain.Totals     `json:"totals"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, items, err := h.cart.Load(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Items: items, Totals: domain.CartTotals(items)})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	items, err := h.cart.AddItem(r.Context(), ownerID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "add_item_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, CartResponseDTO{Items: items, Totals: domain.CartTotals(items)})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a UUID")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items, err := h.cart.UpdateQuantity(r.Context(), ownerID, itemID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "update_quantity_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: items, Totals: domain.CartTotals(items)})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a UUID")
		return
	}

	items, err := h.cart.RemoveItem(r.Context(), ownerID, itemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "remove_item_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: items, Totals: domain.CartTotals(items)})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.cart.Clear(r.Context(), ownerID); err != nil {
		respondError(w, http.StatusInternalServerError, "clear_cart_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: nil, Totals: domain.Totals{}})
}

// MergeCart is invoked right after sign-in to fold the guest cart into the
// account cart.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req MergeCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.GuestID == "" {
		respondError(w, http.StatusBadRequest, "invalid_guest_id", "guest_id is required")
		return
	}

	cart, items, err := h.merge.MergeGuestCart(r.Context(), req.GuestID, ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "merge_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Items: items, Totals: domain.CartTotals(items)})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
