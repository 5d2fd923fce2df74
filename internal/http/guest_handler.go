package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/guestcart"
)

// GuestCartAPI is the device-local cart for anonymous visitors.
type GuestCartAPI interface {
	Load(ctx context.Context, guestID string) (*guestcart.Record, error)
	AddItem(ctx context.Context, guestID string, product *domain.Product, quantity int) (*guestcart.Record, error)
	UpdateQuantity(ctx context.Context, guestID, itemID string, quantity int) (*guestcart.Record, error)
	RemoveItem(ctx context.Context, guestID, itemID string) (*guestcart.Record, error)
	Clear(ctx context.Context, guestID string) (*guestcart.Record, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
}

type GuestCartHandler struct {
	store    GuestCartAPI
	products ProductCatalog
}

func NewGuestCartHandler(store GuestCartAPI, products ProductCatalog) *GuestCartHandler {
	return &GuestCartHandler{
		store:    store,
		products: products,
	}
}

type GuestCartResponseDTO struct {
	Cart   *guestcart.Record `json:"cart"`
	Totals domain.Totals     `json:"totals"`
}

func guestID(r *http.Request) string {
	return r.Header.Get("X-Guest-ID")
}

func (h *GuestCartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	gid := guestID(r)
	if gid == "" {
		respondError(w, http.StatusBadRequest, "missing_guest_id", "X-Guest-ID header is required")
		return
	}

	rec, err := h.store.Load(r.Context(), gid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, GuestCartResponseDTO{Cart: rec, Totals: rec.Totals()})
}

func (h *GuestCartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	gid := guestID(r)
	if gid == "" {
		respondError(w, http.StatusBadRequest, "missing_guest_id", "X-Guest-ID header is required")
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

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}

	rec, err := h.store.AddItem(r.Context(), gid, product, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "add_item_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, GuestCartResponseDTO{Cart: rec, Totals: rec.Totals()})
}

func (h *GuestCartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	gid := guestID(r)
	if gid == "" {
		respondError(w, http.StatusBadRequest, "missing_guest_id", "X-Guest-ID header is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rec, err := h.store.UpdateQuantity(r.Context(), gid, chi.URLParam(r, "item_id"), req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "update_quantity_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, GuestCartResponseDTO{Cart: rec, Totals: rec.Totals()})
}

func (h *GuestCartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	gid := guestID(r)
	if gid == "" {
		respondError(w, http.StatusBadRequest, "missing_guest_id", "X-Guest-ID header is required")
		return
	}

	rec, err := h.store.RemoveItem(r.Context(), gid, chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "remove_item_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, GuestCartResponseDTO{Cart: rec, Totals: rec.Totals()})
}

func (h *GuestCartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	gid := guestID(r)
	if gid == "" {
		respondError(w, http.StatusBadRequest, "missing_guest_id", "X-Guest-ID header is required")
		return
	}

	rec, err := h.store.Clear(r.Context(), gid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "clear_cart_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, GuestCartResponseDTO{Cart: rec, Totals: rec.Totals()})
}
