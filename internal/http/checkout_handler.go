package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/service"
)

// CheckoutAPI is the slice of the checkout service the handlers consume.
type CheckoutAPI interface {
	PlaceOrder(ctx context.Context, ownerID string, req *service.PlaceOrderRequest) (*domain.Order, error)
	AddShippingAddress(ctx context.Context, ownerID string, addr *domain.Address) (*domain.Address, error)
	AddBillingAddress(ctx context.Context, ownerID string, addr *domain.Address) (*domain.Address, error)
	ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error)
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
}

func NewCheckoutHandler(checkout CheckoutAPI) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type AddressRequestDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req service.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), ownerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrNoShippingAddress),
			errors.Is(err, service.ErrNoBillingAddress),
			errors.Is(err, service.ErrTooManyPreferredDates):
			respondError(w, http.StatusUnprocessableEntity, "checkout_rejected", err.Error())
		case errors.Is(err, service.ErrNotAuthenticated):
			respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) AddShippingAddress(w http.ResponseWriter, r *http.Request) {
	h.addAddress(w, r, h.checkout.AddShippingAddress)
}

func (h *CheckoutHandler) AddBillingAddress(w http.ResponseWriter, r *http.Request) {
	h.addAddress(w, r, h.checkout.AddBillingAddress)
}

func (h *CheckoutHandler) addAddress(
	w http.ResponseWriter,
	r *http.Request,
	add func(ctx context.Context, ownerID string, addr *domain.Address) (*domain.Address, error),
) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Street == "" || req.City == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "street and city are required")
		return
	}

	addr, err := add(r.Context(), ownerID, &domain.Address{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "address_save_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, addr)
}

func (h *CheckoutHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	addresses, err := h.checkout.ListAddresses(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "address_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, addresses)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.checkout.ListOrders(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "order_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, orders)
}
