package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/guestcart"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
)

func guestRecordAB() *guestcart.Record {
	now := time.Now()
	return &guestcart.Record{
		ID: "guest-abc",
		Items: []guestcart.Item{
			{ID: "i1", ProductID: 1, ProductName: "Flash Sheet Classic", Quantity: 2, UnitPrice: 10.00, Status: domain.ProductStatusAvailable},
			{ID: "i2", ProductID: 2, ProductName: "Aftercare Balm", Quantity: 1, UnitPrice: 20.00, Status: domain.ProductStatusAvailable},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMergeGuestCart_NoRemoteCart(t *testing.T) {
	repo := newMockCartRepository()
	guest := &mockGuestStore{rec: guestRecordAB()}
	rec := NewReconciler(guest, repo, &recordingNotifier{})

	cart, items, err := rec.MergeGuestCart(context.Background(), "guest-abc", "user-1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Equal(t, "user-1", cart.OwnerID)

	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 10.00, items[0].UnitPrice)
	assert.Equal(t, int64(2), items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)

	assert.True(t, guest.deleted, "guest slot dropped after merge")
}

func TestMergeGuestCart_ReplacesRemoteItems(t *testing.T) {
	repo := newMockCartRepository()
	ctx := context.Background()

	// Seed a remote cart that already holds C×5.
	existing, err := repo.CreateCart(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.InsertCartItem(ctx, &domain.CartItem{
		CartID: existing.ID, ProductID: 3, Quantity: 5, UnitPrice: 99.00,
	}))

	guest := &mockGuestStore{rec: guestRecordAB()}
	rec := NewReconciler(guest, repo, &recordingNotifier{})

	cart, items, err := rec.MergeGuestCart(ctx, "guest-abc", "user-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, cart.ID, "existing remote cart is reused")

	// The pre-login cart wins entirely: C is discarded, not summed.
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEqual(t, int64(3), item.ProductID)
	}
}

func TestMergeGuestCart_IdempotentEndState(t *testing.T) {
	repo := newMockCartRepository()
	ctx := context.Background()

	first := NewReconciler(&mockGuestStore{rec: guestRecordAB()}, repo, &recordingNotifier{})
	_, items1, err := first.MergeGuestCart(ctx, "guest-abc", "user-1")
	require.NoError(t, err)

	second := NewReconciler(&mockGuestStore{rec: guestRecordAB()}, repo, &recordingNotifier{})
	_, items2, err := second.MergeGuestCart(ctx, "guest-abc", "user-1")
	require.NoError(t, err)

	require.Len(t, items1, 2)
	require.Len(t, items2, 2)
	for i := range items1 {
		assert.Equal(t, items1[i].ProductID, items2[i].ProductID)
		assert.Equal(t, items1[i].Quantity, items2[i].Quantity)
		assert.Equal(t, items1[i].UnitPrice, items2[i].UnitPrice)
	}
}

func TestMergeGuestCart_SingleItemScenario(t *testing.T) {
	repo := newMockCartRepository()
	now := time.Now()
	guest := &mockGuestStore{rec: &guestcart.Record{
		ID:        "guest-p1",
		Items:     []guestcart.Item{{ID: "i1", ProductID: 10, ProductName: "P1", Quantity: 2, UnitPrice: 10.00}},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	rec := NewReconciler(guest, repo, &recordingNotifier{})

	_, items, err := rec.MergeGuestCart(context.Background(), "guest-p1", "user-9")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(10), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 10.00, items[0].UnitPrice)
	assert.True(t, guest.deleted, "local storage record cleared")
}

func TestMergeGuestCart_InsertFailureKeepsGuestSlot(t *testing.T) {
	repo := newMockCartRepository()
	repo.insertErr = errors.New("insert failed")
	guest := &mockGuestStore{rec: guestRecordAB()}
	notifier := &recordingNotifier{}
	rec := NewReconciler(guest, repo, notifier)

	_, _, err := rec.MergeGuestCart(context.Background(), "guest-abc", "user-1")
	require.Error(t, err)
	assert.False(t, guest.deleted, "pre-login cart stays recoverable")
	assert.NotEmpty(t, notifier.bySeverity(notify.SeverityError))
}
