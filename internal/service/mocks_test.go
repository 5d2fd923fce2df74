package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/cache"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/guestcart"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/repository"
)

// mockCartRepository implements repository.CartRepository in memory.
type mockCartRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	items map[uuid.UUID][]domain.CartItem

	err       error // when set, every call fails with it
	insertErr error // fails InsertCartItem only
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[string]*domain.Cart),
		items: make(map[uuid.UUID][]domain.CartItem),
	}
}

func (m *mockCartRepository) GetCartByOwner(_ context.Context, ownerID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[ownerID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) CreateCart(_ context.Context, ownerID string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	now := time.Now()
	cart := &domain.Cart{ID: uuid.New(), OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	m.carts[ownerID] = cart
	return cart, nil
}

func (m *mockCartRepository) GetCartItems(_ context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	items := make([]domain.CartItem, len(m.items[cartID]))
	copy(items, m.items[cartID])
	return items, nil
}

func (m *mockCartRepository) InsertCartItem(_ context.Context, item *domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.CartID] = append(m.items[item.CartID], *item)
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for cartID := range m.items {
		for i := range m.items[cartID] {
			if m.items[cartID][i].ID == itemID {
				m.items[cartID][i].Quantity = quantity
				return nil
			}
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) DeleteCartItem(_ context.Context, itemID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for cartID, items := range m.items {
		for i, item := range items {
			if item.ID == itemID {
				m.items[cartID] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) DeleteCartItems(_ context.Context, cartID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[cartID] = nil
	return nil
}

// mockProductRepository implements repository.ProductRepository.
type mockProductRepository struct {
	products map[int64]*domain.Product
}

func (m *mockProductRepository) GetProduct(_ context.Context, productID int64) (*domain.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

// mockOrderRepository implements repository.OrderRepository.
type mockOrderRepository struct {
	m      sync.Mutex
	orders []domain.Order
	items  []domain.OrderItem
	prefs  []domain.SchedulingPreference

	insertOrderErr error
	insertItemsErr error
	listErr        error
}

func (m *mockOrderRepository) InsertOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertOrderErr != nil {
		return m.insertOrderErr
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepository) InsertOrderItems(_ context.Context, items []domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertItemsErr != nil {
		return m.insertItemsErr
	}
	m.items = append(m.items, items...)
	return nil
}

func (m *mockOrderRepository) InsertSchedulingPreference(_ context.Context, pref *domain.SchedulingPreference) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.prefs = append(m.prefs, *pref)
	return nil
}

func (m *mockOrderRepository) ListOrdersByOwner(_ context.Context, ownerID string) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var orders []domain.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// mockAddressRepository implements repository.AddressRepository.
type mockAddressRepository struct {
	m         sync.Mutex
	addresses []domain.Address
	insertErr error
}

func (m *mockAddressRepository) InsertAddress(_ context.Context, addr *domain.Address) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.addresses = append(m.addresses, *addr)
	return nil
}

func (m *mockAddressRepository) ListAddresses(_ context.Context, ownerID string) ([]domain.Address, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var addresses []domain.Address
	for _, a := range m.addresses {
		if a.OwnerID == ownerID {
			addresses = append(addresses, a)
		}
	}
	return addresses, nil
}

func (m *mockAddressRepository) CountAddresses(_ context.Context, ownerID string, kind domain.AddressKind) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	count := 0
	for _, a := range m.addresses {
		if a.OwnerID == ownerID && a.Kind == kind {
			count++
		}
	}
	return count, nil
}

// mockPublisher implements OrderPublisher.
type mockPublisher struct {
	m         sync.Mutex
	published []domain.Order
	err       error
}

func (m *mockPublisher) OrderPlaced(_ context.Context, order *domain.Order, _ []domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, *order)
	return nil
}

// mockOrderCache implements cache.OrderListCache.
type mockOrderCache struct {
	m       sync.Mutex
	entries map[string][]domain.Order
	deletes []string
}

func newMockOrderCache() *mockOrderCache {
	return &mockOrderCache{entries: make(map[string][]domain.Order)}
}

func (m *mockOrderCache) Get(_ context.Context, ownerID string) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	orders, ok := m.entries[ownerID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return orders, nil
}

func (m *mockOrderCache) Set(_ context.Context, ownerID string, orders []domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.entries[ownerID] = orders
	return nil
}

func (m *mockOrderCache) Delete(_ context.Context, ownerID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.entries, ownerID)
	m.deletes = append(m.deletes, ownerID)
	return nil
}

// mockGuestStore implements GuestStore.
type mockGuestStore struct {
	rec       *guestcart.Record
	loadErr   error
	deleteErr error
	deleted   bool
}

func (m *mockGuestStore) Load(_ context.Context, _ string) (*guestcart.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.rec, nil
}

func (m *mockGuestStore) Delete(_ context.Context, _ string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = true
	return nil
}

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	m     sync.Mutex
	notes []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.m.Lock()
	defer r.m.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) bySeverity(s notify.Severity) []notify.Notification {
	r.m.Lock()
	defer r.m.Unlock()
	var out []notify.Notification
	for _, n := range r.notes {
		if n.Severity == s {
			out = append(out, n)
		}
	}
	return out
}
