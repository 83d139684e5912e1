package repository

import (
	"context"
	"sync"
	"time"

	"order-dashboard/internal/entity"
)

// MemoryStore is an in-memory implementation of every repository
// interface. It backs the test suites and doubles as a reference for the
// atomicity contract: each mutating method validates everything it needs
// before touching state, so a failed call leaves the store untouched.
type MemoryStore struct {
	mu sync.RWMutex

	nextProductID  int
	nextVariantID  int
	nextCustomerID int
	nextOrderID    int
	nextItemID     int
	nextBatchID    int
	nextUserID     int

	products  map[int]entity.Product
	customers map[int]entity.Customer
	orders    map[int]entity.Order
	batches   map[int]entity.Batch
	users     map[int]entity.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProductID:  1,
		nextVariantID:  1,
		nextCustomerID: 1,
		nextOrderID:    1,
		nextItemID:     1,
		nextBatchID:    1,
		nextUserID:     1,
		products:       make(map[int]entity.Product),
		customers:      make(map[int]entity.Customer),
		orders:         make(map[int]entity.Order),
		batches:        make(map[int]entity.Batch),
		users:          make(map[int]entity.User),
	}
}

var (
	_ ProductRepository  = (*MemoryStore)(nil)
	_ CustomerRepository = (*MemoryStore)(nil)
	_ OrderRepository    = (*MemoryStore)(nil)
	_ BatchRepository    = (*MemoryStore)(nil)
	_ UserRepository     = (*MemoryStore)(nil)
)

func copyProduct(p entity.Product) entity.Product {
	cp := p
	cp.VariantGroups = make([]entity.VariantGroup, len(p.VariantGroups))
	for i, vg := range p.VariantGroups {
		cvg := vg
		cvg.Sizes = append([]string(nil), vg.Sizes...)
		cvg.Quantities = make(map[string]int, len(vg.Quantities))
		for k, v := range vg.Quantities {
			cvg.Quantities[k] = v
		}
		if vg.SellPriceOverride != nil {
			d := *vg.SellPriceOverride
			cvg.SellPriceOverride = &d
		}
		cp.VariantGroups[i] = cvg
	}
	return cp
}

func copyOrder(o entity.Order) entity.Order {
	cp := o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.Customer != nil {
		c := *o.Customer
		cp.Customer = &c
	}
	if o.LastSyncedAt != nil {
		t := *o.LastSyncedAt
		cp.LastSyncedAt = &t
	}
	return cp
}

// --- products ---

func (m *MemoryStore) GetProducts(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (m *MemoryStore) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyProduct(p)
	return &cp, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Code == product.Code {
			return nil, ErrDuplicateCode
		}
	}
	cp := copyProduct(*product)
	cp.ID = m.nextProductID
	m.nextProductID++
	for i := range cp.VariantGroups {
		cp.VariantGroups[i].ID = m.nextVariantID
		cp.VariantGroups[i].ProductID = cp.ID
		m.nextVariantID++
	}
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.products[cp.ID] = cp
	out := copyProduct(cp)
	return &out, nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.products[product.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, p := range m.products {
		if p.ID != product.ID && p.Code == product.Code {
			return nil, ErrDuplicateCode
		}
	}
	cp := copyProduct(*product)
	for i := range cp.VariantGroups {
		cp.VariantGroups[i].ID = m.nextVariantID
		cp.VariantGroups[i].ProductID = cp.ID
		m.nextVariantID++
	}
	cp.CreatedAt = prev.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.products[cp.ID] = cp
	out := copyProduct(cp)
	return &out, nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// --- customers ---

func (m *MemoryStore) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *MemoryStore) GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			cp := c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Phone == customer.Phone {
			return nil, ErrDuplicateCode
		}
	}
	cp := *customer
	cp.ID = m.nextCustomerID
	m.nextCustomerID++
	cp.TotalOrders = 0
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.customers[cp.ID] = cp
	out := cp
	return &out, nil
}

func (m *MemoryStore) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.customers[customer.ID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *customer
	cp.TotalOrders = prev.TotalOrders
	cp.CreatedAt = prev.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.customers[cp.ID] = cp
	out := cp
	return &out, nil
}

func (m *MemoryStore) DeleteCustomer(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

// --- orders ---

func (m *MemoryStore) GetOrders(ctx context.Context) ([]entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, m.withRelations(o))
	}
	return out, nil
}

func (m *MemoryStore) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := m.withRelations(o)
	return &cp, nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[order.CustomerID]
	if !ok {
		return nil, ErrBadReference
	}
	for _, item := range order.Items {
		if _, ok := m.products[item.ProductID]; !ok {
			return nil, ErrBadReference
		}
	}
	cp := copyOrder(*order)
	cp.ID = m.nextOrderID
	m.nextOrderID++
	for i := range cp.Items {
		cp.Items[i].ID = m.nextItemID
		cp.Items[i].OrderID = cp.ID
		m.nextItemID++
	}
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	cp.Customer = nil
	m.orders[cp.ID] = cp

	customer.TotalOrders++
	m.customers[customer.ID] = customer

	out := m.withRelations(cp)
	return &out, nil
}

func (m *MemoryStore) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.orders[order.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, item := range order.Items {
		if _, ok := m.products[item.ProductID]; !ok {
			return nil, ErrBadReference
		}
	}
	cp := copyOrder(*order)
	// full item replacement: discard the stored set, assign fresh ids
	for i := range cp.Items {
		cp.Items[i].ID = m.nextItemID
		cp.Items[i].OrderID = cp.ID
		m.nextItemID++
	}
	cp.CustomerID = prev.CustomerID
	cp.CreatedAt = prev.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	cp.Customer = nil
	m.orders[cp.ID] = cp

	out := m.withRelations(cp)
	return &out, nil
}

func (m *MemoryStore) UpdateOrderTracking(ctx context.Context, id int, trackingCode, status string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.PathaoTrackingCode = trackingCode
	o.PathaoStatus = status
	t := syncedAt
	o.LastSyncedAt = &t
	o.UpdatedAt = time.Now().UTC()
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) DeleteOrder(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MemoryStore) withRelations(o entity.Order) entity.Order {
	cp := copyOrder(o)
	if c, ok := m.customers[o.CustomerID]; ok {
		cc := c
		cp.Customer = &cc
	}
	return cp
}

// --- batches ---

func (m *MemoryStore) GetBatches(ctx context.Context) ([]entity.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Batch, 0, len(m.batches))
	for _, b := range m.batches {
		cp := b
		cp.OrderIDs = append([]int(nil), b.OrderIDs...)
		out = append(out, cp)
	}
	return out, nil
}

func (m *MemoryStore) GetBatchByID(ctx context.Context, id int) (*entity.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := b
	cp.OrderIDs = append([]int(nil), b.OrderIDs...)
	return &cp, nil
}

func (m *MemoryStore) CreateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range batch.OrderIDs {
		if _, ok := m.orders[id]; !ok {
			return nil, ErrBadReference
		}
	}
	cp := *batch
	cp.OrderIDs = append([]int(nil), batch.OrderIDs...)
	cp.ID = m.nextBatchID
	m.nextBatchID++
	cp.CreatedAt = time.Now().UTC()
	m.batches[cp.ID] = cp
	out := cp
	out.OrderIDs = append([]int(nil), cp.OrderIDs...)
	return &out, nil
}

func (m *MemoryStore) UpdateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.batches[batch.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, id := range batch.OrderIDs {
		if _, ok := m.orders[id]; !ok {
			return nil, ErrBadReference
		}
	}
	cp := *batch
	cp.OrderIDs = append([]int(nil), batch.OrderIDs...)
	cp.CreatedBy = prev.CreatedBy
	cp.CreatedAt = prev.CreatedAt
	m.batches[cp.ID] = cp
	out := cp
	out.OrderIDs = append([]int(nil), cp.OrderIDs...)
	return &out, nil
}

func (m *MemoryStore) DeleteBatch(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.batches[id]; !ok {
		return ErrNotFound
	}
	delete(m.batches, id)
	return nil
}

// --- users ---

func (m *MemoryStore) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *MemoryStore) GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email && u.Password == password {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	cp.ID = m.nextUserID
	m.nextUserID++
	m.users[cp.ID] = cp
	out := cp
	return &out, nil
}
