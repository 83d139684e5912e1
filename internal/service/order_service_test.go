package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

func newTestOrderService(t *testing.T) (*OrderService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewOrderService(store, store, store, nil, nil), store
}

func seedCatalog(t *testing.T, store *repository.MemoryStore) (*entity.Customer, *entity.Product) {
	t.Helper()

	customer, err := store.CreateCustomer(context.Background(), &entity.Customer{
		Name:  "Rahim Uddin",
		Phone: "01712345678",
	})
	require.NoError(t, err)

	product, err := store.CreateProduct(context.Background(), &entity.Product{
		Name:         "Premium Tee",
		Code:         "TEE-01",
		SellPriceBDT: decimal.RequireFromString("450"),
		VariantGroups: []entity.VariantGroup{
			{
				Color:      "Black",
				Sizes:      []string{"M", "L"},
				Quantities: map[string]int{"M": 5, "L": 1},
			},
		},
	})
	require.NoError(t, err)

	return customer, product
}

func draftOrder(customerID, productID, qty int) CreateOrderInput {
	return CreateOrderInput{
		CustomerID: customerID,
		Address:    "House 12, Road 5, Dhanmondi, Dhaka",
		Items: []OrderItemInput{
			{
				ProductID:            productID,
				ProductNameSnapshot:  "Premium Tee",
				ColorSnapshot:        "Black",
				SizeSnapshot:         "M",
				Qty:                  qty,
				SellPriceBDTSnapshot: decimal.RequireFromString("450"),
			},
		},
		DeliveryChargeBDT: decimal.RequireFromString("60"),
		AdvanceBDT:        decimal.RequireFromString("500"),
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	order, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("960")), "total = %s", order.TotalAmount)
	assert.True(t, order.DueBDT.Equal(decimal.RequireFromString("460")), "due = %s", order.DueBDT)
	assert.Equal(t, 2, order.TotalItems)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Black", order.Items[0].ColorSnapshot)
}

func TestCreateOrderIncrementsCustomerCounter(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	_, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 1))
	require.NoError(t, err)

	after, err := store.GetCustomerByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalOrders)
}

func TestCreateOrderStockGateAborts(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	_, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 6))

	var se *StockCheckError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, product.ID, se.ProductID)
	assert.Equal(t, 5, se.AvailableQty)
	assert.Equal(t, "Only 5 items available for Premium Tee (Black, M)", se.Reason)

	// nothing written: no orders, counter untouched
	orders, err := store.GetOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	after, err := store.GetCustomerByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.TotalOrders)
}

func TestCreateOrderFailsMidListLeavesNothing(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	in := draftOrder(customer.ID, product.ID, 1)
	in.Items = append(in.Items, OrderItemInput{
		ProductID:            product.ID,
		ProductNameSnapshot:  "Premium Tee",
		ColorSnapshot:        "Black",
		SizeSnapshot:         "L",
		Qty:                  2, // only 1 in stock
		SellPriceBDTSnapshot: decimal.RequireFromString("450"),
	})

	_, err := svc.CreateOrder(context.Background(), in)

	var se *StockCheckError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.AvailableQty)

	orders, listErr := store.GetOrders(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	svc, store := newTestOrderService(t)
	_, product := seedCatalog(t, store)

	_, err := svc.CreateOrder(context.Background(), draftOrder(42, product.ID, 1))

	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, _ := seedCatalog(t, store)

	_, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, 99, 1))

	var se *StockCheckError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 99, se.ProductID)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, _ := seedCatalog(t, store)

	in := CreateOrderInput{CustomerID: customer.ID, Address: "Dhaka"}
	_, err := svc.CreateOrder(context.Background(), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items", ve.Field)
}

func TestCreateOrderRejectsBadStatus(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	in := draftOrder(customer.ID, product.ID, 1)
	in.Status = "teleported"

	_, err := svc.CreateOrder(context.Background(), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestUpdateOrderReplacesItemsAndRecomputes(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 2))
	require.NoError(t, err)

	newItems := []OrderItemInput{
		{
			ProductID:            product.ID,
			ProductNameSnapshot:  "Premium Tee",
			ColorSnapshot:        "Black",
			SizeSnapshot:         "M",
			Qty:                  1,
			SellPriceBDTSnapshot: decimal.RequireFromString("450"),
		},
	}

	updated, err := svc.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{Items: &newItems})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 1, updated.TotalItems)
	// delivery charge and advance were not in the patch and must survive
	assert.True(t, updated.DeliveryChargeBDT.Equal(decimal.RequireFromString("60")))
	assert.True(t, updated.AdvanceBDT.Equal(decimal.RequireFromString("500")))
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("510")), "total = %s", updated.TotalAmount)
	assert.True(t, updated.DueBDT.Equal(decimal.RequireFromString("10")), "due = %s", updated.DueBDT)
}

func TestUpdateOrderWithoutItemsKeepsSnapshots(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 2))
	require.NoError(t, err)

	status := entity.OrderStatusConfirmed
	updated, err := svc.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Qty)
	assert.True(t, updated.TotalAmount.Equal(created.TotalAmount))
}

func TestUpdateOrderStockGateLeavesOrderUntouched(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 2))
	require.NoError(t, err)

	badItems := []OrderItemInput{
		{
			ProductID:            product.ID,
			ProductNameSnapshot:  "Premium Tee",
			ColorSnapshot:        "Black",
			SizeSnapshot:         "L",
			Qty:                  5,
			SellPriceBDTSnapshot: decimal.RequireFromString("450"),
		},
	}

	_, err = svc.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{Items: &badItems})
	var se *StockCheckError
	require.ErrorAs(t, err, &se)

	unchanged, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, unchanged.Items, 1)
	assert.Equal(t, 2, unchanged.Items[0].Qty)
	assert.True(t, unchanged.TotalAmount.Equal(created.TotalAmount))
}

func TestUpdateOrderAdvanceOverpayment(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 1))
	require.NoError(t, err)

	advance := decimal.RequireFromString("1000")
	updated, err := svc.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{AdvanceBDT: &advance})
	require.NoError(t, err)

	// total 510, advance 1000: due goes negative, never clamped
	assert.True(t, updated.DueBDT.Equal(decimal.RequireFromString("-490")), "due = %s", updated.DueBDT)
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(t)

	_, err := svc.UpdateOrder(context.Background(), 42, UpdateOrderInput{})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 1))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))

	_, err = svc.GetOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(t)

	err := svc.DeleteOrder(context.Background(), 42)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateOrderSnapshotSurvivesCatalogEdit(t *testing.T) {
	svc, store := newTestOrderService(t)
	customer, product := seedCatalog(t, store)

	created, err := svc.CreateOrder(context.Background(), draftOrder(customer.ID, product.ID, 1))
	require.NoError(t, err)

	product.Name = "Renamed Tee"
	product.SellPriceBDT = decimal.RequireFromString("999")
	_, err = store.UpdateProduct(context.Background(), product)
	require.NoError(t, err)

	after, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premium Tee", after.Items[0].ProductNameSnapshot)
	assert.True(t, after.Items[0].SellPriceBDTSnapshot.Equal(decimal.RequireFromString("450")))
}
