package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dashboard/internal/courier"
	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

func seedBookableOrder(t *testing.T, store *repository.MemoryStore) *entity.Order {
	t.Helper()
	ctx := context.Background()

	customer, err := store.CreateCustomer(ctx, &entity.Customer{Name: "Rahim Uddin", Phone: "01712345678"})
	require.NoError(t, err)

	product, err := store.CreateProduct(ctx, &entity.Product{Name: "Premium Tee", Code: "TEE-01"})
	require.NoError(t, err)

	order, err := store.CreateOrder(ctx, &entity.Order{
		CustomerID: customer.ID,
		Status:     entity.OrderStatusConfirmed,
		Address:    "House 12, Road 5, Dhanmondi, Dhaka",
		DueBDT:     decimal.RequireFromString("460"),
		Items: []entity.OrderItem{
			{
				ProductID:            product.ID,
				ProductNameSnapshot:  "Premium Tee",
				ColorSnapshot:        "Black",
				SizeSnapshot:         "M",
				Qty:                  2,
				SellPriceBDTSnapshot: decimal.RequireFromString("450"),
			},
		},
	})
	require.NoError(t, err)
	return order
}

func pathaoStub(t *testing.T, createResp *courier.CreateOrderResponse, infoResp *courier.OrderInfoResponse, gotCreate *courier.CreateOrderRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/aladdin/api/v1/issue-token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(courier.TokenResponse{AccessToken: "t", ExpiresIn: 432000})
	})
	mux.HandleFunc("/aladdin/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		if gotCreate != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotCreate))
		}
		json.NewEncoder(w).Encode(createResp)
	})
	mux.HandleFunc("/aladdin/api/v1/orders/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(infoResp)
	})
	return httptest.NewServer(mux)
}

func TestBookOrderStampsTracking(t *testing.T) {
	store := repository.NewMemoryStore()
	order := seedBookableOrder(t, store)

	createResp := &courier.CreateOrderResponse{Message: "Order Created Successfully", Code: 200}
	createResp.Data.ConsignmentID = "DL1234"
	createResp.Data.OrderStatus = "Pending"

	var got courier.CreateOrderRequest
	srv := pathaoStub(t, createResp, nil, &got)
	defer srv.Close()

	svc := NewCourierService(store, courier.NewClient(courier.Config{BaseURL: srv.URL}, srv.Client()))

	booked, err := svc.BookOrder(context.Background(), order.ID, BookingInput{StoreID: 99, ItemWeight: "0.5"})
	require.NoError(t, err)

	assert.Equal(t, "DL1234", booked.PathaoTrackingCode)
	assert.Equal(t, "Pending", booked.PathaoStatus)
	require.NotNil(t, booked.LastSyncedAt)

	// the consignment is built from the order snapshot
	assert.Equal(t, "Rahim Uddin", got.RecipientName)
	assert.Equal(t, "01712345678", got.RecipientPhone)
	assert.Equal(t, "House 12, Road 5, Dhanmondi, Dhaka", got.RecipientAddress)
	assert.Equal(t, 2, got.ItemQuantity)
	assert.Equal(t, "460", got.AmountToCollect)
	assert.Equal(t, 99, got.StoreID)
}

func TestBookOrderLeavesMoneyUntouched(t *testing.T) {
	store := repository.NewMemoryStore()
	order := seedBookableOrder(t, store)

	createResp := &courier.CreateOrderResponse{Code: 200}
	createResp.Data.ConsignmentID = "DL1"
	srv := pathaoStub(t, createResp, nil, nil)
	defer srv.Close()

	svc := NewCourierService(store, courier.NewClient(courier.Config{BaseURL: srv.URL}, srv.Client()))

	booked, err := svc.BookOrder(context.Background(), order.ID, BookingInput{})
	require.NoError(t, err)

	assert.True(t, booked.DueBDT.Equal(order.DueBDT))
	require.Len(t, booked.Items, 1)
	assert.Equal(t, order.Items[0].ID, booked.Items[0].ID)
}

func TestSyncOrderRefreshesStatus(t *testing.T) {
	store := repository.NewMemoryStore()
	order := seedBookableOrder(t, store)
	require.NoError(t, store.UpdateOrderTracking(context.Background(), order.ID, "DL1234", "Pending", order.CreatedAt))

	infoResp := &courier.OrderInfoResponse{Code: 200}
	infoResp.Data.ConsignmentID = "DL1234"
	infoResp.Data.OrderStatus = "Delivered"
	srv := pathaoStub(t, nil, infoResp, nil)
	defer srv.Close()

	svc := NewCourierService(store, courier.NewClient(courier.Config{BaseURL: srv.URL}, srv.Client()))

	synced, err := svc.SyncOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, "DL1234", synced.PathaoTrackingCode)
	assert.Equal(t, "Delivered", synced.PathaoStatus)
}

func TestSyncOrderWithoutBooking(t *testing.T) {
	store := repository.NewMemoryStore()
	order := seedBookableOrder(t, store)

	svc := NewCourierService(store, courier.NewClient(courier.Config{}, nil))

	_, err := svc.SyncOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrNotBooked)
}

func TestBookOrderNotFound(t *testing.T) {
	store := repository.NewMemoryStore()

	svc := NewCourierService(store, courier.NewClient(courier.Config{}, nil))

	_, err := svc.BookOrder(context.Background(), 42, BookingInput{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
