package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateSubmit  = errors.New("idempotency key already used")
)

// ValidationError reports which input field was rejected so the caller
// can correct and resubmit.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// OrderItemInput is one line of a submitted order draft. Price and
// quantity become the frozen snapshot; later catalog edits do not touch
// placed orders.
type OrderItemInput struct {
	ProductID            int             `json:"product_id"`
	ProductNameSnapshot  string          `json:"product_name_snapshot"`
	ImageURLSnapshot     string          `json:"image_url_snapshot"`
	ColorSnapshot        string          `json:"color_snapshot"`
	SizeSnapshot         string          `json:"size_snapshot"`
	Qty                  int             `json:"qty"`
	SellPriceBDTSnapshot decimal.Decimal `json:"sell_price_bdt_snapshot"`
}

type CreateOrderInput struct {
	CustomerID         int                `json:"customer_id"`
	Items              []OrderItemInput   `json:"items"`
	Status             entity.OrderStatus `json:"status"`
	Address            string             `json:"address"`
	DeliveryChargeBDT  decimal.Decimal    `json:"delivery_charge_bdt"`
	AdvanceBDT         decimal.Decimal    `json:"advance_bdt"`
	PathaoCityName     string             `json:"pathao_city_name"`
	PathaoZoneName     string             `json:"pathao_zone_name"`
	PathaoAreaName     string             `json:"pathao_area_name"`
	PathaoTrackingCode string             `json:"pathao_tracking_code"`
	PathaoStatus       string             `json:"pathao_status"`
	IdempotencyKey     string             `json:"-"`
}

// UpdateOrderInput is a patch: nil fields are left as they are. Items,
// when present, replace the stored set completely.
type UpdateOrderInput struct {
	Items              *[]OrderItemInput   `json:"items"`
	Status             *entity.OrderStatus `json:"status"`
	Address            *string             `json:"address"`
	DeliveryChargeBDT  *decimal.Decimal    `json:"delivery_charge_bdt"`
	AdvanceBDT         *decimal.Decimal    `json:"advance_bdt"`
	PathaoCityName     *string             `json:"pathao_city_name"`
	PathaoZoneName     *string             `json:"pathao_zone_name"`
	PathaoAreaName     *string             `json:"pathao_area_name"`
	PathaoTrackingCode *string             `json:"pathao_tracking_code"`
	PathaoStatus       *string             `json:"pathao_status"`
	LastSyncedAt       *time.Time          `json:"last_synced_at"`
}

// OrderService coordinates order mutations: availability gating, total
// recomputation and atomic persistence.
type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	customers   repository.CustomerRepository
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewOrderService creates a new instance of OrderService. kafkaWriter and
// rdb may be nil; event publishing and idempotency checks are skipped then.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, customers repository.CustomerRepository, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		customers:   customers,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orders.GetOrders(ctx)
}

// CreateOrder validates the draft, gates every item on current variant
// stock, computes totals and persists the order, its item snapshots and
// the customer counter as one atomic unit.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if in.CustomerID <= 0 {
		return nil, &ValidationError{Field: "customer_id", Msg: "Customer ID is required"}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Msg: "Order items are required"}
	}
	if in.Address == "" {
		return nil, &ValidationError{Field: "address", Msg: "Delivery address is required"}
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = entity.OrderStatusPending
	}
	if !entity.ValidStatus(status) {
		return nil, &ValidationError{Field: "status", Msg: fmt.Sprintf("Unknown status '%s'", status)}
	}

	if err := s.claimIdempotencyKey(ctx, in.IdempotencyKey); err != nil {
		return nil, err
	}

	if _, err := s.customers.GetCustomerByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	items, err := s.gateAndSnapshot(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	totals := CalculateTotals(items, in.DeliveryChargeBDT, in.AdvanceBDT)

	order := &entity.Order{
		CustomerID:         in.CustomerID,
		Items:              items,
		Status:             status,
		Address:            in.Address,
		DeliveryChargeBDT:  in.DeliveryChargeBDT,
		AdvanceBDT:         in.AdvanceBDT,
		DueBDT:             totals.Due,
		TotalAmount:        totals.Total,
		TotalItems:         totals.TotalItems,
		PathaoCityName:     in.PathaoCityName,
		PathaoZoneName:     in.PathaoZoneName,
		PathaoAreaName:     in.PathaoAreaName,
		PathaoTrackingCode: in.PathaoTrackingCode,
		PathaoStatus:       in.PathaoStatus,
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		if errors.Is(err, repository.ErrBadReference) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, created, "created")

	return created, nil
}

// UpdateOrder applies a patch to an existing order. When items are
// present, each is gated on current stock and the stored set is replaced
// wholesale; totals are recomputed from whichever item list survives.
// An omitted delivery charge keeps the order's previous charge.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, patch UpdateOrderInput) (*entity.Order, error) {
	existing, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items := existing.Items
	if patch.Items != nil {
		if err := validateItems(*patch.Items); err != nil {
			return nil, err
		}
		items, err = s.gateAndSnapshot(ctx, *patch.Items)
		if err != nil {
			return nil, err
		}
	}

	deliveryCharge := existing.DeliveryChargeBDT
	if patch.DeliveryChargeBDT != nil {
		deliveryCharge = *patch.DeliveryChargeBDT
	}
	advance := existing.AdvanceBDT
	if patch.AdvanceBDT != nil {
		advance = *patch.AdvanceBDT
	}

	totals := CalculateTotals(items, deliveryCharge, advance)

	next := *existing
	next.Items = items
	next.DeliveryChargeBDT = deliveryCharge
	next.AdvanceBDT = advance
	next.DueBDT = totals.Due
	next.TotalAmount = totals.Total
	next.TotalItems = totals.TotalItems

	if patch.Status != nil {
		if !entity.ValidStatus(*patch.Status) {
			return nil, &ValidationError{Field: "status", Msg: fmt.Sprintf("Unknown status '%s'", *patch.Status)}
		}
		next.Status = *patch.Status
	}
	if patch.Address != nil {
		if *patch.Address == "" {
			return nil, &ValidationError{Field: "address", Msg: "Delivery address is required"}
		}
		next.Address = *patch.Address
	}
	if patch.PathaoCityName != nil {
		next.PathaoCityName = *patch.PathaoCityName
	}
	if patch.PathaoZoneName != nil {
		next.PathaoZoneName = *patch.PathaoZoneName
	}
	if patch.PathaoAreaName != nil {
		next.PathaoAreaName = *patch.PathaoAreaName
	}
	if patch.PathaoTrackingCode != nil {
		next.PathaoTrackingCode = *patch.PathaoTrackingCode
	}
	if patch.PathaoStatus != nil {
		next.PathaoStatus = *patch.PathaoStatus
	}
	if patch.LastSyncedAt != nil {
		next.LastSyncedAt = patch.LastSyncedAt
	}

	updated, err := s.orders.UpdateOrder(ctx, &next)
	if err != nil {
		logger.Error().Err(err).Int("order_id", id).Msg("Error updating order")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, updated, "updated")

	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	s.publishOrderEvent(ctx, order, "cancelled")

	return nil
}

// gateAndSnapshot runs the availability check for every submitted item
// against live product state and freezes the snapshots. Any failure
// aborts the whole mutation; nothing has been written yet.
func (s *OrderService) gateAndSnapshot(ctx context.Context, inputs []OrderItemInput) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		product, err := s.products.GetProductByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &StockCheckError{
					ProductID: in.ProductID,
					Reason:    fmt.Sprintf("Product %d not found", in.ProductID),
				}
			}
			return nil, err
		}

		check := CheckAvailability(product, in.ColorSnapshot, in.SizeSnapshot, in.Qty)
		if !check.Available {
			logger.Warn().Int("product_id", in.ProductID).Str("reason", check.Reason).Msg("Stock gate rejected order item")
			return nil, &StockCheckError{
				ProductID:    in.ProductID,
				AvailableQty: check.AvailableQty,
				Reason:       check.Reason,
			}
		}

		items = append(items, entity.OrderItem{
			ProductID:            in.ProductID,
			ProductNameSnapshot:  in.ProductNameSnapshot,
			ImageURLSnapshot:     in.ImageURLSnapshot,
			ColorSnapshot:        in.ColorSnapshot,
			SizeSnapshot:         in.SizeSnapshot,
			Qty:                  in.Qty,
			SellPriceBDTSnapshot: in.SellPriceBDTSnapshot,
		})
	}
	return items, nil
}

func validateItems(items []OrderItemInput) error {
	for _, item := range items {
		if item.ProductID <= 0 {
			return &ValidationError{Field: "items.product_id", Msg: "Each item must have product_id, product_name_snapshot, and qty"}
		}
		if item.ProductNameSnapshot == "" {
			return &ValidationError{Field: "items.product_name_snapshot", Msg: "Each item must have product_id, product_name_snapshot, and qty"}
		}
		if item.Qty <= 0 {
			return &ValidationError{Field: "items.qty", Msg: "Each item must have product_id, product_name_snapshot, and qty"}
		}
		if item.SellPriceBDTSnapshot.IsNegative() {
			return &ValidationError{Field: "items.sell_price_bdt_snapshot", Msg: "Item price must not be negative"}
		}
	}
	return nil
}

// claimIdempotencyKey marks the key as used for 24h; a repeated key means
// the client retried a submission that already went through.
func (s *OrderService) claimIdempotencyKey(ctx context.Context, key string) error {
	if s.rdb == nil || key == "" {
		return nil
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	ok, err := s.rdb.SetNX(ctx, redisKey, "exists", 24*time.Hour).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateSubmit
	}

	return nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) {
	if s.kafkaWriter == nil {
		return
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Msg("Error marshalling order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", key, order.ID)),
		Value: orderJSON,
	}

	// The mutation already committed; a publish failure is logged, not
	// surfaced to the caller.
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Msgf("Error publishing order %s event", key)
	}
}
