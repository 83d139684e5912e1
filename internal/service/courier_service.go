package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"order-dashboard/internal/courier"
	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var ErrNotBooked = errors.New("order has no courier consignment")

// BookingInput carries the courier knobs the dashboard exposes when
// handing an order to Pathao. Everything else comes off the order.
type BookingInput struct {
	StoreID            int    `json:"store_id"`
	DeliveryType       int    `json:"delivery_type"`
	ItemType           int    `json:"item_type"`
	ItemWeight         string `json:"item_weight"`
	SpecialInstruction string `json:"special_instruction"`
}

// CourierService bridges orders and the Pathao client: it books
// consignments from order snapshots and pulls delivery status back onto
// the order's tracking fields.
type CourierService struct {
	orders repository.OrderRepository
	client *courier.Client
}

func NewCourierService(orders repository.OrderRepository, client *courier.Client) *CourierService {
	return &CourierService{orders: orders, client: client}
}

// BookOrder creates a Pathao consignment for the order and stamps the
// returned tracking code and status onto it. The amount to collect is
// the order's due, so prepaid orders ship with zero COD.
func (s *CourierService) BookOrder(ctx context.Context, orderID int, in BookingInput) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Customer == nil {
		return nil, ErrCustomerNotFound
	}

	totalQty := 0
	for _, item := range order.Items {
		totalQty += item.Qty
	}

	req := courier.CreateOrderRequest{
		StoreID:            in.StoreID,
		MerchantOrderID:    strconv.Itoa(order.ID),
		RecipientName:      order.Customer.Name,
		RecipientPhone:     order.Customer.Phone,
		RecipientAddress:   order.Address,
		DeliveryType:       in.DeliveryType,
		ItemType:           in.ItemType,
		SpecialInstruction: in.SpecialInstruction,
		ItemQuantity:       totalQty,
		ItemWeight:         in.ItemWeight,
		ItemDescription:    itemDescription(order.Items),
		AmountToCollect:    order.DueBDT.String(),
	}

	resp, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		logger.Error().Err(err).Int("order_id", orderID).Msg("Pathao booking failed")
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.orders.UpdateOrderTracking(ctx, orderID, resp.Data.ConsignmentID, resp.Data.OrderStatus, now); err != nil {
		return nil, err
	}

	logger.Info().Int("order_id", orderID).Str("consignment_id", resp.Data.ConsignmentID).Msg("Order booked with Pathao")

	return s.orders.GetOrderByID(ctx, orderID)
}

// SyncOrder refreshes the order's courier status from Pathao.
func (s *CourierService) SyncOrder(ctx context.Context, orderID int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.PathaoTrackingCode == "" {
		return nil, ErrNotBooked
	}

	info, err := s.client.OrderInfo(ctx, order.PathaoTrackingCode)
	if err != nil {
		logger.Error().Err(err).Int("order_id", orderID).Msg("Pathao status lookup failed")
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.orders.UpdateOrderTracking(ctx, orderID, order.PathaoTrackingCode, info.Data.OrderStatus, now); err != nil {
		return nil, err
	}

	return s.orders.GetOrderByID(ctx, orderID)
}

func itemDescription(items []entity.OrderItem) string {
	desc := ""
	for i, item := range items {
		if i > 0 {
			desc += ", "
		}
		desc += fmt.Sprintf("%s (%s, %s) x%d", item.ProductNameSnapshot, item.ColorSnapshot, item.SizeSnapshot, item.Qty)
	}
	return desc
}
