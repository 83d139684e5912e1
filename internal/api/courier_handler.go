package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"order-dashboard/internal/service"
)

type CourierHandler struct {
	courierService *service.CourierService
}

// NewCourierHandler creates a new instance of CourierHandler.
func NewCourierHandler(courierService *service.CourierService) *CourierHandler {
	return &CourierHandler{courierService: courierService}
}

// BookOrder hands an order to Pathao and returns it with the tracking
// code and courier status filled in.
func (h *CourierHandler) BookOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	in := service.BookingInput{}
	if err := c.Bind(&in); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.courierService.BookOrder(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, order)
}

// SyncOrder refreshes the courier status of an already booked order.
func (h *CourierHandler) SyncOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.courierService.SyncOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotBooked) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return writeError(c, err)
	}

	return c.JSON(200, order)
}
