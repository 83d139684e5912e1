package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"order-dashboard/internal/service"
)

// writeError maps service errors onto HTTP responses. Client-input
// problems get a specific 400/404 body; anything else is a generic 500
// so internals never leak to the caller.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(400, map[string]string{"error": ve.Msg, "field": ve.Field})
	}

	var se *service.StockCheckError
	if errors.As(err, &se) {
		return c.JSON(400, map[string]interface{}{
			"error":              se.Reason,
			"product_id":         se.ProductID,
			"available_quantity": se.AvailableQty,
		})
	}

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrBatchNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateProductCode),
		errors.Is(err, service.ErrDuplicatePhone),
		errors.Is(err, service.ErrBadOrderInBatch),
		errors.Is(err, service.ErrDuplicateSubmit):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(500, map[string]string{"error": "Internal server error"})
}
