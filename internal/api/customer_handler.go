package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new instance of CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	customers, err := h.customerService.ListCustomers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, customers)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	customer, err := h.customerService.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, customer)
}

// CreateCustomer finds or creates by phone, so the order form can submit
// a customer block without first checking whether the number is known.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	customer := entity.Customer{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.customerService.FindOrCreateByPhone(c.Request().Context(), &customer)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, created)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	customer := entity.Customer{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	customer.ID = id

	updated, err := h.customerService.UpdateCustomer(c.Request().Context(), &customer)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, updated)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.customerService.DeleteCustomer(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Customer deleted successfully"})
}
