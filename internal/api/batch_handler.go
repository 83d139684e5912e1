package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/service"
)

type BatchHandler struct {
	batchService *service.BatchService
}

// NewBatchHandler creates a new instance of BatchHandler.
func NewBatchHandler(batchService *service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

func (h *BatchHandler) ListBatches(c echo.Context) error {
	batches, err := h.batchService.ListBatches(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, batches)
}

func (h *BatchHandler) GetBatch(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	batch, err := h.batchService.GetBatch(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, batch)
}

func (h *BatchHandler) CreateBatch(c echo.Context) error {
	batch := entity.Batch{}
	if err := c.Bind(&batch); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.batchService.CreateBatch(c.Request().Context(), &batch)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, created)
}

func (h *BatchHandler) UpdateBatch(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	batch := entity.Batch{}
	if err := c.Bind(&batch); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	batch.ID = id

	updated, err := h.batchService.UpdateBatch(c.Request().Context(), &batch)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, updated)
}

func (h *BatchHandler) DeleteBatch(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.batchService.DeleteBatch(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Batch deleted successfully"})
}
