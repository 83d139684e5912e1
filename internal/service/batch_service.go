package service

import (
	"context"
	"errors"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var (
	ErrBatchNotFound   = errors.New("batch not found")
	ErrBadOrderInBatch = errors.New("invalid order reference")
)

type BatchService struct {
	batchRepo repository.BatchRepository
}

// NewBatchService creates a new instance of BatchService.
func NewBatchService(batchRepo repository.BatchRepository) *BatchService {
	return &BatchService{batchRepo: batchRepo}
}

func (s *BatchService) ListBatches(ctx context.Context) ([]entity.Batch, error) {
	return s.batchRepo.GetBatches(ctx)
}

func (s *BatchService) GetBatch(ctx context.Context, id int) (*entity.Batch, error) {
	batch, err := s.batchRepo.GetBatchByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return batch, nil
}

func (s *BatchService) CreateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	if batch.CreatedBy == "" {
		return nil, &ValidationError{Field: "created_by", Msg: "Created by is required"}
	}

	created, err := s.batchRepo.CreateBatch(ctx, batch)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating batch")
		if errors.Is(err, repository.ErrBadReference) {
			return nil, ErrBadOrderInBatch
		}
		return nil, err
	}

	return created, nil
}

// UpdateBatch replaces the batch's order-id set with the submitted one.
func (s *BatchService) UpdateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	updated, err := s.batchRepo.UpdateBatch(ctx, batch)
	if err != nil {
		logger.Error().Err(err).Int("batch_id", batch.ID).Msg("Error updating batch")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		if errors.Is(err, repository.ErrBadReference) {
			return nil, ErrBadOrderInBatch
		}
		return nil, err
	}

	return updated, nil
}

func (s *BatchService) DeleteBatch(ctx context.Context, id int) error {
	if err := s.batchRepo.DeleteBatch(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBatchNotFound
		}
		return err
	}
	return nil
}
