package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var ErrDuplicateProductCode = errors.New("product code already exists")

// ProductService manages the catalog: products with their variant groups
// and a read-through redis cache keyed per product.
type ProductService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

// NewProductService creates a new instance of ProductService. rdb may be
// nil; caching is skipped then.
func NewProductService(productRepo repository.ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		rdb:         rdb,
	}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetProducts(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.cacheSet(ctx, product)

	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrDuplicateProductCode
		}
		return nil, err
	}

	s.cacheSet(ctx, created)

	return created, nil
}

// UpdateProduct rewrites the product and replaces its variant-group set
// wholesale, then invalidates and refreshes the cache entry.
func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Int("product_id", product.ID).Msg("Error updating product")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrDuplicateProductCode
		}
		return nil, err
	}

	s.cacheSet(ctx, updated)

	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error deleting product %d from cache", id)
		}
	}

	return nil
}

// PreWarmCache loads every product into the cache with a short TTL.
func (s *ProductService) PreWarmCache(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	products, err := s.productRepo.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return err
	}

	for i := range products {
		s.cacheSet(ctx, &products[i])
	}

	return nil
}

func (s *ProductService) cacheGet(ctx context.Context, id int) *entity.Product {
	if s.rdb == nil {
		return nil
	}

	data, err := s.rdb.Get(ctx, productCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		return nil
	}

	var product entity.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling cached product %d", id)
		return nil
	}

	return &product
}

func (s *ProductService) cacheSet(ctx context.Context, product *entity.Product) {
	if s.rdb == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling product %d", product.ID)
		return
	}

	if err := s.rdb.Set(ctx, productCacheKey(product.ID), data, time.Minute).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func validateProduct(p *entity.Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Msg: "Product name is required"}
	}
	if p.Code == "" {
		return &ValidationError{Field: "code", Msg: "Product code is required"}
	}
	for _, vg := range p.VariantGroups {
		if vg.Color == "" {
			return &ValidationError{Field: "variant_groups.color", Msg: "Variant group color is required"}
		}
		for size := range vg.Quantities {
			listed := false
			for _, s := range vg.Sizes {
				if s == size {
					listed = true
					break
				}
			}
			if !listed {
				return &ValidationError{
					Field: "variant_groups.quantities",
					Msg:   fmt.Sprintf("Quantity given for size '%s' which is not in the size list for color '%s'", size, vg.Color),
				}
			}
		}
		for size, qty := range vg.Quantities {
			if qty < 0 {
				return &ValidationError{
					Field: "variant_groups.quantities",
					Msg:   fmt.Sprintf("Negative quantity for size '%s'", size),
				}
			}
		}
	}
	return nil
}
