package service

import (
	"context"
	"errors"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var ErrDuplicatePhone = errors.New("customer with this phone number already exists")

type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.customerRepo.GetCustomers(ctx)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	created, err := s.customerRepo.CreateCustomer(ctx, customer)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating customer")
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}

	return created, nil
}

// FindOrCreateByPhone resolves a customer by the phone natural key,
// creating one when the number is unseen. Order submission uses this so
// repeat buyers keep a single customer row.
func (s *CustomerService) FindOrCreateByPhone(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	if customer.Phone == "" {
		return nil, &ValidationError{Field: "phone", Msg: "Phone is required"}
	}

	existing, err := s.customerRepo.GetCustomerByPhone(ctx, customer.Phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return s.CreateCustomer(ctx, customer)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	updated, err := s.customerRepo.UpdateCustomer(ctx, customer)
	if err != nil {
		logger.Error().Err(err).Int("customer_id", customer.ID).Msg("Error updating customer")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}

	return updated, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.customerRepo.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

func validateCustomer(c *entity.Customer) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Msg: "Name is required"}
	}
	if c.Phone == "" {
		return &ValidationError{Field: "phone", Msg: "Phone is required"}
	}
	return nil
}
