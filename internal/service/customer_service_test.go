package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

func TestFindOrCreateByPhoneCreatesOnce(t *testing.T) {
	svc := NewCustomerService(repository.NewMemoryStore())

	first, err := svc.FindOrCreateByPhone(context.Background(), &entity.Customer{Name: "Rahim Uddin", Phone: "01712345678"})
	require.NoError(t, err)

	second, err := svc.FindOrCreateByPhone(context.Background(), &entity.Customer{Name: "Different Name", Phone: "01712345678"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// the stored name wins over the resubmitted one
	assert.Equal(t, "Rahim Uddin", second.Name)
}

func TestFindOrCreateByPhoneRequiresPhone(t *testing.T) {
	svc := NewCustomerService(repository.NewMemoryStore())

	_, err := svc.FindOrCreateByPhone(context.Background(), &entity.Customer{Name: "Rahim Uddin"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)
}

func TestCreateCustomerDuplicatePhone(t *testing.T) {
	svc := NewCustomerService(repository.NewMemoryStore())

	_, err := svc.CreateCustomer(context.Background(), &entity.Customer{Name: "A", Phone: "01712345678"})
	require.NoError(t, err)

	_, err = svc.CreateCustomer(context.Background(), &entity.Customer{Name: "B", Phone: "01712345678"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(repository.NewMemoryStore())

	_, err := svc.GetCustomer(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
