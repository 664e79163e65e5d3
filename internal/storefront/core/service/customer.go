package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

type CustomerService struct {
	repo ports.CustomerRepository
}

func NewCustomerService(repo ports.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Register creates a customer from the public sign-up form. An e-mail that is
// already registered is a conflict.
func (s *CustomerService) Register(ctx context.Context, c *entity.Customer) error {
	c.Normalize()
	if err := c.ValidateForRegistration(); err != nil {
		return err
	}
	existing, err := s.repo.GetCustomerByEmail(ctx, c.Email)
	switch {
	case err == nil && existing != nil:
		return fmt.Errorf("%w: e-mail %s already registered", entity.ErrConflict, c.Email)
	case err != nil && !errors.Is(err, entity.ErrNotFound):
		return err
	}
	return s.repo.CreateCustomer(ctx, c)
}

func (s *CustomerService) List(ctx context.Context) ([]entity.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) Update(ctx context.Context, c *entity.Customer) error {
	c.Normalize()
	if err := c.ValidateForRegistration(); err != nil {
		return err
	}
	return s.repo.UpdateCustomer(ctx, c)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}
