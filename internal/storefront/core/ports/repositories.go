package ports

import (
	"context"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	CreateCategory(ctx context.Context, c *entity.Category) error
	UpdateCategory(ctx context.Context, c *entity.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	CreateProduct(ctx context.Context, p *entity.Product) error
	UpdateProduct(ctx context.Context, p *entity.Product) error
	DeactivateProduct(ctx context.Context, id int64) error
}

type CartRepository interface {
	AddItem(ctx context.Context, sessionID string, productID int64, qty int) error
	SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) error
	RemoveItem(ctx context.Context, sessionID string, productID int64) error
	Clear(ctx context.Context, sessionID string) error
	Items(ctx context.Context, sessionID string) ([]entity.CartItem, error)
}

type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]entity.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*entity.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, c *entity.Customer) error
	UpdateCustomer(ctx context.Context, c *entity.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

// OrderRepository owns order persistence. PlaceOrder is the one atomic unit
// of checkout: customer upsert, order row and every item commit together or
// not at all.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, customer *entity.Customer, order *entity.Order) error
	AttachPayment(ctx context.Context, orderID int64, status entity.PaymentStatus, p entity.PaymentDetails) error
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	// SwapPaymentStatus sets the payment status only if it still equals from,
	// reporting whether this call performed the change.
	SwapPaymentStatus(ctx context.Context, id int64, from, to entity.PaymentStatus) (bool, error)
}

type AdminRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (*entity.Admin, error)
	GetAdmin(ctx context.Context, id int64) (*entity.Admin, error)
}
