package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/service"
)

// Money goes over the wire as a JSON number, e.g. "total": 73.4.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	IsFeatured  bool            `json:"is_featured"`
	IsActive    *bool           `json:"is_active"`
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ImageURL     string          `json:"image_url"`
	IsFeatured   bool            `json:"is_featured"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CustomerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type CustomerResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type CartAddRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type CartUpdateRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type CartItemResponse struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
	Count int                `json:"count"`
}

type CartTotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

type CreateOrderRequest struct {
	CustomerData  *CustomerRequest `json:"customer_data"`
	PaymentMethod string           `json:"payment_method"`
	SessionID     string           `json:"session_id"`
}

// CheckoutResponse leaves the artifacts of the other payment method null.
type CheckoutResponse struct {
	OrderID         int64           `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentID       string          `json:"payment_id"`
	PaymentStatus   string          `json:"payment_status"`
	PixQRCode       *string         `json:"pix_qr_code"`
	PixQRCodeBase64 *string         `json:"pix_qr_code_base64"`
	BoletoURL       *string         `json:"boleto_url"`
	BoletoBarcode   *string         `json:"boleto_barcode"`
	TicketURL       *string         `json:"ticket_url"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type OrderResponse struct {
	ID               int64               `json:"id"`
	OrderNumber      string              `json:"order_number"`
	CustomerID       int64               `json:"customer_id"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Status           string              `json:"status"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentID        *string             `json:"payment_id"`
	PixQRCode        *string             `json:"pix_qr_code"`
	BoletoURL        *string             `json:"boleto_url"`
	BoletoBarcode    *string             `json:"boleto_barcode"`
	PaymentExpiresAt *time.Time          `json:"payment_expires_at"`
	Customer         *CustomerResponse   `json:"customer,omitempty"`
	Items            []OrderItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type PaymentStatusResponse struct {
	PaymentID    string     `json:"payment_id"`
	Status       string     `json:"status"`
	StatusDetail string     `json:"status_detail"`
	DateApproved *time.Time `json:"date_approved"`
}

type CheckoutLogEntry struct {
	Status    string    `json:"status"`
	Step      string    `json:"step,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Admin   AdminResponse `json:"admin"`
}

type VerifyResponse struct {
	Valid bool          `json:"valid"`
	Admin AdminResponse `json:"admin"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapCategory(c entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func mapProduct(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ImageURL:     p.ImageURL,
		IsFeatured:   p.IsFeatured,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r ProductRequest) toEntity(id int64) *entity.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &entity.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		IsFeatured:  r.IsFeatured,
		IsActive:    active,
	}
}

func (r CustomerRequest) toEntity(id int64) *entity.Customer {
	return &entity.Customer{ID: id, FullName: r.FullName, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

func mapCustomer(c entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func mapCart(s *service.CartSummary) CartResponse {
	items := make([]CartItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = CartItemResponse{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal(),
		}
	}
	return CartResponse{Items: items, Total: s.Total, Count: s.Count}
}

func mapCheckout(res *service.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		OrderID:         res.OrderID,
		OrderNumber:     res.OrderNumber,
		TotalAmount:     res.TotalAmount,
		PaymentMethod:   string(res.PaymentMethod),
		PaymentID:       res.PaymentID,
		PaymentStatus:   string(res.PaymentStatus),
		PixQRCode:       optional(res.PixQRCode),
		PixQRCodeBase64: optional(res.PixQRBase64),
		BoletoURL:       optional(res.BoletoURL),
		BoletoBarcode:   optional(res.BoletoBarcode),
		TicketURL:       optional(res.TicketURL),
		ExpiresAt:       res.ExpiresAt,
	}
}

func mapOrder(o entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		PaymentID:     optional(o.Payment.ID),
		PixQRCode:     optional(o.Payment.PixQRCode),
		BoletoURL:     optional(o.Payment.BoletoURL),
		BoletoBarcode: optional(o.Payment.BoletoBarcode),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if !o.Payment.ExpiresAt.IsZero() {
		at := o.Payment.ExpiresAt
		resp.PaymentExpiresAt = &at
	}
	if o.Customer != nil {
		c := mapCustomer(*o.Customer)
		resp.Customer = &c
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return resp
}

func mapCheckoutLog(entries []sagalog.SagaLog) []CheckoutLogEntry {
	out := make([]CheckoutLogEntry, len(entries))
	for i, e := range entries {
		out[i] = CheckoutLogEntry{
			Status:    string(e.Status),
			Step:      e.CurrentStep,
			Payload:   e.Payload,
			Errors:    e.Errors(),
			TraceID:   e.TraceID,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return out
}

func mapAdmin(a *entity.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Username: a.Username}
}
