package api

import (
	"time"

	"github.com/myshop/go-shop-client/session"
)

// Page is the backend's paged collection envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// Product is the catalogue view of a product.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	SKU           string    `json:"sku,omitempty"`
	AvgRating     float64   `json:"avgRating,omitempty"`
	ReviewCount   int       `json:"reviewCount,omitempty"`
	IsActive      bool      `json:"isActive"`
	CategoryID    string    `json:"categoryId,omitempty"`
	CategoryName  string    `json:"categoryName,omitempty"`
	CategorySlug  string    `json:"categorySlug,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Category is a catalogue category, optionally nested under a parent.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	ParentID   string `json:"parentId,omitempty"`
	ParentName string `json:"parentName,omitempty"`
}

// CartItem is one line of the shopping cart.
type CartItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the user's current shopping cart.
type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

// ItemCount sums line quantities — the value shown on the cart badge.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// OrderStatus is the server-driven order lifecycle state.
type OrderStatus string

const (
	OrderPending         OrderStatus = "PENDING"
	OrderAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderProcessing      OrderStatus = "PROCESSING"
	OrderShipped         OrderStatus = "SHIPPED"
	OrderDelivered       OrderStatus = "DELIVERED"
	OrderCancelled       OrderStatus = "CANCELLED"
	OrderPaymentFailed   OrderStatus = "PAYMENT_FAILED"
)

// Terminal reports whether no further transitions are expected for the
// status. Polling stops permanently once a terminal status is observed.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is a placed order with its items and payment state.
type Order struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Status           OrderStatus       `json:"status"`
	TotalAmount      float64           `json:"totalAmount"`
	PaymentStatus    string            `json:"paymentStatus,omitempty"`
	PaymentReference string            `json:"paymentReference,omitempty"`
	ShippingAddress  map[string]string `json:"shippingAddress,omitempty"`
	Items            []OrderItem       `json:"items"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// Review is a product review.
type Review struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName,omitempty"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Comment          string    `json:"comment"`
	HelpfulVotes     int       `json:"helpfulVotes"`
	VerifiedPurchase bool      `json:"verifiedPurchase"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Notification is one entry of the notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials aliases the session credential pair for call sites that only
// import api.
type Credentials = session.Credentials
