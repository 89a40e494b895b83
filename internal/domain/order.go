package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status every order is created with.
const OrderStatusPending = "pending"

type Order struct {
	ID        int64           `json:"orderId"`
	ClientID  int64           `json:"clientId"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	Lines     []OrderLine     `json:"lines,omitempty"`
}

// OrderLine is a snapshot of a cart line at checkout time.
type OrderLine struct {
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
