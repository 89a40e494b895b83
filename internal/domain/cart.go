package domain

import "github.com/shopspring/decimal"

// CartLine is a cart line joined with the product it references.
type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Stock     int             `json:"stock"`
	Rating    decimal.Decimal `json:"rating"`
}

// Subtotal is quantity times the current product price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ClampToStock caps a requested quantity at the available stock.
// It reports whether the value was reduced.
func ClampToStock(requested, stock int) (int, bool) {
	if stock < 0 {
		stock = 0
	}
	if requested > stock {
		return stock, true
	}
	return requested, false
}

// CartTotal sums line subtotals.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
