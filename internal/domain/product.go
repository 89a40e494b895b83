package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"productId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	CategoryID   *int64          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
	Rating       decimal.Decimal `json:"rating"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ProductFilter narrows catalog listings. Zero values mean no filter.
type ProductFilter struct {
	CategoryID *int64
	MaxPrice   *decimal.Decimal
	Query      string
}
