package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an outgoing transaction. PricePerItem snapshots the selling
// price at sale time and may differ from the product's current price.
// Every sale is paired with exactly one negative StockAdjustment.
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	QuantitySold int             `json:"quantitySold"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	SaleDate     time.Time       `json:"saleDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}
