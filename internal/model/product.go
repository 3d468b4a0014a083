package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. CurrentStock is derived state: it always
// equals the signed sum of the product's stock adjustments and is never
// written directly outside the ledger store.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Barcode      string          `json:"barcode,omitempty"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CurrentStock int             `json:"currentStock"`
	CreatedAt    time.Time       `json:"createdAt"`
}
