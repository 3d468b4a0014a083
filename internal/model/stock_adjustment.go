package model

import (
	"time"

	"github.com/google/uuid"
)

// StockAdjustment is a signed, dated delta to a product's stock count:
// the only source of truth for stock levels. ProductName is a snapshot
// taken at adjustment time and is intentionally not re-synced when the
// product is renamed (historical-record semantics).
type StockAdjustment struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName,omitempty"`
	QuantityChange int       `json:"quantityChange"` // positive = entrada, negative = salida
	Reason         string    `json:"reason"`
	Date           time.Time `json:"date"` // effective date, user-editable
	CreatedAt      time.Time `json:"createdAt"`
}
