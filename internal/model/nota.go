package model

import (
	"time"

	"github.com/google/uuid"
)

// Nota is an incoming-goods note. Every nota is paired with exactly one
// positive StockAdjustment sharing its effective date.
type Nota struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	NoteNumber  string    `json:"noteNumber,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}
