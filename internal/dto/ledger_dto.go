package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Stock adjustments ───────────────────────────────────────────────────────

type CreateAdjustmentRequest struct {
	ProductID      string    `json:"productId"      validate:"required,uuid"`
	QuantityChange int       `json:"quantityChange" validate:"required"`
	Reason         string    `json:"reason"         validate:"required,max=120"`
	Date           time.Time `json:"date"           validate:"required"`
}

type AdjustmentResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName,omitempty"`
	QuantityChange int    `json:"quantityChange"`
	Reason         string `json:"reason"`
	Date           string `json:"date"`
	CreatedAt      string `json:"createdAt"`
}

type AdjustmentListResponse struct {
	Data  []AdjustmentResponse `json:"data"`
	Total int                  `json:"total"`
}

// ─── Sales ───────────────────────────────────────────────────────────────────

type CreateSaleRequest struct {
	ProductID    string          `json:"productId"    validate:"required,uuid"`
	QuantitySold int             `json:"quantitySold" validate:"required,gt=0"`
	PricePerItem decimal.Decimal `json:"pricePerItem" validate:"min=0"`
	SaleDate     time.Time       `json:"saleDate"     validate:"required"`
}

type SaleResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	QuantitySold int             `json:"quantitySold"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	SaleDate     string          `json:"saleDate"`
	CreatedAt    string          `json:"createdAt"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int            `json:"total"`
}

// ─── Notas ───────────────────────────────────────────────────────────────────

type CreateNotaRequest struct {
	ProductID  string    `json:"productId"  validate:"required,uuid"`
	Quantity   int       `json:"quantity"   validate:"required,gt=0"`
	NoteNumber string    `json:"noteNumber" validate:"omitempty,max=60"`
	Date       time.Time `json:"date"       validate:"required"`
}

type NotaResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	NoteNumber  string `json:"noteNumber,omitempty"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

type NotaListResponse struct {
	Data  []NotaResponse `json:"data"`
	Total int            `json:"total"`
}
