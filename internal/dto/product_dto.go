package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"         validate:"required,min=2,max=120"`
	Type         string          `json:"type"         validate:"required,max=60"`
	Barcode      string          `json:"barcode"      validate:"omitempty,min=4,max=18"`
	CostPrice    decimal.Decimal `json:"costPrice"    validate:"min=0"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"min=0"`
	InitialStock int             `json:"initialStock"`
}

// UpdateProductRequest replaces the editable fields wholesale. A
// currentStock different from the recorded value is an administrative
// override and produces a reconciling adjustment.
type UpdateProductRequest struct {
	Name         string          `json:"name"         validate:"required,min=2,max=120"`
	Type         string          `json:"type"         validate:"required,max=60"`
	Barcode      string          `json:"barcode"      validate:"omitempty,min=4,max=18"`
	CostPrice    decimal.Decimal `json:"costPrice"    validate:"min=0"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"min=0"`
	CurrentStock int             `json:"currentStock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Barcode      string          `json:"barcode,omitempty"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CurrentStock int             `json:"currentStock"`
	CreatedAt    string          `json:"createdAt"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int               `json:"total"`
}
