package dto

import "github.com/shopspring/decimal"

// ─── Dashboard ───────────────────────────────────────────────────────────────

type DashboardResponse struct {
	TotalProducts     int                  `json:"totalProducts"`
	TotalStockItems   int                  `json:"totalStockItems"`
	TotalStockValue   decimal.Decimal      `json:"totalStockValue"` // at cost price
	TotalSalesCount   int                  `json:"totalSalesCount"`
	TotalRevenue      decimal.Decimal      `json:"totalRevenue"`
	RecentSales       []SaleResponse       `json:"recentSales"`
	RecentAdjustments []AdjustmentResponse `json:"recentAdjustments"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type ProductMargin struct {
	Name   string          `json:"name"`
	Margin decimal.Decimal `json:"margin"`
}

type StockLevel struct {
	Name         string `json:"name"`
	CurrentStock int    `json:"currentStock"`
}

type SalesReport struct {
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	TotalSalesCount       int             `json:"totalSalesCount"`
	TotalItemsSold        int             `json:"totalItemsSold"`
	BestSellingByQuantity []ProductSales  `json:"bestSellingByQuantity"`
	BestSellingByRevenue  []ProductSales  `json:"bestSellingByRevenue"`
}

type StockReport struct {
	TotalStockValue    decimal.Decimal `json:"totalStockValue"`
	TotalStockItems    int             `json:"totalStockItems"`
	LowStockProducts   []StockLevel    `json:"lowStockProducts"`
	OutOfStockProducts []StockLevel    `json:"outOfStockProducts"`
}

type ReportResponse struct {
	Sales                 SalesReport     `json:"sales"`
	Stock                 StockReport     `json:"stock"`
	HighestMarginProducts []ProductMargin `json:"highestMarginProducts"`
	GeneratedAt           string          `json:"generatedAt"`
}
