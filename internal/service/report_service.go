package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/dto"
	"github.com/Filho-do-homem/dsystem/internal/ledger"
	"github.com/Filho-do-homem/dsystem/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	topProductsLimit  = 5
	lowStockThreshold = 10
)

// ReportService derives the dashboard and report views from ledger
// snapshots. It never mutates; everything here is a pure read.
type ReportService interface {
	Dashboard() *dto.DashboardResponse
	Report() *dto.ReportResponse
	ExportCSV() ([]byte, error)
	ExportXLSX() ([]byte, error)
}

type reportService struct {
	store *ledger.Store
	now   func() time.Time
}

func NewReportService(store *ledger.Store) ReportService {
	return &reportService{store: store, now: time.Now}
}

func (s *reportService) Dashboard() *dto.DashboardResponse {
	products := s.store.Products()
	sales := s.store.Sales()
	adjustments := s.store.StockAdjustments()

	totalStockItems := 0
	totalStockValue := decimal.Zero
	for _, p := range products {
		totalStockItems += p.CurrentStock
		totalStockValue = totalStockValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
	}
	totalRevenue := decimal.Zero
	for _, v := range sales {
		totalRevenue = totalRevenue.Add(v.TotalAmount)
	}

	const recentLimit = 5
	recentSales := make([]dto.SaleResponse, 0, recentLimit)
	for _, v := range sales[:min(recentLimit, len(sales))] {
		recentSales = append(recentSales, SaleToResponse(v))
	}
	recentAdjustments := make([]dto.AdjustmentResponse, 0, recentLimit)
	for _, a := range adjustments[:min(recentLimit, len(adjustments))] {
		recentAdjustments = append(recentAdjustments, AdjustmentToResponse(a))
	}

	return &dto.DashboardResponse{
		TotalProducts:     len(products),
		TotalStockItems:   totalStockItems,
		TotalStockValue:   totalStockValue,
		TotalSalesCount:   len(sales),
		TotalRevenue:      totalRevenue,
		RecentSales:       recentSales,
		RecentAdjustments: recentAdjustments,
	}
}

func (s *reportService) Report() *dto.ReportResponse {
	products := s.store.Products()
	sales := s.store.Sales()

	// Sales summary
	totalRevenue := decimal.Zero
	totalItemsSold := 0
	byProduct := make(map[string]*dto.ProductSales)
	for _, v := range sales {
		totalRevenue = totalRevenue.Add(v.TotalAmount)
		totalItemsSold += v.QuantitySold
		key := v.ProductID.String()
		agg, ok := byProduct[key]
		if !ok {
			name := v.ProductName
			if name == "" {
				name = "Produto Desconhecido"
			}
			agg = &dto.ProductSales{ProductID: key, Name: name, Revenue: decimal.Zero}
			byProduct[key] = agg
		}
		agg.Quantity += v.QuantitySold
		agg.Revenue = agg.Revenue.Add(v.TotalAmount)
	}
	aggregated := make([]dto.ProductSales, 0, len(byProduct))
	for _, agg := range byProduct {
		aggregated = append(aggregated, *agg)
	}
	byQuantity := append([]dto.ProductSales(nil), aggregated...)
	sort.SliceStable(byQuantity, func(i, j int) bool { return byQuantity[i].Quantity > byQuantity[j].Quantity })
	byRevenue := append([]dto.ProductSales(nil), aggregated...)
	sort.SliceStable(byRevenue, func(i, j int) bool { return byRevenue[i].Revenue.GreaterThan(byRevenue[j].Revenue) })

	// Stock summary
	totalStockValue := decimal.Zero
	totalStockItems := 0
	var lowStock, outOfStock []dto.StockLevel
	for _, p := range products {
		totalStockItems += p.CurrentStock
		totalStockValue = totalStockValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
		switch {
		case p.CurrentStock == 0:
			outOfStock = append(outOfStock, dto.StockLevel{Name: p.Name, CurrentStock: 0})
		case p.CurrentStock > 0 && p.CurrentStock < lowStockThreshold:
			lowStock = append(lowStock, dto.StockLevel{Name: p.Name, CurrentStock: p.CurrentStock})
		}
	}
	sort.SliceStable(lowStock, func(i, j int) bool { return lowStock[i].CurrentStock < lowStock[j].CurrentStock })

	// Margins: only products with a positive margin rank
	var margins []dto.ProductMargin
	for _, p := range products {
		margin := p.SellingPrice.Sub(p.CostPrice)
		if margin.IsPositive() {
			margins = append(margins, dto.ProductMargin{Name: p.Name, Margin: margin})
		}
	}
	sort.SliceStable(margins, func(i, j int) bool { return margins[i].Margin.GreaterThan(margins[j].Margin) })

	return &dto.ReportResponse{
		Sales: dto.SalesReport{
			TotalRevenue:          totalRevenue,
			TotalSalesCount:       len(sales),
			TotalItemsSold:        totalItemsSold,
			BestSellingByQuantity: byQuantity[:min(topProductsLimit, len(byQuantity))],
			BestSellingByRevenue:  byRevenue[:min(topProductsLimit, len(byRevenue))],
		},
		Stock: dto.StockReport{
			TotalStockValue:    totalStockValue,
			TotalStockItems:    totalStockItems,
			LowStockProducts:   lowStock,
			OutOfStockProducts: outOfStock,
		},
		HighestMarginProducts: margins[:min(topProductsLimit, len(margins))],
		GeneratedAt:           s.now().Format(time.RFC3339),
	}
}

// ExportCSV renders the general report in the layout the web client
// downloads: stacked sections, each with its own header row.
func (s *reportService) ExportCSV() ([]byte, error) {
	r := s.Report()

	var buf bytes.Buffer
	buf.WriteString("\uFEFF") // BOM for Excel compatibility
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	rows := [][]string{
		{"Relatório Geral D'System"},
		{"Data de Emissão", s.now().Format("02/01/2006 15:04:05")},
		{},
		{"Resumo de Vendas"},
		{"Métrica", "Valor"},
		{"Receita Total", currency(r.Sales.TotalRevenue)},
		{"Total de Vendas", fmt.Sprint(r.Sales.TotalSalesCount)},
		{},
		{"Resumo de Estoque"},
		{"Métrica", "Valor"},
		{"Valor do Estoque (Custo)", currency(r.Stock.TotalStockValue)},
		{"Itens em Estoque", fmt.Sprint(r.Stock.TotalStockItems)},
		{},
		{"Mais Vendidos (por Quantidade)"},
		{"Produto", "Unidades Vendidas"},
	}
	for _, p := range r.Sales.BestSellingByQuantity {
		rows = append(rows, []string{p.Name, fmt.Sprint(p.Quantity)})
	}
	rows = append(rows, []string{}, []string{"Mais Vendidos (por Receita)"}, []string{"Produto", "Receita"})
	for _, p := range r.Sales.BestSellingByRevenue {
		rows = append(rows, []string{p.Name, currency(p.Revenue)})
	}
	rows = append(rows, []string{}, []string{"Produtos com Maior Margem de Lucro"}, []string{"Produto", "Margem"})
	for _, p := range r.HighestMarginProducts {
		rows = append(rows, []string{p.Name, currency(p.Margin)})
	}
	rows = append(rows, []string{}, []string{"Produtos com Estoque Baixo"}, []string{"Produto", "Estoque Atual"})
	for _, p := range r.Stock.LowStockProducts {
		rows = append(rows, []string{p.Name, fmt.Sprint(p.CurrentStock)})
	}
	rows = append(rows, []string{}, []string{"Produtos Sem Estoque"}, []string{"Produto"})
	for _, p := range r.Stock.OutOfStockProducts {
		rows = append(rows, []string{p.Name})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), nil
}

// ExportXLSX renders the same report as a workbook, one sheet per
// section.
func (s *reportService) ExportXLSX() ([]byte, error) {
	r := s.Report()

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Resumo"
	f.SetSheetName("Sheet1", summary)
	writeRows(f, summary, [][]interface{}{
		{"Relatório Geral D'System"},
		{"Data de Emissão", s.now().Format("02/01/2006 15:04:05")},
		{},
		{"Receita Total", currency(r.Sales.TotalRevenue)},
		{"Total de Vendas", r.Sales.TotalSalesCount},
		{"Itens Vendidos", r.Sales.TotalItemsSold},
		{"Valor do Estoque (Custo)", currency(r.Stock.TotalStockValue)},
		{"Itens em Estoque", r.Stock.TotalStockItems},
	})

	sellers := [][]interface{}{{"Produto", "Unidades Vendidas", "Receita"}}
	for _, p := range r.Sales.BestSellingByQuantity {
		sellers = append(sellers, []interface{}{p.Name, p.Quantity, currency(p.Revenue)})
	}
	if _, err := f.NewSheet("Mais Vendidos"); err != nil {
		return nil, err
	}
	writeRows(f, "Mais Vendidos", sellers)

	stock := [][]interface{}{{"Produto", "Estoque Atual"}}
	for _, p := range r.Stock.LowStockProducts {
		stock = append(stock, []interface{}{p.Name, p.CurrentStock})
	}
	for _, p := range r.Stock.OutOfStockProducts {
		stock = append(stock, []interface{}{p.Name, 0})
	}
	if _, err := f.NewSheet("Estoque Baixo"); err != nil {
		return nil, err
	}
	writeRows(f, "Estoque Baixo", stock)

	margins := [][]interface{}{{"Produto", "Margem"}}
	for _, p := range r.HighestMarginProducts {
		margins = append(margins, []interface{}{p.Name, currency(p.Margin)})
	}
	if _, err := f.NewSheet("Margens"); err != nil {
		return nil, err
	}
	writeRows(f, "Margens", margins)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(sheet, cell, &row)
	}
}

func currency(v decimal.Decimal) string {
	return "R$" + v.StringFixed(2)
}

// ─── Model → DTO mappers shared with the handlers ────────────────────────────

func ProductToResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Type:         p.Type,
		Barcode:      p.Barcode,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		CurrentStock: p.CurrentStock,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func AdjustmentToResponse(a model.StockAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:             a.ID.String(),
		ProductID:      a.ProductID.String(),
		ProductName:    a.ProductName,
		QuantityChange: a.QuantityChange,
		Reason:         a.Reason,
		Date:           a.Date.Format(time.RFC3339),
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func SaleToResponse(v model.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:           v.ID.String(),
		ProductID:    v.ProductID.String(),
		ProductName:  v.ProductName,
		QuantitySold: v.QuantitySold,
		PricePerItem: v.PricePerItem,
		TotalAmount:  v.TotalAmount,
		SaleDate:     v.SaleDate.Format(time.RFC3339),
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
}

func NotaToResponse(n model.Nota) dto.NotaResponse {
	return dto.NotaResponse{
		ID:          n.ID.String(),
		ProductID:   n.ProductID.String(),
		ProductName: n.ProductName,
		Quantity:    n.Quantity,
		NoteNumber:  n.NoteNumber,
		Date:        n.Date.Format(time.RFC3339),
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}
