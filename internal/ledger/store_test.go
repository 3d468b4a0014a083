package ledger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/model"
	"github.com/Filho-do-homem/dsystem/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory BlobStore stub ─────────────────────────────────────────────────

type stubBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves int
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{blobs: make(map[string][]byte)}
}

func (s *stubBlobStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	return data, ok, nil
}

func (s *stubBlobStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	s.saves++
	return nil
}

var _ storage.BlobStore = (*stubBlobStore)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func newTestStore(t *testing.T) (*Store, *stubBlobStore) {
	t.Helper()
	blobs := newStubBlobStore()
	s, err := NewStore(context.Background(), blobs)
	require.NoError(t, err)
	return s, blobs
}

func seedCandle(t *testing.T, s *Store) model.Product {
	t.Helper()
	p, err := s.AddProduct(context.Background(), CreateProduct{
		Name:         "Candle",
		Type:         "Candle",
		Barcode:      "7891000100103",
		CostPrice:    decimal.NewFromInt(5),
		SellingPrice: decimal.NewFromInt(15),
		InitialStock: 50,
	})
	require.NoError(t, err)
	return p
}

// requireStockInvariant asserts that every product's CurrentStock equals
// the signed sum of its adjustment history.
func requireStockInvariant(t *testing.T, s *Store) {
	t.Helper()
	sums := make(map[uuid.UUID]int)
	for _, adj := range s.StockAdjustments() {
		sums[adj.ProductID] += adj.QuantityChange
	}
	for _, p := range s.Products() {
		require.Equal(t, sums[p.ID], p.CurrentStock,
			"product %s: stock %d diverges from adjustment sum %d", p.Name, p.CurrentStock, sums[p.ID])
	}
}

// ── Products ─────────────────────────────────────────────────────────────────

func TestAddProduct_InitialStockCreatesAdjustment(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	assert.Equal(t, 50, p.CurrentStock)

	adjustments := s.StockAdjustments()
	require.Len(t, adjustments, 1)
	assert.Equal(t, p.ID, adjustments[0].ProductID)
	assert.Equal(t, 50, adjustments[0].QuantityChange)
	assert.Equal(t, ReasonInitialStock, adjustments[0].Reason)
	assert.Equal(t, "Candle", adjustments[0].ProductName)

	requireStockInvariant(t, s)
}

func TestAddProduct_ZeroInitialStockNoAdjustment(t *testing.T) {
	s, _ := newTestStore(t)
	p, err := s.AddProduct(context.Background(), CreateProduct{
		Name: "Cream", Type: "Cream",
		CostPrice:    decimal.NewFromInt(3),
		SellingPrice: decimal.NewFromInt(9),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)
	assert.Empty(t, s.StockAdjustments())
}

func TestAddProduct_DuplicateBarcodeRejected(t *testing.T) {
	s, _ := newTestStore(t)
	seedCandle(t, s)

	_, err := s.AddProduct(context.Background(), CreateProduct{
		Name: "Other", Type: "Perfume", Barcode: "7891000100103",
	})
	assert.ErrorIs(t, err, ErrDuplicateBarcode)
	assert.Len(t, s.Products(), 1)
}

func TestAddProduct_Validation(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddProduct(context.Background(), CreateProduct{Name: ""})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = s.AddProduct(context.Background(), CreateProduct{
		Name: "Bad", CostPrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrNegativePrice)
	assert.Empty(t, s.Products())
}

func TestGetProductLookups(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	got, ok := s.GetProductByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.Name, got.Name)

	got, ok = s.GetProductByBarcode("7891000100103")
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	_, ok = s.GetProductByID(uuid.New())
	assert.False(t, ok)
	_, ok = s.GetProductByBarcode("0000000000000")
	assert.False(t, ok)
}

func TestUpdateProduct_RenameKeepsSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	p.Name = "Lavender Candle"
	updated, err := s.UpdateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Lavender Candle", updated.Name)

	// The adjustment snapshot keeps the name at adjustment time.
	adjustments := s.StockAdjustments()
	require.Len(t, adjustments, 1)
	assert.Equal(t, "Candle", adjustments[0].ProductName)
}

func TestUpdateProduct_StockOverrideEmitsCorrection(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	p.CurrentStock = 42 // admin says the shelf has 42, not 50
	updated, err := s.UpdateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 42, updated.CurrentStock)

	adjustments := s.StockAdjustments()
	require.Len(t, adjustments, 2)
	var correction *model.StockAdjustment
	for i := range adjustments {
		if adjustments[i].Reason == ReasonStockCorrection {
			correction = &adjustments[i]
		}
	}
	require.NotNil(t, correction)
	assert.Equal(t, -8, correction.QuantityChange)

	requireStockInvariant(t, s)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.UpdateProduct(context.Background(), model.Product{ID: uuid.New(), Name: "Ghost"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProduct_DuplicateBarcodeRejected(t *testing.T) {
	s, _ := newTestStore(t)
	seedCandle(t, s)
	other, err := s.AddProduct(context.Background(), CreateProduct{
		Name: "Cream", Type: "Cream", Barcode: "7891000100202",
	})
	require.NoError(t, err)

	other.Barcode = "7891000100103"
	_, err = s.UpdateProduct(context.Background(), other)
	assert.ErrorIs(t, err, ErrDuplicateBarcode)
}

// ── Stock adjustments ────────────────────────────────────────────────────────

func TestAddStockAdjustment(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	adj, err := s.AddStockAdjustment(context.Background(), CreateAdjustment{
		ProductID:      p.ID,
		QuantityChange: -3,
		Reason:         "Damaged Goods",
		Date:           time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Candle", adj.ProductName)

	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 47, got.CurrentStock)
	requireStockInvariant(t, s)
}

func TestAddStockAdjustment_UnknownProduct(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddStockAdjustment(context.Background(), CreateAdjustment{
		ProductID: uuid.New(), QuantityChange: 5, Reason: "New Batch", Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddStockAdjustment_ZeroRejected(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	_, err := s.AddStockAdjustment(context.Background(), CreateAdjustment{
		ProductID: p.ID, QuantityChange: 0, Reason: "Other", Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrZeroQuantity)
	assert.Len(t, s.StockAdjustments(), 1) // only the initial one
}

func TestAddStockAdjustment_NegativeStockAllowed(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	// The store does not clamp at zero; only the sale path pre-checks.
	_, err := s.AddStockAdjustment(context.Background(), CreateAdjustment{
		ProductID: p.ID, QuantityChange: -60, Reason: "Stock Count Correction", Date: time.Now(),
	})
	require.NoError(t, err)

	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, -10, got.CurrentStock)
	requireStockInvariant(t, s)
}

func TestAdjustments_SortedByDateDescending(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []int{-2, 3, -5, 1} {
		_, err := s.AddStockAdjustment(context.Background(), CreateAdjustment{
			ProductID:      p.ID,
			QuantityChange: 1,
			Reason:         "New Batch",
			Date:           base.AddDate(0, 0, offset),
		})
		require.NoError(t, err)
	}

	adjustments := s.StockAdjustments()
	for i := 1; i < len(adjustments); i++ {
		assert.False(t, adjustments[i-1].Date.Before(adjustments[i].Date),
			"adjustments not sorted by date descending at index %d", i)
	}
}

// ── Sales ────────────────────────────────────────────────────────────────────

func TestAddSale(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	sale, err := s.AddSale(context.Background(), CreateSale{
		ProductID:    p.ID,
		QuantitySold: 2,
		PricePerItem: decimal.NewFromInt(15),
		SaleDate:     time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(30)), "totalAmount = %s", sale.TotalAmount)
	assert.Equal(t, "Candle", sale.ProductName)

	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 48, got.CurrentStock)

	// Exactly one paired negative adjustment referencing the sale id prefix.
	var paired []model.StockAdjustment
	for _, adj := range s.StockAdjustments() {
		if strings.HasPrefix(adj.Reason, "Venda ID: ") {
			paired = append(paired, adj)
		}
	}
	require.Len(t, paired, 1)
	assert.Equal(t, -2, paired[0].QuantityChange)
	assert.Equal(t, p.ID, paired[0].ProductID)
	assert.Equal(t, "Venda ID: "+sale.ID.String()[:4], paired[0].Reason)
	assert.True(t, paired[0].Date.Equal(sale.SaleDate))

	requireStockInvariant(t, s)
}

func TestAddSale_InsufficientStock(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	_, err := s.AddSale(context.Background(), CreateSale{
		ProductID: p.ID, QuantitySold: 2, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = s.AddSale(context.Background(), CreateSale{
		ProductID: p.ID, QuantitySold: 100, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// State unchanged by the failed sale.
	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 48, got.CurrentStock)
	assert.Len(t, s.Sales(), 1)
	assert.Len(t, s.StockAdjustments(), 2)
	requireStockInvariant(t, s)
}

func TestAddSale_UnknownProduct(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddSale(context.Background(), CreateSale{
		ProductID: uuid.New(), QuantitySold: 1, PricePerItem: decimal.NewFromInt(1), SaleDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddSale_InvalidQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	_, err := s.AddSale(context.Background(), CreateSale{
		ProductID: p.ID, QuantitySold: 0, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestClearSales_KeepsAdjustmentsAndStock(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	_, err := s.AddSale(context.Background(), CreateSale{
		ProductID: p.ID, QuantitySold: 5, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
	})
	require.NoError(t, err)

	s.ClearSales(context.Background())

	assert.Empty(t, s.Sales())
	// The intentional asymmetry: adjustments and stock stay post-sale.
	assert.Len(t, s.StockAdjustments(), 2)
	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 45, got.CurrentStock)
}

// ── Notas ────────────────────────────────────────────────────────────────────

func TestAddNota(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	nota, err := s.AddNota(context.Background(), CreateNota{
		ProductID:  p.ID,
		Quantity:   10,
		NoteNumber: "NF-1",
		Date:       date,
	})
	require.NoError(t, err)
	assert.Equal(t, "Candle", nota.ProductName)

	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 60, got.CurrentStock)

	var paired []model.StockAdjustment
	for _, adj := range s.StockAdjustments() {
		if adj.Reason == ReasonNotaEntry {
			paired = append(paired, adj)
		}
	}
	require.Len(t, paired, 1)
	assert.Equal(t, 10, paired[0].QuantityChange)
	// Nota and its adjustment share the same effective date.
	assert.True(t, paired[0].Date.Equal(date))
	requireStockInvariant(t, s)
}

func TestAddNota_UnknownProduct(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddNota(context.Background(), CreateNota{
		ProductID: uuid.New(), Quantity: 10, Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddNota_InvalidQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s)
	_, err := s.AddNota(context.Background(), CreateNota{
		ProductID: p.ID, Quantity: 0, Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

// ── Cascade delete ───────────────────────────────────────────────────────────

func TestDeleteProduct_Cascades(t *testing.T) {
	s, _ := newTestStore(t)
	victim := seedCandle(t, s)
	bystander, err := s.AddProduct(context.Background(), CreateProduct{
		Name: "Cream", Type: "Cream", InitialStock: 5,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.AddSale(context.Background(), CreateSale{
			ProductID: victim.ID, QuantitySold: 1, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
		})
		require.NoError(t, err)
	}
	_, err = s.AddNota(context.Background(), CreateNota{ProductID: victim.ID, Quantity: 2, Date: time.Now()})
	require.NoError(t, err)
	_, err = s.AddStockAdjustment(context.Background(), CreateAdjustment{
		ProductID: victim.ID, QuantityChange: -1, Reason: "Damaged Goods", Date: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(context.Background(), victim.ID))

	_, ok := s.GetProductByID(victim.ID)
	assert.False(t, ok)
	for _, adj := range s.StockAdjustments() {
		assert.NotEqual(t, victim.ID, adj.ProductID)
	}
	for _, sale := range s.Sales() {
		assert.NotEqual(t, victim.ID, sale.ProductID)
	}
	for _, nota := range s.Notas() {
		assert.NotEqual(t, victim.ID, nota.ProductID)
	}

	// The bystander keeps its records.
	got, ok := s.GetProductByID(bystander.ID)
	require.True(t, ok)
	assert.Equal(t, 5, got.CurrentStock)
	assert.Len(t, s.StockAdjustments(), 1)
	requireStockInvariant(t, s)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ── Persistence ──────────────────────────────────────────────────────────────

func TestStore_PersistsAndReloads(t *testing.T) {
	blobs := newStubBlobStore()
	ctx := context.Background()

	s1, err := NewStore(ctx, blobs)
	require.NoError(t, err)
	p, err := s1.AddProduct(ctx, CreateProduct{
		Name: "Candle", Type: "Candle",
		CostPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(15),
		InitialStock: 50,
	})
	require.NoError(t, err)
	_, err = s1.AddSale(ctx, CreateSale{
		ProductID: p.ID, QuantitySold: 2, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
	})
	require.NoError(t, err)

	// A fresh store over the same blobs sees identical state.
	s2, err := NewStore(ctx, blobs)
	require.NoError(t, err)

	got, ok := s2.GetProductByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, 48, got.CurrentStock)
	assert.Len(t, s2.Sales(), 1)
	assert.Len(t, s2.StockAdjustments(), 2)
	requireStockInvariant(t, s2)
}

func TestStore_StartsEmptyOnMissingBlobs(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.Products())
	assert.Empty(t, s.StockAdjustments())
	assert.Empty(t, s.Sales())
	assert.Empty(t, s.Notas())
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestAddSale_ConcurrentNeverOverdraws(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedCandle(t, s) // stock 50

	const attempts = 100
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.AddSale(context.Background(), CreateSale{
				ProductID: p.ID, QuantitySold: 1, PricePerItem: decimal.NewFromInt(15), SaleDate: time.Now(),
			})
		}()
	}
	wg.Wait()

	got, _ := s.GetProductByID(p.ID)
	assert.Equal(t, 0, got.CurrentStock)
	assert.Len(t, s.Sales(), 50)
	requireStockInvariant(t, s)
}

func TestSnapshots_AreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	seedCandle(t, s)

	products := s.Products()
	products[0].CurrentStock = 9999

	got := s.Products()
	assert.Equal(t, 50, got[0].CurrentStock)
}

func TestProductTypes(t *testing.T) {
	s, _ := newTestStore(t)
	for _, typ := range []string{"Candle", "Cream", "Candle", "Perfume"} {
		_, err := s.AddProduct(context.Background(), CreateProduct{Name: typ + " item", Type: typ})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Candle", "Cream", "Perfume"}, s.ProductTypes())
}
