// Package ledger owns the four collections of the inventory ledger
// (products, stock adjustments, sales and incoming notes) and keeps
// them referentially consistent: a product's CurrentStock always equals
// the signed sum of its adjustment history, and sales and notas are
// always paired with the adjustment that moved the stock.
//
// All public operations execute under a single mutex, so compound
// operations (sale → adjustment → product update) commit as one atomic
// state transition; in particular the stock-sufficiency check in
// AddSale and the deduction it guards can never interleave with another
// sale of the same product.
package ledger

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/model"
	"github.com/Filho-do-homem/dsystem/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Reason vocabulary. ReasonInitialStock and ReasonStockCorrection are
// also selectable from the adjustment form; the other two are only ever
// generated by the store itself.
const (
	ReasonInitialStock    = "Initial Stock"
	ReasonStockCorrection = "Stock Count Correction"
	ReasonNotaEntry       = "Entrada por Nota"
	reasonSalePrefix      = "Venda ID: "
)

// Store is the single source of truth for the four collections. All
// mutation goes through its public operations; collaborators only ever
// see copies of the collections.
type Store struct {
	mu          sync.Mutex
	products    []model.Product
	adjustments []model.StockAdjustment
	sales       []model.Sale
	notas       []model.Nota

	blobs storage.BlobStore
	now   func() time.Time
}

// Option customizes Store construction (test hooks).
type Option func(*Store)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads the four collections from the blob store. Missing or
// unreadable blobs fall back to empty collections; first boot is not
// an error.
func NewStore(ctx context.Context, blobs storage.BlobStore, opts ...Option) (*Store, error) {
	s := &Store{blobs: blobs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	loadCollection(ctx, blobs, storage.KeyProducts, &s.products)
	loadCollection(ctx, blobs, storage.KeyStockAdjustments, &s.adjustments)
	loadCollection(ctx, blobs, storage.KeySales, &s.sales)
	loadCollection(ctx, blobs, storage.KeyNotas, &s.notas)
	return s, nil
}

func loadCollection[T any](ctx context.Context, blobs storage.BlobStore, key string, dst *[]T) {
	data, ok, err := blobs.Load(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to load collection, starting empty")
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Error().Err(err).Str("key", key).Msg("corrupt collection blob, starting empty")
		*dst = nil
	}
}

// persist serializes one collection and hands it to the blob store.
// Persistence is best-effort: the in-memory state is authoritative and
// a failed save never rolls back a completed operation.
func (s *Store) persist(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to serialize collection")
		return
	}
	if err := s.blobs.Save(ctx, key, data); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to persist collection")
	}
}

// ── Inputs ───────────────────────────────────────────────────────────────────

type CreateProduct struct {
	Name         string
	Type         string
	Barcode      string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	InitialStock int
}

type CreateAdjustment struct {
	ProductID      uuid.UUID
	QuantityChange int
	Reason         string
	Date           time.Time
}

type CreateSale struct {
	ProductID    uuid.UUID
	QuantitySold int
	PricePerItem decimal.Decimal
	SaleDate     time.Time
}

type CreateNota struct {
	ProductID  uuid.UUID
	Quantity   int
	NoteNumber string
	Date       time.Time
}

// ── Products ─────────────────────────────────────────────────────────────────

// AddProduct creates a product with zero stock; a nonzero InitialStock
// synthesizes an "Initial Stock" adjustment so that CurrentStock is
// backed by the event log from the very first record.
func (s *Store) AddProduct(ctx context.Context, in CreateProduct) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Name == "" {
		return model.Product{}, ErrEmptyName
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return model.Product{}, ErrNegativePrice
	}
	if in.Barcode != "" && s.findByBarcode(in.Barcode) != nil {
		return model.Product{}, ErrDuplicateBarcode
	}

	now := s.now()
	p := model.Product{
		ID:           uuid.New(),
		Name:         in.Name,
		Type:         in.Type,
		Barcode:      in.Barcode,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		CurrentStock: 0,
		CreatedAt:    now,
	}
	s.products = append(s.products, p)

	if in.InitialStock != 0 {
		s.appendAdjustment(model.StockAdjustment{
			ID:             uuid.New(),
			ProductID:      p.ID,
			ProductName:    p.Name,
			QuantityChange: in.InitialStock,
			Reason:         ReasonInitialStock,
			Date:           now,
			CreatedAt:      now,
		})
		p.CurrentStock = in.InitialStock
		s.replaceProduct(p)
		s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	}

	s.persist(ctx, storage.KeyProducts, s.products)
	return p, nil
}

// UpdateProduct replaces a product's editable fields wholesale by id.
// A CurrentStock different from the recorded one is treated as an
// administrative override: the store emits a synthetic "Stock Count
// Correction" adjustment for the difference, so the stock/adjustment
// invariant keeps holding even through the edit-form escape hatch.
func (s *Store) UpdateProduct(ctx context.Context, in model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findByID(in.ID)
	if existing == nil {
		return model.Product{}, ErrProductNotFound
	}
	if in.Name == "" {
		return model.Product{}, ErrEmptyName
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return model.Product{}, ErrNegativePrice
	}
	if in.Barcode != "" {
		if other := s.findByBarcode(in.Barcode); other != nil && other.ID != existing.ID {
			return model.Product{}, ErrDuplicateBarcode
		}
	}

	delta := in.CurrentStock - existing.CurrentStock

	updated := *existing
	updated.Name = in.Name
	updated.Type = in.Type
	updated.Barcode = in.Barcode
	updated.CostPrice = in.CostPrice
	updated.SellingPrice = in.SellingPrice
	updated.CurrentStock = in.CurrentStock

	if delta != 0 {
		now := s.now()
		s.appendAdjustment(model.StockAdjustment{
			ID:             uuid.New(),
			ProductID:      updated.ID,
			ProductName:    updated.Name,
			QuantityChange: delta,
			Reason:         ReasonStockCorrection,
			Date:           now,
			CreatedAt:      now,
		})
		s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	}

	s.replaceProduct(updated)
	s.persist(ctx, storage.KeyProducts, s.products)
	return updated, nil
}

// DeleteProduct removes the product and cascades over every dependent
// record. Hard delete, no tombstones, not reversible.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByID(id) == nil {
		return ErrProductNotFound
	}

	s.products = filterInPlace(s.products, func(p model.Product) bool { return p.ID != id })
	s.adjustments = filterInPlace(s.adjustments, func(a model.StockAdjustment) bool { return a.ProductID != id })
	s.sales = filterInPlace(s.sales, func(v model.Sale) bool { return v.ProductID != id })
	s.notas = filterInPlace(s.notas, func(n model.Nota) bool { return n.ProductID != id })

	s.persist(ctx, storage.KeyProducts, s.products)
	s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	s.persist(ctx, storage.KeySales, s.sales)
	s.persist(ctx, storage.KeyNotas, s.notas)
	return nil
}

// GetProductByID reports absence through the boolean, never an error.
func (s *Store) GetProductByID(id uuid.UUID) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findByID(id); p != nil {
		return *p, true
	}
	return model.Product{}, false
}

func (s *Store) GetProductByBarcode(barcode string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findByBarcode(barcode); p != nil {
		return *p, true
	}
	return model.Product{}, false
}

// ── Stock adjustments ────────────────────────────────────────────────────────

// AddStockAdjustment appends an adjustment and moves the product's
// stock by QuantityChange. Negative results are permitted: only the
// sale path pre-checks sufficiency.
func (s *Store) AddStockAdjustment(ctx context.Context, in CreateAdjustment) (model.StockAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adj, err := s.applyAdjustment(in)
	if err != nil {
		return model.StockAdjustment{}, err
	}
	s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	s.persist(ctx, storage.KeyProducts, s.products)
	return adj, nil
}

// applyAdjustment is the shared mutation behind adjustments, sales and
// notas. Caller must hold s.mu and persist afterwards.
func (s *Store) applyAdjustment(in CreateAdjustment) (model.StockAdjustment, error) {
	p := s.findByID(in.ProductID)
	if p == nil {
		return model.StockAdjustment{}, ErrProductNotFound
	}
	if in.QuantityChange == 0 {
		return model.StockAdjustment{}, ErrZeroQuantity
	}

	adj := model.StockAdjustment{
		ID:             uuid.New(),
		ProductID:      p.ID,
		ProductName:    p.Name,
		QuantityChange: in.QuantityChange,
		Reason:         in.Reason,
		Date:           in.Date,
		CreatedAt:      s.now(),
	}
	s.appendAdjustment(adj)

	updated := *p
	updated.CurrentStock += in.QuantityChange
	s.replaceProduct(updated)
	return adj, nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

// AddSale records a sale and its paired negative adjustment. The
// sufficiency check and the deduction happen under the same lock, so
// two concurrent sales can never both pass the check and overdraw.
func (s *Store) AddSale(ctx context.Context, in CreateSale) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findByID(in.ProductID)
	if p == nil {
		return model.Sale{}, ErrProductNotFound
	}
	if in.QuantitySold <= 0 {
		return model.Sale{}, ErrInvalidQuantity
	}
	if in.PricePerItem.IsNegative() {
		return model.Sale{}, ErrNegativePrice
	}
	if p.CurrentStock < in.QuantitySold {
		return model.Sale{}, ErrInsufficientStock
	}

	sale := model.Sale{
		ID:           uuid.New(),
		ProductID:    p.ID,
		ProductName:  p.Name,
		QuantitySold: in.QuantitySold,
		PricePerItem: in.PricePerItem,
		TotalAmount:  in.PricePerItem.Mul(decimal.NewFromInt(int64(in.QuantitySold))),
		SaleDate:     in.SaleDate,
		CreatedAt:    s.now(),
	}
	s.sales = append(s.sales, sale)
	sort.SliceStable(s.sales, func(i, j int) bool {
		return s.sales[i].SaleDate.After(s.sales[j].SaleDate)
	})

	// Cannot fail: product resolved above and QuantitySold is nonzero.
	if _, err := s.applyAdjustment(CreateAdjustment{
		ProductID:      p.ID,
		QuantityChange: -in.QuantitySold,
		Reason:         reasonSalePrefix + sale.ID.String()[:4],
		Date:           in.SaleDate,
	}); err != nil {
		return model.Sale{}, err
	}

	s.persist(ctx, storage.KeySales, s.sales)
	s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	s.persist(ctx, storage.KeyProducts, s.products)
	return sale, nil
}

// ClearSales empties the sales collection only. The paired adjustments
// stay, so stock levels remain post-sale. Intentional asymmetry, not a
// bug: clearing history must not refill shelves.
func (s *Store) ClearSales(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = nil
	s.persist(ctx, storage.KeySales, s.sales)
}

// ── Notas ────────────────────────────────────────────────────────────────────

// AddNota records an incoming-goods note and its paired positive
// adjustment; both share the nota's effective date.
func (s *Store) AddNota(ctx context.Context, in CreateNota) (model.Nota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findByID(in.ProductID)
	if p == nil {
		return model.Nota{}, ErrProductNotFound
	}
	if in.Quantity <= 0 {
		return model.Nota{}, ErrInvalidQuantity
	}

	nota := model.Nota{
		ID:          uuid.New(),
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		NoteNumber:  in.NoteNumber,
		Date:        in.Date,
		CreatedAt:   s.now(),
	}
	s.notas = append(s.notas, nota)
	sort.SliceStable(s.notas, func(i, j int) bool {
		return s.notas[i].Date.After(s.notas[j].Date)
	})

	if _, err := s.applyAdjustment(CreateAdjustment{
		ProductID:      p.ID,
		QuantityChange: in.Quantity,
		Reason:         ReasonNotaEntry,
		Date:           in.Date,
	}); err != nil {
		return model.Nota{}, err
	}

	s.persist(ctx, storage.KeyNotas, s.notas)
	s.persist(ctx, storage.KeyStockAdjustments, s.adjustments)
	s.persist(ctx, storage.KeyProducts, s.products)
	return nota, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

// Products returns a copy of the products collection. Same for the
// other snapshot accessors: callers must treat results as immutable.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Product(nil), s.products...)
}

func (s *Store) StockAdjustments() []model.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockAdjustment(nil), s.adjustments...)
}

func (s *Store) Sales() []model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Sale(nil), s.sales...)
}

func (s *Store) Notas() []model.Nota {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Nota(nil), s.notas...)
}

// ProductTypes returns the distinct product types, sorted.
func (s *Store) ProductTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var types []string
	for _, p := range s.products {
		if p.Type != "" && !seen[p.Type] {
			seen[p.Type] = true
			types = append(types, p.Type)
		}
	}
	sort.Strings(types)
	return types
}

// ── Internal helpers (caller holds s.mu) ─────────────────────────────────────

func (s *Store) findByID(id uuid.UUID) *model.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func (s *Store) findByBarcode(barcode string) *model.Product {
	for i := range s.products {
		if s.products[i].Barcode == barcode {
			return &s.products[i]
		}
	}
	return nil
}

func (s *Store) replaceProduct(p model.Product) {
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return
		}
	}
}

// appendAdjustment inserts and re-sorts by effective date descending,
// the order the adjustment history is displayed in.
func (s *Store) appendAdjustment(adj model.StockAdjustment) {
	s.adjustments = append(s.adjustments, adj)
	sort.SliceStable(s.adjustments, func(i, j int) bool {
		return s.adjustments[i].Date.After(s.adjustments[j].Date)
	})
}

func filterInPlace[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
