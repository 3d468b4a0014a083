// Package storage provides keyed blob persistence for the ledger store.
// Each collection is serialized independently under its own key; a
// missing key on load is not an error (the store falls back to an empty
// collection).
package storage

import "context"

// Collection keys. The values match the browser localStorage keys used
// by the D'System web client so exported data stays portable.
const (
	KeyProducts         = "dsystem_products"
	KeyStockAdjustments = "dsystem_stock_adjustments"
	KeySales            = "dsystem_sales"
	KeyNotas            = "dsystem_notas"
)

// BlobStore is the persistence contract consumed by the ledger store.
// Load reports absence via the boolean, never via an error.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}
