package ledger

import "errors"

// Domain errors surfaced to the HTTP layer. They are never retried and
// a failed operation leaves the store unchanged.
var (
	ErrProductNotFound   = errors.New("produto não encontrado")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrDuplicateBarcode  = errors.New("código de barras já cadastrado")
	ErrZeroQuantity      = errors.New("a variação de estoque não pode ser zero")
	ErrInvalidQuantity   = errors.New("a quantidade deve ser maior que zero")
	ErrNegativePrice     = errors.New("o preço não pode ser negativo")
	ErrEmptyName         = errors.New("o nome do produto é obrigatório")
)
