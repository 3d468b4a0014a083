package handler

import (
	"net/http"

	"github.com/Filho-do-homem/dsystem/internal/apierror"
	"github.com/Filho-do-homem/dsystem/internal/dto"
	"github.com/Filho-do-homem/dsystem/internal/ledger"
	"github.com/Filho-do-homem/dsystem/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotasHandler struct{ store *ledger.Store }

func NewNotasHandler(store *ledger.Store) *NotasHandler {
	return &NotasHandler{store: store}
}

func (h *NotasHandler) Create(c *gin.Context) {
	var req dto.CreateNotaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("productId inválido"))
		return
	}
	nota, err := h.store.AddNota(c.Request.Context(), ledger.CreateNota{
		ProductID:  productID,
		Quantity:   req.Quantity,
		NoteNumber: req.NoteNumber,
		Date:       req.Date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.NotaToResponse(nota))
}

func (h *NotasHandler) List(c *gin.Context) {
	notas := h.store.Notas()
	data := make([]dto.NotaResponse, 0, len(notas))
	for _, n := range notas {
		data = append(data, service.NotaToResponse(n))
	}
	c.JSON(http.StatusOK, dto.NotaListResponse{Data: data, Total: len(data)})
}
