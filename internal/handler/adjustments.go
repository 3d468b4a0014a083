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

type AdjustmentsHandler struct{ store *ledger.Store }

func NewAdjustmentsHandler(store *ledger.Store) *AdjustmentsHandler {
	return &AdjustmentsHandler{store: store}
}

func (h *AdjustmentsHandler) Create(c *gin.Context) {
	var req dto.CreateAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("productId inválido"))
		return
	}
	adj, err := h.store.AddStockAdjustment(c.Request.Context(), ledger.CreateAdjustment{
		ProductID:      productID,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		Date:           req.Date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.AdjustmentToResponse(adj))
}

// List returns the full adjustment history, newest effective date first.
func (h *AdjustmentsHandler) List(c *gin.Context) {
	adjustments := h.store.StockAdjustments()
	data := make([]dto.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		data = append(data, service.AdjustmentToResponse(a))
	}
	c.JSON(http.StatusOK, dto.AdjustmentListResponse{Data: data, Total: len(data)})
}
