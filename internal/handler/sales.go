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

type SalesHandler struct{ store *ledger.Store }

func NewSalesHandler(store *ledger.Store) *SalesHandler {
	return &SalesHandler{store: store}
}

func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("productId inválido"))
		return
	}
	sale, err := h.store.AddSale(c.Request.Context(), ledger.CreateSale{
		ProductID:    productID,
		QuantitySold: req.QuantitySold,
		PricePerItem: req.PricePerItem,
		SaleDate:     req.SaleDate,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.SaleToResponse(sale))
}

func (h *SalesHandler) List(c *gin.Context) {
	sales := h.store.Sales()
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, v := range sales {
		data = append(data, service.SaleToResponse(v))
	}
	c.JSON(http.StatusOK, dto.SaleListResponse{Data: data, Total: len(data)})
}

// Clear empties the sales history. The paired stock adjustments are
// deliberately left in place, so stock levels do not move.
func (h *SalesHandler) Clear(c *gin.Context) {
	h.store.ClearSales(c.Request.Context())
	c.Status(http.StatusNoContent)
}
