package handler

import (
	"net/http"

	"github.com/Filho-do-homem/dsystem/internal/apierror"
	"github.com/Filho-do-homem/dsystem/internal/dto"
	"github.com/Filho-do-homem/dsystem/internal/ledger"
	"github.com/Filho-do-homem/dsystem/internal/model"
	"github.com/Filho-do-homem/dsystem/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ store *ledger.Store }

func NewProductsHandler(store *ledger.Store) *ProductsHandler {
	return &ProductsHandler{store: store}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.store.AddProduct(c.Request.Context(), ledger.CreateProduct{
		Name:         req.Name,
		Type:         req.Type,
		Barcode:      req.Barcode,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.ProductToResponse(p))
}

func (h *ProductsHandler) List(c *gin.Context) {
	products := h.store.Products()
	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, service.ProductToResponse(p))
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Data: data, Total: len(data)})
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	p, ok := h.store.GetProductByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
		return
	}
	c.JSON(http.StatusOK, service.ProductToResponse(p))
}

func (h *ProductsHandler) GetByBarcode(c *gin.Context) {
	p, ok := h.store.GetProductByBarcode(c.Param("barcode"))
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
		return
	}
	c.JSON(http.StatusOK, service.ProductToResponse(p))
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.store.UpdateProduct(c.Request.Context(), model.Product{
		ID:           id,
		Name:         req.Name,
		Type:         req.Type,
		Barcode:      req.Barcode,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		CurrentStock: req.CurrentStock,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ProductToResponse(p))
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTypes returns the distinct free-text product types, the way the
// catalog pages build their filter dropdowns.
func (h *ProductsHandler) ListTypes(c *gin.Context) {
	types := h.store.ProductTypes()
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}
