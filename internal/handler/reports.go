package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/apierror"
	"github.com/Filho-do-homem/dsystem/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard())
}

func (h *ReportsHandler) Report(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Report())
}

// Export streams the general report as a download. format=csv (default)
// matches the web client's export byte layout; format=xlsx renders a
// workbook.
func (h *ReportsHandler) Export(c *gin.Context) {
	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := h.svc.ExportCSV()
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar relatório"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=relatorio_dsystem_%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := h.svc.ExportXLSX()
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar relatório"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=relatorio_dsystem_%s.xlsx", stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Formato não suportado: use csv ou xlsx"))
	}
}
