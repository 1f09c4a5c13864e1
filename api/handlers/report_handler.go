package handlers

import (
	"net/http"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler handles profit and sales reporting requests
type ReportHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(svc service.Service, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{service: svc, log: log}
}

// TotalProfit sums delivered-order profit over an inclusive date range,
// optionally scoped to one address. Without an endDate the window is the
// single start day.
func (h *ReportHandler) TotalProfit(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"date": "startDate is required"})
		return
	}

	addressID := uint(queryInt(c, "address", 0))
	profit, err := h.service.TotalProfit(c.Request.Context(), startDate, endDate, addressID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalProfit": profit})
}

// SalesSummary aggregates a calendar year's sales per item
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	year := queryInt(c, "year", time.Now().Year())
	tva := queryBoolPtr(c, "tva")

	rows, err := h.service.SalesSummary(c.Request.Context(), year, tva)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"items": rows,
	})
}

// SalesSummaryPDF renders the yearly summary as a printable document
func (h *ReportHandler) SalesSummaryPDF(c *gin.Context) {
	year := queryInt(c, "year", time.Now().Year())
	tva := queryBoolPtr(c, "tva")

	rendered, err := h.service.SalesSummaryPDF(c.Request.Context(), year, tva)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sales_summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", rendered)
}
