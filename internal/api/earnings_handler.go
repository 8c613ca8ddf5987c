package api

import (
	"alcyxob/trainer-desk/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type EarningsHandler struct {
	earningsService service.EarningsService
	log             *logrus.Logger
}

func NewEarningsHandler(earningsService service.EarningsService, log *logrus.Logger) *EarningsHandler {
	return &EarningsHandler{earningsService: earningsService, log: log}
}

type ExportStatementRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// GetSummary godoc
// @Summary Earnings overview
// @Description Totals, a monthly breakdown and active clients with an unpaid balance this cycle.
// @Tags Earnings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} billing.EarningsSummary
// @Router /earnings [get]
func (h *EarningsHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.earningsService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to compute earnings.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportStatement godoc
// @Summary Export one billing month as CSV
// @Tags Earnings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period body ExportStatementRequest true "Billing month"
// @Success 201 {object} service.StatementLink
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /earnings/statements [post]
func (h *EarningsHandler) ExportStatement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ExportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	link, err := h.earningsService.ExportStatement(c.Request.Context(), userID, req.Year, req.Month)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to export statement.")
		return
	}
	c.JSON(http.StatusCreated, link)
}

// ListStatements godoc
// @Summary Previously exported statements
// @Tags Earnings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.StatementLink
// @Router /earnings/statements [get]
func (h *EarningsHandler) ListStatements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	links, err := h.earningsService.ListStatements(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to list statements.")
		return
	}
	c.JSON(http.StatusOK, links)
}
