package api

import (
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProgressHandler struct {
	progressService service.ProgressService
	log             *logrus.Logger
}

func NewProgressHandler(progressService service.ProgressService, log *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

type AddProgressRequest struct {
	Date     string  `json:"date" binding:"required"` // YYYY-MM-DD
	WeightKg float64 `json:"weightKg" binding:"required"`
	Notes    string  `json:"notes"`
}

// AddEntry godoc
// @Summary Record a weigh-in
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param entry body AddProgressRequest true "Weight entry"
// @Success 201 {object} ProgressResponse
// @Router /clients/{clientId}/progress [post]
func (h *ProgressHandler) AddEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	var req AddProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to add progress entry.")
		return
	}

	entry, err := h.progressService.AddEntry(c.Request.Context(), userID, clientID, date, req.WeightKg, req.Notes)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to add progress entry.")
		return
	}
	c.JSON(http.StatusCreated, MapProgressToResponse(entry))
}

// ListEntries godoc
// @Summary List weigh-ins, oldest first
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {array} ProgressResponse
// @Router /clients/{clientId}/progress [get]
func (h *ProgressHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	entries, err := h.progressService.ListEntries(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve progress.")
		return
	}
	c.JSON(http.StatusOK, MapProgressEntriesToResponse(entries))
}

// DeleteEntry godoc
// @Summary Delete a weigh-in
// @Tags Progress
// @Security BearerAuth
// @Param entryId path string true "Entry ID"
// @Success 204 "No Content"
// @Router /progress/{entryId} [delete]
func (h *ProgressHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}
	if err := h.progressService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondWithError(c, h.log, err, "Failed to delete progress entry.")
		return
	}
	c.Status(http.StatusNoContent)
}
