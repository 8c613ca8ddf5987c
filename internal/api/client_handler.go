package api

import (
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/service"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ClientHandler struct {
	clientService  service.ClientService
	paymentService service.PaymentService
	log            *logrus.Logger
}

func NewClientHandler(clientService service.ClientService, paymentService service.PaymentService, log *logrus.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, paymentService: paymentService, log: log}
}

// --- DTOs ---

type CreateClientRequest struct {
	Name             string          `json:"name" binding:"required"`
	StartDate        string          `json:"startDate" binding:"required"` // YYYY-MM-DD
	MonthlyFee       json.RawMessage `json:"monthlyFee" binding:"required"`
	StartingWeightKg *float64        `json:"startingWeightKg"`
	IsActive         *bool           `json:"isActive"`
	Notes            string          `json:"notes"`
}

type UpdateClientRequest struct {
	Name             *string         `json:"name"`
	StartDate        *string         `json:"startDate"`
	MonthlyFee       json.RawMessage `json:"monthlyFee"`
	StartingWeightKg *float64        `json:"startingWeightKg"`
	IsActive         *bool           `json:"isActive"`
	Notes            *string         `json:"notes"`
}

type ClientSummaryResponse struct {
	ClientResponse
	PaymentStatus StatusResponse        `json:"paymentStatus"`
	NextSession   *availability.Booking `json:"nextSession,omitempty"`
}

type ClientDetailsResponse struct {
	ClientSummaryResponse
	Schedules      []ScheduleResponse `json:"schedules"`
	Payments       []PaymentResponse  `json:"payments"`
	Progress       []ProgressResponse `json:"progress"`
	LatestWeightKg *float64           `json:"latestWeightKg,omitempty"`
	WeightChangeKg *float64           `json:"weightChangeKg,omitempty"`
}

func MapClientSummaryToResponse(s *service.ClientSummary) ClientSummaryResponse {
	return ClientSummaryResponse{
		ClientResponse: MapClientToResponse(&s.Client),
		PaymentStatus:  MapStatusToResponse(&s.Status),
		NextSession:    s.NextSession,
	}
}

// --- Handler Methods ---

// CreateClient godoc
// @Summary Create a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} ClientResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to create client.")
		return
	}
	fee, err := parseAmount(req.MonthlyFee)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to create client.")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), userID, service.ClientInput{
		Name:             req.Name,
		StartDate:        startDate,
		MonthlyFee:       fee,
		StartingWeightKg: req.StartingWeightKg,
		IsActive:         req.IsActive,
		Notes:            req.Notes,
	})
	if err != nil {
		respondWithError(c, h.log, err, "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// ListClients godoc
// @Summary List clients with payment status
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param filter query string false "all, active or past"
// @Success 200 {array} ClientSummaryResponse
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summaries, err := h.clientService.ListClients(c.Request.Context(), userID, domain.ClientFilter(c.Query("filter")))
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve clients.")
		return
	}

	resp := make([]ClientSummaryResponse, len(summaries))
	for i := range summaries {
		resp[i] = MapClientSummaryToResponse(&summaries[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetClient godoc
// @Summary Client details
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} ClientDetailsResponse
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	details, err := h.clientService.GetClientDetails(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve client.")
		return
	}
	c.JSON(http.StatusOK, ClientDetailsResponse{
		ClientSummaryResponse: MapClientSummaryToResponse(&details.ClientSummary),
		Schedules:             MapSchedulesToResponse(details.Schedules),
		Payments:              MapPaymentsToResponse(details.Payments),
		Progress:              MapProgressEntriesToResponse(details.Progress),
		LatestWeightKg:        details.LatestWeightKg,
		WeightChangeKg:        details.WeightChangeKg,
	})
}

// UpdateClient godoc
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param client body UpdateClientRequest true "Fields to change"
// @Success 200 {object} ClientResponse
// @Router /clients/{clientId} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.ClientUpdate{
		Name:             req.Name,
		StartingWeightKg: req.StartingWeightKg,
		IsActive:         req.IsActive,
		Notes:            req.Notes,
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update client.")
		return
	}
	update.StartDate = startDate
	if len(req.MonthlyFee) > 0 {
		fee, err := parseAmount(req.MonthlyFee)
		if err != nil {
			respondWithError(c, h.log, err, "Failed to update client.")
			return
		}
		update.MonthlyFee = &fee
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), userID, clientID, update)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// ToggleActive godoc
// @Summary Move a client between the active and past lists
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} ClientResponse
// @Router /clients/{clientId}/toggle-active [post]
func (h *ClientHandler) ToggleActive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	client, err := h.clientService.ToggleActive(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// DeleteClient godoc
// @Summary Delete a client and all of its records
// @Tags Clients
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 204 "No Content"
// @Router /clients/{clientId} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), userID, clientID); err != nil {
		respondWithError(c, h.log, err, "Failed to delete client.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStatus godoc
// @Summary Payment status for the current billing cycle
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} StatusResponse
// @Router /clients/{clientId}/status [get]
func (h *ClientHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	status, err := h.paymentService.GetStatus(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to compute payment status.")
		return
	}
	c.JSON(http.StatusOK, MapStatusToResponse(status))
}
