package api

import (
	"alcyxob/trainer-desk/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
	log             *logrus.Logger
}

func NewScheduleHandler(scheduleService service.ScheduleService, log *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, log: log}
}

type CreateScheduleRequest struct {
	Days      []int  `json:"days"` // 0 = Sunday .. 6 = Saturday
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Location  string `json:"location"`
}

type UpdateScheduleRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Location  string `json:"location"`
}

// CreateSchedules godoc
// @Summary Add a weekly block on one or more days
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param schedule body CreateScheduleRequest true "Days and times"
// @Success 201 {array} ScheduleResponse
// @Failure 400 {object} gin.H "No day selected or invalid times"
// @Router /clients/{clientId}/schedules [post]
func (h *ScheduleHandler) CreateSchedules(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	created, err := h.scheduleService.CreateSchedules(c.Request.Context(), userID, clientID, service.ScheduleInput{
		Days:      req.Days,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	})
	if err != nil {
		respondWithError(c, h.log, err, "Failed to create schedule.")
		return
	}
	c.JSON(http.StatusCreated, MapSchedulesToResponse(created))
}

// ListSchedules godoc
// @Summary List a client's weekly schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {array} ScheduleResponse
// @Router /clients/{clientId}/schedules [get]
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	schedules, err := h.scheduleService.ListSchedules(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve schedules.")
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// UpdateSchedule godoc
// @Summary Change a schedule block
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scheduleId path string true "Schedule ID"
// @Param schedule body UpdateScheduleRequest true "New block"
// @Success 200 {object} ScheduleResponse
// @Router /schedules/{scheduleId} [put]
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	scheduleID, ok := pathID(c, "scheduleId")
	if !ok {
		return
	}
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(c.Request.Context(), userID, scheduleID, service.ScheduleUpdate{
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	})
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update schedule.")
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// DeleteSchedule godoc
// @Summary Delete a schedule block
// @Tags Schedules
// @Security BearerAuth
// @Param scheduleId path string true "Schedule ID"
// @Success 204 "No Content"
// @Router /schedules/{scheduleId} [delete]
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	scheduleID, ok := pathID(c, "scheduleId")
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), userID, scheduleID); err != nil {
		respondWithError(c, h.log, err, "Failed to delete schedule.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAvailability godoc
// @Summary Weekly booked and free time
// @Description Free slots between the configured window bounds, built from the schedules of active clients.
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WeekAvailability
// @Router /availability [get]
func (h *ScheduleHandler) GetAvailability(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	week, err := h.scheduleService.GetAvailability(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to compute availability.")
		return
	}
	c.JSON(http.StatusOK, week)
}
