package api

import (
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var badRequestErrors = []error{
	calendar.ErrInvalidDate,
	calendar.ErrInvalidFormat,
	billing.ErrInvalidAmount,
	availability.ErrInvalidBooking,
	service.ErrMissingSelection,
	service.ErrInvalidInput,
	service.ErrInvalidFilter,
	service.ErrInvalidPeriod,
}

var notFoundErrors = []error{
	service.ErrClientNotFound,
	service.ErrPaymentNotFound,
	service.ErrScheduleNotFound,
	service.ErrProgressNotFound,
	service.ErrUserNotFound,
}

// statusForError maps service and core errors to HTTP status codes.
// billing.ErrInvalidBillingCycle means stored data is corrupt and falls
// through to 500.
func statusForError(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStorageNotEnabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondWithError aborts with the mapped status. Client errors echo the
// message; server errors are logged and replaced with fallback.
func respondWithError(c *gin.Context, log *logrus.Logger, err error, fallback string) {
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		abortWithError(c, code, fallback)
		return
	}
	abortWithError(c, code, err.Error())
}
