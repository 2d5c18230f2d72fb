package handlers

import (
	"errors"
	"net/http"

	"digital-liver/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func errorStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptySMILES),
		errors.Is(err, domain.ErrInvalidSMILES),
		errors.Is(err, domain.ErrNoCompounds),
		errors.Is(err, domain.ErrTooManyCompounds),
		errors.Is(err, domain.ErrInvalidDose),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidPoints),
		errors.Is(err, domain.ErrInvalidRunID):
		return http.StatusBadRequest

	// Service unavailable errors
	case errors.Is(err, domain.ErrReportUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func mapDomainError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
}
