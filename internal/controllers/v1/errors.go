package v1

import (
	"errors"
	"net/http"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errAccountIDParameter  = errors.New("the account query parameter must be set")
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
	errTruncateParameter   = errors.New("exactly one of the from and before query parameters must be set")
	errEffectiveParameter  = errors.New("the effective query parameter must be set")
	errSeriesCategory      = errors.New("transaction series must have a categoryId, budget series use categoryIds")
	errBeforeParameter     = errors.New("the before query parameter must be set")
	errWindowParameter     = errors.New("the from and until query parameters must be set")
	errWindowEmpty         = errors.New("the until query parameter must not be before from")
)
