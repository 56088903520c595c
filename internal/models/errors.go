package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrAccountNameNotUnique  = errors.New("the account name must be unique")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique")
	ErrCategoryProtected     = errors.New("the MISCELLANEOUS category can not be deleted")
	ErrUnknownDeletePolicy   = errors.New("unknown category delete policy, must be one of 'orphan', 'cascade', 'reassignToMisc'")
	ErrSeriesKindMismatch    = errors.New("the operation is not available for this kind of recurring series")
	ErrUnknownSeriesKind     = errors.New("unknown series kind, must be one of 'transaction', 'budget'")
	ErrUnknownSeriesDelete   = errors.New("unknown series delete mode, must be one of 'all', 'detach'")
	ErrBudgetWindowInvalid   = errors.New("the end date of a budget must not be before its start date")
	ErrAccountIDNotSet       = errors.New("the account ID must be set")
	ErrNoOccurrencesBefore   = errors.New("the series has no occurrences before this day")
)
