package v1

import (
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/recurring"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecurringSeriesEditable struct {
	AccountID     uuid.UUID         `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // ID of the account
	Kind          models.SeriesKind `json:"kind" example:"transaction" enums:"transaction,budget"`     // What the series creates
	Goal          string            `json:"goal" example:"Rent" default:""`                            // Title of the transactions or goal of the budgets
	Amount        decimal.Decimal   `json:"amount" example:"950" default:"0"`                          // Amount of each transaction or target of each budget
	Type          recurring.Type    `json:"type" example:"MONTHLY" default:"MONTHLY"`                  // Recurrence type
	RecurringDate types.Date        `json:"recurringDate" example:"2024-01-01"`                        // Date of the first occurrence. Defaults to today.
	Until         types.Date        `json:"until" example:"2024-12-31"`                                // Last day of the series. Open-ended if not set.
	CategoryID    *uuid.UUID        `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // Category of the transactions. Transaction series only.
	CategoryIDs   []uuid.UUID       `json:"categoryIds"`                                               // Categories of the budgets. Budget series only.
}

// model returns the database resource for the editable fields
func (editable RecurringSeriesEditable) model() models.RecurringSeries {
	return models.RecurringSeries{
		AccountID:      editable.AccountID,
		Kind:           editable.Kind,
		Goal:           editable.Goal,
		OriginalAmount: money.ToMinorUnits(editable.Amount),
		Type:           editable.Type,
		RecurringDate:  editable.RecurringDate,
		Until:          editable.Until,
		CategoryID:     editable.CategoryID,
	}
}

type RecurringSeriesLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/recurring-series/0b2b0a1c-2bb7-4f8e-9c08-1f15f5b7b0a4"`                    // The series itself
	Account     string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                         // The account of the series
	Occurrences string `json:"occurrences" example:"https://example.com/api/v1/recurring-series/0b2b0a1c-2bb7-4f8e-9c08-1f15f5b7b0a4/occurrences"` // Preview of the occurrences
	Truncate    string `json:"truncate" example:"https://example.com/api/v1/recurring-series/0b2b0a1c-2bb7-4f8e-9c08-1f15f5b7b0a4/truncate"`       // Truncation of the occurrences
}

// RecurringSeries is the API v1 representation of a RecurringSeries.
type RecurringSeries struct {
	models.DefaultModel
	AccountID         uuid.UUID            `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Kind              models.SeriesKind    `json:"kind" example:"transaction"`
	Goal              string               `json:"goal" example:"Rent"`
	Amount            decimal.Decimal      `json:"amount" example:"950"`
	Type              recurring.Type       `json:"type" example:"MONTHLY"`
	RecurringDate     types.Date           `json:"recurringDate" example:"2024-01-01"`     // Date of the first occurrence with the current parameters
	Until             *types.Date          `json:"until" example:"2024-12-31"`             // Last day of the series. null for open-ended series.
	MaterializedUntil types.Date           `json:"materializedUntil" example:"2033-12-31"` // All occurrences up to this day exist
	Modified          bool                 `json:"modified" example:"false"`               // If the series has been edited
	CategoryID        *uuid.UUID           `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Links             RecurringSeriesLinks `json:"links"`
}

func newRecurringSeries(c *gin.Context, model models.RecurringSeries) RecurringSeries {
	url := c.GetString(string(models.DBContextURL))

	s := RecurringSeries{
		DefaultModel:      model.DefaultModel,
		AccountID:         model.AccountID,
		Kind:              model.Kind,
		Goal:              model.Goal,
		Amount:            money.FromMinorUnits(model.OriginalAmount),
		Type:              model.Type,
		RecurringDate:     model.RecurringDate,
		MaterializedUntil: model.MaterializedUntil,
		Modified:          model.Modified,
		CategoryID:        model.CategoryID,
		Links: RecurringSeriesLinks{
			Self:        fmt.Sprintf("%s/v1/recurring-series/%s", url, model.ID),
			Account:     fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Occurrences: fmt.Sprintf("%s/v1/recurring-series/%s/occurrences", url, model.ID),
			Truncate:    fmt.Sprintf("%s/v1/recurring-series/%s/truncate", url, model.ID),
		},
	}

	if !model.Until.IsZero() {
		until := model.Until
		s.Until = &until
	}

	return s
}

type RecurringSeriesListResponse struct {
	Data  []RecurringSeries `json:"data"`                                                          // List of series
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecurringSeriesCreateResponse struct {
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []RecurringSeriesResponse `json:"data"`                                                          // List of created series
}

func (r *RecurringSeriesCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RecurringSeriesResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RecurringSeriesResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this series
	Data  *RecurringSeries `json:"data"`                                                          // Data for the series
}

type RecurringSeriesQueryFilter struct {
	AccountID ez_uuid.UUID `form:"account"` // By ID of the account
}

// Occurrences are the transactions or budgets of a series. Only the
// list matching the kind of the series is set.
type Occurrences struct {
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
}

func newOccurrences(c *gin.Context, o models.Occurrences) (Occurrences, error) {
	r := Occurrences{
		Transactions: make([]Transaction, 0, len(o.Transactions)),
		Budgets:      make([]Budget, 0, len(o.Budgets)),
	}

	for _, t := range o.Transactions {
		r.Transactions = append(r.Transactions, newTransaction(c, t))
	}

	for _, b := range o.Budgets {
		categoryIDs, err := models.CategoryIDsForBudget(models.DB, b.ID)
		if err != nil {
			return Occurrences{}, err
		}
		r.Budgets = append(r.Budgets, newBudget(c, b, categoryIDs))
	}

	return r, nil
}

type OccurrencesQuery struct {
	From   types.Date `form:"from" example:"2024-06-01"`   // Occurrences after this day
	Before types.Date `form:"before" example:"2024-06-01"` // Occurrences before this day
}

type OccurrencesResponse struct {
	Error *string      `json:"error" example:"exactly one of the from and before query parameters must be set"` // The error, if any occurred
	Data  *Occurrences `json:"data"`                                                                            // The occurrences
}

// RecurringSeriesEdit contains the new parameters of a series. Parameters
// that are not set are kept.
type RecurringSeriesEdit struct {
	Goal        *string          `json:"goal" example:"Rent"`
	Amount      *decimal.Decimal `json:"amount" example:"1000"`
	Type        *recurring.Type  `json:"type" example:"MONTHLY"`
	CategoryID  *uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // Transaction series only
	CategoryIDs []uuid.UUID      `json:"categoryIds"`                                               // Budget series only
}

// model returns the edit for the database
func (e RecurringSeriesEdit) model() models.SeriesEdit {
	edit := models.SeriesEdit{
		Goal:        e.Goal,
		Type:        e.Type,
		CategoryID:  e.CategoryID,
		CategoryIDs: e.CategoryIDs,
	}

	if e.Amount != nil {
		amount := money.ToMinorUnits(*e.Amount)
		edit.Amount = &amount
	}

	return edit
}

type RecurringSeriesEditQuery struct {
	Effective types.Date `form:"effective" example:"2024-06-01"` // The first day the new parameters apply to
	Until     types.Date `form:"until" example:"2025-05-31"`     // Occurrences are created up to this day. Defaults to the horizon of the series.
}

type RecurringSeriesEditResult struct {
	Series   RecurringSeries `json:"series"`               // The series with the new parameters
	Replaced Occurrences     `json:"replaced"`             // The occurrences after the effective day that were deleted
	Removed  int64           `json:"removed" example:"12"` // Number of deleted occurrences, including the one on the effective day
	Created  int             `json:"created" example:"12"` // Number of created occurrences
}

type RecurringSeriesEditResponse struct {
	Error *string                    `json:"error" example:"the effective query parameter must be set"` // The error, if any occurred
	Data  *RecurringSeriesEditResult `json:"data"`
}

type RecurringSeriesDeleteQuery struct {
	Mode  string     `form:"mode" example:"detach"`      // all deletes all occurrences, detach keeps the ones up to the pivot
	Pivot types.Date `form:"pivot" example:"2024-06-01"` // For detach. Defaults to today.
}

type TruncateQuery struct {
	From   types.Date `form:"from" example:"2024-06-01"`   // Ends the series on this day and deletes all later occurrences
	Before types.Date `form:"before" example:"2024-06-01"` // Deletes all occurrences before this day
}

type TruncateResult struct {
	Deleted int64           `json:"deleted" example:"7"` // Number of deleted occurrences
	Series  RecurringSeries `json:"series"`              // The series after the truncation
}

type TruncateResponse struct {
	Error *string         `json:"error" example:"exactly one of the from and before query parameters must be set"` // The error, if any occurred
	Data  *TruncateResult `json:"data"`
}
