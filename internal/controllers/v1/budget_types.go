package v1

import (
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetEditable struct {
	AccountID    uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	Goal         string          `json:"goal" example:"Groceries" default:""`                      // What the budget is for
	TargetAmount decimal.Decimal `json:"targetAmount" example:"350" default:"0"`                   // The amount that may be spent
	StartDate    types.Date      `json:"startDate" example:"2024-01-01"`                           // First day of the budget
	EndDate      types.Date      `json:"endDate" example:"2024-01-31"`                             // Last day of the budget
	CategoryIDs  []uuid.UUID     `json:"categoryIds"`                                              // IDs of the categories the budget tracks
}

// model returns the database resource for the editable fields
func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		AccountID:    editable.AccountID,
		Goal:         editable.Goal,
		TargetAmount: money.ToMinorUnits(editable.TargetAmount),
		StartDate:    editable.StartDate,
		EndDate:      editable.EndDate,
	}
}

// edit returns the changes for the fields that are set in the request body.
// The account of a budget can not be changed.
func (editable BudgetEditable) edit(fields []any) models.BudgetEdit {
	var edit models.BudgetEdit

	for _, f := range fields {
		switch f {
		case "Goal":
			edit.Goal = &editable.Goal
		case "TargetAmount":
			amount := money.ToMinorUnits(editable.TargetAmount)
			edit.TargetAmount = &amount
		case "StartDate":
			edit.StartDate = &editable.StartDate
		case "EndDate":
			edit.EndDate = &editable.EndDate
		case "CategoryIDs":
			edit.CategoryIDs = editable.CategoryIDs
			if edit.CategoryIDs == nil {
				edit.CategoryIDs = make([]uuid.UUID, 0)
			}
		}
	}

	return edit
}

type BudgetLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                      // The budget itself
	Account      string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                  // The account of the budget
	Transactions string `json:"transactions" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions"` // Transactions counting towards the budget
	Series       string `json:"recurringSeries" example:"https://example.com/api/v1/recurring-series/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`  // The recurring series, if the budget is an occurrence of one
}

// Budget is the API v1 representation of a Budget.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	RecurringSeriesID *uuid.UUID  `json:"recurringSeriesId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	Links             BudgetLinks `json:"links"`
}

func newBudget(c *gin.Context, model models.Budget, categoryIDs []uuid.UUID) Budget {
	url := c.GetString(string(models.DBContextURL))

	if categoryIDs == nil {
		categoryIDs = make([]uuid.UUID, 0)
	}

	b := Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			AccountID:    model.AccountID,
			Goal:         model.Goal,
			TargetAmount: money.FromMinorUnits(model.TargetAmount),
			StartDate:    model.StartDate,
			EndDate:      model.EndDate,
			CategoryIDs:  categoryIDs,
		},
		RecurringSeriesID: model.RecurringSeriesID,
		Links: BudgetLinks{
			Self:         fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Account:      fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Transactions: fmt.Sprintf("%s/v1/budgets/%s/transactions", url, model.ID),
		},
	}

	if model.RecurringSeriesID != nil {
		b.Links.Series = fmt.Sprintf("%s/v1/recurring-series/%s", url, *model.RecurringSeriesID)
	}

	return b
}

// BudgetFigures are the amounts of a budget for a window.
type BudgetFigures struct {
	Target    decimal.Decimal `json:"target" example:"350"`       // The target amount of the budget
	Spent     decimal.Decimal `json:"spent" example:"124.37"`     // Sum of the transactions in the window
	Remaining decimal.Decimal `json:"remaining" example:"225.63"` // Target minus spent
}

func newBudgetFigures(f models.Figures) BudgetFigures {
	return BudgetFigures{
		Target:    money.FromMinorUnits(f.Target),
		Spent:     money.FromMinorUnits(f.Spent),
		Remaining: money.FromMinorUnits(f.Remaining),
	}
}

type BudgetListResponse struct {
	Data       []Budget    `json:"data"`                                                          // List of budgets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BudgetCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BudgetResponse `json:"data"`                                                          // List of created budgets
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this budget
	Data  *Budget `json:"data"`                                                          // Data for the budget
}

type BudgetDetail struct {
	Budget
	Figures BudgetFigures `json:"figures"` // Amounts over the whole budget
}

type BudgetDetailResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *BudgetDetail `json:"data"`                                                          // Data for the budget
}

type BudgetQueryFilter struct {
	AccountID ez_uuid.UUID `form:"account" filterField:"false"` // By ID of the account
	From      types.Date   `form:"from" filterField:"false"`    // Budgets ending on or after this date
	Until     types.Date   `form:"until" filterField:"false"`   // Budgets starting on or before this date
	Goal      string       `form:"goal" filterField:"false"`    // Fuzzy filter for the goal
	Offset    uint         `form:"offset" filterField:"false"`  // The offset of the first budget returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`   // Maximum number of budgets to return. Defaults to 50.
}

type BudgetTransactionsQuery struct {
	From  types.Date `form:"from" example:"2024-02-01"`  // Defaults to the start of the budget
	Until types.Date `form:"until" example:"2024-02-29"` // Defaults to the end of the budget
}

type BudgetTransactionsResponse struct {
	Error  *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Window *types.Window `json:"window"`                                                        // The days the transactions are taken from
	Data   []Transaction `json:"data"`                                                          // Transactions counting towards the budget in the window
}

type OldestBudgetStart struct {
	AccountID *uuid.UUID  `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account. null for all accounts.
	StartDate *types.Date `json:"startDate" example:"2022-03-01"`                           // Earliest start date of the budgets. null if the account has no budgets.
}

type OldestBudgetStartResponse struct {
	Error *string            `json:"error" example:"the account query parameter must be set"` // The error, if any occurred
	Data  *OldestBudgetStart `json:"data"`
}
