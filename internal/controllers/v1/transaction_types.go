package v1

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	AccountID  uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // ID of the account. Can not be changed after creation.
	Title      string          `json:"title" example:"Weekly shopping" default:""`                // Short description of the transaction
	Amount     decimal.Decimal `json:"amount" example:"14.03" default:"0"`                        // Positive amounts are expenses, negative amounts are income
	Date       types.Date      `json:"date" example:"2024-01-15"`                                 // Date of the transaction. Defaults to today.
	CategoryID uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category
}

// model returns the database resource for the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		AccountID:  editable.AccountID,
		Title:      strings.TrimSpace(editable.Title),
		Amount:     money.ToMinorUnits(editable.Amount),
		Date:       editable.Date,
		CategoryID: editable.CategoryID,
	}
}

type TransactionLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/transactions/8ed6f6ec-7ab3-4747-a0e5-8e1ba870b7b7"` // The transaction itself
	Account  string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // The account of the transaction
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`
	Series   string `json:"recurringSeries" example:"https://example.com/api/v1/recurring-series/0b2b0a1c-2bb7-4f8e-9c08-1f15f5b7b0a4"` // The recurring series, if the transaction is an occurrence of one
}

// Transaction is the API v1 representation of a Transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	CategoryName      string           `json:"categoryName" example:"GROCERIES"` // Name of the category at the time the transaction was created
	RecurringSeriesID *uuid.UUID       `json:"recurringSeriesId" example:"0b2b0a1c-2bb7-4f8e-9c08-1f15f5b7b0a4"`
	Links             TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	t := Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID:  model.AccountID,
			Title:      model.Title,
			Amount:     money.FromMinorUnits(model.Amount),
			Date:       model.Date,
			CategoryID: model.CategoryID,
		},
		CategoryName:      model.CategoryName,
		RecurringSeriesID: model.RecurringSeriesID,
		Links: TransactionLinks{
			Self:     fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Account:  fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}

	if model.RecurringSeriesID != nil {
		t.Links.Series = fmt.Sprintf("%s/v1/recurring-series/%s", url, *model.RecurringSeriesID)
	}

	return t
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	AccountID  ez_uuid.UUID `form:"account" filterField:"false"`  // By ID of the account
	CategoryID ez_uuid.UUID `form:"category" filterField:"false"` // By ID of the category
	From       types.Date   `form:"from" filterField:"false"`     // Transactions on or after this date
	Until      types.Date   `form:"until" filterField:"false"`    // Transactions on or before this date
	Search     string       `form:"search" filterField:"false"`   // Substring or glob pattern of the title or category name
	Offset     uint         `form:"offset" filterField:"false"`   // The offset of the first Transaction returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`    // Maximum number of transactions to return. Defaults to 50.
}

// model returns the filter for the database query
func (f TransactionQueryFilter) model() models.TransactionFilter {
	return models.TransactionFilter{
		AccountID:  f.AccountID.UUID,
		CategoryID: f.CategoryID.UUID,
		From:       f.From,
		Until:      f.Until,
		Search:     f.Search,
	}
}
