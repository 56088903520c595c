package v1

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountEditable struct {
	Name string `json:"name" example:"Checking" default:""`                // Name of the account. Must be unique.
	Note string `json:"note" example:"Joint account with Alex" default:""` // A longer description for the account
}

// model returns the database resource for the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		Name: strings.TrimSpace(editable.Name),
		Note: editable.Note,
	}
}

type AccountLinks struct {
	Self             string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                            // The account itself
	Balance          string `json:"balance" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/balance"`                 // Balance of the account
	Transactions     string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`        // Transactions of the account
	Budgets          string `json:"budgets" example:"https://example.com/api/v1/budgets?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                  // Budgets of the account
	RecurringSeries  string `json:"recurringSeries" example:"https://example.com/api/v1/recurring-series?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Recurring series of the account
	OldestBudgetDate string `json:"oldestBudgetStart" example:"https://example.com/api/v1/budgets/oldest-start?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
}

// Account is the API v1 representation of an Account.
type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`
}

func newAccount(c *gin.Context, model models.Account) Account {
	url := c.GetString(string(models.DBContextURL))

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: AccountLinks{
			Self:             fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Balance:          fmt.Sprintf("%s/v1/accounts/%s/balance", url, model.ID),
			Transactions:     fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
			Budgets:          fmt.Sprintf("%s/v1/budgets?account=%s", url, model.ID),
			RecurringSeries:  fmt.Sprintf("%s/v1/recurring-series?account=%s", url, model.ID),
			OldestBudgetDate: fmt.Sprintf("%s/v1/budgets/oldest-start?account=%s", url, model.ID),
		},
	}
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created Accounts
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Data  *Account `json:"data"`                                                          // Data for the account
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Fuzzy filter for the account name
	Note   string `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

type QueryBalance struct {
	Date types.Date `form:"date" example:"2024-01-31"` // The day to compute the balance for. Defaults to today.
}

type QueryBefore struct {
	Before types.Date `form:"before" example:"2024-01-01"` // Transactions before this day are deleted
}

type QueryAfter struct {
	After types.Date `form:"after" example:"2024-01-31"` // Transactions after this day are returned. Defaults to today.
}

type AccountFutureTransactionsResponse struct {
	Data  []Transaction `json:"data"`                                                          // Transactions after the day, ordered by date
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountBalance struct {
	ID      uuid.UUID       `json:"id" example:"95018a69-758b-46c6-8bab-db70d9614f9d"` // ID of the account
	Date    types.Date      `json:"date" example:"2024-01-31"`                         // The day the balance is computed for
	Balance decimal.Decimal `json:"balance" example:"-2735.17"`                        // Sum of all transactions up to and including the day. Expenses are positive.
}

type AccountBalanceResponse struct {
	Data  *AccountBalance `json:"data"`
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
