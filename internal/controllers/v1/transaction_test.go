package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/controllers/v1"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/events"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestTransaction creates a test transaction via the v1 API.
//
// Missing accounts and categories are created.
func createTestTransaction(t *testing.T, transaction v1.TransactionEditable, expectedStatus ...int) v1.TransactionResponse {
	if transaction.AccountID == uuid.Nil {
		transaction.AccountID = createTestAccount(t, v1.AccountEditable{}).Data.ID
	}

	if transaction.CategoryID == uuid.Nil {
		transaction.CategoryID = createTestCategory(t, v1.CategoryEditable{}).Data.ID
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{transaction})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.TransactionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.TransactionResponse{}
}

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "groceries"})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  account.Data.ID,
		CategoryID: category.Data.ID,
		Title:      " Weekly shopping ",
		Amount:     decimal.NewFromFloat(14.03),
		Date:       types.NewDate(2024, 1, 15),
	})

	suite.Assert().Equal("Weekly shopping", transaction.Data.Title)
	suite.Assert().True(decimal.NewFromFloat(14.03).Equal(transaction.Data.Amount))
	suite.Assert().Equal("GROCERIES", transaction.Data.CategoryName)
	suite.Assert().Equal(types.NewDate(2024, 1, 15), transaction.Data.Date)
	suite.Assert().Nil(transaction.Data.RecurringSeriesID)
	suite.Assert().Equal(account.Data.Links.Self, transaction.Data.Links.Account)
	suite.Assert().Equal([]events.Name{events.TransactionCreated}, suite.events.Names())

	// The date defaults to today
	transaction = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: category.Data.ID})
	suite.Assert().Equal(types.Today(), transaction.Data.Date)
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name        string
		transaction v1.TransactionEditable
		status      int
		err         string
	}{
		{"Missing account", v1.TransactionEditable{CategoryID: category.Data.ID}, http.StatusBadRequest, models.ErrAccountIDNotSet.Error()},
		{"Unknown account", v1.TransactionEditable{AccountID: uuid.New(), CategoryID: category.Data.ID}, http.StatusNotFound, "there is no account matching your query"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{tt.transaction})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.TransactionCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err, *response.Data[0].Error)
		})
	}

	suite.Assert().Len(suite.events.Events(), 0)
}

func (suite *TestSuiteStandard) TestTransactionsList() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	other := createTestAccount(suite.T(), v1.AccountEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	fuel := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Fuel"})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: groceries.Data.ID, Title: "Supermarket", Amount: decimal.NewFromFloat(50), Date: types.NewDate(2024, 1, 5)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: fuel.Data.ID, Title: "Gas station", Amount: decimal.NewFromFloat(60), Date: types.NewDate(2024, 1, 20)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: groceries.Data.ID, Title: "Bakery", Amount: decimal.NewFromFloat(5), Date: types.NewDate(2024, 2, 2)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: other.Data.ID, CategoryID: groceries.Data.ID, Title: "Supermarket", Amount: decimal.NewFromFloat(10), Date: types.NewDate(2024, 1, 6)})

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), []string{"Supermarket", "Gas station", "Bakery"}},
		{"Category", fmt.Sprintf("account=%s&category=%s", account.Data.ID, groceries.Data.ID), []string{"Supermarket", "Bakery"}},
		{"From", fmt.Sprintf("account=%s&from=2024-01-20", account.Data.ID), []string{"Gas station", "Bakery"}},
		{"Until", fmt.Sprintf("account=%s&until=2024-01-20", account.Data.ID), []string{"Supermarket", "Gas station"}},
		{"Search title", "search=market", []string{"Supermarket", "Supermarket"}},
		{"Search category name", fmt.Sprintf("account=%s&search=fuel", account.Data.ID), []string{"Gas station"}},
		{"Glob", fmt.Sprintf("account=%s&search=*station", account.Data.ID), []string{"Gas station"}},
		{"Glob category name", fmt.Sprintf("account=%s&search=groc*", account.Data.ID), []string{"Supermarket", "Bakery"}},
		{"Limit and offset", fmt.Sprintf("account=%s&offset=1&limit=1", account.Data.ID), []string{"Gas station"}},
		{"Offset beyond the end", fmt.Sprintf("account=%s&offset=10", account.Data.ID), []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)

			titles := make([]string, 0)
			for _, transaction := range response.Data {
				titles = append(titles, transaction.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?from=January", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	fuel := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Fuel"})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  account.Data.ID,
		CategoryID: groceries.Data.ID,
		Title:      "Supermarket",
		Amount:     decimal.NewFromFloat(50),
		Date:       types.NewDate(2024, 1, 5),
	})

	r := test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{
		"amount":     "42.50",
		"categoryId": fuel.Data.ID,
		"accountId":  uuid.New(),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(decimal.NewFromFloat(42.5).Equal(response.Data.Amount))
	suite.Assert().Equal("Supermarket", response.Data.Title)
	suite.Assert().Equal(fuel.Data.ID, response.Data.CategoryID)
	suite.Assert().Equal("FUEL", response.Data.CategoryName)
	suite.Assert().Equal(account.Data.ID, response.Data.AccountID, "the account can not be changed")
	suite.Assert().Contains(suite.events.Names(), events.TransactionUpdated)

	r = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), map[string]any{"title": "Nope"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsKeepCategoryName() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Hobbies"})
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{CategoryID: category.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("HOBBIES", response.Data.CategoryName)
	suite.Assert().Equal(category.Data.ID, response.Data.CategoryID)
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})

	r := test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Contains(suite.events.Names(), events.TransactionDeleted)

	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
