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

func createTestCategory(t *testing.T, c v1.CategoryEditable, expectedStatus ...int) v1.CategoryResponse {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", []v1.CategoryEditable{c})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CategoryCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CategoryResponse{}
}

// miscellaneous returns the MISCELLANEOUS category.
func miscellaneous(t *testing.T) v1.Category {
	r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories?name=%s", models.Miscellaneous), "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.CategoryListResponse
	test.DecodeResponse(t, &r, &response)

	if !assert.Len(t, response.Data, 1) {
		t.FailNow()
	}
	return response.Data[0]
}

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: " groceries ", Note: " Food "})
	suite.Assert().Equal("GROCERIES", category.Data.Name)
	suite.Assert().Equal("Food", category.Data.Note)
	suite.Assert().False(category.Data.Protected)

	// Names are unique regardless of case
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"}, http.StatusBadRequest)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", []v1.CategoryEditable{{Name: "Miscellaneous"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CategoryCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ErrCategoryNameNotUnique.Error(), *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestCategoriesList() {
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries", Note: "Food"})
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Fuel"})

	tests := []struct {
		name  string
		query string
		names []string
	}{
		{"All", "", []string{"FUEL", "GROCERIES", models.Miscellaneous}},
		{"Name", "name=fu", []string{"FUEL"}},
		{"Note", "note=food", []string{"GROCERIES"}},
		{"Empty note", "note=", []string{"FUEL", models.Miscellaneous}},
		{"Search", "search=misc", []string{models.Miscellaneous}},
		{"Limit", "limit=1", []string{"FUEL"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CategoryListResponse
			test.DecodeResponse(t, &r, &response)

			names := make([]string, 0)
			for _, c := range response.Data {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesUpdate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries", Note: "Food"})

	r := test.Request(suite.T(), http.MethodPatch, category.Data.Links.Self, map[string]any{"name": "supermarket"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("SUPERMARKET", response.Data.Name)
	suite.Assert().Equal("Food", response.Data.Note)

	// The cached name is dropped on updates
	r = test.Request(suite.T(), http.MethodGet, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("SUPERMARKET", response.Data.Name)
}

func (suite *TestSuiteStandard) TestCategoriesMiscellaneousProtected() {
	misc := miscellaneous(suite.T())
	suite.Assert().True(misc.Protected)

	r := test.Request(suite.T(), http.MethodPatch, misc.Links.Self, map[string]any{"name": "Other"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// The note can be changed
	r = test.Request(suite.T(), http.MethodPatch, misc.Links.Self, map[string]any{"note": "Everything else"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodDelete, misc.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ErrCategoryProtected.Error(), response.Error)
}

func (suite *TestSuiteStandard) TestCategoriesDeletePolicies() {
	misc := miscellaneous(suite.T())

	tests := []struct {
		policy    string
		remaining func(deleted, kept uuid.UUID) []uuid.UUID
	}{
		{"", func(deleted, kept uuid.UUID) []uuid.UUID { return []uuid.UUID{deleted, kept} }},
		{"orphan", func(deleted, kept uuid.UUID) []uuid.UUID { return []uuid.UUID{deleted, kept} }},
		{"cascade", func(_, kept uuid.UUID) []uuid.UUID { return []uuid.UUID{kept} }},
		{"reassignToMisc", func(_, kept uuid.UUID) []uuid.UUID { return []uuid.UUID{kept, misc.ID} }},
	}

	for _, tt := range tests {
		suite.T().Run(tt.policy, func(t *testing.T) {
			deleted := createTestCategory(t, v1.CategoryEditable{})
			kept := createTestCategory(t, v1.CategoryEditable{})
			budget := createTestBudget(t, v1.BudgetEditable{CategoryIDs: []uuid.UUID{deleted.Data.ID, kept.Data.ID}})

			r := test.Request(t, http.MethodDelete, fmt.Sprintf("%s?policy=%s", deleted.Data.Links.Self, tt.policy), "")
			test.AssertHTTPStatus(t, &r, http.StatusNoContent)

			r = test.Request(t, http.MethodGet, deleted.Data.Links.Self, "")
			test.AssertHTTPStatus(t, &r, http.StatusNotFound)

			r = test.Request(t, http.MethodGet, budget.Data.Links.Self, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.BudgetDetailResponse
			test.DecodeResponse(t, &r, &response)
			assert.ElementsMatch(t, tt.remaining(deleted.Data.ID, kept.Data.ID), response.Data.CategoryIDs)
		})
	}

	suite.Assert().Contains(suite.events.Names(), events.CategoryDeleted)

	category := createTestCategory(suite.T(), v1.CategoryEditable{})
	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("%s?policy=shred", category.Data.Links.Self), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/categories/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCategoriesDefaultDeletePolicy() {
	previous := v1.DefaultCategoryDeletePolicy
	v1.DefaultCategoryDeletePolicy = models.Cascade
	defer func() { v1.DefaultCategoryDeletePolicy = previous }()

	category := createTestCategory(suite.T(), v1.CategoryEditable{})
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		CategoryIDs: []uuid.UUID{category.Data.ID},
		StartDate:   types.NewDate(2024, 1, 1),
		EndDate:     types.NewDate(2024, 1, 31),
	})

	r := test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetDetailResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.CategoryIDs, 0)
}

func (suite *TestSuiteStandard) TestCategoriesSpent() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	other := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromFloat(12.5), Date: types.NewDate(2024, 2, 1)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromFloat(-2.25), Date: types.NewDate(2024, 2, 29)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromFloat(100), Date: types.NewDate(2024, 3, 1)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: other.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromFloat(40), Date: types.NewDate(2024, 2, 10)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromFloat(7), Date: types.NewDate(2024, 2, 10)})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?account=%s&from=2024-02-01&until=2024-02-29", category.Data.Links.Spent, account.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategorySpentResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(decimal.NewFromFloat(10.25).Equal(response.Data.Spent), "Spent is %s", response.Data.Spent)
	suite.Assert().Equal(category.Data.ID, response.Data.CategoryID)
	suite.Assert().Equal(account.Data.ID, response.Data.AccountID)
	suite.Assert().Equal(types.NewWindow(types.NewDate(2024, 2, 1), types.NewDate(2024, 2, 29)), response.Data.Window)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?account=%s&from=2024-04-01&until=2024-04-30", category.Data.Links.Spent, account.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.Spent.IsZero(), "Spent is %s", response.Data.Spent)
}

func (suite *TestSuiteStandard) TestCategoriesSpentFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"No account", fmt.Sprintf("%s?from=2024-02-01&until=2024-02-29", category.Data.Links.Spent), http.StatusBadRequest},
		{"Broken account", fmt.Sprintf("%s?account=nope&from=2024-02-01&until=2024-02-29", category.Data.Links.Spent), http.StatusBadRequest},
		{"No until", fmt.Sprintf("%s?account=%s&from=2024-02-01", category.Data.Links.Spent, account.Data.ID), http.StatusBadRequest},
		{"Empty window", fmt.Sprintf("%s?account=%s&from=2024-02-29&until=2024-02-01", category.Data.Links.Spent, account.Data.ID), http.StatusBadRequest},
		{"Unknown account", fmt.Sprintf("%s?account=%s&from=2024-02-01&until=2024-02-29", category.Data.Links.Spent, uuid.New()), http.StatusNotFound},
		{"Unknown category", fmt.Sprintf("http://example.com/v1/categories/%s/spent?account=%s&from=2024-02-01&until=2024-02-29", uuid.New(), account.Data.ID), http.StatusNotFound},
		{"Invalid category ID", fmt.Sprintf("http://example.com/v1/categories/nope/spent?account=%s&from=2024-02-01&until=2024-02-29", account.Data.ID), http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, tt.url, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.CategorySpentResponse
			test.DecodeResponse(t, &r, &response)
			assert.NotNil(t, response.Error)
		})
	}
}
