package models_test

import (
	"testing"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestBudgetsOverlappingMultiMonth() {
	account := suite.createTestAccount(models.Account{})
	budget := suite.createTestBudget(models.Budget{
		AccountID: account.ID,
		StartDate: types.NewDate(2024, 1, 15),
		EndDate:   types.NewDate(2024, 3, 10),
	})

	tests := []struct {
		month   types.Month
		visible bool
	}{
		{types.NewMonth(2023, 12), false},
		{types.NewMonth(2024, 1), true},
		{types.NewMonth(2024, 2), true},
		{types.NewMonth(2024, 3), true},
		{types.NewMonth(2024, 4), false},
	}

	for _, tt := range tests {
		suite.T().Run(tt.month.String(), func(t *testing.T) {
			budgets, err := models.BudgetsOverlapping(models.DB, account.ID, tt.month.Window())
			suite.Require().Nil(err)

			if tt.visible {
				suite.Require().Len(budgets, 1)
				suite.Assert().Equal(budget.ID, budgets[0].ID)
			} else {
				suite.Assert().Len(budgets, 0)
			}
		})
	}

	// Other accounts never see the budget
	budgets, err := models.BudgetsOverlapping(models.DB, uuid.New(), types.NewMonth(2024, 2).Window())
	suite.Require().Nil(err)
	suite.Assert().Len(budgets, 0)
}

func (suite *TestSuiteStandard) TestOldestBudgetStart() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{})

	_, ok, err := models.OldestBudgetStart(models.DB, account.ID)
	suite.Require().Nil(err)
	suite.Assert().False(ok)

	_, ok, err = models.OldestBudgetStartAll(models.DB)
	suite.Require().Nil(err)
	suite.Assert().False(ok)

	_ = suite.createTestBudget(models.Budget{AccountID: account.ID, StartDate: types.NewDate(2024, 3, 1), EndDate: types.NewDate(2024, 3, 31)})
	_ = suite.createTestBudget(models.Budget{AccountID: account.ID, StartDate: types.NewDate(2023, 11, 5), EndDate: types.NewDate(2023, 11, 30)})
	_ = suite.createTestBudget(models.Budget{AccountID: other.ID, StartDate: types.NewDate(2022, 1, 1), EndDate: types.NewDate(2022, 1, 31)})

	start, ok, err := models.OldestBudgetStart(models.DB, account.ID)
	suite.Require().Nil(err)
	suite.Assert().True(ok)
	suite.Assert().Equal(types.NewDate(2023, 11, 5), start)

	start, ok, err = models.OldestBudgetStartAll(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(ok)
	suite.Assert().Equal(types.NewDate(2022, 1, 1), start)
}

func (suite *TestSuiteStandard) TestRecomputeBudgets() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{})
	food := suite.createTestCategory(models.Category{})
	drinks := suite.createTestCategory(models.Category{})
	fuel := suite.createTestCategory(models.Category{})
	unused := suite.createTestCategory(models.Category{})

	january := types.NewMonth(2024, 1).Window()

	one := suite.createTestBudget(models.Budget{AccountID: account.ID, TargetAmount: 10000, StartDate: january.Start, EndDate: january.End}, food)
	three := suite.createTestBudget(models.Budget{AccountID: account.ID, TargetAmount: 30000, StartDate: january.Start, EndDate: january.End}, food, drinks, fuel)
	none := suite.createTestBudget(models.Budget{AccountID: account.ID, TargetAmount: 5000, StartDate: january.Start, EndDate: january.End}, unused)

	transactions := []models.Transaction{
		{AccountID: account.ID, CategoryID: food.ID, Amount: 2500, Date: types.NewDate(2024, 1, 3)},
		{AccountID: account.ID, CategoryID: food.ID, Amount: 1000, Date: types.NewDate(2024, 1, 31)},
		{AccountID: account.ID, CategoryID: drinks.ID, Amount: 700, Date: types.NewDate(2024, 1, 15)},
		{AccountID: account.ID, CategoryID: fuel.ID, Amount: 6000, Date: types.NewDate(2024, 1, 20)},
		{AccountID: account.ID, CategoryID: food.ID, Amount: -500, Date: types.NewDate(2024, 1, 21)}, // refund
		{AccountID: account.ID, CategoryID: food.ID, Amount: 9999, Date: types.NewDate(2024, 2, 1)},  // outside of the window
		{AccountID: other.ID, CategoryID: food.ID, Amount: 9999, Date: types.NewDate(2024, 1, 10)},   // other account
	}
	for _, t := range transactions {
		_ = suite.createTestTransaction(t)
	}

	r, err := models.RecomputeBudgets(models.DB, account.ID, january)
	suite.Require().Nil(err)
	suite.Assert().Equal(january, r.Window)
	suite.Assert().Len(r.Budgets, 3)

	tests := []struct {
		name   string
		budget models.Budget
		want   models.Figures
	}{
		{"One category", one, models.Figures{Target: 10000, Spent: 3000, Remaining: 7000}},
		{"Three categories", three, models.Figures{Target: 30000, Spent: 9700, Remaining: 20300}},
		{"No matching transactions", none, models.Figures{Target: 5000, Spent: 0, Remaining: 5000}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			f, ok := r.Figures(tt.budget.ID)
			suite.Require().True(ok)
			suite.Assert().Equal(tt.want, f)
			suite.Assert().Equal(f.Target-f.Spent, f.Remaining)
		})
	}

	_, ok := r.Figures(uuid.New())
	suite.Assert().False(ok)
}

func (suite *TestSuiteStandard) TestRecomputeClipsToWindow() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	budget := suite.createTestBudget(models.Budget{
		AccountID:    account.ID,
		TargetAmount: 100000,
		StartDate:    types.NewDate(2024, 1, 10),
		EndDate:      types.NewDate(2024, 3, 20),
	}, category)

	for _, d := range []types.Date{
		types.NewDate(2024, 1, 9), // before the budget
		types.NewDate(2024, 1, 10),
		types.NewDate(2024, 2, 1),
		types.NewDate(2024, 2, 29),
		types.NewDate(2024, 3, 20),
		types.NewDate(2024, 3, 21), // after the budget
	} {
		_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, CategoryID: category.ID, Amount: 1000, Date: d})
	}

	tests := []struct {
		name   string
		window types.Window
		spent  money.MinorUnits
	}{
		{"January", types.NewMonth(2024, 1).Window(), 1000},
		{"February", types.NewMonth(2024, 2).Window(), 2000},
		{"March", types.NewMonth(2024, 3).Window(), 1000},
		{"Whole budget", types.NewWindow(types.NewDate(2024, 1, 1), types.NewDate(2024, 12, 31)), 4000},
		{"Single day", types.NewWindow(types.NewDate(2024, 2, 29), types.NewDate(2024, 2, 29)), 1000},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r, err := models.RecomputeBudgets(models.DB, account.ID, tt.window)
			suite.Require().Nil(err)

			f, ok := r.Figures(budget.ID)
			suite.Require().True(ok)
			suite.Assert().Equal(tt.spent, f.Spent)
			suite.Assert().Equal(100000-tt.spent, f.Remaining)

			transactions, err := models.TransactionsForBudget(models.DB, budget, tt.window)
			suite.Require().Nil(err)

			var sum money.MinorUnits
			for _, tr := range transactions {
				sum += tr.Amount
			}
			suite.Assert().Equal(tt.spent, sum)
		})
	}

	// No overlap
	r, err := models.RecomputeBudgets(models.DB, account.ID, types.NewMonth(2024, 4).Window())
	suite.Require().Nil(err)
	suite.Assert().Len(r.Budgets, 0)

	_, ok := r.Figures(budget.ID)
	suite.Assert().False(ok)

	transactions, err := models.TransactionsForBudget(models.DB, budget, types.NewMonth(2024, 4).Window())
	suite.Require().Nil(err)
	suite.Assert().Len(transactions, 0)
}

func (suite *TestSuiteStandard) TestSpentForCategory() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	spent, err := models.SpentForCategory(models.DB, account.ID, category.ID, types.NewMonth(2024, 1).Window())
	suite.Require().Nil(err)
	suite.Assert().Equal(money.MinorUnits(0), spent)

	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, CategoryID: category.ID, Amount: 1234, Date: types.NewDate(2024, 1, 2)})
	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, CategoryID: category.ID, Amount: 766, Date: types.NewDate(2024, 1, 30)})
	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, CategoryID: category.ID, Amount: 100, Date: types.NewDate(2024, 2, 1)})

	spent, err = models.SpentForCategory(models.DB, account.ID, category.ID, types.NewMonth(2024, 1).Window())
	suite.Require().Nil(err)
	suite.Assert().Equal(money.MinorUnits(2000), spent)
}

func (suite *TestSuiteStandard) TestRecomputeAfterCategoryOrphaned() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})
	window := types.NewMonth(2024, 1).Window()

	budget := suite.createTestBudget(models.Budget{AccountID: account.ID, TargetAmount: 1000, StartDate: window.Start, EndDate: window.End}, category)
	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, CategoryID: category.ID, Amount: 400, Date: window.Start})

	err := models.DeleteCategory(models.DB, category.ID, models.Orphan)
	suite.Require().Nil(err)

	// Orphaned associations still count the transactions of the deleted category
	r, err := models.RecomputeBudgets(models.DB, account.ID, window)
	suite.Require().Nil(err)

	f, _ := r.Figures(budget.ID)
	suite.Assert().Equal(money.MinorUnits(400), f.Spent)
}
