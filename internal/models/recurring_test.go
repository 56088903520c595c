package models_test

import (
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/recurring"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) seriesTransactions(series models.RecurringSeries) []models.Transaction {
	var transactions []models.Transaction
	err := models.DB.Where("recurring_series_id = ?", series.ID).Order("date ASC").Find(&transactions).Error
	suite.Require().Nil(err)
	return transactions
}

func (suite *TestSuiteStandard) seriesBudgets(series models.RecurringSeries) []models.Budget {
	var budgets []models.Budget
	err := models.DB.Where("recurring_series_id = ?", series.ID).Order("start_date ASC").Find(&budgets).Error
	suite.Require().Nil(err)
	return budgets
}

func (suite *TestSuiteStandard) TestSeriesValidation() {
	account := suite.createTestAccount(models.Account{})

	err := models.DB.Create(&models.RecurringSeries{AccountID: account.ID, Kind: "expense"}).Error
	suite.Assert().ErrorIs(err, models.ErrUnknownSeriesKind)

	err = models.CreateTransactionSeries(models.DB, &models.RecurringSeries{AccountID: account.ID, Type: "HOURLY"}, types.Date{})
	suite.Assert().ErrorIs(err, recurring.ErrUnknownType)

	err = models.CreateTransactionSeries(models.DB, &models.RecurringSeries{}, types.Date{})
	suite.Assert().ErrorIs(err, models.ErrAccountIDNotSet)
}

func (suite *TestSuiteStandard) TestCreateTransactionSeriesHorizon() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{Name: "Rent"})

	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:      account.ID,
		Goal:           "Rent",
		OriginalAmount: 95000,
		RecurringDate:  types.NewDate(2024, 1, 31),
		CategoryID:     &category.ID,
	}, types.Date{})

	suite.Assert().Equal(recurring.Monthly, series.Type)

	transactions := suite.seriesTransactions(series)
	suite.Require().Len(transactions, models.HorizonMonths[models.TransactionSeries])

	suite.Assert().Equal(types.NewDate(2024, 1, 31), transactions[0].Date)
	suite.Assert().Equal(types.NewDate(2024, 2, 29), transactions[1].Date)
	suite.Assert().Equal(types.NewDate(2024, 3, 31), transactions[2].Date, "dates must not drift after short months")

	for _, t := range transactions {
		suite.Assert().Equal(money.MinorUnits(95000), t.Amount)
		suite.Assert().Equal("Rent", t.Title)
		suite.Assert().Equal(category.ID, t.CategoryID)
		suite.Assert().Equal("RENT", t.CategoryName)
		suite.Assert().Equal(account.ID, t.AccountID)
	}

	// Materializing again does not create duplicates
	created, err := models.Materialize(models.DB, &series, series.RecurringDate, types.NewDate(2025, 1, 31), nil)
	suite.Require().Nil(err)
	suite.Assert().Equal(0, created)
}

func (suite *TestSuiteStandard) TestCreateBudgetSeries() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	series := suite.createTestBudgetSeries(models.RecurringSeries{
		AccountID:      account.ID,
		Goal:           "Food",
		OriginalAmount: 40000,
		RecurringDate:  types.NewDate(2024, 1, 15),
	}, types.Date{}, category)

	budgets := suite.seriesBudgets(series)
	suite.Require().Len(budgets, models.HorizonMonths[models.BudgetSeries])

	suite.Assert().Equal(series.ID, budgets[0].ID, "the first budget must have the ID of the series")
	suite.Assert().NotEqual(series.ID, budgets[1].ID)

	suite.Assert().Equal(types.NewDate(2024, 1, 15), budgets[0].StartDate)
	suite.Assert().Equal(types.NewDate(2024, 1, 31), budgets[0].EndDate)
	suite.Assert().Equal(types.NewDate(2024, 2, 15), budgets[1].StartDate)
	suite.Assert().Equal(types.NewDate(2024, 2, 29), budgets[1].EndDate)

	for _, b := range budgets {
		suite.Assert().Equal(money.MinorUnits(40000), b.TargetAmount)

		ids, err := models.CategoryIDsForBudget(models.DB, b.ID)
		suite.Require().Nil(err)
		suite.Assert().Equal([]uuid.UUID{category.ID}, ids)
	}
}

func (suite *TestSuiteStandard) TestTruncateFromIdempotent() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 10),
	}, types.NewDate(2024, 12, 31))

	day := types.NewDate(2024, 6, 10)

	preview, err := models.OccurrencesFrom(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Equal(6, preview.Len())

	deleted, err := models.TruncateFrom(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(6), deleted)

	after := suite.seriesTransactions(series)

	deleted, err = models.TruncateFrom(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(0), deleted)
	suite.Assert().Equal(after, suite.seriesTransactions(series))

	suite.Require().Len(after, 6)
	suite.Assert().Equal(day, after[5].Date, "the occurrence on the day itself is kept")
}

func (suite *TestSuiteStandard) TestTruncateBefore() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})
	series := suite.createTestBudgetSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 6, 30), category)

	day := types.NewDate(2024, 3, 1)

	has, err := models.HasOccurrencesBefore(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().True(has)

	preview, err := models.OccurrencesBefore(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Len(preview.Budgets, 2)
	suite.Assert().Len(preview.Transactions, 0)

	deleted, err := models.TruncateBefore(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(2), deleted)

	has, err = models.HasOccurrencesBefore(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().False(has)

	deleted, err = models.TruncateBefore(models.DB, series, day)
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(0), deleted)

	suite.Assert().Len(suite.seriesBudgets(series), 4)

	// Associations of deleted budgets are gone
	associations, err := models.AssociationsForCategory(models.DB, category.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(associations, 4)
}

func (suite *TestSuiteStandard) TestEditTransactionSeries() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{Name: "Gym"})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:      account.ID,
		Goal:           "Gym",
		OriginalAmount: 2500,
		RecurringDate:  types.NewDate(2024, 1, 5),
	}, types.NewDate(2024, 12, 31))

	before := suite.seriesTransactions(series)[:5]

	goal := "Gym premium"
	amount := money.MinorUnits(4000)
	effective := types.NewDate(2024, 5, 20)

	edited, result, err := models.EditSeries(models.DB, series.ID, effective, models.SeriesEdit{
		Goal:       &goal,
		Amount:     &amount,
		CategoryID: &category.ID,
	}, types.NewDate(2024, 12, 31))
	suite.Require().Nil(err)

	suite.Assert().True(edited.Modified)
	suite.Assert().Equal(effective, edited.RecurringDate)
	suite.Assert().Equal(amount, edited.OriginalAmount)
	suite.Assert().Equal(7, result.Replaced.Len(), "June to December")
	suite.Assert().Equal(int64(7), result.Removed)
	suite.Assert().Equal(8, result.Created, "May 20 to December 20")

	transactions := suite.seriesTransactions(series)
	suite.Require().Len(transactions, 13)

	// Occurrences before the effective day are untouched
	suite.Assert().Equal(before, transactions[:5])
	for _, t := range transactions[:5] {
		suite.Assert().Equal(series.ID, *t.RecurringSeriesID)
		suite.Assert().Equal(money.MinorUnits(2500), t.Amount)
	}

	suite.Assert().Equal(effective, transactions[5].Date)
	for _, t := range transactions[5:] {
		suite.Assert().Equal(amount, t.Amount)
		suite.Assert().Equal(goal, t.Title)
		suite.Assert().Equal("GYM", t.CategoryName)
		suite.Assert().Equal(20, t.Date.Day())
	}
}

func (suite *TestSuiteStandard) TestEditOnOccurrenceDay() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:      account.ID,
		OriginalAmount: 1000,
		RecurringDate:  types.NewDate(2024, 1, 5),
	}, types.NewDate(2024, 6, 30))

	amount := money.MinorUnits(1500)
	_, result, err := models.EditSeries(models.DB, series.ID, types.NewDate(2024, 3, 5), models.SeriesEdit{Amount: &amount}, types.NewDate(2024, 6, 30))
	suite.Require().Nil(err)

	suite.Assert().Equal(3, result.Replaced.Len())
	suite.Assert().Equal(int64(4), result.Removed, "the occurrence on the day itself is replaced")
	suite.Assert().Equal(4, result.Created)

	transactions := suite.seriesTransactions(series)
	suite.Require().Len(transactions, 6)
	suite.Assert().Equal(money.MinorUnits(1000), transactions[1].Amount)
	suite.Assert().Equal(money.MinorUnits(1500), transactions[2].Amount)
}

func (suite *TestSuiteStandard) TestEditBudgetSeries() {
	account := suite.createTestAccount(models.Account{})
	food := suite.createTestCategory(models.Category{})
	drinks := suite.createTestCategory(models.Category{})

	series := suite.createTestBudgetSeries(models.RecurringSeries{
		AccountID:      account.ID,
		OriginalAmount: 10000,
		RecurringDate:  types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 6, 30), food)

	// Categories are kept when they are not edited
	amount := money.MinorUnits(20000)
	_, _, err := models.EditSeries(models.DB, series.ID, types.NewDate(2024, 4, 1), models.SeriesEdit{Amount: &amount}, types.NewDate(2024, 6, 30))
	suite.Require().Nil(err)

	budgets := suite.seriesBudgets(series)
	suite.Require().Len(budgets, 6)
	suite.Assert().Equal(series.ID, budgets[0].ID, "the originating budget is kept")

	for _, b := range budgets[3:] {
		suite.Assert().Equal(money.MinorUnits(20000), b.TargetAmount)
		ids, err := models.CategoryIDsForBudget(models.DB, b.ID)
		suite.Require().Nil(err)
		suite.Assert().Equal([]uuid.UUID{food.ID}, ids)
	}

	_, _, err = models.EditSeries(models.DB, series.ID, types.NewDate(2024, 5, 1), models.SeriesEdit{CategoryIDs: []uuid.UUID{drinks.ID}}, types.NewDate(2024, 6, 30))
	suite.Require().Nil(err)

	budgets = suite.seriesBudgets(series)
	suite.Require().Len(budgets, 6)

	ids, err := models.CategoryIDsForBudget(models.DB, budgets[3].ID)
	suite.Require().Nil(err)
	suite.Assert().Equal([]uuid.UUID{food.ID}, ids)

	ids, err = models.CategoryIDsForBudget(models.DB, budgets[5].ID)
	suite.Require().Nil(err)
	suite.Assert().Equal([]uuid.UUID{drinks.ID}, ids)

	// Categories of transaction series can not be set on budget series
	_, _, err = models.EditSeries(models.DB, series.ID, types.NewDate(2024, 5, 1), models.SeriesEdit{CategoryID: &food.ID}, types.Date{})
	suite.Assert().ErrorIs(err, models.ErrSeriesKindMismatch)
}

func (suite *TestSuiteStandard) TestEditSeriesNotFound() {
	_, _, err := models.EditSeries(models.DB, uuid.New(), types.Today(), models.SeriesEdit{}, types.Date{})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteSeriesAll() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 12, 31))

	deleted, err := models.DeleteSeries(models.DB, series.ID, models.DeleteAll, types.Date{})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(12), deleted)
	suite.Assert().Len(suite.seriesTransactions(series), 0)

	_, err = models.GetSeries(models.DB, series.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteSeriesDetach() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})
	series := suite.createTestBudgetSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 12, 31), category)

	deleted, err := models.DeleteSeries(models.DB, series.ID, models.Detach, types.NewDate(2024, 3, 15))
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(9), deleted, "April to December")

	budgets, err := models.BudgetsOverlapping(models.DB, account.ID, types.NewWindow(types.NewDate(2024, 1, 1), types.NewDate(2024, 12, 31)))
	suite.Require().Nil(err)
	suite.Require().Len(budgets, 3)

	for _, b := range budgets {
		suite.Assert().Nil(b.RecurringSeriesID, "kept budgets must be detached")
	}

	_, err = models.GetSeries(models.DB, series.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestParseSeriesDeleteMode() {
	m, err := models.ParseSeriesDeleteMode("")
	suite.Require().Nil(err)
	suite.Assert().Equal(models.DeleteAll, m)

	m, err = models.ParseSeriesDeleteMode("detach")
	suite.Require().Nil(err)
	suite.Assert().Equal(models.Detach, m)

	_, err = models.ParseSeriesDeleteMode("future")
	suite.Assert().ErrorIs(err, models.ErrUnknownSeriesDelete)
}

func (suite *TestSuiteStandard) TestTopUp() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})
	series := suite.createTestBudgetSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 3, 31), category)

	suite.Require().Len(suite.seriesBudgets(series), 3)
	suite.Assert().Equal(types.NewDate(2024, 3, 31), series.MaterializedUntil)

	// Old occurrences that were deleted are not created again
	_, err := models.TruncateBefore(models.DB, series, types.NewDate(2024, 2, 1))
	suite.Require().Nil(err)

	created, err := models.TopUp(models.DB, series.ID, types.NewDate(2024, 2, 10))
	suite.Require().Nil(err)

	// The horizon counted from Feb 10 ends on the 24th period, January 10th 2026
	suite.Assert().Equal(22, created, "April 2024 to January 2026")

	budgets := suite.seriesBudgets(series)
	suite.Require().Len(budgets, 24)
	suite.Assert().Equal(types.NewDate(2024, 2, 1), budgets[0].StartDate)

	ids, err := models.CategoryIDsForBudget(models.DB, budgets[23].ID)
	suite.Require().Nil(err)
	suite.Assert().Equal([]uuid.UUID{category.ID}, ids, "categories are copied from the latest budget")

	created, err = models.TopUp(models.DB, series.ID, types.NewDate(2024, 2, 10))
	suite.Require().Nil(err)
	suite.Assert().Equal(0, created)
}

func (suite *TestSuiteStandard) TestTopUpAfterEdit() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:      account.ID,
		OriginalAmount: 100,
		RecurringDate:  types.NewDate(2024, 1, 5),
	}, types.NewDate(2024, 6, 30))

	// A copy listed before the edit
	listed, err := models.SeriesForAccount(models.DB, account.ID)
	suite.Require().Nil(err)
	suite.Require().Len(listed, 1)
	stale := listed[0]

	amount := money.MinorUnits(999)
	_, _, err = models.EditSeries(models.DB, series.ID, types.NewDate(2024, 3, 20), models.SeriesEdit{Amount: &amount}, types.NewDate(2024, 6, 30))
	suite.Require().Nil(err)

	created, err := models.TopUp(models.DB, stale.ID, types.NewDate(2024, 2, 10))
	suite.Require().Nil(err)
	suite.Assert().Greater(created, 0)

	transactions := suite.seriesTransactions(series)
	suite.Require().Len(transactions, 3+4+created)

	for _, t := range transactions {
		if t.Date.Before(types.NewDate(2024, 3, 20)) {
			suite.Assert().Equal(5, t.Date.Day(), t.Date.String())
			suite.Assert().Equal(money.MinorUnits(100), t.Amount, t.Date.String())
			continue
		}

		suite.Assert().Equal(20, t.Date.Day(), t.Date.String())
		suite.Assert().Equal(money.MinorUnits(999), t.Amount, t.Date.String())
	}
}

func (suite *TestSuiteStandard) TestTopUpDeletedSeries() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 1, 31))

	_, err := models.DeleteSeries(models.DB, series.ID, models.DeleteAll, types.Date{})
	suite.Require().Nil(err)

	created, err := models.TopUp(models.DB, series.ID, types.NewDate(2024, 2, 10))
	suite.Assert().Nil(err)
	suite.Assert().Equal(0, created)
}

func (suite *TestSuiteStandard) TestEndSeries() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 12, 31))

	ended, deleted, err := models.EndSeries(models.DB, series.ID, types.NewDate(2024, 6, 1))
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(6), deleted)
	suite.Assert().Equal(types.NewDate(2024, 6, 1), ended.Until)

	created, err := models.TopUp(models.DB, ended.ID, types.NewDate(2024, 1, 1))
	suite.Require().Nil(err)
	suite.Assert().Equal(0, created, "ended series are not topped up")
	suite.Assert().Len(suite.seriesTransactions(series), 6)
}

func (suite *TestSuiteStandard) TestPruneSeriesBefore() {
	account := suite.createTestAccount(models.Account{})
	series := suite.createTestTransactionSeries(models.RecurringSeries{
		AccountID:     account.ID,
		RecurringDate: types.NewDate(2024, 1, 1),
	}, types.NewDate(2024, 12, 31))

	_, _, err := models.PruneSeriesBefore(models.DB, series.ID, types.NewDate(2024, 1, 1))
	suite.Assert().ErrorIs(err, models.ErrNoOccurrencesBefore, "the first occurrence is on the day")
	suite.Assert().Len(suite.seriesTransactions(series), 12)

	pruned, deleted, err := models.PruneSeriesBefore(models.DB, series.ID, types.NewDate(2024, 4, 15))
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(4), deleted)
	suite.Assert().Equal(series.ID, pruned.ID)
	suite.Assert().Len(suite.seriesTransactions(series), 8)

	_, _, err = models.PruneSeriesBefore(models.DB, series.ID, types.NewDate(2024, 4, 15))
	suite.Assert().ErrorIs(err, models.ErrNoOccurrencesBefore)

	_, _, err = models.PruneSeriesBefore(models.DB, uuid.New(), types.NewDate(2024, 4, 15))
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestSeriesForAccount() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{})

	_ = suite.createTestTransactionSeries(models.RecurringSeries{AccountID: account.ID, RecurringDate: types.NewDate(2024, 1, 1)}, types.NewDate(2024, 1, 31))
	_ = suite.createTestTransactionSeries(models.RecurringSeries{AccountID: other.ID, RecurringDate: types.NewDate(2024, 1, 1)}, types.NewDate(2024, 1, 31))

	series, err := models.SeriesForAccount(models.DB, account.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(series, 1)

	series, err = models.SeriesForAccount(models.DB, uuid.Nil)
	suite.Require().Nil(err)
	suite.Assert().Len(series, 2)
}
