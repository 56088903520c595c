package models

import (
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Figures are the amounts of a budget for a window.
type Figures struct {
	Target    money.MinorUnits
	Spent     money.MinorUnits
	Remaining money.MinorUnits
}

// Recomputation is the result of recomputing the budgets of an account
// for a window.
type Recomputation struct {
	Window  types.Window
	Budgets []Budget // The budgets overlapping the window, ordered by start date
	figures map[uuid.UUID]Figures
}

// Figures returns the amounts for the budget. ok is false if the budget
// was not part of the recomputation.
func (r Recomputation) Figures(budgetID uuid.UUID) (f Figures, ok bool) {
	f, ok = r.figures[budgetID]
	return
}

// overlapping limits a query on budgets to the ones sharing at least one
// day with the window.
func overlapping(db *gorm.DB, accountID uuid.UUID, window types.Window) *gorm.DB {
	return db.
		Where("budgets.account_id = ?", accountID).
		Where("budgets.start_date <= ? AND budgets.end_date >= ?", window.End, window.Start)
}

// BudgetsOverlapping returns all budgets of the account that share at
// least one day with the window.
func BudgetsOverlapping(db *gorm.DB, accountID uuid.UUID, window types.Window) ([]Budget, error) {
	budgets := make([]Budget, 0)
	err := overlapping(db, accountID, window).
		Order("budgets.start_date ASC, budgets.goal ASC").
		Find(&budgets).
		Error

	return budgets, err
}

// OldestBudgetStart returns the earliest start date of all budgets of the account.
// ok is false if the account has no budgets.
func OldestBudgetStart(db *gorm.DB, accountID uuid.UUID) (start types.Date, ok bool, err error) {
	return oldestBudgetStart(db.Model(&Budget{}).Where("account_id = ?", accountID))
}

// OldestBudgetStartAll returns the earliest start date of all budgets.
func OldestBudgetStartAll(db *gorm.DB) (start types.Date, ok bool, err error) {
	return oldestBudgetStart(db.Model(&Budget{}))
}

func oldestBudgetStart(q *gorm.DB) (start types.Date, ok bool, err error) {
	err = q.Select("MIN(start_date)").Row().Scan(&start)
	if err != nil {
		return types.Date{}, false, fmt.Errorf("getting oldest budget start: %w", err)
	}

	return start, !start.IsZero(), nil
}

// budgetFigures is used to scan the stored amounts directly
// after they have been recomputed.
type budgetFigures struct {
	ID              uuid.UUID
	TargetAmount    money.MinorUnits
	SpentAmount     money.MinorUnits
	RemainingAmount money.MinorUnits
}

// RecomputeBudgets recomputes the spent and remaining amounts for all budgets
// of the account overlapping the window.
//
// The spent amount of a budget is the sum of all transactions of the account
// in one of the budget's categories. Only days in both the budget and the
// window are taken into account.
func RecomputeBudgets(db *gorm.DB, accountID uuid.UUID, window types.Window) (Recomputation, error) {
	r := Recomputation{
		Window:  window,
		figures: make(map[uuid.UUID]Figures),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`UPDATE budgets SET spent_amount = (
				SELECT COALESCE(SUM(transactions.amount), 0) FROM transactions
				JOIN budget_categories ON budget_categories.category_id = transactions.category_id
					AND budget_categories.budget_id = budgets.id
				WHERE transactions.account_id = budgets.account_id
					AND transactions.date >= MAX(budgets.start_date, ?)
					AND transactions.date <= MIN(budgets.end_date, ?)
			)
			WHERE account_id = ? AND start_date <= ? AND end_date >= ?`,
			window.Start, window.End, accountID, window.End, window.Start,
		).Error
		if err != nil {
			return fmt.Errorf("recomputing spent amounts: %w", err)
		}

		err = tx.Exec(`UPDATE budgets SET remaining_amount = target_amount - spent_amount
			WHERE account_id = ? AND start_date <= ? AND end_date >= ?`,
			accountID, window.End, window.Start,
		).Error
		if err != nil {
			return fmt.Errorf("recomputing remaining amounts: %w", err)
		}

		var figures []budgetFigures
		err = overlapping(tx.Model(&Budget{}), accountID, window).
			Select("id", "target_amount", "spent_amount", "remaining_amount").
			Scan(&figures).
			Error
		if err != nil {
			return err
		}

		for _, f := range figures {
			r.figures[f.ID] = Figures{
				Target:    f.TargetAmount,
				Spent:     f.SpentAmount,
				Remaining: f.RemainingAmount,
			}
		}

		r.Budgets, err = BudgetsOverlapping(tx, accountID, window)
		return err
	})
	if err != nil {
		return Recomputation{}, err
	}

	return r, nil
}

// SpentForCategory returns the sum of the account's transactions in the
// category during the window.
func SpentForCategory(db *gorm.DB, accountID, categoryID uuid.UUID, window types.Window) (money.MinorUnits, error) {
	var spent money.MinorUnits
	err := db.
		Model(&Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND category_id = ?", accountID, categoryID).
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Row().
		Scan(&spent)

	return spent, err
}

// TransactionsForBudget returns the transactions that count against the
// budget during the window, ordered by date.
func TransactionsForBudget(db *gorm.DB, budget Budget, window types.Window) ([]Transaction, error) {
	transactions := make([]Transaction, 0)

	clipped, ok := budget.Window().Clip(window)
	if !ok {
		return transactions, nil
	}

	err := db.
		Joins("JOIN budget_categories ON budget_categories.category_id = transactions.category_id AND budget_categories.budget_id = ?", budget.ID).
		Where("transactions.account_id = ?", budget.AccountID).
		Where("transactions.date >= ? AND transactions.date <= ?", clipped.Start, clipped.End).
		Order("transactions.date ASC, transactions.created_at ASC").
		Find(&transactions).
		Error

	return transactions, err
}
