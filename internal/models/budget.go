package models

import (
	"database/sql/driver"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaleAmount is a stored amount that is only valid directly after
// a recomputation. It can not be read, use RecomputeBudgets instead.
type StaleAmount struct {
	value money.MinorUnits
}

// Scan writes the value from the database.
func (s *StaleAmount) Scan(value interface{}) error {
	return s.value.Scan(value)
}

// Value returns the value for the SQL driver to write to the database.
func (s StaleAmount) Value() (driver.Value, error) {
	return s.value.Value()
}

// GormDataType defines the data type used by gorm the type.
func (StaleAmount) GormDataType() string {
	return "integer"
}

// Budget tracks the spending in a set of categories against a target
// over a window of days.
type Budget struct {
	DefaultModel
	AccountID         uuid.UUID `gorm:"index"`
	Goal              string
	TargetAmount      money.MinorUnits
	SpentAmount       StaleAmount
	RemainingAmount   StaleAmount
	StartDate         types.Date `gorm:"index"`
	EndDate           types.Date `gorm:"index"`
	RecurringSeriesID *uuid.UUID `gorm:"index"` // The series this budget is an occurrence of
}

// Window returns the days the budget covers.
func (b Budget) Window() types.Window {
	return types.NewWindow(b.StartDate, b.EndDate)
}

// BeforeSave verifies the budget window and trims the goal
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Goal = strings.TrimSpace(b.Goal)

	if b.Window().IsEmpty() {
		return ErrBudgetWindowInvalid
	}

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if err := b.DefaultModel.BeforeCreate(tx); err != nil {
		return err
	}

	if b.AccountID == uuid.Nil {
		return ErrAccountIDNotSet
	}

	// Nothing has been spent before a budget is recomputed
	b.SpentAmount = StaleAmount{}
	b.RemainingAmount = StaleAmount{value: b.TargetAmount}

	return nil
}

// CreateBudgetWithCategories creates the budget and its category associations.
// If any part fails, nothing is created.
func CreateBudgetWithCategories(db *gorm.DB, budget *Budget, categoryIDs []uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(budget).Error
		if err != nil {
			return err
		}

		return AssociateMany(tx, budget.ID, categoryIDs)
	})
}

// BudgetEdit contains the new values of a budget. Nil values are kept.
type BudgetEdit struct {
	Goal         *string
	TargetAmount *money.MinorUnits
	StartDate    *types.Date
	EndDate      *types.Date
	CategoryIDs  []uuid.UUID // Nil keeps the categories, an empty slice removes all
}

// UpdateBudget changes the budget and replaces its categories. If any part
// fails, the budget is left unchanged.
//
// The stored amounts are reset, they are valid again after the next
// recomputation.
func UpdateBudget(db *gorm.DB, id uuid.UUID, edit BudgetEdit) (Budget, error) {
	var budget Budget
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&budget, "id = ?", id).Error
		if err != nil {
			return err
		}

		if edit.Goal != nil {
			budget.Goal = *edit.Goal
		}
		if edit.TargetAmount != nil {
			budget.TargetAmount = *edit.TargetAmount
		}
		if edit.StartDate != nil {
			budget.StartDate = *edit.StartDate
		}
		if edit.EndDate != nil {
			budget.EndDate = *edit.EndDate
		}

		budget.SpentAmount = StaleAmount{}
		budget.RemainingAmount = StaleAmount{value: budget.TargetAmount}

		err = tx.Save(&budget).Error
		if err != nil {
			return err
		}

		if edit.CategoryIDs == nil {
			return nil
		}

		return ReplaceBudgetCategories(tx, budget.ID, edit.CategoryIDs)
	})
	if err != nil {
		return Budget{}, err
	}

	return budget, nil
}

// Categories returns the categories of the budget.
func (b Budget) Categories(db *gorm.DB) ([]Category, error) {
	return CategoriesForBudget(db, b.ID)
}

// DeleteBudget deletes the budget. Its category associations are
// deleted by the database.
func DeleteBudget(db *gorm.DB, budget Budget) error {
	return db.Delete(&budget).Error
}
