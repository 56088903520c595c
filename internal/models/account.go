package models

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an isolated bucket of transactions, budgets and recurring series.
type Account struct {
	DefaultModel
	Name string `gorm:"uniqueIndex"`
	Note string
}

// BeforeSave trims whitespace from all strings
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	return nil
}

// Balance returns the balance of the account at the end of the day.
func (a Account) Balance(db *gorm.DB, day types.Date) (money.MinorUnits, error) {
	return BalanceForDay(db, a.ID, day)
}

// BalanceForDay returns the sum of all amounts of the account's transactions
// on or before the day.
//
// Expenses are stored as positive amounts, so a positive balance means that
// more money was spent than earned.
func BalanceForDay(db *gorm.DB, accountID uuid.UUID, day types.Date) (money.MinorUnits, error) {
	var balance money.MinorUnits

	err := db.
		Model(&Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND date <= ?", accountID, day).
		Row().
		Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("calculating balance for %s: %w", day, err)
	}

	return balance, nil
}

// PurgeAccount deletes all transactions, budgets and recurring series of
// the account. The account itself is kept.
func PurgeAccount(db *gorm.DB, accountID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return purgeAccount(tx, accountID)
	})
}

func purgeAccount(tx *gorm.DB, accountID uuid.UUID) error {
	// Budget categories are removed by the foreign key cascade
	for _, model := range []any{&Transaction{}, &Budget{}, &RecurringSeries{}} {
		err := tx.Where("account_id = ?", accountID).Delete(model).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// DeleteAccount deletes the account together with all of its data.
func DeleteAccount(db *gorm.DB, account Account) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := purgeAccount(tx, account.ID)
		if err != nil {
			return err
		}

		return tx.Delete(&account).Error
	})
}
