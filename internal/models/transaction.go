package models

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// Transaction is a single dated movement of money on an account.
//
// Positive amounts are expenses, negative amounts are income.
type Transaction struct {
	DefaultModel
	AccountID         uuid.UUID `gorm:"index"`
	Title             string
	Amount            money.MinorUnits
	Date              types.Date `gorm:"index"`
	CategoryID        uuid.UUID
	CategoryName      string     // Name of the category when the transaction was created
	RecurringSeriesID *uuid.UUID `gorm:"index"` // The series this transaction is an occurrence of
}

// IsIncome reports whether the transaction adds money to the account.
func (t Transaction) IsIncome() bool {
	return t.Amount < 0
}

// IsExpense reports whether the transaction removes money from the account.
func (t Transaction) IsExpense() bool {
	return t.Amount > 0
}

// BeforeSave trims whitespace and sets the date to today if it is not set.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Title = strings.TrimSpace(t.Title)

	if t.Date.IsZero() {
		t.Date = types.Today()
	}

	return nil
}

// BeforeCreate verifies the account ID and takes the snapshot of the
// category name.
//
// The category does not need to exist, in that case the name stays empty.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if err := t.DefaultModel.BeforeCreate(tx); err != nil {
		return err
	}

	if t.AccountID == uuid.Nil {
		return ErrAccountIDNotSet
	}

	if t.CategoryName != "" || t.CategoryID == uuid.Nil {
		return nil
	}

	category, err := CategoryByID(tx, t.CategoryID)
	if err == nil {
		t.CategoryName = category.Name
	}

	return nil
}

// TransactionFilter limits the transactions returned by Transactions.
// Zero values do not filter.
type TransactionFilter struct {
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	From       types.Date // Earliest date, inclusive
	Until      types.Date // Latest date, inclusive
	Search     string     // Substring of title or category name, or a glob if it contains "*"
}

// Transactions returns all transactions matching the filter, ordered by date
// and creation time.
func Transactions(db *gorm.DB, filter TransactionFilter) ([]Transaction, error) {
	q := db.Order("date ASC, created_at ASC")

	if filter.AccountID != uuid.Nil {
		q = q.Where("account_id = ?", filter.AccountID)
	}

	if filter.CategoryID != uuid.Nil {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}

	isGlob := strings.Contains(filter.Search, "*")
	if filter.Search != "" && !isGlob {
		term := fmt.Sprintf("%%%s%%", filter.Search)
		q = q.Where("title LIKE ? OR category_name LIKE ?", term, term)
	}

	var transactions []Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	if !isGlob {
		return transactions, nil
	}

	// SQLite GLOB is case sensitive and does not match on the category name
	// in the same way, so glob searches are matched here
	pattern := strings.ToLower(filter.Search)
	matched := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if glob.Glob(pattern, strings.ToLower(t.Title)) || glob.Glob(pattern, strings.ToLower(t.CategoryName)) {
			matched = append(matched, t)
		}
	}

	return matched, nil
}

// FutureTransactions returns the transactions of the account after the day,
// ordered by date.
func FutureTransactions(db *gorm.DB, accountID uuid.UUID, after types.Date) ([]Transaction, error) {
	transactions := make([]Transaction, 0)
	err := db.
		Where("account_id = ? AND date > ?", accountID, after).
		Order("date ASC, created_at ASC").
		Find(&transactions).
		Error

	return transactions, err
}

// PruneTransactionsBefore deletes all transactions of the account before the day,
// regardless of whether they belong to a recurring series.
func PruneTransactionsBefore(db *gorm.DB, accountID uuid.UUID, day types.Date) (int64, error) {
	result := db.Where("account_id = ? AND date < ?", accountID, day).Delete(&Transaction{})
	return result.RowsAffected, result.Error
}
