package models

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/recurring"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeriesKind is the kind of resource a recurring series creates.
type SeriesKind string

const (
	TransactionSeries SeriesKind = "transaction"
	BudgetSeries      SeriesKind = "budget"
)

func (k SeriesKind) Valid() bool {
	return k == TransactionSeries || k == BudgetSeries
}

// HorizonMonths is the number of periods that are materialized ahead
// for each kind of series.
var HorizonMonths = map[SeriesKind]int{
	TransactionSeries: 120,
	BudgetSeries:      24,
}

// RecurringSeries is the template for repeating transactions or budgets.
//
// Occurrences are regular transactions or budgets that reference the series.
// A budget series has the same ID as the first budget it created.
type RecurringSeries struct {
	DefaultModel
	Kind              SeriesKind `gorm:"index"`
	AccountID         uuid.UUID  `gorm:"index"`
	Goal              string
	OriginalAmount    money.MinorUnits
	Type              recurring.Type
	RecurringDate     types.Date // Date of the first occurrence, the anchor of the schedule
	Modified          bool       // Set once the series has been edited
	CategoryID        *uuid.UUID // For transaction series only
	Until             types.Date // Last day of the series. Zero for open-ended series.
	MaterializedUntil types.Date // All occurrences up to this day exist
}

// BeforeSave verifies the kind and recurrence type and trims the goal.
func (s *RecurringSeries) BeforeSave(_ *gorm.DB) error {
	s.Goal = strings.TrimSpace(s.Goal)

	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSeriesKind, s.Kind)
	}

	if s.Type == "" {
		s.Type = recurring.Monthly
	}

	if !s.Type.Valid() {
		return fmt.Errorf("%w: %s", recurring.ErrUnknownType, s.Type)
	}

	return nil
}

func (s *RecurringSeries) BeforeCreate(tx *gorm.DB) error {
	if err := s.DefaultModel.BeforeCreate(tx); err != nil {
		return err
	}

	if s.AccountID == uuid.Nil {
		return ErrAccountIDNotSet
	}

	if s.RecurringDate.IsZero() {
		s.RecurringDate = types.Today()
	}

	return nil
}

// Schedule returns the schedule for the recurrence type of the series.
func (s RecurringSeries) Schedule() (recurring.Schedule, error) {
	return recurring.Get(s.Type)
}

// HorizonEnd returns the last day that is materialized when the series
// is topped up on the given day.
func (s RecurringSeries) HorizonEnd(from types.Date) (types.Date, error) {
	schedule, err := s.Schedule()
	if err != nil {
		return types.Date{}, err
	}

	end := recurring.Horizon(schedule, from, HorizonMonths[s.Kind])
	if !s.Until.IsZero() && s.Until.Before(end) {
		end = s.Until
	}

	return end, nil
}

// GetSeries returns the series with the ID.
func GetSeries(db *gorm.DB, id uuid.UUID) (RecurringSeries, error) {
	var series RecurringSeries
	err := db.First(&series, "id = ?", id).Error
	return series, err
}

// SeriesForAccount returns all series of the account. A zero accountID
// returns the series of all accounts.
func SeriesForAccount(db *gorm.DB, accountID uuid.UUID) ([]RecurringSeries, error) {
	q := db.Order("recurring_date ASC, created_at ASC")
	if accountID != uuid.Nil {
		q = q.Where("account_id = ?", accountID)
	}

	series := make([]RecurringSeries, 0)
	err := q.Find(&series).Error
	return series, err
}

// CreateTransactionSeries creates the series and its occurrences up to until.
// A zero until materializes up to the horizon for the series kind.
func CreateTransactionSeries(db *gorm.DB, series *RecurringSeries, until types.Date) error {
	series.Kind = TransactionSeries

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(series).Error
		if err != nil {
			return err
		}

		_, err = materializeSeries(tx, series, series.RecurringDate, until, nil)
		return err
	})
}

// CreateBudgetSeries creates the series and its budgets up to until, each
// associated with the categories.
//
// The first budget has the ID of the series.
func CreateBudgetSeries(db *gorm.DB, series *RecurringSeries, categoryIDs []uuid.UUID, until types.Date) error {
	series.Kind = BudgetSeries
	series.CategoryID = nil

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(series).Error
		if err != nil {
			return err
		}

		_, err = materializeSeries(tx, series, series.RecurringDate, until, categoryIDs)
		return err
	})
}
