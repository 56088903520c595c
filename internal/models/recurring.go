package models

import (
	"errors"
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/money"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/recurring"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Occurrences are the transactions or budgets created by a series.
// Only the slice matching the kind of the series is set.
type Occurrences struct {
	Transactions []Transaction
	Budgets      []Budget
}

// Len returns the number of occurrences.
func (o Occurrences) Len() int {
	return len(o.Transactions) + len(o.Budgets)
}

// occurrenceScope returns a query on the occurrences of the series and the
// column that holds the date of an occurrence.
func occurrenceScope(db *gorm.DB, series RecurringSeries) (*gorm.DB, string, error) {
	switch series.Kind {
	case TransactionSeries:
		return db.Model(&Transaction{}).Where("recurring_series_id = ?", series.ID), "date", nil
	case BudgetSeries:
		return db.Model(&Budget{}).Where("recurring_series_id = ?", series.ID), "start_date", nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnknownSeriesKind, series.Kind)
}

func deleteOccurrences(db *gorm.DB, series RecurringSeries, condition string, day types.Date) (int64, error) {
	q, column, err := occurrenceScope(db, series)
	if err != nil {
		return 0, err
	}

	var model any = &Transaction{}
	if series.Kind == BudgetSeries {
		model = &Budget{}
	}

	result := q.Where(fmt.Sprintf("%s %s ?", column, condition), day).Delete(model)
	return result.RowsAffected, result.Error
}

func findOccurrences(db *gorm.DB, series RecurringSeries, condition string, day types.Date) (Occurrences, error) {
	q, column, err := occurrenceScope(db, series)
	if err != nil {
		return Occurrences{}, err
	}

	q = q.Where(fmt.Sprintf("%s %s ?", column, condition), day).Order(fmt.Sprintf("%s ASC", column))

	var o Occurrences
	if series.Kind == BudgetSeries {
		o.Budgets = make([]Budget, 0)
		err = q.Find(&o.Budgets).Error
	} else {
		o.Transactions = make([]Transaction, 0)
		err = q.Find(&o.Transactions).Error
	}

	return o, err
}

// TruncateFrom deletes all occurrences of the series after the day.
func TruncateFrom(db *gorm.DB, series RecurringSeries, day types.Date) (int64, error) {
	return deleteOccurrences(db, series, ">", day)
}

// TruncateBefore deletes all occurrences of the series before the day.
func TruncateBefore(db *gorm.DB, series RecurringSeries, day types.Date) (int64, error) {
	return deleteOccurrences(db, series, "<", day)
}

// OccurrencesFrom returns the occurrences that TruncateFrom would delete.
func OccurrencesFrom(db *gorm.DB, series RecurringSeries, day types.Date) (Occurrences, error) {
	return findOccurrences(db, series, ">", day)
}

// OccurrencesBefore returns the occurrences that TruncateBefore would delete.
func OccurrencesBefore(db *gorm.DB, series RecurringSeries, day types.Date) (Occurrences, error) {
	return findOccurrences(db, series, "<", day)
}

// HasOccurrencesBefore reports whether the series has occurrences before the day.
func HasOccurrencesBefore(db *gorm.DB, series RecurringSeries, day types.Date) (bool, error) {
	q, column, err := occurrenceScope(db, series)
	if err != nil {
		return false, err
	}

	var count int64
	err = q.Where(fmt.Sprintf("%s < ?", column), day).Count(&count).Error
	return count > 0, err
}

// Materialize creates the missing occurrences of the series in [from, until].
//
// Budgets are associated with the categories. It returns the number of
// created occurrences.
func Materialize(db *gorm.DB, series *RecurringSeries, from, until types.Date, categoryIDs []uuid.UUID) (int, error) {
	var created int
	err := db.Transaction(func(tx *gorm.DB) (err error) {
		created, err = materializeSeries(tx, series, from, until, categoryIDs)
		return err
	})

	return created, err
}

func materializeSeries(tx *gorm.DB, series *RecurringSeries, from, until types.Date, categoryIDs []uuid.UUID) (int, error) {
	schedule, err := series.Schedule()
	if err != nil {
		return 0, err
	}

	if until.IsZero() {
		until, err = series.HorizonEnd(series.RecurringDate)
		if err != nil {
			return 0, err
		}
	}

	if !series.Until.IsZero() && series.Until.Before(until) {
		until = series.Until
	}

	if from.Before(series.RecurringDate) {
		from = series.RecurringDate
	}

	q, column, err := occurrenceScope(tx, *series)
	if err != nil {
		return 0, err
	}

	var existing []types.Date
	err = q.Where(fmt.Sprintf("%s >= ? AND %s <= ?", column, column), from, until).Pluck(column, &existing).Error
	if err != nil {
		return 0, err
	}

	exists := make(map[string]bool, len(existing))
	for _, d := range existing {
		exists[d.String()] = true
	}

	created := 0
	for _, d := range recurring.Dates(schedule, series.RecurringDate, from, until) {
		if exists[d.String()] {
			continue
		}

		switch series.Kind {
		case TransactionSeries:
			err = createTransactionOccurrence(tx, *series, d)
		case BudgetSeries:
			err = createBudgetOccurrence(tx, *series, d, categoryIDs)
		}
		if err != nil {
			return created, fmt.Errorf("creating occurrence on %s: %w", d, err)
		}
		created++
	}

	if until.After(series.MaterializedUntil) {
		series.MaterializedUntil = until
		err = tx.Model(series).Update("materialized_until", until).Error
		if err != nil {
			return created, err
		}
	}

	return created, nil
}

func createTransactionOccurrence(tx *gorm.DB, series RecurringSeries, d types.Date) error {
	t := Transaction{
		AccountID:         series.AccountID,
		Title:             series.Goal,
		Amount:            series.OriginalAmount,
		Date:              d,
		RecurringSeriesID: &series.ID,
	}

	if series.CategoryID != nil {
		t.CategoryID = *series.CategoryID
	}

	return tx.Create(&t).Error
}

func createBudgetOccurrence(tx *gorm.DB, series RecurringSeries, d types.Date, categoryIDs []uuid.UUID) error {
	b := Budget{
		AccountID:         series.AccountID,
		Goal:              series.Goal,
		TargetAmount:      series.OriginalAmount,
		StartDate:         d,
		EndDate:           d.LastDayOfMonth(),
		RecurringSeriesID: &series.ID,
	}

	// The originating budget shares the ID of the series
	if !series.Modified && d.Equal(series.RecurringDate) {
		b.ID = series.ID
	}

	err := tx.Create(&b).Error
	if err != nil {
		return err
	}

	return AssociateMany(tx, b.ID, categoryIDs)
}

// latestCategoryIDs returns the categories of the latest budget of the series.
func latestCategoryIDs(tx *gorm.DB, series RecurringSeries) ([]uuid.UUID, error) {
	var budget Budget
	err := tx.
		Where("recurring_series_id = ?", series.ID).
		Order("start_date DESC").
		Limit(1).
		Find(&budget).
		Error
	if err != nil || budget.ID == uuid.Nil {
		return nil, err
	}

	return CategoryIDsForBudget(tx, budget.ID)
}

// TopUp materializes the occurrences of the series that are missing
// up to the horizon, counted from today.
//
// The series is read inside the transaction, so edits that were committed
// before are respected. A series that does not exist anymore is skipped.
func TopUp(db *gorm.DB, seriesID uuid.UUID, today types.Date) (int, error) {
	var created int
	err := db.Transaction(func(tx *gorm.DB) error {
		series, err := GetSeries(tx, seriesID)
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		} else if err != nil {
			return err
		}

		until, err := series.HorizonEnd(today)
		if err != nil {
			return err
		}

		from := series.RecurringDate
		if !series.MaterializedUntil.IsZero() {
			from = series.MaterializedUntil.AddDays(1)
		}

		if from.After(until) {
			return nil
		}

		var categoryIDs []uuid.UUID
		if series.Kind == BudgetSeries {
			categoryIDs, err = latestCategoryIDs(tx, series)
			if err != nil {
				return err
			}
		}

		created, err = materializeSeries(tx, &series, from, until, categoryIDs)
		return err
	})

	return created, err
}

// SeriesEdit contains the new parameters of a series. Nil values are kept.
type SeriesEdit struct {
	Goal        *string
	Amount      *money.MinorUnits
	Type        *recurring.Type
	CategoryID  *uuid.UUID  // For transaction series
	CategoryIDs []uuid.UUID // For budget series. Nil keeps the categories.
}

// EditResult describes the changes an edit made to the occurrences.
type EditResult struct {
	Replaced Occurrences // The occurrences after the effective day that were deleted
	Removed  int64       // Number of deleted occurrences, including the one on the effective day
	Created  int         // Number of created occurrences
}

// EditSeries changes the series from the effective day on.
//
// Occurrences before the day are kept as they are. All later occurrences
// and the one on the day itself are deleted and created again with the new
// parameters, starting on the day up to until. A zero until uses the
// horizon of the series kind.
func EditSeries(db *gorm.DB, seriesID uuid.UUID, effective types.Date, edit SeriesEdit, until types.Date) (RecurringSeries, EditResult, error) {
	var (
		series RecurringSeries
		result EditResult
	)

	err := db.Transaction(func(tx *gorm.DB) (err error) {
		series, err = GetSeries(tx, seriesID)
		if err != nil {
			return err
		}

		if edit.CategoryIDs != nil && series.Kind != BudgetSeries {
			return ErrSeriesKindMismatch
		}

		if edit.CategoryID != nil && series.Kind != TransactionSeries {
			return ErrSeriesKindMismatch
		}

		categoryIDs := edit.CategoryIDs
		if series.Kind == BudgetSeries && categoryIDs == nil {
			categoryIDs, err = latestCategoryIDs(tx, series)
			if err != nil {
				return err
			}
		}

		result.Replaced, err = OccurrencesFrom(tx, series, effective)
		if err != nil {
			return err
		}

		result.Removed, err = TruncateFrom(tx, series, effective)
		if err != nil {
			return err
		}

		removed, err := deleteOccurrences(tx, series, "=", effective)
		if err != nil {
			return err
		}
		result.Removed += removed

		if edit.Goal != nil {
			series.Goal = *edit.Goal
		}
		if edit.Amount != nil {
			series.OriginalAmount = *edit.Amount
		}
		if edit.Type != nil {
			series.Type = *edit.Type
		}
		if edit.CategoryID != nil {
			series.CategoryID = edit.CategoryID
		}
		series.RecurringDate = effective
		series.Modified = true
		series.MaterializedUntil = effective.AddDays(-1)

		err = tx.Save(&series).Error
		if err != nil {
			return err
		}

		if until.IsZero() {
			from := effective
			if today := types.Today(); today.After(from) {
				from = today
			}

			until, err = series.HorizonEnd(from)
			if err != nil {
				return err
			}
		}

		result.Created, err = materializeSeries(tx, &series, effective, until, categoryIDs)
		return err
	})
	if err != nil {
		return RecurringSeries{}, EditResult{}, err
	}

	return series, result, nil
}

// SeriesDeleteMode defines how the occurrences of a deleted series are handled.
type SeriesDeleteMode string

const (
	// DeleteAll deletes all occurrences of the series.
	DeleteAll SeriesDeleteMode = "all"

	// Detach deletes the occurrences after the pivot day. Earlier occurrences
	// are kept as one-off transactions or budgets.
	Detach SeriesDeleteMode = "detach"
)

// ParseSeriesDeleteMode parses a mode. The empty string results in DeleteAll.
func ParseSeriesDeleteMode(s string) (SeriesDeleteMode, error) {
	switch SeriesDeleteMode(s) {
	case "", DeleteAll:
		return DeleteAll, nil
	case Detach:
		return Detach, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownSeriesDelete, s)
}

// DeleteSeries deletes the series and handles its occurrences according to the mode.
// A zero pivot means today. It returns the number of deleted occurrences.
func DeleteSeries(db *gorm.DB, seriesID uuid.UUID, mode SeriesDeleteMode, pivot types.Date) (int64, error) {
	if pivot.IsZero() {
		pivot = types.Today()
	}

	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) (err error) {
		series, err := GetSeries(tx, seriesID)
		if err != nil {
			return err
		}

		switch mode {
		case DeleteAll:
			q, _, err := occurrenceScope(tx, series)
			if err != nil {
				return err
			}

			var model any = &Transaction{}
			if series.Kind == BudgetSeries {
				model = &Budget{}
			}

			result := q.Delete(model)
			if result.Error != nil {
				return result.Error
			}
			deleted = result.RowsAffected

		case Detach:
			deleted, err = TruncateFrom(tx, series, pivot)
			if err != nil {
				return err
			}

			q, _, err := occurrenceScope(tx, series)
			if err != nil {
				return err
			}

			err = q.UpdateColumn("recurring_series_id", nil).Error
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %s", ErrUnknownSeriesDelete, mode)
		}

		return tx.Delete(&series).Error
	})

	return deleted, err
}

// EndSeries ends the series on the day and deletes all later occurrences.
func EndSeries(db *gorm.DB, seriesID uuid.UUID, day types.Date) (RecurringSeries, int64, error) {
	var (
		series  RecurringSeries
		deleted int64
	)

	err := db.Transaction(func(tx *gorm.DB) (err error) {
		series, err = GetSeries(tx, seriesID)
		if err != nil {
			return err
		}

		deleted, err = TruncateFrom(tx, series, day)
		if err != nil {
			return err
		}

		series.Until = day
		return tx.Save(&series).Error
	})
	if err != nil {
		return RecurringSeries{}, 0, err
	}

	return series, deleted, nil
}

// PruneSeriesBefore deletes all occurrences of the series before the day.
//
// It fails with ErrNoOccurrencesBefore when there is nothing to delete, the
// day is then on or before the first occurrence.
func PruneSeriesBefore(db *gorm.DB, seriesID uuid.UUID, day types.Date) (RecurringSeries, int64, error) {
	var (
		series  RecurringSeries
		deleted int64
	)

	err := db.Transaction(func(tx *gorm.DB) (err error) {
		series, err = GetSeries(tx, seriesID)
		if err != nil {
			return err
		}

		ok, err := HasOccurrencesBefore(tx, series, day)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %s", ErrNoOccurrencesBefore, day)
		}

		deleted, err = TruncateBefore(tx, series, day)
		return err
	})
	if err != nil {
		return RecurringSeries{}, 0, err
	}

	return series, deleted, nil
}
