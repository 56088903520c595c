// Package budgeting computes the budget overview of an account for a window.
//
// Identical requests that run at the same time share one recomputation.
package budgeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Recomputations counts the recomputation passes.
var Recomputations = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "budget_recomputations_total",
	Help: "How many times the budgets of an account have been recomputed for a window.",
})

// BudgetFigures is a budget with its current amounts.
type BudgetFigures struct {
	Budget     models.Budget
	Figures    models.Figures
	Categories []models.Category
	Series     *models.RecurringSeries // The series the budget is an occurrence of, if any
}

// Overview contains all budgets of an account for a window.
type Overview struct {
	AccountID uuid.UUID
	Window    types.Window
	Budgets   []BudgetFigures
}

type Service struct {
	db    *gorm.DB
	group singleflight.Group
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BudgetsForMonth returns the overview for all days of the month.
func (s *Service) BudgetsForMonth(ctx context.Context, accountID uuid.UUID, month types.Month) (Overview, error) {
	return s.BudgetsForWindow(ctx, accountID, month.Window())
}

// BudgetsForWindow recomputes all budgets of the account overlapping the
// window and returns them.
//
// If ctx is cancelled, the error of the context is returned. The
// recomputation itself is finished and committed in any case.
func (s *Service) BudgetsForWindow(ctx context.Context, accountID uuid.UUID, window types.Window) (Overview, error) {
	if window.IsEmpty() {
		return Overview{}, fmt.Errorf("%w: %s", ErrWindowEmpty, window)
	}

	if err := ctx.Err(); err != nil {
		return Overview{}, err
	}

	key := fmt.Sprintf("%s %s", accountID, window)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.recompute(context.WithoutCancel(ctx), accountID, window)
	})

	select {
	case <-ctx.Done():
		return Overview{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Overview{}, res.Err
		}

		if res.Shared {
			log.Debug().Str("key", key).Msg("shared budget recomputation")
		}

		return res.Val.(Overview), nil
	}
}

// ErrWindowEmpty is returned for windows that end before they start.
var ErrWindowEmpty = errors.New("the window must not end before it starts")

func (s *Service) recompute(ctx context.Context, accountID uuid.UUID, window types.Window) (Overview, error) {
	overview := Overview{
		AccountID: accountID,
		Window:    window,
		Budgets:   make([]BudgetFigures, 0),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := models.RecomputeBudgets(tx, accountID, window)
		if err != nil {
			return err
		}

		series := make(map[uuid.UUID]*models.RecurringSeries)
		for _, budget := range r.Budgets {
			figures, _ := r.Figures(budget.ID)

			categories, err := models.CategoriesForBudget(tx, budget.ID)
			if err != nil {
				return err
			}

			b := BudgetFigures{
				Budget:     budget,
				Figures:    figures,
				Categories: categories,
			}

			if budget.RecurringSeriesID != nil {
				id := *budget.RecurringSeriesID
				if _, ok := series[id]; !ok {
					series[id], err = originatingSeries(tx, id)
					if err != nil {
						return err
					}
				}
				b.Series = series[id]
			}

			overview.Budgets = append(overview.Budgets, b)
		}

		return nil
	})
	if err != nil {
		return Overview{}, err
	}

	Recomputations.Inc()
	return overview, nil
}

// originatingSeries returns the series or nil if it does not exist anymore.
func originatingSeries(tx *gorm.DB, id uuid.UUID) (*models.RecurringSeries, error) {
	s, err := models.GetSeries(tx, id)
	if errors.Is(err, models.ErrResourceNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &s, nil
}

// OldestBudgetStart returns the earliest budget start of the account.
// uuid.Nil covers the budgets of all accounts.
func (s *Service) OldestBudgetStart(ctx context.Context, accountID uuid.UUID) (types.Date, bool, error) {
	if accountID == uuid.Nil {
		return models.OldestBudgetStartAll(s.db.WithContext(ctx))
	}

	return models.OldestBudgetStart(s.db.WithContext(ctx), accountID)
}
