// Package worker keeps the occurrences of recurring series materialized.
//
// Series are materialized up to a horizon when they are created. The worker
// moves the horizon forward as time passes.
package worker

import (
	"context"
	"time"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/events"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Worker struct {
	db       *gorm.DB
	interval time.Duration
	today    func() types.Date
}

func New(db *gorm.DB, interval time.Duration) *Worker {
	return &Worker{
		db:       db,
		interval: interval,
		today:    types.Today,
	}
}

// WithToday sets the function used to determine the current day.
func (w *Worker) WithToday(today func() types.Date) *Worker {
	w.today = today
	return w
}

// RunOnce tops up all series and returns the number of created occurrences.
//
// A failing series is logged and does not stop the others.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	db := w.db.WithContext(ctx)

	series, err := models.SeriesForAccount(db, uuid.Nil)
	if err != nil {
		return 0, err
	}

	today := w.today()
	total := 0
	for _, s := range series {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		created, err := models.TopUp(db, s.ID, today)
		if err != nil {
			log.Error().Err(err).Str("series", s.ID.String()).Msg("topping up recurring series")
			continue
		}

		if created > 0 {
			log.Debug().Str("series", s.ID.String()).Int("created", created).Msg("topped up recurring series")
			events.Publish(ctx, events.SeriesToppedUp, s.AccountID, s.ID)
		}
		total += created
	}

	return total, nil
}

// Run tops up all series immediately and then once per interval until ctx
// is done.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("starting recurring series worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("stopping recurring series worker")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	created, err := w.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("recurring series top up failed")
		return
	}

	log.Info().Int("created", created).Msg("recurring series top up complete")
}
