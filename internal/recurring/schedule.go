// Package recurring computes the occurrence dates of recurring series.
//
// Each recurrence type has its own Schedule. New types are added by
// registering a Schedule, nothing else needs to change.
package recurring

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
)

// Type is the recurrence type of a series.
type Type string

const (
	Monthly Type = "MONTHLY"
)

var ErrUnknownType = errors.New("unknown recurrence type")

// Schedule computes the dates of a recurring series.
type Schedule interface {
	// Occurrence returns the date of the n-th occurrence, counting from
	// the anchor with n = 0.
	Occurrence(anchor types.Date, n int) types.Date
}

// MonthlySchedule repeats on the anchor's day of month. For months that
// are too short, the last day of the month is used instead.
type MonthlySchedule struct{}

func (MonthlySchedule) Occurrence(anchor types.Date, n int) types.Date {
	month := time.Month(int(anchor.Month()) + n)
	first := types.NewDate(anchor.Year(), month, 1)

	day := anchor.Day()
	if last := first.LastDayOfMonth().Day(); day > last {
		day = last
	}

	return types.NewDate(first.Year(), first.Month(), day)
}

var (
	mu        sync.RWMutex
	schedules = map[Type]Schedule{
		Monthly: MonthlySchedule{},
	}
)

// Get returns the schedule for a recurrence type.
func Get(t Type) (Schedule, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := schedules[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return s, nil
}

// Register adds or replaces the schedule for a recurrence type.
func Register(t Type, s Schedule) {
	mu.Lock()
	defer mu.Unlock()

	schedules[t] = s
}

// Valid reports whether a schedule is registered for the type.
func (t Type) Valid() bool {
	_, err := Get(t)
	return err == nil
}

// Dates returns all occurrence dates of the series anchored at anchor
// that lie inside [from, until].
func Dates(s Schedule, anchor, from, until types.Date) []types.Date {
	dates := make([]types.Date, 0)
	if until.Before(from) {
		return dates
	}

	for n := 0; ; n++ {
		d := s.Occurrence(anchor, n)
		if d.After(until) {
			break
		}

		if !d.Before(from) {
			dates = append(dates, d)
		}
	}

	return dates
}

// Horizon returns the last day that is covered when a series is
// materialized count periods ahead of from.
func Horizon(s Schedule, from types.Date, count int) types.Date {
	if count < 1 {
		return from
	}

	return s.Occurrence(from, count-1)
}
