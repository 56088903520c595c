package v1

import (
	"fmt"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/budgeting"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MonthLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/months/2024-02?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`     // The month itself
	Previous string `json:"previous" example:"https://example.com/api/v1/months/2024-01?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // The month before
	Next     string `json:"next" example:"https://example.com/api/v1/months/2024-03?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`     // The month after
}

// MonthBudget is a budget with its amounts for the days of the month
// it overlaps.
type MonthBudget struct {
	Budget     Budget           `json:"budget"`
	Figures    BudgetFigures    `json:"figures"`
	Categories []Category       `json:"categories"`      // The categories that still exist
	Series     *RecurringSeries `json:"recurringSeries"` // The series the budget is an occurrence of, if any
}

// Month is the budget overview of an account for a month.
type Month struct {
	AccountID uuid.UUID     `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	Month     types.Month   `json:"month" example:"2024-02"`                                  // The month in YYYY-MM format
	Window    types.Window  `json:"window"`                                                   // The days of the month
	Budgets   []MonthBudget `json:"budgets"`                                                  // All budgets overlapping the month, ordered by start date
	Links     MonthLinks    `json:"links"`
}

func newMonth(c *gin.Context, month types.Month, overview budgeting.Overview) Month {
	url := c.GetString(string(models.DBContextURL))

	m := Month{
		AccountID: overview.AccountID,
		Month:     month,
		Window:    overview.Window,
		Budgets:   make([]MonthBudget, 0, len(overview.Budgets)),
		Links: MonthLinks{
			Self:     fmt.Sprintf("%s/v1/months/%s?account=%s", url, month, overview.AccountID),
			Previous: fmt.Sprintf("%s/v1/months/%s?account=%s", url, month.AddDate(0, -1), overview.AccountID),
			Next:     fmt.Sprintf("%s/v1/months/%s?account=%s", url, month.AddDate(0, 1), overview.AccountID),
		},
	}

	for _, b := range overview.Budgets {
		categories := make([]Category, 0, len(b.Categories))
		categoryIDs := make([]uuid.UUID, 0, len(b.Categories))
		for _, category := range b.Categories {
			categories = append(categories, newCategory(c, category))
			categoryIDs = append(categoryIDs, category.ID)
		}

		mb := MonthBudget{
			Budget:     newBudget(c, b.Budget, categoryIDs),
			Figures:    newBudgetFigures(b.Figures),
			Categories: categories,
		}

		if b.Series != nil {
			s := newRecurringSeries(c, *b.Series)
			mb.Series = &s
		}

		m.Budgets = append(m.Budgets, mb)
	}

	return m
}

type MonthResponse struct {
	Error *string `json:"error" example:"the account query parameter must be set"` // The error, if any occurred
	Data  *Month  `json:"data"`                                                    // Data for the month
}
