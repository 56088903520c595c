package v1

import (
	"net/http"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/httputil"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
)

// RegisterMonthRoutes registers the routes for months with
// the RouterGroup that is passed.
func RegisterMonthRoutes(r *gin.RouterGroup, b Budgeting) {
	r.OPTIONS("/:month", OptionsMonth)
	r.GET("/:month", b.GetMonth)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Param			month	path	URIMonth	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/months/{month} [options]
func OptionsMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get month
// @Description	Recomputes all budgets of the account that overlap the month and returns them with the amounts for the days of the month
// @Tags			Months
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	MonthResponse
// @Failure		500		{object}	MonthResponse
// @Param			month	path		URIMonth	true	"The month in YYYY-MM format"
// @Param			account	query		string		true	"ID of the account"
// @Router			/v1/months/{month} [get]
func (b Budgeting) GetMonth(c *gin.Context) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, MonthResponse{
			Error: &s,
		})
		return
	}

	var query QueryAccount
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, MonthResponse{
			Error: &s,
		})
		return
	}

	if query.AccountID == ez_uuid.Nil {
		s := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, MonthResponse{
			Error: &s,
		})
		return
	}

	err = accountExists(query.AccountID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{
			Error: &s,
		})
		return
	}

	overview, err := b.service.BudgetsForMonth(c.Request.Context(), query.AccountID.UUID, uri.Month)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{
			Error: &s,
		})
		return
	}

	data := newMonth(c, uri.Month, overview)
	c.JSON(http.StatusOK, MonthResponse{Data: &data})
}
