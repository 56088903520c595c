package v1

import (
	"net/http"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/events"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/httputil"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterRecurringSeriesRoutes registers the routes for recurring series with
// the RouterGroup that is passed.
func RegisterRecurringSeriesRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRecurringSeriesList)
		r.GET("", GetRecurringSeriesList)
		r.POST("", CreateRecurringSeries)
	}

	// Series with ID
	{
		r.OPTIONS("/:id", OptionsRecurringSeriesDetail)
		r.GET("/:id", GetRecurringSeries)
		r.PATCH("/:id", UpdateRecurringSeries)
		r.DELETE("/:id", DeleteRecurringSeries)
		r.OPTIONS("/:id/occurrences", OptionsRecurringSeriesOccurrences)
		r.GET("/:id/occurrences", GetRecurringSeriesOccurrences)
		r.OPTIONS("/:id/truncate", OptionsRecurringSeriesTruncate)
		r.POST("/:id/truncate", TruncateRecurringSeries)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Series
// @Success		204
// @Router			/v1/recurring-series [options]
func OptionsRecurringSeriesList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Series
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-series/{id} [options]
func OptionsRecurringSeriesDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.RecurringSeries{}, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Series
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-series/{id}/occurrences [options]
func OptionsRecurringSeriesOccurrences(c *gin.Context) {
	resourceOptionsDetail(c, models.RecurringSeries{}, httputil.OptionsGet)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Series
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-series/{id}/truncate [options]
func OptionsRecurringSeriesTruncate(c *gin.Context) {
	resourceOptionsDetail(c, models.RecurringSeries{}, httputil.OptionsPost)
}

// @Summary		Create recurring series
// @Description	Creates recurring series together with their first occurrences. Transaction series use categoryId, budget series use categoryIds.
// @Tags			Recurring Series
// @Produce		json
// @Success		201		{object}	RecurringSeriesCreateResponse
// @Failure		400		{object}	RecurringSeriesCreateResponse
// @Failure		404		{object}	RecurringSeriesCreateResponse
// @Failure		500		{object}	RecurringSeriesCreateResponse
// @Param			series	body		[]RecurringSeriesEditable	true	"Recurring series"
// @Router			/v1/recurring-series [post]
func CreateRecurringSeries(c *gin.Context) {
	var editables []RecurringSeriesEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringSeriesCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RecurringSeriesCreateResponse{}

	for _, editable := range editables {
		series := editable.model()

		err = accountExists(series.AccountID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		switch series.Kind {
		case models.TransactionSeries:
			if series.CategoryID == nil || len(editable.CategoryIDs) > 0 {
				err = errSeriesCategory
				break
			}
			err = models.CreateTransactionSeries(models.DB, &series, types.Date{})
		case models.BudgetSeries:
			if series.CategoryID != nil {
				err = errSeriesCategory
				break
			}
			err = models.CreateBudgetSeries(models.DB, &series, editable.CategoryIDs, types.Date{})
		default:
			err = models.ErrUnknownSeriesKind
		}

		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		events.Publish(c.Request.Context(), events.SeriesCreated, series.AccountID, series.ID)

		data := newRecurringSeries(c, series)
		r.Data = append(r.Data, RecurringSeriesResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get recurring series
// @Description	Returns a list of recurring series, ordered by the date of their first occurrence
// @Tags			Recurring Series
// @Produce		json
// @Success		200		{object}	RecurringSeriesListResponse
// @Failure		400		{object}	RecurringSeriesListResponse
// @Failure		500		{object}	RecurringSeriesListResponse
// @Param			account	query		string	false	"Filter by account ID"
// @Router			/v1/recurring-series [get]
func GetRecurringSeriesList(c *gin.Context) {
	var filter RecurringSeriesQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, RecurringSeriesListResponse{
			Error: &s,
		})
		return
	}

	series, err := models.SeriesForAccount(models.DB, filter.AccountID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesListResponse{
			Error: &s,
		})
		return
	}

	data := make([]RecurringSeries, 0)
	for _, s := range series {
		data = append(data, newRecurringSeries(c, s))
	}

	c.JSON(http.StatusOK, RecurringSeriesListResponse{Data: data})
}

// @Summary		Get recurring series
// @Description	Returns a specific recurring series
// @Tags			Recurring Series
// @Produce		json
// @Success		200	{object}	RecurringSeriesResponse
// @Failure		400	{object}	RecurringSeriesResponse
// @Failure		404	{object}	RecurringSeriesResponse
// @Failure		500	{object}	RecurringSeriesResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-series/{id} [get]
func GetRecurringSeries(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesResponse{
			Error: &s,
		})
		return
	}

	series, err := models.GetSeries(models.DB, uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesResponse{
			Error: &s,
		})
		return
	}

	data := newRecurringSeries(c, series)
	c.JSON(http.StatusOK, RecurringSeriesResponse{Data: &data})
}

// @Summary		Get occurrences
// @Description	Returns the occurrences of the series after or before a day without changing anything. Exactly one of from and before must be set.
// @Tags			Recurring Series
// @Produce		json
// @Success		200		{object}	OccurrencesResponse
// @Failure		400		{object}	OccurrencesResponse
// @Failure		404		{object}	OccurrencesResponse
// @Failure		500		{object}	OccurrencesResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query		string	false	"Occurrences after this day"
// @Param			before	query		string	false	"Occurrences before this day"
// @Router			/v1/recurring-series/{id}/occurrences [get]
func GetRecurringSeriesOccurrences(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OccurrencesResponse{
			Error: &s,
		})
		return
	}

	var query OccurrencesQuery
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, OccurrencesResponse{
			Error: &s,
		})
		return
	}

	if query.From.IsZero() == query.Before.IsZero() {
		s := errTruncateParameter.Error()
		c.JSON(http.StatusBadRequest, OccurrencesResponse{
			Error: &s,
		})
		return
	}

	series, err := models.GetSeries(models.DB, uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OccurrencesResponse{
			Error: &s,
		})
		return
	}

	var occurrences models.Occurrences
	if !query.From.IsZero() {
		occurrences, err = models.OccurrencesFrom(models.DB, series, query.From)
	} else {
		occurrences, err = models.OccurrencesBefore(models.DB, series, query.Before)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OccurrencesResponse{
			Error: &s,
		})
		return
	}

	data, err := newOccurrences(c, occurrences)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OccurrencesResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, OccurrencesResponse{Data: &data})
}

// @Summary		Update recurring series
// @Description	Changes the series from the effective day on. Earlier occurrences are kept unchanged, the occurrence on the day and all later ones are created again with the new parameters.
// @Tags			Recurring Series
// @Accept			json
// @Produce		json
// @Success		200			{object}	RecurringSeriesEditResponse
// @Failure		400			{object}	RecurringSeriesEditResponse
// @Failure		404			{object}	RecurringSeriesEditResponse
// @Failure		500			{object}	RecurringSeriesEditResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			effective	query		string				true	"The first day the new parameters apply to"
// @Param			until		query		string				false	"Create occurrences up to this day. Defaults to the horizon of the series."
// @Param			series		body		RecurringSeriesEdit	true	"New parameters"
// @Router			/v1/recurring-series/{id} [patch]
func UpdateRecurringSeries(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	var query RecurringSeriesEditQuery
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	if query.Effective.IsZero() {
		s := errEffectiveParameter.Error()
		c.JSON(http.StatusBadRequest, RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	var edit RecurringSeriesEdit
	err = httputil.BindData(c, &edit)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	series, result, err := models.EditSeries(models.DB, uri.ID.UUID, query.Effective, edit.model(), query.Until)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	replaced, err := newOccurrences(c, result.Replaced)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringSeriesEditResponse{
			Error: &s,
		})
		return
	}

	events.Publish(c.Request.Context(), events.SeriesUpdated, series.AccountID, series.ID)

	c.JSON(http.StatusOK, RecurringSeriesEditResponse{Data: &RecurringSeriesEditResult{
		Series:   newRecurringSeries(c, series),
		Replaced: replaced,
		Removed:  result.Removed,
		Created:  result.Created,
	}})
}

// @Summary		Truncate recurring series
// @Description	Deletes occurrences of the series. With from, the series ends on the day and all later occurrences are deleted. With before, all earlier occurrences are deleted, which fails if there are none. Exactly one of from and before must be set.
// @Tags			Recurring Series
// @Produce		json
// @Success		200		{object}	TruncateResponse
// @Failure		400		{object}	TruncateResponse
// @Failure		404		{object}	TruncateResponse
// @Failure		500		{object}	TruncateResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query		string	false	"End the series on this day"
// @Param			before	query		string	false	"Delete the occurrences before this day"
// @Router			/v1/recurring-series/{id}/truncate [post]
func TruncateRecurringSeries(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TruncateResponse{
			Error: &s,
		})
		return
	}

	var query TruncateQuery
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TruncateResponse{
			Error: &s,
		})
		return
	}

	if query.From.IsZero() == query.Before.IsZero() {
		s := errTruncateParameter.Error()
		c.JSON(http.StatusBadRequest, TruncateResponse{
			Error: &s,
		})
		return
	}

	var (
		series  models.RecurringSeries
		deleted int64
	)

	if !query.From.IsZero() {
		series, deleted, err = models.EndSeries(models.DB, uri.ID.UUID, query.From)
	} else {
		series, deleted, err = models.PruneSeriesBefore(models.DB, uri.ID.UUID, query.Before)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TruncateResponse{
			Error: &s,
		})
		return
	}

	events.Publish(c.Request.Context(), events.SeriesTruncated, series.AccountID, series.ID)

	c.JSON(http.StatusOK, TruncateResponse{Data: &TruncateResult{
		Deleted: deleted,
		Series:  newRecurringSeries(c, series),
	}})
}

// @Summary		Delete recurring series
// @Description	Deletes a recurring series. With mode all, all occurrences are deleted. With mode detach, the occurrences up to the pivot day are kept as one-off transactions or budgets.
// @Tags			Recurring Series
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			mode	query		string	false	"all or detach. Defaults to all."
// @Param			pivot	query		string	false	"For detach, occurrences after this day are deleted. Defaults to today."
// @Router			/v1/recurring-series/{id} [delete]
func DeleteRecurringSeries(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var query RecurringSeriesDeleteQuery
	if err := c.BindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	mode, err := models.ParseSeriesDeleteMode(query.Mode)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	series, err := models.GetSeries(models.DB, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.DeleteSeries(models.DB, series.ID, mode, query.Pivot)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	events.Publish(c.Request.Context(), events.SeriesDeleted, series.AccountID, series.ID)
	c.JSON(http.StatusNoContent, nil)
}
