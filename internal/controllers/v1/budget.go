package v1

import (
	"net/http"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/budgeting"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/events"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/httputil"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// Budgeting serves the endpoints that read recomputed budget amounts.
//
// All requests share the same service so that identical concurrent
// recomputations run only once.
type Budgeting struct {
	service *budgeting.Service
}

func NewBudgeting(service *budgeting.Service) Budgeting {
	return Budgeting{service: service}
}

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup, b Budgeting) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudgets)
		r.POST("", CreateBudgets)
		r.OPTIONS("/oldest-start", OptionsOldestBudgetStart)
		r.GET("/oldest-start", b.GetOldestBudgetStart)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", b.GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
		r.OPTIONS("/:id/transactions", OptionsBudgetTransactions)
		r.GET("/:id/transactions", GetBudgetTransactions)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/oldest-start [options]
func OptionsOldestBudgetStart(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Budget{}, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/transactions [options]
func OptionsBudgetTransactions(c *gin.Context) {
	resourceOptionsDetail(c, models.Budget{}, httputil.OptionsGet)
}

// @Summary		Create budget
// @Description	Creates budgets together with their category associations. If the associations can not be created, the budget is not created either.
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	BudgetCreateResponse
// @Failure		400		{object}	BudgetCreateResponse
// @Failure		404		{object}	BudgetCreateResponse
// @Failure		500		{object}	BudgetCreateResponse
// @Param			budgets	body		[]BudgetEditable	true	"Budgets"
// @Router			/v1/budgets [post]
func CreateBudgets(c *gin.Context) {
	var editables []BudgetEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetCreateResponse{}

	for _, editable := range editables {
		budget := editable.model()

		err = accountExists(budget.AccountID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		err = models.CreateBudgetWithCategories(models.DB, &budget, editable.CategoryIDs)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		events.Publish(c.Request.Context(), events.BudgetCreated, budget.AccountID, budget.ID)

		data := newBudget(c, budget, editable.CategoryIDs)
		r.Data = append(r.Data, BudgetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get budgets
// @Description	Returns a list of budgets, ordered by start date
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		400	{object}	BudgetListResponse
// @Failure		500	{object}	BudgetListResponse
// @Router			/v1/budgets [get]
// @Param			account	query	string	false	"Filter by account ID"
// @Param			from	query	string	false	"Budgets ending on or after this date"
// @Param			until	query	string	false	"Budgets starting on or before this date"
// @Param			goal	query	string	false	"Filter by goal"
// @Param			offset	query	uint	false	"The offset of the first budget returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of budgets to return. Defaults to 50."
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, BudgetListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Model(&models.Budget{}).Order("start_date ASC, created_at ASC")

	if slices.Contains(setFields, "AccountID") {
		q = q.Where("account_id = ?", filter.AccountID.UUID)
	}

	if !filter.From.IsZero() {
		q = q.Where("end_date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("start_date <= ?", filter.Until)
	}

	if filter.Goal != "" {
		q = q.Where("goal LIKE ?", "%"+filter.Goal+"%")
	}

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var budgets []models.Budget
	err := q.Find(&budgets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Budget, 0)
	for _, budget := range budgets {
		categoryIDs, err := models.CategoryIDsForBudget(models.DB, budget.ID)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetListResponse{
				Error: &s,
			})
			return
		}

		data = append(data, newBudget(c, budget, categoryIDs))
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget with its amounts recomputed over the whole budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetDetailResponse
// @Failure		400	{object}	BudgetDetailResponse
// @Failure		404	{object}	BudgetDetailResponse
// @Failure		500	{object}	BudgetDetailResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func (b Budgeting) GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetDetailResponse{
			Error: &s,
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetDetailResponse{
			Error: &s,
		})
		return
	}

	overview, err := b.service.BudgetsForWindow(c.Request.Context(), budget.AccountID, budget.Window())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetDetailResponse{
			Error: &s,
		})
		return
	}

	idx := slices.IndexFunc(overview.Budgets, func(f budgeting.BudgetFigures) bool {
		return f.Budget.ID == budget.ID
	})

	// The budget has been deleted after it was read
	if idx == -1 {
		s := models.ErrResourceNotFound.Error()
		c.JSON(http.StatusNotFound, BudgetDetailResponse{
			Error: &s,
		})
		return
	}

	categoryIDs, err := models.CategoryIDsForBudget(models.DB, budget.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetDetailResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetDetailResponse{Data: &BudgetDetail{
		Budget:  newBudget(c, overview.Budgets[idx].Budget, categoryIDs),
		Figures: newBudgetFigures(overview.Budgets[idx].Figures),
	}})
}

// @Summary		Get budget transactions
// @Description	Returns the transactions that count towards the budget in the window, ordered by date. The window is clipped to the days of the budget.
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetTransactionsResponse
// @Failure		400		{object}	BudgetTransactionsResponse
// @Failure		404		{object}	BudgetTransactionsResponse
// @Failure		500		{object}	BudgetTransactionsResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query		string	false	"First day of the window. Defaults to the start of the budget."
// @Param			until	query		string	false	"Last day of the window. Defaults to the end of the budget."
// @Router			/v1/budgets/{id}/transactions [get]
func GetBudgetTransactions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetTransactionsResponse{
			Error: &s,
		})
		return
	}

	var query BudgetTransactionsQuery
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, BudgetTransactionsResponse{
			Error: &s,
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetTransactionsResponse{
			Error: &s,
		})
		return
	}

	window := budget.Window()
	if !query.From.IsZero() {
		window.Start = query.From
	}
	if !query.Until.IsZero() {
		window.End = query.Until
	}

	transactions, err := models.TransactionsForBudget(models.DB, budget, window)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetTransactionsResponse{
			Error: &s,
		})
		return
	}

	data := make([]Transaction, 0)
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	r := BudgetTransactionsResponse{Data: data}
	if clipped, ok := budget.Window().Clip(window); ok {
		r.Window = &clipped
	}

	c.JSON(http.StatusOK, r)
}

// @Summary		Get oldest budget start
// @Description	Returns the earliest start date of all budgets of the account. Without an account, the budgets of all accounts are used.
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	OldestBudgetStartResponse
// @Failure		400		{object}	OldestBudgetStartResponse
// @Failure		500		{object}	OldestBudgetStartResponse
// @Param			account	query		string	false	"ID of the account"
// @Router			/v1/budgets/oldest-start [get]
func (b Budgeting) GetOldestBudgetStart(c *gin.Context) {
	var query QueryAccount
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, OldestBudgetStartResponse{
			Error: &s,
		})
		return
	}

	start, ok, err := b.service.OldestBudgetStart(c.Request.Context(), query.AccountID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OldestBudgetStartResponse{
			Error: &s,
		})
		return
	}

	data := OldestBudgetStart{}
	if query.AccountID != ez_uuid.Nil {
		data.AccountID = &query.AccountID.UUID
	}
	if ok {
		data.StartDate = &start
	}

	c.JSON(http.StatusOK, OldestBudgetStartResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Updates an existing budget. Only values to be updated need to be specified. The account can not be changed. If categoryIds is set, it replaces all categories of the budget.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	budget, err := models.UpdateBudget(models.DB, uri.ID.UUID, data.edit(updateFields))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	categoryIDs, err := models.CategoryIDsForBudget(models.DB, budget.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	events.Publish(c.Request.Context(), events.BudgetUpdated, budget.AccountID, budget.ID)

	apiResource := newBudget(c, budget, categoryIDs)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// @Summary		Delete budget
// @Description	Deletes a budget together with its category associations
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DeleteBudget(models.DB, budget)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	events.Publish(c.Request.Context(), events.BudgetDeleted, budget.AccountID, budget.ID)
	c.JSON(http.StatusNoContent, nil)
}
