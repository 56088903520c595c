package v1

import (
	"fmt"
	"strings"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryEditable struct {
	Name string `json:"name" example:"GROCERIES" default:""`                   // Name of the category. Stored in upper case, must be unique.
	Note string `json:"note" example:"Food and household supplies" default:""` // A longer description of the category
}

// model returns the database resource for the editable fields
func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name: models.NormalizeCategoryName(editable.Name),
		Note: strings.TrimSpace(editable.Note),
	}
}

type CategoryLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`        // The category itself
	Spent string `json:"spent" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f/spent"` // Amount spent in the category
}

// Category is the API v1 representation of a Category.
type Category struct {
	models.DefaultModel
	CategoryEditable
	Protected bool          `json:"protected" example:"false"` // Protected categories can not be deleted or renamed
	Links     CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Protected: model.Name == models.Miscellaneous,
		Links: CategoryLinks{
			Self:  fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Spent: fmt.Sprintf("%s/v1/categories/%s/spent", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of Categories
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryResponse `json:"data"`                                                          // List of created Categories
}

func (c *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this Category
	Data  *Category `json:"data"`                                                          // Data for the Category
}

type CategoryQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Fuzzy filter for the category name
	Note   string `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Category returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Categories to return. Defaults to 50.
}

type CategoryDeleteQuery struct {
	Policy string `form:"policy" example:"cascade"` // What happens to budget associations: orphan, cascade or reassignToMisc
}

type CategorySpentQuery struct {
	AccountID ez_uuid.UUID `form:"account"`                    // ID of the account
	From      types.Date   `form:"from" example:"2024-02-01"`  // First day of the window
	Until     types.Date   `form:"until" example:"2024-02-29"` // Last day of the window
}

type CategorySpent struct {
	CategoryID uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category
	AccountID  uuid.UUID       `json:"accountId" example:"8e16b456-a719-48ce-9fec-e115cfa7cbcc"`  // ID of the account
	Window     types.Window    `json:"window"`                                                    // The days the transactions are taken from
	Spent      decimal.Decimal `json:"spent" example:"124.37"`                                    // Sum of the transactions in the window
}

type CategorySpentResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *CategorySpent `json:"data"`                                                          // Amount spent in the category
}
