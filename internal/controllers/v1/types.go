package v1

import (
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/types"
	ez_uuid "github.com/SimplePlanningStudio/EasyBudget-sub001/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

type URIMonth struct {
	Month types.Month `uri:"month" binding:"required" example:"2024-01"` // Year and month in YYYY-MM format
}

type QueryAccount struct {
	AccountID ez_uuid.UUID `form:"account"` // ID of the account
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
