package v1

import (
	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/gin-gonic/gin"
)

// resourceOptionsDetail responds to an OPTIONS request for a specific resource
// with the allowed methods if the resource exists.
func resourceOptionsDetail[R models.Account | models.Budget | models.Category | models.RecurringSeries | models.Transaction](c *gin.Context, resource R, options gin.HandlerFunc) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	options(c)
}
