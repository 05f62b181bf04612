package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solspace/solspace-backend/internal/api/shared/constants"
	apierrors "github.com/solspace/solspace-backend/internal/api/shared/errors"
)

// respondError maps an executor or domain error onto its HTTP response
func respondError(c *gin.Context, err error) {
	apiErr := apierrors.FromDomainError(err)
	c.JSON(apiErr.StatusCode(), apiErr)
}

// bindJSON decodes a size-limited JSON body, responding with 400 on failure
func bindJSON(c *gin.Context, obj any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MAX_REQUEST_BODY_BYTES)

	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, apierrors.NewBadRequestError("Request body too large"))
			return false
		}
		respondError(c, apierrors.NewBadRequestError("Invalid request body", err.Error()))
		return false
	}

	return true
}
