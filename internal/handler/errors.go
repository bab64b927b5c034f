package handler

import (
	"errors"
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps billing error kinds onto HTTP statuses. Not-found never
// distinguishes "absent" from "owned by someone else".
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, billing.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, billing.ErrPolicyViolation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, billing.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, billing.ErrValidation):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, response.Error(status, err.Error()))
}
