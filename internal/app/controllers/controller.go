package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/pkg/apperrors"
)

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid " + paramName)
	}
	return id, nil
}
