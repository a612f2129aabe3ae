package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func errorsAs(err error, target interface{}) bool {
	return errors.As(err, target)
}

// parseUintParam parses a numeric path parameter. On failure it writes a
// 400 response and returns 0; callers must bail out on 0.
func parseUintParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

// parseSkipQuery reads the pagination offset; missing or malformed values
// fall back to 0.
func parseSkipQuery(c *gin.Context) int {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0
	}
	return skip
}
