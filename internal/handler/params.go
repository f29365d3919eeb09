package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/chenwl/attendance-api/pkg/errors"
	"github.com/chenwl/attendance-api/pkg/response"
)

// pathID parses an integer path parameter, responding with a validation
// error when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
