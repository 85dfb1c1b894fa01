package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lastbite/internal/shared/utils"
)

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}
