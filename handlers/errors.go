package handlers

import (
	"errors"
	"net/http"

	"frontdesk/services/scheduling"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondSchedulingError(c *gin.Context, err error) {
	var se *scheduling.SchedulingError
	if !errors.As(err, &se) {
		getLogger(c).Error("Scheduling operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "scheduling failed", err.Error())
		return
	}
	status := http.StatusBadRequest
	switch se.Code {
	case scheduling.CodeNotFound:
		status = http.StatusNotFound
	case scheduling.CodeDuplicateID:
		status = http.StatusConflict
	}
	utils.JSONCodedError(c, status, se.Code, se.Field, se.Message)
}
