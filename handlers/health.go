package handlers

import (
	"net/http"

	"frontdesk/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last redis check and, when set, the extraction
// breaker state.
func HealthHandler(extractionState func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.GetHealthStatus()
		body := gin.H{
			"status":    "ok",
			"redis":     status.Redis,
			"checkedAt": status.CheckedAt,
		}
		if extractionState != nil {
			body["extraction"] = extractionState()
		}
		code := http.StatusOK
		if !status.Healthy() {
			body["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	}
}
