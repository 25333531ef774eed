package routes

import (
	"net/http"
	"time"

	"frontdesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterScheduleRoutes registers appointment, conflict and slot endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/consultants", hb.GetConsultants)
	r.GET("/api/conflicts", hb.GetConflicts)
	r.GET("/api/slots", hb.GetSlots)

	api := r.Group("/api/appointments")
	{
		api.GET("", hb.ListAppointments)
		api.POST("", hb.SaveAppointment)
		api.GET("/form", hb.NewForm)
		api.GET("/:id", hb.GetAppointment)
		api.POST("/check", hb.CheckAppointment)
		api.POST("/resolutions/:id", hb.ResolveConflict)
	}
}

// RegisterDraftRoutes registers transcript extraction endpoints.
func RegisterDraftRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/drafts")
	{
		api.POST("/extract", hb.ExtractDraft)
		api.GET("/:id/form", hb.DraftForm)
	}
}

// RegisterCaptureRoutes registers the voice capture session endpoints.
func RegisterCaptureRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/capture")
	{
		api.POST("", hb.StartCapture)
		api.GET("/:id", hb.GetCapture)
		api.POST("/:id/interim", hb.CaptureInterim)
		api.POST("/:id/stop", hb.StopCapture)
		api.POST("/:id/error", hb.CaptureError)
		api.POST("/:id/confirm", hb.ConfirmCapture)
		api.POST("/:id/cancel", hb.CancelCapture)
		api.POST("/:id/audio", hb.CaptureAudio)
	}
	r.POST("/api/speech/transcribe", hb.Transcribe)
}

// RegisterHealthRoute registers health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Health != nil {
		r.GET("/health", hb.Health)
	} else {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterDraftRoutes(r, hb)
	RegisterCaptureRoutes(r, hb)
}
