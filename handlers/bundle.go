package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Schedule endpoints
	GetConsultants   gin.HandlerFunc
	ListAppointments gin.HandlerFunc
	GetAppointment   gin.HandlerFunc
	NewForm          gin.HandlerFunc
	SaveAppointment  gin.HandlerFunc
	CheckAppointment gin.HandlerFunc
	ResolveConflict  gin.HandlerFunc
	GetConflicts     gin.HandlerFunc
	GetSlots         gin.HandlerFunc

	// Draft endpoints
	ExtractDraft gin.HandlerFunc
	DraftForm    gin.HandlerFunc

	// Capture endpoints
	StartCapture   gin.HandlerFunc
	GetCapture     gin.HandlerFunc
	CaptureInterim gin.HandlerFunc
	StopCapture    gin.HandlerFunc
	CaptureError   gin.HandlerFunc
	ConfirmCapture gin.HandlerFunc
	CancelCapture  gin.HandlerFunc
	CaptureAudio   gin.HandlerFunc

	// Speech endpoints
	Transcribe gin.HandlerFunc

	// Health reports extra component states next to redis.
	Health gin.HandlerFunc
}
