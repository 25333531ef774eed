package handlers

import (
	"net/http"
	"strconv"
	"time"

	"frontdesk/models"
	"frontdesk/services/scheduling"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	Svc    scheduling.SchedulingService
	Roster []models.Consultant
	Now    func() time.Time
}

func NewAppointmentHandler(svc scheduling.SchedulingService, roster []models.Consultant) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc, Roster: roster, Now: time.Now}
}

func (h *AppointmentHandler) now() time.Time {
	if h.Now == nil {
		return time.Now().In(h.Svc.Location())
	}
	return h.Now().In(h.Svc.Location())
}

// parseDay reads an optional YYYY-MM-DD query value in the schedule's location.
func (h *AppointmentHandler) parseDay(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, true
	}
	day, err := time.ParseInLocation(dateLayout, raw, h.Svc.Location())
	if err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, scheduling.CodeValidation, "date", "date must be YYYY-MM-DD")
		return nil, false
	}
	return &day, true
}

func (h *AppointmentHandler) GetConsultantsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"consultants": h.Roster})
}

func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": h.Svc.ListAppointments(day)})
}

// NewFormHandler returns the manual-entry defaults.
func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	appt, err := h.Svc.GetAppointment(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) NewFormHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": scheduling.NewManualForm(h.now())})
}

// SaveAppointmentHandler commits a form. A conflict answers 409 with the
// conflicting appointments, suggested slots and the resolution id.
func (h *AppointmentHandler) SaveAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)
	var form models.AppointmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Warn("Invalid appointment form", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Svc.Save(c.Request.Context(), form)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if res.Conflict != nil {
		c.JSON(http.StatusConflict, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AppointmentHandler) CheckAppointmentHandler(c *gin.Context) {
	var form models.AppointmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	conflict, suggestions, err := h.Svc.Check(form)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conflict": conflict, "suggestions": suggestions})
}

func (h *AppointmentHandler) ResolveConflictHandler(c *gin.Context) {
	var req models.ResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	appt, err := h.Svc.Resolve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if appt == nil {
		c.JSON(http.StatusOK, gin.H{"cancelled": true})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) GetConflictsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conflicts": h.Svc.AllConflicts()})
}

// GetSlotsHandler lists free starts for a day. date defaults to today and
// duration to 30 minutes.
func (h *AppointmentHandler) GetSlotsHandler(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}
	if day == nil {
		today := h.now()
		day = &today
	}
	duration := scheduling.DefaultDurationMinutes
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 || d > scheduling.MaxDurationMinutes {
			utils.JSONCodedError(c, http.StatusBadRequest, scheduling.CodeValidation, "duration", "duration must be between 1 and 1440 minutes")
			return
		}
		duration = d
	}
	starts := h.Svc.AvailableSlots(*day, duration)
	c.JSON(http.StatusOK, gin.H{
		"date":     day.Format(dateLayout),
		"duration": duration,
		"slots":    scheduling.ToSuggestions(starts, duration),
	})
}
