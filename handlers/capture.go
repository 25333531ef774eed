package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"frontdesk/services/capture"
	"frontdesk/services/speech"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AudioStreamer feeds recognized speech into a capture session.
type AudioStreamer interface {
	Stream(ctx context.Context, r io.Reader, events chan<- capture.Event) error
}

type CaptureHandler struct {
	Manager  *capture.Manager
	Streamer AudioStreamer // optional
}

func NewCaptureHandler(manager *capture.Manager, streamer AudioStreamer) *CaptureHandler {
	return &CaptureHandler{Manager: manager, Streamer: streamer}
}

func (h *CaptureHandler) session(c *gin.Context) (*capture.Session, bool) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "capture session not found", c.Param("id"))
		return nil, false
	}
	return s, true
}

func respondCaptureError(c *gin.Context, s *capture.Session, err error) {
	switch {
	case errors.Is(err, capture.ErrInvalidTransition),
		errors.Is(err, capture.ErrSessionClosed),
		errors.Is(err, capture.ErrCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": s.Snapshot()})
	case errors.Is(err, capture.ErrEmptyTranscript):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "session": s.Snapshot()})
	default:
		getLogger(c).Warn("Capture action failed", zap.String("capture_session", s.ID()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "session": s.Snapshot()})
	}
}

func (h *CaptureHandler) StartCaptureHandler(c *gin.Context) {
	s, err := h.Manager.Start()
	if errors.Is(err, capture.ErrCaptureInProgress) {
		utils.JSONError(c, http.StatusConflict, "a capture session is already active", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start capture", err.Error())
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *CaptureHandler) GetCaptureHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *CaptureHandler) InterimHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := s.Publish(c.Request.Context(), capture.Event{Kind: capture.EventInterim, Text: req.Text}); err != nil {
		respondCaptureError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *CaptureHandler) StopCaptureHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.Stop(c.Request.Context())
	if err != nil {
		respondCaptureError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CaptureErrorHandler records a failure reported by a client-side recognizer.
func (h *CaptureHandler) CaptureErrorHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Message == "" {
		req.Message = "speech capture failed"
	}
	if err := s.Publish(c.Request.Context(), capture.Event{Kind: capture.EventProviderError, Err: errors.New(req.Message)}); err != nil {
		respondCaptureError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ConfirmCaptureHandler sends the reviewed transcript for extraction and
// returns the stored draft id.
func (h *CaptureHandler) ConfirmCaptureHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Transcript string `json:"transcript"`
	}
	_ = c.ShouldBindJSON(&req)

	res, err := s.Confirm(c.Request.Context(), req.Transcript)
	if err != nil {
		respondCaptureError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draftId": res.DraftID, "draft": res.Draft, "session": s.Snapshot()})
}

func (h *CaptureHandler) CancelCaptureHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.Cancel(c.Request.Context())
	if err != nil {
		respondCaptureError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CaptureAudioHandler streams an uploaded WAV through the recognizer into the
// session. It returns once the recognizer has finished.
func (h *CaptureHandler) CaptureAudioHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if h.Streamer == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "speech recognition is not configured", "")
		return
	}
	wav, ok := readWAVUpload(c)
	if !ok {
		return
	}
	pcm, err := speech.ValidateWAV(wav)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
		return
	}

	// The stream stops when the session ends early, e.g. on cancel.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	events := make(chan capture.Event, 8)
	fed := make(chan struct{})
	go func() {
		s.Feed(ctx, events)
		cancel()
		close(fed)
	}()
	streamErr := h.Streamer.Stream(ctx, bytes.NewReader(pcm), events)
	close(events)
	<-fed

	if streamErr != nil && !(s.Finished() && errors.Is(streamErr, context.Canceled)) {
		getLogger(c).Warn("Audio stream failed", zap.String("capture_session", s.ID()), zap.Error(streamErr))
		c.JSON(http.StatusBadGateway, gin.H{"error": streamErr.Error(), "session": s.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}
