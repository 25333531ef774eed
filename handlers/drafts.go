package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"frontdesk/services/capture"
	"frontdesk/services/intelligence"
	"frontdesk/services/scheduling"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DraftHandler extracts drafts from transcripts and hands them to the form.
type DraftHandler struct {
	Extractor intelligence.DraftExtractor
	Store     intelligence.DraftStore
	Loc       *time.Location
	Now       func() time.Time
}

func NewDraftHandler(extractor intelligence.DraftExtractor, store intelligence.DraftStore, loc *time.Location) *DraftHandler {
	return &DraftHandler{Extractor: extractor, Store: store, Loc: loc, Now: time.Now}
}

// Process extracts a draft and stores it. It backs both the extract endpoint
// and capture confirmation.
func (h *DraftHandler) Process(ctx context.Context, transcript string) (capture.Result, error) {
	draft, err := h.Extractor.ExtractDraft(ctx, transcript)
	if err != nil {
		return capture.Result{}, err
	}
	id, err := h.Store.Put(ctx, transcript, draft)
	if err != nil {
		return capture.Result{}, fmt.Errorf("failed to store draft: %w", err)
	}
	return capture.Result{DraftID: id, Draft: draft}, nil
}

func (h *DraftHandler) ExtractDraftHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Process(c.Request.Context(), req.Transcript)
	if errors.Is(err, intelligence.ErrEmptyTranscript) {
		utils.JSONError(c, http.StatusBadRequest, "transcript is empty", "")
		return
	}
	if err != nil {
		logger.Error("Draft extraction failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "draft extraction failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DraftFormHandler consumes a stored draft and returns the seeded form.
func (h *DraftHandler) DraftFormHandler(c *gin.Context) {
	id := c.Param("id")
	stored, err := h.Store.Take(c.Request.Context(), id)
	if errors.Is(err, intelligence.ErrDraftNotFound) {
		utils.JSONError(c, http.StatusNotFound, "draft not found or already used", id)
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to load draft", zap.String("draft_id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load draft", err.Error())
		return
	}

	loc := h.Loc
	if loc == nil {
		loc = time.Local
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	c.JSON(http.StatusOK, gin.H{
		"form":          scheduling.FormFromDraft(stored.Draft, now.In(loc)),
		"transcript":    stored.Transcript,
		"parsingFailed": stored.Draft.ParsingFailed(),
	})
}
