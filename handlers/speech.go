package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"frontdesk/services/speech"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const allowedExtension = ".wav"

// Recognizer transcribes a complete recording.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

type SpeechHandler struct {
	Recognizer Recognizer
}

func NewSpeechHandler(r Recognizer) *SpeechHandler {
	return &SpeechHandler{Recognizer: r}
}

// readWAVUpload reads the "audio" multipart file, enforcing the extension
// and the size limit.
func readWAVUpload(c *gin.Context) ([]byte, bool) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return nil, false
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type", fmt.Sprintf("expected %s, got %s", allowedExtension, ext))
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(file, speech.MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return nil, false
	}
	if len(data) > speech.MaxFileSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file too large", fmt.Sprintf("limit is %d bytes", speech.MaxFileSize))
		return nil, false
	}
	return data, true
}

func (h *SpeechHandler) TranscribeHandler(c *gin.Context) {
	if h.Recognizer == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "speech recognition is not configured", "")
		return
	}
	wav, ok := readWAVUpload(c)
	if !ok {
		return
	}
	text, err := h.Recognizer.Recognize(c.Request.Context(), wav)
	if errors.Is(err, speech.ErrInvalidAudio) {
		utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
		return
	}
	if err != nil {
		getLogger(c).Error("Speech recognition failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcription": text})
}
