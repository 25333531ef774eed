package models

// CaptureStatus is the state of a voice-capture session.
type CaptureStatus string

const (
	CaptureIdle           CaptureStatus = "IDLE"
	CaptureListening      CaptureStatus = "LISTENING"
	CaptureAwaitingReview CaptureStatus = "AWAITING_REVIEW"
	CaptureProcessing     CaptureStatus = "PROCESSING"
	CaptureError          CaptureStatus = "ERROR"
)

// CaptureSnapshot is a read-only view of a session.
type CaptureSnapshot struct {
	SessionID       string        `json:"sessionId"`
	Status          CaptureStatus `json:"status"`
	LiveTranscript  string        `json:"liveTranscript"`
	FinalTranscript *string       `json:"finalTranscript,omitempty"`
	Error           string        `json:"error,omitempty"`
	DraftID         string        `json:"draftId,omitempty"`
}
