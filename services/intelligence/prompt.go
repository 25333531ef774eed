package intelligence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"frontdesk/models"
)

// ErrMalformedResponse is returned when the collaborator's payload cannot be
// decoded or lacks a required field.
var ErrMalformedResponse = errors.New("malformed extraction response")

const systemInstruction = `You are a medical receptionist assistant. Extract structured appointment data from a Spanish voice transcript.

Rules:
1. Return patientName, dateStr (YYYY-MM-DD), timeStr (HH:mm, 24h), durationMinutes, reason and consultantName. Use null for anything not mentioned.
2. Resolve relative dates such as "hoy", "mañana", "pasado mañana" or "el viernes" against the reference timestamp given with the transcript.
3. If the duration is not mentioned, use 30.
4. If an hour is given without am/pm (for example "a las 7"), choose the reading between 07:00 and 19:00 unless the context says evening or pm.
5. If a weekday is named and it is today, assume next week unless "hoy" is said.
6. If no date is mentioned, use the reference date.
7. List in ambiguities a short tag for every field you had to guess or were unsure about, e.g. "time", "date", "patient", "duration", "consultant".`

func userPrompt(req models.ExtractionRequest) string {
	return fmt.Sprintf("Reference timestamp: %s\nTranscript: %s", req.ReferenceTimestamp, req.Transcript)
}

// ParseExtractionResponse decodes the collaborator's JSON object. Markdown
// code fences around the object are tolerated.
func ParseExtractionResponse(raw []byte) (*models.ExtractionResponse, error) {
	raw = bytes.TrimSpace(raw)
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	var resp models.ExtractionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.DurationMinutes == nil {
		return nil, fmt.Errorf("%w: durationMinutes is missing", ErrMalformedResponse)
	}
	if resp.Ambiguities == nil {
		return nil, fmt.Errorf("%w: ambiguities is missing", ErrMalformedResponse)
	}
	return &resp, nil
}
