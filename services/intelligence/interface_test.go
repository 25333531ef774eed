package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"frontdesk/models"

	"go.uber.org/zap"
)

var testRoster = []models.Consultant{
	{ID: "1", Name: "Dr. Carlos Parra"},
	{ID: "2", Name: "Dra. Ana López"},
	{ID: "3", Name: "Carlos Mayaudon"},
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 11, 15, 0, 0, time.UTC)
}

func newPipeline(fn ExtractorFunc) *DraftPipeline {
	return &DraftPipeline{
		Extractor: fn,
		Roster:    testRoster,
		Loc:       time.UTC,
		Now:       fixedNow,
		Logger:    zap.NewNop(),
	}
}

func assertFallback(t *testing.T, d models.ParsedAppointmentDraft) {
	t.Helper()
	if d.DateStr == nil || *d.DateStr != "2025-03-10" {
		t.Fatalf("expected fallback date 2025-03-10, got %v", d.DateStr)
	}
	if d.DurationMinutes != 30 {
		t.Fatalf("expected fallback duration 30, got %d", d.DurationMinutes)
	}
	if len(d.Ambiguities) != 1 || d.Ambiguities[0] != models.AmbiguityParsingFailed {
		t.Fatalf("expected [parsing_failed], got %v", d.Ambiguities)
	}
	if d.PatientName != nil || d.TimeStr != nil || d.Reason != nil || d.ConsultantName != nil || d.ConsultantID != nil {
		t.Fatalf("expected every other field absent, got %+v", d)
	}
	if !d.ParsingFailed() {
		t.Fatalf("expected ParsingFailed to be true")
	}
}

func TestExtractDraft_ExplicitPMHasNoTimeAmbiguity(t *testing.T) {
	var gotReq models.ExtractionRequest
	p := newPipeline(func(_ context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error) {
		gotReq = req
		return &models.ExtractionResponse{
			PatientName:     strPtr("María Pérez"),
			DateStr:         strPtr("2025-03-11"),
			TimeStr:         strPtr("15:00"),
			DurationMinutes: intPtr(30),
			Reason:          strPtr("control"),
			Ambiguities:     []string{},
		}, nil
	})

	d, err := p.ExtractDraft(context.Background(), "Crea una cita mañana a las 3pm con María Pérez por control")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotReq.ReferenceTimestamp != "2025-03-10T11:15:00Z" {
		t.Fatalf("expected reference timestamp, got %q", gotReq.ReferenceTimestamp)
	}
	if d.TimeStr == nil || *d.TimeStr != "15:00" {
		t.Fatalf("expected timeStr 15:00, got %v", d.TimeStr)
	}
	if d.IsFieldAmbiguous("time") {
		t.Fatalf("expected no time ambiguity, got %v", d.Ambiguities)
	}
	if *d.DateStr != "2025-03-11" || *d.PatientName != "María Pérez" || *d.Reason != "control" {
		t.Fatalf("unexpected draft %+v", d)
	}
}

func TestExtractDraft_CollaboratorErrorFallsBack(t *testing.T) {
	p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
		return nil, errors.New("network down")
	})
	d, err := p.ExtractDraft(context.Background(), "cita para mañana")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertFallback(t, d)
}

func TestExtractDraft_MissingRequiredFieldFallsBack(t *testing.T) {
	cases := map[string]*models.ExtractionResponse{
		"nil response":   nil,
		"no duration":    {PatientName: strPtr("Ana"), Ambiguities: []string{}},
		"no ambiguities": {PatientName: strPtr("Ana"), DurationMinutes: intPtr(30)},
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
				return resp, nil
			})
			d, err := p.ExtractDraft(context.Background(), "cita")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			assertFallback(t, d)
		})
	}
}

func TestExtractDraft_NoExtractorFallsBack(t *testing.T) {
	p := &DraftPipeline{Loc: time.UTC, Now: fixedNow}
	d, err := p.ExtractDraft(context.Background(), "cita")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertFallback(t, d)
}

func TestExtractDraft_EmptyTranscriptIsRejected(t *testing.T) {
	called := false
	p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
		called = true
		return nil, nil
	})
	if _, err := p.ExtractDraft(context.Background(), "   "); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
	if called {
		t.Fatalf("expected collaborator not to be called")
	}
}

func TestExtractDraft_DefaultsDurationAndDate(t *testing.T) {
	p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
		return &models.ExtractionResponse{
			PatientName:     strPtr("Ana"),
			DurationMinutes: intPtr(0),
			Ambiguities:     []string{"date"},
		}, nil
	})
	d, _ := p.ExtractDraft(context.Background(), "cita con Ana")
	if d.DurationMinutes != 30 {
		t.Fatalf("expected duration 30, got %d", d.DurationMinutes)
	}
	if d.DateStr == nil || *d.DateStr != "2025-03-10" {
		t.Fatalf("expected today's date, got %v", d.DateStr)
	}
	if d.TimeStr != nil {
		t.Fatalf("expected no time, got %v", *d.TimeStr)
	}
	if !d.IsFieldAmbiguous("date") || d.ParsingFailed() {
		t.Fatalf("expected only collaborator tags, got %v", d.Ambiguities)
	}
}

func TestExtractDraft_MalformedValuesAreTagged(t *testing.T) {
	p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
		return &models.ExtractionResponse{
			DateStr:         strPtr("el martes"),
			TimeStr:         strPtr("tarde"),
			DurationMinutes: intPtr(45),
			Ambiguities:     []string{"time", "time", " "},
		}, nil
	})
	d, _ := p.ExtractDraft(context.Background(), "el martes en la tarde")
	if *d.DateStr != "2025-03-10" || d.TimeStr != nil {
		t.Fatalf("expected today and no time, got %v %v", *d.DateStr, d.TimeStr)
	}
	want := []string{"time", "date"}
	if len(d.Ambiguities) != len(want) || d.Ambiguities[0] != want[0] || d.Ambiguities[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, d.Ambiguities)
	}
	if d.DurationMinutes != 45 {
		t.Fatalf("expected 45, got %d", d.DurationMinutes)
	}
}

func TestExtractDraft_ConsultantResolution(t *testing.T) {
	cases := []struct {
		spoken  string
		wantID  string
		wantTag bool
	}{
		{"carlos", "1", true},
		{"Carlos Mayaudon", "3", false},
		{"ana lópez", "2", true},
		{"Dr. House", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.spoken, func(t *testing.T) {
			p := newPipeline(func(context.Context, models.ExtractionRequest) (*models.ExtractionResponse, error) {
				return &models.ExtractionResponse{
					ConsultantName:  strPtr(tc.spoken),
					DurationMinutes: intPtr(30),
					Ambiguities:     []string{},
				}, nil
			})
			d, _ := p.ExtractDraft(context.Background(), "cita con "+tc.spoken)
			gotID := ""
			if d.ConsultantID != nil {
				gotID = *d.ConsultantID
			}
			if gotID != tc.wantID {
				t.Fatalf("expected consultant %q, got %q", tc.wantID, gotID)
			}
			if d.IsFieldAmbiguous("consultant") != tc.wantTag {
				t.Fatalf("expected consultant tag=%v, got %v", tc.wantTag, d.Ambiguities)
			}
		})
	}
}

func TestIsFieldAmbiguous_CaseInsensitiveContainment(t *testing.T) {
	d := models.ParsedAppointmentDraft{Ambiguities: []string{"Patient_Name", "TIME"}}
	if !d.IsFieldAmbiguous("patient") || !d.IsFieldAmbiguous("time") {
		t.Fatalf("expected patient and time to be ambiguous")
	}
	if d.IsFieldAmbiguous("date") {
		t.Fatalf("expected date not to be ambiguous")
	}
}
