package intelligence

import (
	"context"
	"errors"
	"strings"
	"time"

	"frontdesk/models"
	"frontdesk/telemetry"

	"go.uber.org/zap"
)

const (
	dateLayout             = "2006-01-02"
	clockLayout            = "15:04"
	defaultDurationMinutes = 30
)

// ErrEmptyTranscript is returned for a blank transcript. It is an input
// error; collaborator failures never surface as errors.
var ErrEmptyTranscript = errors.New("empty transcript")

// Extractor is the text-understanding collaborator.
type Extractor interface {
	Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error)

func (f ExtractorFunc) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error) {
	return f(ctx, req)
}

// DraftExtractor turns a transcript into a draft.
type DraftExtractor interface {
	ExtractDraft(ctx context.Context, transcript string) (models.ParsedAppointmentDraft, error)
}

// DraftPipeline calls the collaborator and normalizes whatever comes back.
type DraftPipeline struct {
	Extractor Extractor
	Roster    []models.Consultant
	Loc       *time.Location
	Now       func() time.Time
	Logger    *zap.Logger
}

func (p *DraftPipeline) now() time.Time {
	loc := p.Loc
	if loc == nil {
		loc = time.Local
	}
	if p.Now != nil {
		return p.Now().In(loc)
	}
	return time.Now().In(loc)
}

func (p *DraftPipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// ExtractDraft returns a draft for transcript. A failing or misbehaving
// collaborator yields the fallback draft: today, 30 minutes and the
// parsing_failed tag. Only a blank transcript returns an error.
func (p *DraftPipeline) ExtractDraft(ctx context.Context, transcript string) (models.ParsedAppointmentDraft, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return models.ParsedAppointmentDraft{}, ErrEmptyTranscript
	}

	now := p.now()
	req := models.ExtractionRequest{
		Transcript:         transcript,
		ReferenceTimestamp: now.Format(time.RFC3339),
	}

	if p.Extractor == nil {
		telemetry.DraftExtractionsTotal.WithLabelValues("fallback").Inc()
		return fallbackDraft(now), nil
	}

	started := time.Now()
	resp, err := p.Extractor.Extract(ctx, req)
	telemetry.DraftExtractionLatency.Observe(time.Since(started).Seconds())
	if err == nil && resp == nil {
		err = ErrMalformedResponse
	}
	if err == nil && (resp.DurationMinutes == nil || resp.Ambiguities == nil) {
		err = ErrMalformedResponse
	}
	if err != nil {
		p.logger().Warn("Draft extraction failed, using fallback draft", zap.Error(err))
		telemetry.DraftExtractionsTotal.WithLabelValues("fallback").Inc()
		return fallbackDraft(now), nil
	}

	draft := p.normalize(*resp, now)
	telemetry.DraftExtractionsTotal.WithLabelValues("ok").Inc()
	p.logger().Debug("Draft extracted",
		zap.Strings("ambiguities", draft.Ambiguities),
		zap.Int("duration_minutes", draft.DurationMinutes),
	)
	return draft, nil
}

func fallbackDraft(now time.Time) models.ParsedAppointmentDraft {
	today := now.Format(dateLayout)
	return models.ParsedAppointmentDraft{
		DateStr:         &today,
		DurationMinutes: defaultDurationMinutes,
		Ambiguities:     []string{models.AmbiguityParsingFailed},
	}
}

func (p *DraftPipeline) normalize(resp models.ExtractionResponse, now time.Time) models.ParsedAppointmentDraft {
	tags := newTagSet(resp.Ambiguities)

	draft := models.ParsedAppointmentDraft{
		PatientName:     cleanString(resp.PatientName),
		Reason:          cleanString(resp.Reason),
		ConsultantName:  cleanString(resp.ConsultantName),
		DurationMinutes: defaultDurationMinutes,
	}
	if resp.DurationMinutes != nil && *resp.DurationMinutes > 0 {
		draft.DurationMinutes = *resp.DurationMinutes
	}

	today := now.Format(dateLayout)
	draft.DateStr = &today
	if d := cleanString(resp.DateStr); d != nil {
		if parsed, err := time.Parse(dateLayout, *d); err == nil {
			s := parsed.Format(dateLayout)
			draft.DateStr = &s
		} else {
			tags.add(models.AmbiguityDate)
		}
	}

	if t := cleanString(resp.TimeStr); t != nil {
		if parsed, err := time.Parse(clockLayout, *t); err == nil {
			s := parsed.Format(clockLayout)
			draft.TimeStr = &s
		} else {
			tags.add(models.AmbiguityTime)
		}
	}

	if draft.ConsultantName != nil {
		c, found, exact := MatchConsultant(p.Roster, *draft.ConsultantName)
		if found {
			id := c.ID
			draft.ConsultantID = &id
		}
		if !exact {
			tags.add(models.AmbiguityConsultant)
		}
	}

	draft.Ambiguities = tags.list()
	return draft
}

func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// tagSet keeps ambiguity tags unique in first-seen order.
type tagSet struct {
	seen  map[string]struct{}
	items []string
}

func newTagSet(initial []string) *tagSet {
	ts := &tagSet{seen: make(map[string]struct{}), items: make([]string, 0, len(initial))}
	for _, t := range initial {
		ts.add(t)
	}
	return ts
}

func (ts *tagSet) add(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	if _, ok := ts.seen[tag]; ok {
		return
	}
	ts.seen[tag] = struct{}{}
	ts.items = append(ts.items, tag)
}

func (ts *tagSet) list() []string {
	return ts.items
}
