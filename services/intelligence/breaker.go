package intelligence

import (
	"context"
	"time"

	"frontdesk/models"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerExtractor stops calling the collaborator for a while after repeated
// failures. While open, Extract fails fast and the pipeline falls back.
type BreakerExtractor struct {
	next Extractor
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerExtractor(next Extractor, logger *zap.Logger) *BreakerExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "draft-extraction",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerExtractor{next: next, cb: cb}
}

func (b *BreakerExtractor) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Extract(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.ExtractionResponse), nil
}

// State exposes the breaker state for health reporting.
func (b *BreakerExtractor) State() string {
	return b.cb.State().String()
}
