package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"frontdesk/services/capture"

	speech "cloud.google.com/go/speech/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const chunkSize = 8192

// Transcriber wraps Google Cloud Speech-to-Text.
type Transcriber struct {
	client   *speech.Client
	language string
	logger   *zap.Logger
}

func NewTranscriber(ctx context.Context, credentialsFile, language string, logger *zap.Logger) (*Transcriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	if language == "" {
		language = "es-ES"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{client: client, language: language, logger: logger}, nil
}

func (t *Transcriber) Close() error {
	return t.client.Close()
}

func (t *Transcriber) recognitionConfig() *speechpb.RecognitionConfig {
	return &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            SampleRateHertz,
		LanguageCode:               t.language,
		AudioChannelCount:          1,
		EnableAutomaticPunctuation: true,
	}
}

// Recognize transcribes a complete WAV recording.
func (t *Transcriber) Recognize(ctx context.Context, wav []byte) (string, error) {
	pcm, err := ValidateWAV(wav)
	if err != nil {
		return "", err
	}
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: t.recognitionConfig(),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}
	parts := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return joinTranscript(parts...), nil
}

// Stream sends raw 16 kHz mono LINEAR16 audio from r to the streaming API and
// reports progress on events: an EventInterim for every update, then one
// EventStop with the final transcript, or an EventProviderError. events is
// not closed.
func (t *Transcriber) Stream(ctx context.Context, r io.Reader, events chan<- capture.Event) error {
	stream, err := t.client.StreamingRecognize(ctx)
	if err != nil {
		return t.fail(ctx, events, fmt.Errorf("failed to open recognition stream: %w", err))
	}
	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:         t.recognitionConfig(),
				InterimResults: true,
			},
		},
	})
	if err != nil {
		return t.fail(ctx, events, fmt.Errorf("failed to send stream config: %w", err))
	}

	sendErr := make(chan error, 1)
	go func() {
		buf := make([]byte, chunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if serr := stream.Send(&speechpb.StreamingRecognizeRequest{
					StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{AudioContent: chunk},
				}); serr != nil {
					sendErr <- serr
					return
				}
			}
			if err == io.EOF {
				sendErr <- stream.CloseSend()
				return
			}
			if err != nil {
				stream.CloseSend()
				sendErr <- err
				return
			}
		}
	}()

	var acc transcriptAccumulator
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return t.fail(ctx, events, fmt.Errorf("recognition stream failed: %w", err))
		}
		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			text := acc.update(result.Alternatives[0].Transcript, result.IsFinal)
			if !emit(ctx, events, capture.Event{Kind: capture.EventInterim, Text: text}) {
				return ctx.Err()
			}
		}
	}
	if err := <-sendErr; err != nil {
		return t.fail(ctx, events, fmt.Errorf("failed to send audio: %w", err))
	}

	final := acc.text()
	t.logger.Debug("Recognition stream finished", zap.Int("length", len(final)))
	emit(ctx, events, capture.Event{Kind: capture.EventStop, Text: final})
	return nil
}

func (t *Transcriber) fail(ctx context.Context, events chan<- capture.Event, err error) error {
	t.logger.Warn("Speech capture failed", zap.Error(err))
	emit(ctx, events, capture.Event{Kind: capture.EventProviderError, Err: err})
	return err
}

func emit(ctx context.Context, events chan<- capture.Event, ev capture.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// transcriptAccumulator joins finalized segments with the segment still being
// recognized, giving the full transcript so far.
type transcriptAccumulator struct {
	finalized []string
	pending   string
}

func (a *transcriptAccumulator) update(segment string, final bool) string {
	if final {
		a.finalized = append(a.finalized, segment)
		a.pending = ""
	} else {
		a.pending = segment
	}
	return a.text()
}

func (a *transcriptAccumulator) text() string {
	return joinTranscript(append(append([]string{}, a.finalized...), a.pending)...)
}

func joinTranscript(parts ...string) string {
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			words = append(words, p)
		}
	}
	return strings.Join(words, " ")
}

