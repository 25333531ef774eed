package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"frontdesk/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const draftKeyPrefix = "draft:"

// ErrDraftNotFound is returned when a draft expired or was already consumed.
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore parks drafts between extraction and the review step.
type DraftStore interface {
	Put(ctx context.Context, transcript string, draft models.ParsedAppointmentDraft) (string, error)
	// Take returns the draft and removes it. A second Take fails with ErrDraftNotFound.
	Take(ctx context.Context, id string) (*models.StoredDraft, error)
}

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (s *RedisDraftStore) Put(ctx context.Context, transcript string, draft models.ParsedAppointmentDraft) (string, error) {
	stored := models.StoredDraft{
		ID:         uuid.NewString(),
		Transcript: transcript,
		Draft:      draft,
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, draftKeyPrefix+stored.ID, b, s.ttl).Err(); err != nil {
		return "", err
	}
	return stored.ID, nil
}

func (s *RedisDraftStore) Take(ctx context.Context, id string) (*models.StoredDraft, error) {
	data, err := s.client.GetDel(ctx, draftKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var stored models.StoredDraft
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}
