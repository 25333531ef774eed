package utils

import (
	"context"
	"time"

	"frontdesk/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DraftCacheClient holds extracted drafts until the form consumes them.
var DraftCacheClient *redis.Client

// InitDraftCache initializes the Redis client for drafts (REDIS_DRAFT_DB).
func InitDraftCache() {
	DraftCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDraftDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := DraftCacheClient.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis (Drafts)", zap.Error(err))
	}
}

// GetDraftCacheClient returns the Redis client for drafts.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		InitDraftCache()
	}
	return DraftCacheClient
}
