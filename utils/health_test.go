package utils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func TestCheckHealth(t *testing.T) {
	Logger = zap.NewNop()
	mr := miniredis.RunT(t)
	up := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer up.Close()
	defer down.Close()

	status := CheckHealth(context.Background(), map[string]*redis.Client{"drafts": up, "queue": down})
	if !status.Redis["drafts"] {
		t.Fatalf("expected drafts redis to be healthy")
	}
	if status.Redis["queue"] {
		t.Fatalf("expected queue redis to be unhealthy")
	}
	if status.Healthy() {
		t.Fatalf("expected overall status to be unhealthy")
	}
	if got := GetHealthStatus(); got.CheckedAt != status.CheckedAt {
		t.Fatalf("expected stored status to match the last check")
	}
}
