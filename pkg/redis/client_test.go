package redis

import (
	"testing"

	"github.com/sliceops-ai/sliceops-backend/pkg/config"
)

func TestOptionsFromConfigRequiresURLOrAddress(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when url and address are both empty")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@localhost:6380/2"})
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("expected localhost:6380, got %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2, got %d", opts.DB)
	}
}

func TestOptionsFromConfigFallsBackToAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 1})
	if err != nil {
		t.Fatalf("build options: %v", err)
	}
	if opts.Addr != "cache:6379" {
		t.Fatalf("expected cache:6379, got %s", opts.Addr)
	}
	if opts.DB != 1 {
		t.Fatalf("expected db 1, got %d", opts.DB)
	}
}

func TestKeyHelpers(t *testing.T) {
	c := &Client{}
	if got := c.ClassificationKey("store-1"); got != "so:classification:store-1" {
		t.Fatalf("unexpected classification key %q", got)
	}
	if got := c.LockKey("cron"); got != "so:lock:cron" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := c.CounterKey("insights"); got != "so:counter:insights" {
		t.Fatalf("unexpected counter key %q", got)
	}
}
