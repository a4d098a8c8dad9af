package config

import (
	"context"
	"testing"
)

func TestDefaultFromContext(t *testing.T) {
	ctx := context.TODO()
	if c := FromContext(ctx); c == nil {
		t.Errorf("FromContext(ctx) => %v, want default config", c)
	}
}

func TestGoodFromContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Name = "ctx test"
	ctx := WithContext(context.TODO(), cfg)
	if c := FromContext(ctx); c == nil || c.Name != "ctx test" {
		t.Errorf("FromContext(ctx) => %v, want %v", c, cfg)
	}
}
