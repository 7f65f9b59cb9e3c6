package utils

import (
	"testing"
	"time"
)

func TestPoolConfigDefaults(t *testing.T) {
	c := PoolConfig{}.withDefaults()
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool sizes, got %+v", c)
	}
	if c.PingTimeout <= 0 {
		t.Fatalf("expected ping timeout default")
	}

	// Explicit values survive.
	c = PoolConfig{MaxOpenConns: 3, ConnMaxLifetime: time.Minute}.withDefaults()
	if c.MaxOpenConns != 3 || c.ConnMaxLifetime != time.Minute {
		t.Fatalf("expected explicit values to be kept, got %+v", c)
	}
}
