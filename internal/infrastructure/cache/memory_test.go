package cache

import (
	"context"
	"testing"
	"time"
)

type report struct {
	Level string `json:"level"`
	Words int    `json:"words"`
}

var _ Cache = (*MemoryStore)(nil)
var _ Cache = (*RedisCache)(nil)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.SetJSON(ctx, "k", report{Level: "warning", Words: 42}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got report
	found, err := store.GetJSON(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if got.Level != "warning" || got.Words != 42 {
		t.Fatalf("unexpected value %+v", got)
	}

	if err := store.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if found, _ := store.GetJSON(ctx, "k", &got); found {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SetJSON(ctx, "k", report{Level: "normal"}, -time.Second)

	var got report
	if found, _ := store.GetJSON(ctx, "k", &got); found {
		t.Fatal("expired entry should be a miss")
	}
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.Close()
	store.Close()
}
