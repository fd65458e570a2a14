// internal/cache/redis_test.go
//
// Clients-slot cache tests against miniredis.

package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/bodalink/bodalink/internal/client"
)

func testCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewRedis(mr.Addr(), "", 0), mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	want := client.Seed()
	if err := c.SaveClients(ctx, want); err != nil {
		t.Fatalf("SaveClients: %v", err)
	}

	got, err := c.LoadClients(ctx)
	if err != nil {
		t.Fatalf("LoadClients: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("round trip lost records: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Token != want[i].Token || got[i].Subdomain != want[i].Subdomain {
			t.Fatalf("record %d mangled: %+v", i, got[i])
		}
		if !got[i].AccessUntil.Equal(want[i].AccessUntil) {
			t.Fatalf("record %d access_until drifted: %v vs %v",
				i, got[i].AccessUntil, want[i].AccessUntil)
		}
	}
}

func TestLoadClients_EmptySlotIsAMiss(t *testing.T) {
	c, _ := testCache(t)
	if _, err := c.LoadClients(context.Background()); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestLoadClients_CorruptSlotIsAMiss(t *testing.T) {
	c, mr := testCache(t)
	mr.Set(clientsKey, "{not json")

	if _, err := c.LoadClients(context.Background()); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for corrupt payload, got %v", err)
	}
}

func TestPing(t *testing.T) {
	c, mr := testCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping failure after server shutdown")
	}
}
