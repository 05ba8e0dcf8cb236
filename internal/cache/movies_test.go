package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMovieListNilSafe(t *testing.T) {
	ctx := context.Background()

	var absent *MovieList
	if _, _, ok := absent.Get(ctx); ok {
		t.Fatal("nil MovieList reported a hit")
	}
	absent.Set(ctx, "0", []byte("payload"))
	absent.Invalidate(ctx)

	clientless := NewMovieList(nil, time.Minute)
	if _, _, ok := clientless.Get(ctx); ok {
		t.Fatal("clientless MovieList reported a hit")
	}
	clientless.Set(ctx, "0", []byte("payload"))
	clientless.Invalidate(ctx)
}

func TestMovieListUnreachableServerMisses(t *testing.T) {
	ctx := context.Background()

	// Port 1 is never a Redis server; every operation fails and the
	// cache must degrade to misses rather than surface errors.
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
		ReadTimeout:  100 * time.Millisecond,
		WriteTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	list := NewMovieList(client, time.Minute)
	list.Set(ctx, "0", []byte("payload"))
	payload, version, ok := list.Get(ctx)
	if ok || payload != nil {
		t.Fatal("unreachable Redis reported a hit")
	}
	if version != "" {
		t.Fatalf("version = %q, want empty when the version read failed", version)
	}
	list.Invalidate(ctx)
}

func TestMovieListSetWithoutVersionIsNoop(t *testing.T) {
	// An empty version means the version read failed; writing an
	// unversioned entry could survive invalidation, so Set must drop it.
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
		ReadTimeout:  100 * time.Millisecond,
		WriteTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	list := NewMovieList(client, time.Minute)
	list.Set(context.Background(), "", []byte("payload"))
}

func TestNewRedisClientEmptyAddr(t *testing.T) {
	if client := NewRedisClient("", "", 0); client != nil {
		t.Fatal("expected nil client for empty addr")
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	if client := NewRedisClient("127.0.0.1:1", "", 0); client != nil {
		t.Fatal("expected nil client when ping fails")
	}
}
