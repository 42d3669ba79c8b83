package cache_test

import (
	"context"
	"net"
	"testing"
	"time"

	"blog/internal/cache"

	"github.com/stretchr/testify/assert"
)

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	c := cache.New("", "", 0)
	assert.Nil(t, c)

	ctx := context.Background()
	value, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, value)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())

	_, ok := c.LikeCount(ctx, "p1")
	assert.False(t, ok)
	c.SetLikeCount(ctx, "p1", 3)
	c.InvalidateLikeCount(ctx, "p1")
}

func TestClient_UnreachableRedisBehavesAsMiss(t *testing.T) {
	c := cache.New("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, value)

	_, ok := c.LikeCount(ctx, "p1")
	assert.False(t, ok)

	assert.Error(t, c.Delete(ctx, "k"))
	c.InvalidateLikeCount(ctx, "p1")
}

// silentListener accepts connections and never answers, like a blackholed host.
func silentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		<-done
		for _, conn := range conns {
			conn.Close()
		}
	})
	return ln.Addr().String()
}

func TestClient_UnresponsiveRedisLeavesCallerDeadlineIntact(t *testing.T) {
	c := cache.New(silentListener(t), "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	_, ok := c.LikeCount(ctx, "p1")
	c.SetLikeCount(ctx, "p1", 3)
	c.InvalidateLikeCount(ctx, "p1")
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Less(t, elapsed, 2*time.Second)
	assert.NoError(t, ctx.Err())
}

func TestLikeCountKey(t *testing.T) {
	assert.Equal(t, "post:abc:likes", cache.LikeCountKey("abc"))
}
