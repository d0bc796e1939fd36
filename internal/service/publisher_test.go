package service

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/queue"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQPPublisher_HonoursContextDeadline(t *testing.T) {
	p := &AMQPPublisher{URL: silentBroker(t), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	started := time.Now()
	err := p.PublishLogin(ctx, queue.LoginEvent{UserID: "u1"})
	assert.Error(t, err)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestAMQPPublisher_CancelledContext(t *testing.T) {
	p := &AMQPPublisher{URL: silentBroker(t), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	err := p.PublishLogin(ctx, queue.LoginEvent{UserID: "u1"})
	assert.Error(t, err)
	assert.Less(t, time.Since(started), time.Second)
}
