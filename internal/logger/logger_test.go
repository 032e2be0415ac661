package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func reset() {
	once = sync.Once{}
	log = zerolog.Logger{}
}

func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("logging did not return")
	}
}

func TestLoggingWithoutInit(t *testing.T) {
	reset()

	finishes(t, func() {
		Info("item created", "item_id", "item-1")
		CtxWarn(WithRequestID(context.Background(), "req-1"), "lookup failed")
		WorkerLog("chat", "auto_close", nil, "closed", 0)
	})

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitAfterFirstUse(t *testing.T) {
	reset()

	finishes(t, func() {
		Debug("before init")
		Init("production")
		Info("after init")
	})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitIsKeptByGetLogger(t *testing.T) {
	reset()

	finishes(t, func() {
		Init("production")
		assert.NotNil(t, GetLogger())
	})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
