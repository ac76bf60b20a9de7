package cli

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandlerDefaultsWriter(t *testing.T) {
	handler := NewInterruptHandler(nil, "Sweep")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterruptsOnSignal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Sweep")

	var sigChan chan<- os.Signal
	handler.notify = func(c chan<- os.Signal) { sigChan = c }

	ctx, stop := handler.HandleInterrupts(context.Background())
	defer stop()
	require.NotNil(t, sigChan)

	select {
	case <-ctx.Done():
		t.Fatal("context canceled before any signal")
	default:
	}

	sigChan <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled after signal")
	}

	assert.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	assert.Contains(t, output.String(), "Sweep interrupted!")
	assert.Contains(t, output.String(), "Partial results were discarded.")
}

func TestHandleInterruptsStopWithoutSignal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Sweep")
	handler.notify = func(chan<- os.Signal) {}

	ctx, stop := handler.HandleInterrupts(context.Background())
	stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
