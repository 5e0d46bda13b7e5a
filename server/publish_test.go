package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublisherSendsFirstImmediately(t *testing.T) {
	p := newPublisher(1)
	defer p.Stop()

	ran := false
	p.Publish("file:///a.py", func() { ran = true })
	assert.True(t, ran)
}

func TestPublisherCoalescesBursts(t *testing.T) {
	p := newPublisher(20)
	defer p.Stop()

	var first, second, third atomic.Int32
	p.Publish("file:///a.py", func() { first.Add(1) })
	p.Publish("file:///a.py", func() { second.Add(1) })
	p.Publish("file:///a.py", func() { third.Add(1) })

	assert.Eventually(t, func() bool { return third.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(0), second.Load(), "superseded by the newer publish")
}

func TestPublisherLimitsPerDocument(t *testing.T) {
	p := newPublisher(0.1)
	defer p.Stop()

	var a, b atomic.Int32
	p.Publish("file:///a.py", func() { a.Add(1) })
	p.Publish("file:///b.py", func() { b.Add(1) })
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestPublisherForget(t *testing.T) {
	p := newPublisher(20)
	defer p.Stop()

	var calls atomic.Int32
	p.Publish("file:///a.py", func() { calls.Add(1) })
	p.Publish("file:///a.py", func() { calls.Add(1) })
	p.Forget("file:///a.py")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	p.Publish("file:///a.py", func() { calls.Add(1) })
	assert.Equal(t, int32(2), calls.Load(), "forgotten documents start with a fresh limiter")
}
