package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPublishRate bounds diagnostics notifications per document per second.
// Keystroke bursts above it collapse into one trailing publish of the latest version.
const DefaultPublishRate = 10

// publisher throttles diagnostics publication per document URI.
type publisher struct {
	mu       sync.Mutex
	limit    rate.Limit
	limiters map[string]*rate.Limiter
	timers   map[string]*time.Timer
	latest   map[string]func()
}

func newPublisher(perSecond float64) *publisher {
	return &publisher{
		limit:    rate.Limit(perSecond),
		limiters: make(map[string]*rate.Limiter),
		timers:   make(map[string]*time.Timer),
		latest:   make(map[string]func()),
	}
}

// Publish runs send now if the document is under its rate, otherwise once the
// rate allows. A publish already waiting is replaced by the newer one.
func (p *publisher) Publish(uri string, send func()) {
	p.mu.Lock()
	if _, waiting := p.timers[uri]; waiting {
		p.latest[uri] = send
		p.mu.Unlock()
		return
	}

	limiter, ok := p.limiters[uri]
	if !ok {
		limiter = rate.NewLimiter(p.limit, 1)
		p.limiters[uri] = limiter
	}
	if limiter.Allow() {
		p.mu.Unlock()
		send()
		return
	}

	p.latest[uri] = send
	p.timers[uri] = time.AfterFunc(limiter.Reserve().Delay(), func() { p.flush(uri) })
	p.mu.Unlock()
}

func (p *publisher) flush(uri string) {
	p.mu.Lock()
	send := p.latest[uri]
	delete(p.latest, uri)
	delete(p.timers, uri)
	p.mu.Unlock()

	if send != nil {
		send()
	}
}

// Forget drops any waiting publish and the rate state for uri.
func (p *publisher) Forget(uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timer, ok := p.timers[uri]; ok {
		timer.Stop()
	}
	delete(p.timers, uri)
	delete(p.latest, uri)
	delete(p.limiters, uri)
}

// Stop cancels every waiting publish.
func (p *publisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for uri, timer := range p.timers {
		timer.Stop()
		delete(p.timers, uri)
		delete(p.latest, uri)
	}
}
