package handler

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client address so a single noisy
// client cannot lock everyone else out of the Engine Room.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	every   time.Duration
	burst   int
	idleTTL time.Duration
}

func newIPLimiter(every time.Duration, burst int) *ipLimiter {
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		every:   every,
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

// Allow reports whether the client behind r may make another attempt.
func (l *ipLimiter) Allow(r *http.Request) bool {
	return l.limiterFor(clientIP(r)).Allow()
}

func (l *ipLimiter) limiterFor(ip string) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.entries, key)
		}
	}

	entry, ok := l.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// clientIP strips the port from RemoteAddr. Forwarding headers are ignored
// since a client could set them to dodge its own bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}
