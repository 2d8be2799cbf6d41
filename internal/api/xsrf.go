package api

import (
	"net/http"
	"strings"
	"sync"
)

const (
	// XSRFCookieName is the cookie the backend sets on every /api response.
	XSRFCookieName = "XSRF-TOKEN"
	// XSRFHeaderName echoes the cookie back on requests.
	XSRFHeaderName = "X-XSRF-TOKEN"

	// DefaultXSRFRetryBudget is the number of transparent retries shared by
	// all requests until a successful /api response refills it.
	DefaultXSRFRetryBudget = 5

	invalidXSRFBody = "Invalid XSRF token\n"
)

// retryBudget is shared by every request issued through one Client.
type retryBudget struct {
	mu        sync.Mutex
	remaining int
	capacity  int
}

func newRetryBudget(capacity int) *retryBudget {
	if capacity < 0 {
		capacity = 0
	}
	return &retryBudget{remaining: capacity, capacity: capacity}
}

// take consumes one retry if any is left.
func (b *retryBudget) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

func (b *retryBudget) refill() {
	b.mu.Lock()
	b.remaining = b.capacity
	b.mu.Unlock()
}

func (b *retryBudget) left() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// isInvalidXSRF matches the backend's rejection of a stale token exactly.
func isInvalidXSRF(statusCode int, body []byte) bool {
	return statusCode == http.StatusBadRequest && string(body) == invalidXSRFBody
}

// isAPIPath reports whether path belongs to the backend's /api surface.
func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
