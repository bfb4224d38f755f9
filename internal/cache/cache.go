package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultTTL is used when Set receives a non-positive ttl.
const DefaultTTL = time.Hour

// Store memoizes generation results keyed by a request fingerprint. A miss is
// the normal "go generate" path, never an error, so the operations have no
// failure mode; backends that can fail internally degrade to a miss.
type Store interface {
	// Get returns the stored value, or ok=false when the key is unknown or
	// its entry has expired. Expired entries are removed on read.
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set stores value under key, overwriting any prior entry. A non-positive
	// ttl selects the store's default.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
	// Sweep removes every expired entry and returns the count removed. It is
	// intended to run once at process start.
	Sweep(ctx context.Context) int
	// Len reports the current number of entries, best effort.
	Len(ctx context.Context) int
}

// MakeKey builds a deterministic fingerprint from a namespace and a parameter
// set. Parameters are rendered as name=value sorted by name, so logically
// equal parameter sets always collide regardless of insertion order.
func MakeKey(namespace string, params map[string]string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, namespace)
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, params[name]))
	}
	return strings.Join(parts, ":")
}
