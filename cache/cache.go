// Package cache keeps translation results keyed by dialect and expression.
// Cached results are shared between callers and must not be modified.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ratst-engine/ratst/engine/translator"
)

// Backends selectable by name
const (
	BackendNone  = "none"
	BackendLRU   = "lru"
	BackendRedis = "redis"
)

var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache stores translation results
type Cache interface {
	Get(ctx context.Context, dialect, expression string) (*translator.Result, bool, error)
	Set(ctx context.Context, dialect, expression string, result *translator.Result) error
}

// Key builds the storage key. Surrounding whitespace does not change the
// translation, so it does not change the key.
func Key(dialect, expression string) string {
	return "ratst:" + strings.ToLower(dialect) + ":" + strings.TrimSpace(expression)
}

// ParseBackend validates a backend name
func ParseBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case "", BackendNone:
		return BackendNone, nil
	case BackendLRU, BackendRedis:
		return b, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownBackend, name)
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string, string) (*translator.Result, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, string, string, *translator.Result) error {
	return nil
}
