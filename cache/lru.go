package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ratst-engine/ratst/engine/translator"
)

type store interface {
	Get(key string) (*translator.Result, bool)
	Add(key string, value *translator.Result) bool
	Len() int
}

// LRU is an in-process cache bounded by entry count
type LRU struct {
	entries store
}

// NewLRU creates a cache of at most size entries. A positive ttl also
// expires entries that old.
func NewLRU(size int, ttl time.Duration) (*LRU, error) {
	if ttl > 0 {
		return &LRU{entries: expirable.NewLRU[string, *translator.Result](size, nil, ttl)}, nil
	}
	c, err := lru.New[string, *translator.Result](size)
	if err != nil {
		return nil, err
	}
	return &LRU{entries: c}, nil
}

func (c *LRU) Get(_ context.Context, dialect, expression string) (*translator.Result, bool, error) {
	r, ok := c.entries.Get(Key(dialect, expression))
	return r, ok, nil
}

func (c *LRU) Set(_ context.Context, dialect, expression string, result *translator.Result) error {
	c.entries.Add(Key(dialect, expression), result)
	return nil
}

// Len returns the number of cached entries
func (c *LRU) Len() int {
	return c.entries.Len()
}
