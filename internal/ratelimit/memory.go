package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter is the contract the middleware enforces against.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// Memory is an in-process sliding window limiter backed by ulule/limiter's
// memory store. One limiter instance is kept per window/max pair.
type Memory struct {
	mu        sync.Mutex
	store     limiter.Store
	instances map[string]*limiter.Limiter
}

// NewMemory constructs a Memory limiter.
func NewMemory() *Memory {
	return &Memory{
		store:     memory.NewStore(),
		instances: make(map[string]*limiter.Limiter),
	}
}

// Allow registers an event for the given key and returns whether it is within the limit.
func (m *Memory) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if m == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	res, err := m.instance(window, max).Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}

func (m *Memory) instance(window time.Duration, max int) *limiter.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("%d/%s", max, window)
	if inst, ok := m.instances[id]; ok {
		return inst
	}
	inst := limiter.New(m.store, limiter.Rate{Period: window, Limit: int64(max)})
	m.instances[id] = inst
	return inst
}
