package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

// schoolMonday is the first seeded attendance day.
var schoolMonday = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Store: seededStore(t),
		Now:   func() time.Time { return schoolMonday },
	}.withDefaults()
}

func assertCode(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want.Code, appErrors.FromError(err).Code)
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	deletes []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, pattern)
	for key := range f.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(f.entries, key)
		}
	}
	return nil
}

func (f *fakeCacheRepo) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}
