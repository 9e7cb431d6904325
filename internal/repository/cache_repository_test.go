package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(nil, "dash")

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "perf:school", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "perf:school", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "perf:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyPrefix(t *testing.T) {
	assert.Equal(t, "dash:perf:school", NewCacheRepository(nil, "dash").key("perf:school"))
	assert.Equal(t, "perf:school", NewCacheRepository(nil, "").key("perf:school"))
}
