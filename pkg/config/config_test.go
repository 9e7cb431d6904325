package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Performance.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "POSTGRES")
	v.Set("REQUEST_TIMEOUT", "bogus")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("PERFORMANCE_CACHE_TTL", "30s")

	cfg := fromViper(v)

	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Performance.CacheTTL)
}

func TestUnknownDriverFallsBackToMemory(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "mongo")

	assert.Equal(t, StoreMemory, fromViper(v).Store.Driver)
}
