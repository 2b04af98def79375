package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryRateLimiter_EnforcesLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		limited, err := limiter.IsLimited("client-a")
		assert.NoError(t, err)
		assert.False(t, limited, "request %d should be allowed", i+1)
	}

	limited, err := limiter.IsLimited("client-a")
	assert.NoError(t, err)
	assert.True(t, limited, "fourth request should be limited")
}

func TestInMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, time.Minute)

	limited, err := limiter.IsLimited("client-a")
	assert.NoError(t, err)
	assert.False(t, limited)

	limited, err = limiter.IsLimited("client-b")
	assert.NoError(t, err)
	assert.False(t, limited, "a different key has its own bucket")

	limited, err = limiter.IsLimited("client-a")
	assert.NoError(t, err)
	assert.True(t, limited)
}

func TestInMemoryRateLimiter_EmptyKey(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, time.Minute)

	limited, err := limiter.IsLimited("")
	assert.NoError(t, err)
	assert.False(t, limited)

	limited, err = limiter.IsLimited("")
	assert.NoError(t, err)
	assert.True(t, limited, "empty keys share one bucket")
}

func TestNew_SelectsInMemoryWithoutRedis(t *testing.T) {
	limiter := New(&Config{Requests: 10, Window: time.Minute})

	_, ok := limiter.(*InMemoryRateLimiter)
	assert.True(t, ok)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 10, requests)
	assert.Equal(t, time.Minute, window)
}
