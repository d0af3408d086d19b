package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/pkg/config"
)

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	client, err := New(&config.Config{})
	require.NoError(t, err)
	require.False(t, client.Enabled())
	return NewCache(client, "powercast")
}

func TestDisabledCache_IsNoOp(t *testing.T) {
	c := disabledCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	found, err := c.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found, "disabled cache never hits")
	assert.Nil(t, dest)

	require.NoError(t, c.Delete(ctx, "k"))
}

func TestPredictionsKey(t *testing.T) {
	assert.Equal(t, "predictions:v1", PredictionsKey("v1"))
}

func TestFullKey(t *testing.T) {
	c := disabledCache(t)
	assert.Equal(t, "powercast:cache:predictions:v1", c.fullKey(PredictionsKey("v1")))
}
