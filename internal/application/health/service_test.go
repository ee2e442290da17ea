package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

type externalFunc func(ctx context.Context) error

func (f externalFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCollect_NothingConfigured(t *testing.T) {
	result := (&Collector{}).Collect(context.Background())
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "100", result.Traffic.SuccessRate)
}

func TestCollect_WithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	c := &Collector{DB: pingFunc(func() error { return nil }), Redis: rdb}
	result := c.Collect(ctx)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.True(t, mr.Exists("health:global:start_time"))

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:last_request", `{"method":"GET","path":"/api/v1/search"}`, 0).Err())

	result = c.Collect(ctx)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result.Traffic.AvgResponseTime)
	assert.Equal(t, "GET", result.Traffic.LastRequest.(map[string]interface{})["method"])
}

func TestCollect_DatabaseErrorAndExternals(t *testing.T) {
	c := &Collector{
		DB: pingFunc(func() error { return errors.New("refused") }),
		External: map[string]ExternalPinger{
			"overpass":   externalFunc(func(context.Context) error { return nil }),
			"cloudinary": externalFunc(func(context.Context) error { return errors.New("timeout") }),
		},
	}
	result := c.Collect(context.Background())
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
	assert.Equal(t, "reachable", result.Dependencies["overpass"].Status)
	assert.NotNil(t, result.Dependencies["overpass"].PingMs)
	assert.Equal(t, "unreachable", result.Dependencies["cloudinary"].Status)
	assert.Equal(t, []string{"database", "redis", "cloudinary", "overpass"}, result.DependencyNames())
}

func TestRenderDashboardHTML(t *testing.T) {
	result := (&Collector{}).Collect(context.Background())
	html := RenderDashboardHTML(result)
	assert.Contains(t, html, "System Issues Detected")
	assert.Contains(t, html, ServiceName)
	assert.Contains(t, html, "disconnected")
}
