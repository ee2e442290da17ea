package router

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"homescout-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateApp_HealthOnlyWithoutDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := CreateApp(&config.Config{Env: "test", RedisURL: "redis://" + mr.Addr(), SearchRateLimit: 10})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	assert.Nil(t, a.DB)

	resp, err := a.Fiber.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "homescout-api", out["service"])
	assert.Equal(t, "disconnected", out["dependencies"].(map[string]interface{})["database"].(map[string]interface{})["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))

	resp, err = a.Fiber.Test(httptest.NewRequest("GET", "/api/v1/search", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, a.Ping(context.Background()))
}

func TestCreateApp_BadRedisURL(t *testing.T) {
	_, err := CreateApp(&config.Config{RedisURL: "not a url"})
	assert.Error(t, err)
}
