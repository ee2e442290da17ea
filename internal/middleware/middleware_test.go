package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUser(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":  "00000000-0000-0000-0000-000000000001",
			"fullname": "Test User",
			"email":    "test@example.com",
			"role":     role,
		})
		return c.Next()
	}
}

func ok(c *fiber.Ctx) error { return c.SendString("ok") }

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", RequireAuth(), ok)
	app.Get("/user", withUser("user"), RequireAuth(), ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthorizePermission(t *testing.T) {
	app := fiber.New()
	app.Get("/user", withUser("user"), AuthorizePermission("moderate_listings"), ok)
	app.Get("/admin", withUser("admin"), AuthorizePermission("moderate_listings"), ok)
	app.Get("/unknown", withUser("admin"), AuthorizePermission("launch_rockets"), ok)

	for path, want := range map[string]int{"/user": 403, "/admin": 200, "/unknown": 500} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestCurrentUserID_Malformed(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": "not-a-uuid"})
		return c.JSON(fiber.Map{"nil": CurrentUserID(c).String()})
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", body["nil"])
}

func TestTracing_ReusesValidHeader(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", ok)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "8f14e45f-ceea-4e7a-9d1b-0a1b2c3d4e5f")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "8f14e45f-ceea-4e7a-9d1b-0a1b2c3d4e5f", resp.Header.Get("X-Trace-Id"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "<script>")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "<script>", resp.Header.Get("X-Trace-Id"))
	assert.Len(t, resp.Header.Get("X-Trace-Id"), 36)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedSuffix: ".homescout.app"}))
	app.Get("/", ok)

	cases := map[string]int{
		"":                            200,
		"https://admin.homescout.app": 200,
		"http://localhost:8081":       200,
		"https://evil.example":        403,
	}
	for origin, want := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, origin)
	}
}

func TestHealthMarker_CountsAndLogsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New()
	app.Use(Tracing(), HealthMarker(rdb))
	app.Get("/ok", ok)
	app.Get("/boom", func(c *fiber.Ctx) error { return c.SendStatus(503) })
	app.Get("/health/json", ok)

	for _, p := range []string{"/ok", "/boom", "/health/json"} {
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}

	total, _ := mr.Get(KeyReqTotal)
	assert.Equal(t, "2", total)
	errs, _ := mr.Get(KeyReqErrors)
	assert.Equal(t, "1", errs)
	entries, err := mr.List(KeyErrorLog)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], `"path":"/boom"`)
}

func TestSession_PersistsAfterLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New()
	app.Use(Session(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: "00000000-0000-0000-0000-000000000009", Role: "user"})
		return c.SendString(sid)
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c).String())
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	sid := string(b)
	assert.True(t, mr.Exists(SessionRedisPrefix+sid))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sid+".sig")
	resp, err = app.Test(req)
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "00000000-0000-0000-0000-000000000009", string(b))
}
