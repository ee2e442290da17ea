package uploads

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	uploadsvc "homescout-backend/internal/application/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, app *fiber.App, body map[string]string) (int, map[string]interface{}) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/uploads/sign", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func newApp(svc *uploadsvc.Service) *fiber.App {
	app := fiber.New()
	app.Post("/uploads/sign", (&Handlers{Service: svc}).Sign)
	return app
}

func TestSign(t *testing.T) {
	ts := time.Unix(1315060510, 0)
	app := newApp(&uploadsvc.Service{CloudName: "demo", APIKey: "key", APISecret: "secret", Now: func() time.Time { return ts }})

	status, out := post(t, app, map[string]string{"folder": "listings", "public_id": "flat_42"})
	require.Equal(t, fiber.StatusOK, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1315060510), data["timestamp"])
	assert.Equal(t, uploadsvc.Signature(map[string]string{
		"folder": "listings", "public_id": "flat_42", "timestamp": "1315060510",
	}, "secret"), data["signature"])

	status, _ = post(t, app, map[string]string{"folder": "secrets"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = post(t, app, map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSign_NotConfigured(t *testing.T) {
	status, _ := post(t, newApp(&uploadsvc.Service{}), map[string]string{"folder": "kyc"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
