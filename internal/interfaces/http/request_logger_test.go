package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func buildLoggedApp(buf *bytes.Buffer) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: buf})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	app.Get("/api/ping",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

// En rutas autenticadas el registro lleva la identidad que dejó el AuthMiddleware.
func TestRequestLogger_RegistraIdentidad(t *testing.T) {
	var buf bytes.Buffer
	app := buildLoggedApp(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", tokenForRole(t, "SUPERVISOR"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/api/ping"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"company_id":"`+testCompanyID+`"`)
	assert.Contains(t, out, `"user_id":"`+testUserID+`"`)
	assert.Contains(t, out, `"role":"SUPERVISOR"`)
}

// En rutas públicas se registra la petición sin campos de identidad.
func TestRequestLogger_RutaPublicaSinIdentidad(t *testing.T) {
	var buf bytes.Buffer
	app := buildLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, `"path":"/health"`)
	assert.NotContains(t, out, `"company_id"`)
}
