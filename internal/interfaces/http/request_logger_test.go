package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/domain"
	apphttp "github.com/jhoicas/procurement-api/internal/interfaces/http"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

func TestRequestLogger_RegistraStatusReal(t *testing.T) {
	var buf bytes.Buffer
	app := apphttp.NewApp("test", logger.NewWithWriter(&buf, "info"))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return domain.NotFound("Purchase order", 9)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-9")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"req-9"`)
	assert.Contains(t, out, `"component":"http"`)
}

func TestRequestLogger_PanicEs500(t *testing.T) {
	var buf bytes.Buffer
	app := apphttp.NewApp("test", logger.NewWithWriter(&buf, "info"))
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), `"status":500`)
}
