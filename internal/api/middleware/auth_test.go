package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

func TestAuth(t *testing.T) {
	validAPIKey := "test-api-key-12345"
	validHash := hashAPIKey(validAPIKey)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		checkBody      bool
	}{
		{
			name:           "valid API key",
			authHeader:     "Bearer " + validAPIKey,
			expectedStatus: 200,
			checkBody:      true,
		},
		{
			name:           "missing Authorization header",
			authHeader:     "",
			expectedStatus: 401,
		},
		{
			name:           "invalid API key",
			authHeader:     "Bearer invalid-key",
			expectedStatus: 401,
		},
		{
			name:           "invalid Bearer format",
			authHeader:     "Basic abc123",
			expectedStatus: 401,
		},
		{
			name:           "empty Bearer token",
			authHeader:     "Bearer ",
			expectedStatus: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()

			// Setup error handler to convert AppError
			app.Use(func(c *fiber.Ctx) error {
				err := c.Next()
				if err != nil {
					if appErr, ok := err.(*domain.AppError); ok {
						return c.Status(appErr.StatusCode).JSON(appErr)
					}
					return c.Status(500).SendString(err.Error())
				}
				return nil
			})

			app.Use(Auth(validHash))

			// Test endpoint
			app.Get("/test", func(c *fiber.Ctx) error {
				return c.SendString("OK")
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkBody {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "OK", string(body))
			}
		})
	}
}

func TestAuth_UppercaseConfiguredHash(t *testing.T) {
	apiKey := "case-check-key"
	upperHash := strings.ToUpper(hashAPIKey(apiKey))

	app := fiber.New()
	app.Use(Auth(upperHash))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
	}{
		{
			name:      "valid Bearer token",
			header:    "Bearer test-token",
			wantToken: "test-token",
		},
		{
			name:      "lowercase bearer",
			header:    "bearer test-token",
			wantToken: "test-token",
		},
		{
			name:      "empty header",
			header:    "",
			wantToken: "",
		},
		{
			name:      "no Bearer prefix",
			header:    "test-token",
			wantToken: "",
		},
		{
			name:      "Basic auth (should reject)",
			header:    "Basic abc123",
			wantToken: "",
		},
		{
			name:      "Bearer with extra spaces",
			header:    "Bearer   test-token  ",
			wantToken: "test-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()

			var gotToken string
			app.Get("/test", func(c *fiber.Ctx) error {
				gotToken = extractBearerToken(c)
				return c.SendString("OK")
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			_, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, gotToken)
		})
	}
}
