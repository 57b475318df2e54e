package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func serve(t *testing.T, h fiber.Handler) (*http.Response, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return resp, body
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{fiber.StatusNotFound, CodeNotFound},
		{fiber.StatusUnauthorized, CodeUnauthorized},
		{fiber.StatusTooManyRequests, CodeRateLimited},
		{fiber.StatusUpgradeRequired, CodeValidationError},
		{fiber.StatusInternalServerError, CodeServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			resp, body := serve(t, func(c *fiber.Ctx) error {
				return FromStatus(c, tt.status, "boom")
			})
			if resp.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if body.Error.Code != tt.code || body.Error.Message != "boom" {
				t.Errorf("unexpected envelope %+v", body.Error)
			}
		})
	}
}

func TestRateLimited_SetsRetryAfter(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return RateLimited(c, 90*time.Second)
	})
	if resp.StatusCode != fiber.StatusTooManyRequests || body.Error.Code != CodeRateLimited {
		t.Errorf("unexpected response %d %+v", resp.StatusCode, body.Error)
	}
	if got := resp.Header.Get("Retry-After"); got != "90" {
		t.Errorf("expected Retry-After 90, got %q", got)
	}

	resp, _ = serve(t, func(c *fiber.Ctx) error {
		return RateLimited(c, 0)
	})
	if got := resp.Header.Get("Retry-After"); got != "" {
		t.Errorf("expected no Retry-After, got %q", got)
	}
}

func TestBackendAndSubmissionErrorsAreBadGateway(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return BackendError(c, "stem missing")
	})
	if resp.StatusCode != fiber.StatusBadGateway || body.Error.Code != CodeBackendError {
		t.Errorf("unexpected backend error %d %+v", resp.StatusCode, body.Error)
	}

	resp, body = serve(t, func(c *fiber.Ctx) error {
		return SubmissionError(c, "URL required")
	})
	if resp.StatusCode != fiber.StatusBadGateway || body.Error.Code != CodeSubmissionError {
		t.Errorf("unexpected submission error %d %+v", resp.StatusCode, body.Error)
	}
}
