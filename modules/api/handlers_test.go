package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "bad credentials",
			err:            errors.New("login request failed: invalid username or password"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid username or password",
		},
		{
			name:           "disabled account",
			err:            errors.New("login request failed: user account is disabled"),
			expectedStatus: http.StatusForbidden,
			expectedBody:   "disabled",
		},
		{
			name:           "missing task",
			err:            errors.New("get request failed: task not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "task not found",
		},
		{
			name:           "missing category",
			err:            errors.New("create request failed: category not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "category not found",
		},
		{
			name:           "duplicate username",
			err:            errors.New("register request failed: username already in use"),
			expectedStatus: http.StatusConflict,
			expectedBody:   "username already in use",
		},
		{
			name:           "blank title",
			err:            errors.New("create request failed: title is required"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "title is required",
		},
		{
			name:           "bad priority",
			err:            errors.New(`create request failed: invalid priority "URGENT"`),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid priority",
		},
		{
			name:           "bad sort key",
			err:            errors.New(`list request failed: invalid sort key "owner_id"`),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid sort key",
		},
		{
			name:           "unexpected error stays opaque",
			err:            errors.New("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "An internal error occurred",
		},
	}

	h := &Handlers{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/test", func(c *fiber.Ctx) error {
				return h.handleServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %s, want to contain %q", body, tt.expectedBody)
			}

			// Internals are never echoed back for unmapped errors.
			if tt.expectedStatus == http.StatusInternalServerError &&
				strings.Contains(string(body), "disk on fire") {
				t.Error("internal error detail leaked to the client")
			}
		})
	}
}
