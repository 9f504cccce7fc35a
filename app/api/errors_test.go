package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/job"
	"mingle/pagerange"
	"mingle/types"
)

func TestErrorHandler(t *testing.T) {
	_, parseErr := pagerange.Parse("1-2-3", 5)
	var syntaxErr *pagerange.SyntaxError
	require.True(t, errors.As(parseErr, &syntaxErr))

	tests := []struct {
		name string
		err  error
		code int
		key  string
	}{
		{"api error", ErrInvalidID(), fiber.StatusBadRequest, "error"},
		{"not found", ErrNotFound(42, "job"), fiber.StatusNotFound, "error"},
		{"validation", NewValidationError(map[string]string{"Rows": "failed on 'min' tag"}), fiber.StatusUnprocessableEntity, "errors"},
		{"range errors", job.RangeErrors{{Index: 0, Path: "a.pdf", Err: syntaxErr}}, fiber.StatusUnprocessableEntity, "errors"},
		{"syntax error", fmt.Errorf("ranges: %w", syntaxErr), fiber.StatusUnprocessableEntity, "token"},
		{"input", types.NewInputError("no images given", nil), fiber.StatusBadRequest, "error"},
		{"bounds", types.NewBoundsError("margin", nil), fiber.StatusUnprocessableEntity, "error"},
		{"backend", types.NewBackendError("cannot write pdf", errors.New("disk full")), fiber.StatusInternalServerError, "error"},
		{"fiber", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "error"},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, tt.key)
		})
	}
}

func TestNewRangeValidationError(t *testing.T) {
	_, err := pagerange.Parse("9", 2)
	var se *pagerange.SyntaxError
	require.True(t, errors.As(err, &se))

	v := NewRangeValidationError(job.RangeErrors{{Index: 3, Path: "b.pdf", Err: se}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, v.Status)
	assert.Equal(t, map[string]string{"ranges[3]": "invalid page: page 9 exceeds the last page (2)"}, v.Errors)
}
