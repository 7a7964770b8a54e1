package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
)

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_AsignacionDeRolSobreCuentaBorrada(t *testing.T) {
	status, body := respond(t, errors.Join(domain.ErrRoleAssignment, domain.ErrNotFound))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "ROLE_ASSIGNMENT_FAILED", body.Code)
}

func TestWriteError_Tabla(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrStaleProduct, fiber.StatusConflict, "STALE_PRODUCT"},
		{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
		{domain.ErrAlreadyFarmer, fiber.StatusConflict, "ALREADY_FARMER"},
		{domain.ErrFarmerProfileMissing, fiber.StatusConflict, "FARMER_PROFILE_MISSING"},
		{domain.Dependency("leer", errors.New("timeout")), fiber.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE"},
		{fmt.Errorf("otra cosa"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, body := respond(t, tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, body.Code)
	}
}
