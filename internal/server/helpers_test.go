package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yourspace/internal/models"
	"yourspace/internal/repository"
	"yourspace/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHumanizeParam(t *testing.T) {
	tests := map[string]string{
		"id":          "ID",
		"userId":      "user ID",
		"followedId":  "followed ID",
		"otherUserId": "other user ID",
		"username":    "username",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestParsePaging(t *testing.T) {
	tests := []struct {
		query string
		want  Paging
	}{
		{"", Paging{Skip: 0, Take: 20}},
		{"?skip=5&take=10", Paging{Skip: 5, Take: 10}},
		{"?take=500", Paging{Skip: 0, Take: 100}},
		{"?take=0", Paging{Skip: 0, Take: 20}},
		{"?skip=-3&take=-1", Paging{Skip: 0, Take: 20}},
		{"?skip=abc", Paging{Skip: 0, Take: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Paging
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePaging(c)
				return nil
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/users/:userId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "userId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for _, raw := range []string{"0", "-4", "abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/"+raw, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, raw)
		assert.Equal(t, "Invalid user ID", errorMessage(t, resp))
		_ = resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.NewValidationError("bad"), fiber.StatusBadRequest},
		{models.NewConflictError("dupe"), fiber.StatusBadRequest},
		{models.NewNotFoundMessage("gone"), fiber.StatusNotFound},
		{models.NewForbiddenError("nope"), fiber.StatusForbidden},
		{models.NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{models.NewUnavailableError("later", nil), fiber.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", models.NewNotFoundMessage("gone")), fiber.StatusNotFound},
		{errors.New("driver exploded"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondServiceError(c, tt.err) })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestGetAllUsers_DatabaseFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnError(errors.New("connection reset by peer"))

	s := &Server{
		userService: service.NewUserService(
			repository.NewUserRepository(db),
			repository.NewPostRepository(db),
			repository.NewFollowRepository(db),
			nil,
		),
	}
	app := fiber.New()
	app.Get("/users", s.GetAllUsers)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	msg := errorMessage(t, resp)
	assert.Equal(t, "Internal server error", msg)
	assert.NotContains(t, msg, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
