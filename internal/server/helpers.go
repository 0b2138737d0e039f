package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"yourspace/internal/middleware"
	"yourspace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Paging holds parsed skip/take query parameters.
type Paging struct {
	Skip int
	Take int
}

const (
	defaultTake = 20
	maxTake     = 100
)

// parsePaging reads skip and take, defaulting to 0 and 20. Out of range
// values are clamped rather than rejected.
func parsePaging(c *fiber.Ctx) Paging {
	take := c.QueryInt("take", defaultTake)
	if take <= 0 {
		take = defaultTake
	}
	if take > maxTake {
		take = maxTake
	}

	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}
	return Paging{Skip: skip, Take: take}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "userId" -> "Invalid user ID", "followedId" -> "Invalid followed ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseQueryID is parseID for query string parameters.
func (s *Server) parseQueryID(c *fiber.Ctx, key string) (uint, error) {
	id := c.QueryInt(key, 0)
	if id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(key)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "otherUserId" -> "other user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondServiceError translates a service error into its HTTP status.
// Anything that is not a typed AppError is logged and answered as a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		err = models.NewInternalError(err)
		errors.As(err, &appErr)
	}

	status := models.StatusFor(appErr.Code)
	if status >= fiber.StatusInternalServerError && appErr.Code != models.CodeUnavailable {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, appErr)
}

// currentUserID returns the authenticated caller. Routes using it sit behind AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}
