package server

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"mmorpgboard/internal/middleware"
	"mmorpgboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 404 JSON response and returns errResponseWritten,
// the same answer an unknown id gets.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Invalid " + humanizeParam(param)})
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
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

// parsePage reads ?page=N. Missing means the first page; anything that is
// not a positive integer is answered with 404.
func parsePage(c *fiber.Ctx) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Invalid page"})
		return 0, errResponseWritten
	}
	return page, nil
}

// parsePostFilter reads the optional ?post=ID filter of the my-replies page.
// An empty or malformed value means no filter.
func parsePostFilter(c *fiber.Ctx) *uint {
	id, err := strconv.ParseUint(c.Query("post"), 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// currentUserID returns the user bound by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// formBool reads an HTML checkbox. Browsers omit unchecked boxes, so a
// missing field is false.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// respondError writes err with the status its code maps to. Unexpected
// errors are logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", slog.String("error", err.Error()))
		if !models.HasCode(err, models.CodeInternal) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// redirectIfDenied answers an ownership failure with a silent 303 to
// location. Every other error goes through respondError.
func redirectIfDenied(c *fiber.Ctx, err error, location string) error {
	if models.HasCode(err, models.CodeUnauthorized) {
		middleware.Logger.InfoContext(c.UserContext(), "ownership check failed",
			slog.String("path", c.Path()))
		return seeOther(c, location)
	}
	return respondError(c, err)
}

func seeOther(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}
