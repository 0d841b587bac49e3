package contenttype

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcarts/internal/logging"
)

// Require rejects requests whose Content-Type media type is not mediaType.
// Parameters such as charset are ignored.
func Require(mediaType string) echo.MiddlewareFunc {
	msg := fmt.Sprintf("Content-Type must be %s", mediaType)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context())

			ct := c.Request().Header.Get(echo.HeaderContentType)
			if ct == "" {
				l.Warn("content_type_missing", "status", http.StatusUnsupportedMediaType)
				return echo.NewHTTPError(http.StatusUnsupportedMediaType, msg)
			}

			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || !strings.EqualFold(mt, mediaType) {
				l.Warn("content_type_invalid", "status", http.StatusUnsupportedMediaType, "content_type", ct)
				return echo.NewHTTPError(http.StatusUnsupportedMediaType, msg)
			}
			return next(c)
		}
	}
}

func RequireJSON() echo.MiddlewareFunc {
	return Require(echo.MIMEApplicationJSON)
}
