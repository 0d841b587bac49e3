package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/service"
	"github.com/Skotchmaster/shopcarts/internal/transport"
)

// ErrorHandler renders every error as {"status", "error", "message"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = messageOf(he)
	}

	body := transport.ErrorResponse{
		Status:  code,
		Error:   http.StatusText(code),
		Message: msg,
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}

func messageOf(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case nil:
		return http.StatusText(he.Code)
	case string:
		return m
	case error:
		return m.Error()
	default:
		return fmt.Sprint(m)
	}
}

// detail strips the "kind: " prefix the service puts in front of messages.
func detail(err error, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

// fail maps a service error to its HTTP status and logs it: status >= 500 at
// error level, everything else at warn.
func fail(l *slog.Logger, event string, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, service.ErrValidation):
		he = echo.NewHTTPError(http.StatusBadRequest, detail(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		he = echo.NewHTTPError(http.StatusNotFound, detail(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		he = echo.NewHTTPError(http.StatusConflict, detail(err, service.ErrConflict))
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}

	l.Warn(event, "status", he.Code, "error", err)
	return he
}
