package http

import (
	"strings"

	"disclosure-intake/internal/domain/submission"

	"github.com/labstack/echo/v4"
)

const HeaderSessionID = "X-Session-Id"

// ---- helpers ----

func clientMeta(c echo.Context) submission.ClientMeta {
	return submission.ClientMeta{IPAddress: c.RealIP(), UserAgent: c.Request().UserAgent()}
}

// sessionID prefers the header; body is the fallback for plain form posts.
func sessionID(c echo.Context, fromBody string) string {
	if v := strings.TrimSpace(c.Request().Header.Get(HeaderSessionID)); v != "" {
		return v
	}
	return strings.TrimSpace(fromBody)
}
