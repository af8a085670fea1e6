package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the caller's user id injected by the Auth middleware
// and performs a fast-fail check before any service call: a missing id means
// the middleware did not run or the token carried no subject, and the
// request must not reach the handler body.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
