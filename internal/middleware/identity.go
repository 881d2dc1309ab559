package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides a userID extraction function that reads the "user_id" value the
// JWTAuth middleware stores in the Echo context. When no user is authenticated
// or the value has an unexpected type, "anon" is returned.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the Echo context. JWTAuth copies the
// token's subject claim verbatim, so the value arrives as a float64 after JSON
// decoding. It returns "anon" when no user is authenticated.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return "anon"
}
