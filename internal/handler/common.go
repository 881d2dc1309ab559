package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming helpers
	"time"    // time parses stay dates

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) { // begin getUserID helper
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) { // perform type switch on the value
	case uint64: // when already uint64
		return t, nil // return directly
	case int: // when stored as int
		return uint64(t), nil // convert to uint64
	case int64: // when stored as int64
		return uint64(t), nil // convert to uint64
	case float64: // when stored as float64
		return uint64(t), nil // convert to uint64
	case string: // when stored as string
		if n, err := strconv.ParseUint(t, 10, 64); err == nil { // parse string to uint64
			return n, nil // return parsed number
		}
	} // end type switch
	return 0, errors.New("invalid user_id in context") // return error if value is missing or invalid
}

// parseID parses a positive numeric path parameter
func parseID(c echo.Context, name string) (uint64, bool) { // begin parseID helper
	id, err := strconv.ParseUint(c.Param(name), 10, 64) // parse the raw parameter
	if err != nil || id == 0 {                          // zero and non-numeric ids are invalid
		return 0, false // signal failure to the caller
	}
	return id, true // return the parsed id
}

// parseDate parses a stay date in either date-only or RFC3339 form.
// Date-only values are anchored at midnight UTC.
func parseDate(raw string) (time.Time, bool) { // begin parseDate helper
	raw = strings.TrimSpace(raw) // tolerate surrounding whitespace
	if raw == "" {               // empty input is invalid
		return time.Time{}, false // signal failure
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil { // try date-only first
		return t.UTC(), true // anchor at midnight UTC
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil { // fall back to full timestamps
		return t.UTC(), true // normalize to UTC
	}
	return time.Time{}, false // neither layout matched
}
