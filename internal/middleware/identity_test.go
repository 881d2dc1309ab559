package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUserID(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"missing", nil, "anon"},
		{"float64 claim", float64(42), "42"},
		{"string claim", "42", "42"},
		{"empty string", "", "anon"},
		{"uint64", uint64(7), "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c := e.NewContext(req, httptest.NewRecorder())
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			if got := userID(c); got != tc.want {
				t.Errorf("userID() = %q, want %q", got, tc.want)
			}
		})
	}
}
