package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/analytics"
	"github.com/iliyamo/hotel-operations/internal/billing"
)

// AnalyticsHandler serves the occupancy and revenue report.
type AnalyticsHandler struct {
	Reporter *analytics.Reporter
}

// NewAnalyticsHandler constructs an AnalyticsHandler. The reporter
// must be non-nil.
func NewAnalyticsHandler(reporter *analytics.Reporter) *AnalyticsHandler {
	if reporter == nil {
		panic("nil reporter passed to NewAnalyticsHandler")
	}
	return &AnalyticsHandler{Reporter: reporter}
}

// GetReport handles GET /v1/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds are optional; omitting both reports over all stored
// reservations.
func (h *AnalyticsHandler) GetReport(c echo.Context) error {
	var from, to *time.Time
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		from = &t
	}
	if raw := strings.TrimSpace(c.QueryParam("to")); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		to = &t
	}

	report, err := h.Reporter.Report(c.Request().Context(), from, to)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "window start is after window end"})
		}
		if errors.Is(err, billing.ErrInvalidStay) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "a reservation in the window has an invalid stay"})
		}
		log.Printf("analytics: report failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, report)
}
