package api

import (
	"alcyxob/trainer-analytics/internal/analytics"
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultSeriesDays is the length of a volume series when no range is given.
const defaultSeriesDays = 30

// AnalyticsHandler serves period comparisons, reports and volume series.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	loc              *time.Location
	now              func() time.Time
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsHandler{analyticsService: analyticsService, loc: loc, now: time.Now}
}

// today is midnight of the current calendar day in the handler's location.
func (h *AnalyticsHandler) today() time.Time {
	y, m, d := h.now().In(h.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.loc)
}

// periodParams reads ?granularity= (default week) and ?date= (default today).
func (h *AnalyticsHandler) periodParams(c *gin.Context) (analytics.Granularity, time.Time, bool) {
	g := analytics.Week
	if raw := c.Query("granularity"); raw != "" {
		parsed, err := analytics.ParseGranularity(raw)
		if err != nil {
			respondError(c, err)
			return "", time.Time{}, false
		}
		g = parsed
	}

	ref := h.today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := domain.ParseDate(raw, h.loc)
		if err != nil {
			respondError(c, err)
			return "", time.Time{}, false
		}
		ref = parsed
	}
	return g, ref, true
}

// PeriodComparison godoc
// @Summary Compare a period's volume with the period before it
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param granularity query string false "day, week or month" default(week)
// @Param date query string false "Any date inside the period, defaults to today"
// @Param clientId query string false "Restrict to one client"
// @Success 200 {object} analytics.Comparison
// @Failure 400 {object} gin.H "Invalid input"
// @Router /analytics/period [get]
func (h *AnalyticsHandler) PeriodComparison(c *gin.Context) {
	g, ref, ok := h.periodParams(c)
	if !ok {
		return
	}
	clientID, ok := queryID(c, "clientId")
	if !ok {
		return
	}

	comparison, err := h.analyticsService.PeriodComparison(c.Request.Context(), g, ref, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// Report godoc
// @Summary Per-client volume report with fleet totals
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param granularity query string false "day, week or month" default(week)
// @Param date query string false "Any date inside the period, defaults to today"
// @Success 200 {object} analytics.Report
// @Router /analytics/report [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	g, ref, ok := h.periodParams(c)
	if !ok {
		return
	}
	report, err := h.analyticsService.Report(c.Request.Context(), g, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReport writes the report to object storage and answers with a download link.
func (h *AnalyticsHandler) ExportReport(c *gin.Context) {
	g, ref, ok := h.periodParams(c)
	if !ok {
		return
	}
	export, err := h.analyticsService.ExportReport(c.Request.Context(), g, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}

// VolumeSeries godoc
// @Summary Daily volume between two dates, zero-filled
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day, defaults to 29 days before to"
// @Param to query string false "Last day, defaults to today"
// @Param clientId query string false "Restrict to one client"
// @Success 200 {object} analytics.VolumeSeries
// @Failure 400 {object} gin.H "Invalid range"
// @Router /analytics/volume [get]
func (h *AnalyticsHandler) VolumeSeries(c *gin.Context) {
	to := h.today()
	if raw := c.Query("to"); raw != "" {
		parsed, err := domain.ParseDate(raw, h.loc)
		if err != nil {
			respondError(c, err)
			return
		}
		to = parsed
	}
	from := to.AddDate(0, 0, -(defaultSeriesDays - 1))
	if raw := c.Query("from"); raw != "" {
		parsed, err := domain.ParseDate(raw, h.loc)
		if err != nil {
			respondError(c, err)
			return
		}
		from = parsed
	}
	clientID, ok := queryID(c, "clientId")
	if !ok {
		return
	}

	series, err := h.analyticsService.VolumeSeries(c.Request.Context(), from, to, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// ExerciseHistory returns one client's per-day progression on one exercise.
func (h *AnalyticsHandler) ExerciseHistory(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	history, err := h.analyticsService.ExerciseHistory(c.Request.Context(), clientID, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
