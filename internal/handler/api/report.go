package api

import (
	"errors"
	"net/http"
	"time"

	resdto "vialmedia/internal/handler/dto/response"
	"vialmedia/internal/handler/httperr"
	"vialmedia/internal/usecase"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

type ReportHandler struct {
	reportQueries usecase.ReportQueries
}

func NewReportHandler(reportQueries usecase.ReportQueries) *ReportHandler {
	return &ReportHandler{reportQueries: reportQueries}
}

// @Summary Occupancy report
// @Description Revenue allocated to the window, aggregated by the requested dimension.
// @Tags reports
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD); omit to open the window at the rental's start"
// @Param to query string false "Window end (YYYY-MM-DD); omit to open the window at the rental's end"
// @Param dimension query string false "vendor, client, support, city or status" default(vendor)
// @Success 200 {object} resdto.OccupancyReportResponse
// @Failure 400 {object} httperr.Response
// @Router /reports/occupancy [get]
func (h *ReportHandler) Occupancy(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date", nil)
			return
		}
		to = parsed
	}

	dimension := c.DefaultQuery("dimension", string(usecase.DimensionVendor))
	dim, err := usecase.ParseReportDimension(dimension)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid report dimension", nil)
		return
	}

	report, err := h.reportQueries.Occupancy(c.Request.Context(), from, to, dim)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDateRange):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Window end precedes window start", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromOccupancyReport(report))
}

// @Summary Active rental date range
// @Description The earliest start and latest end across active rentals.
// @Tags reports
// @Produce json
// @Success 200 {object} resdto.DateRangeResponse
// @Router /reports/occupancy/date-range [get]
func (h *ReportHandler) DateRange(c *gin.Context) {
	dateRange, err := h.reportQueries.ActiveDateRange(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDateRange(dateRange))
}
