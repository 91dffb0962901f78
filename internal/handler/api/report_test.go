//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vialmedia/internal/handler/api"
	"vialmedia/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockReportQueries struct {
	mock.Mock
}

func (m *mockReportQueries) Occupancy(ctx context.Context, from, to time.Time, dimension usecase.ReportDimension) (*usecase.OccupancyReport, error) {
	args := m.Called(ctx, from, to, dimension)
	if r := args.Get(0); r != nil {
		return r.(*usecase.OccupancyReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportQueries) ActiveDateRange(ctx context.Context) (*usecase.DateRange, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.(*usecase.DateRange), args.Error(1)
	}
	return nil, args.Error(1)
}

type ReportHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	queries *mockReportQueries
}

func (s *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.queries = new(mockReportQueries)
	handler := api.NewReportHandler(s.queries)

	s.router.GET("/api/reports/occupancy", handler.Occupancy)
	s.router.GET("/api/reports/occupancy/date-range", handler.DateRange)
}

func TestReportHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}

func (s *ReportHandlerTestSuite) get(url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ReportHandlerTestSuite) TestOccupancyDefaultsToVendorDimension() {
	s.queries.On("Occupancy", mock.Anything, mock.Anything, mock.Anything, usecase.DimensionVendor).
		Return(&usecase.OccupancyReport{
			From:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			Dimension: usecase.DimensionVendor,
			Buckets:   []usecase.Bucket{{Key: "María", Amount: 1240, Count: 2}},
			Total:     1240,
		}, nil)

	rec := s.get("/api/reports/occupancy?from=2025-01-01&to=2025-01-31")

	s.Equal(http.StatusOK, rec.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("vendor", body["dimension"])
	s.EqualValues(1240, body["total"])
}

func (s *ReportHandlerTestSuite) TestOccupancyWindowIsOptional() {
	s.queries.On("Occupancy", mock.Anything, time.Time{}, time.Time{}, usecase.DimensionVendor).
		Return(&usecase.OccupancyReport{
			Dimension: usecase.DimensionVendor,
			Buckets:   []usecase.Bucket{{Key: "María", Amount: 7200, Count: 1}},
			Total:     7200,
		}, nil)

	rec := s.get("/api/reports/occupancy")

	s.Equal(http.StatusOK, rec.Code)
	s.queries.AssertExpectations(s.T())
}

func (s *ReportHandlerTestSuite) TestOccupancyRejectsMalformedDate() {
	rec := s.get("/api/reports/occupancy?from=01-2025-31")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ReportHandlerTestSuite) TestOccupancyRejectsUnknownDimension() {
	rec := s.get("/api/reports/occupancy?from=2025-01-01&to=2025-01-31&dimension=region")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ReportHandlerTestSuite) TestOccupancyInvertedWindowIs400() {
	s.queries.On("Occupancy", mock.Anything, mock.Anything, mock.Anything, usecase.DimensionVendor).
		Return(nil, usecase.ErrInvalidDateRange)

	rec := s.get("/api/reports/occupancy?from=2025-01-31&to=2025-01-01")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ReportHandlerTestSuite) TestDateRange() {
	s.queries.On("ActiveDateRange", mock.Anything).
		Return(&usecase.DateRange{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		}, nil)

	rec := s.get("/api/reports/occupancy/date-range")

	s.Equal(http.StatusOK, rec.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("2025-01-01", body["start"])
	s.Equal("2025-12-31", body["end"])
}
