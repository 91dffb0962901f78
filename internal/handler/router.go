package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vialmedia/internal/handler/api"
	"vialmedia/internal/handler/middleware"
	"vialmedia/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, rentalHandler *api.RentalHandler, reportHandler *api.ReportHandler, jobHandler *api.JobHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, rentalHandler, reportHandler, jobHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, rentalHandler *api.RentalHandler, reportHandler *api.ReportHandler, jobHandler *api.JobHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		rentals := apiGroup.Group("/rentals")
		rentals.Use(middleware.RequireIdentity())
		{
			addRoutes(rentals, []route{
				{Method: http.MethodPost, Path: "/from-quotation/:quotationId", Handler: rentalHandler.ConvertQuotation},
				{Method: http.MethodGet, Path: "/from-quotation/:quotationId/preview", Handler: rentalHandler.PreviewConversion},
				{Method: http.MethodGet, Path: "", Handler: rentalHandler.ListRentals},
				{Method: http.MethodGet, Path: "/by-quotation/:quotationId", Handler: rentalHandler.ListByQuotation},
				{Method: http.MethodGet, Path: "/:id/history", Handler: rentalHandler.GetHistory},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: rentalHandler.CancelRental},
			})
		}

		reports := apiGroup.Group("/reports")
		reports.Use(middleware.RequireIdentity())
		{
			addRoutes(reports, []route{
				{Method: http.MethodGet, Path: "/occupancy", Handler: reportHandler.Occupancy},
				{Method: http.MethodGet, Path: "/occupancy/date-range", Handler: reportHandler.DateRange},
			})
		}

		jobs := apiGroup.Group("/jobs")
		jobs.Use(middleware.RequireCronSecret(cfg.Jobs.CronSecret))
		{
			addRoutes(jobs, []route{
				{Method: http.MethodPost, Path: "/expiry-scan", Handler: jobHandler.RunExpiryScan},
				{Method: http.MethodPost, Path: "/support-status-sweep", Handler: jobHandler.RunStatusSweep},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
