package api

import (
	"net/http"

	resdto "vialmedia/internal/handler/dto/response"
	"vialmedia/internal/handler/httperr"
	"vialmedia/internal/usecase"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	expiryUseCase usecase.ExpiryCommands
	statusUseCase usecase.StatusCommands
}

func NewJobHandler(expiryUseCase usecase.ExpiryCommands, statusUseCase usecase.StatusCommands) *JobHandler {
	return &JobHandler{
		expiryUseCase: expiryUseCase,
		statusUseCase: statusUseCase,
	}
}

// @Summary Run expiry scan
// @Description Create expiry notifications for rentals ending within the coming week.
// @Tags jobs
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} resdto.ScanResponse
// @Failure 401 {object} map[string]string
// @Router /jobs/expiry-scan [post]
func (h *JobHandler) RunExpiryScan(c *gin.Context) {
	result, err := h.expiryUseCase.Scan(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScanResult(result))
}

// @Summary Run support status sweep
// @Description Recompute every support's status from its active rentals.
// @Tags jobs
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} resdto.SweepResponse
// @Failure 401 {object} map[string]string
// @Router /jobs/support-status-sweep [post]
func (h *JobHandler) RunStatusSweep(c *gin.Context) {
	result, err := h.statusUseCase.Sweep(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}
