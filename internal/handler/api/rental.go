package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "vialmedia/internal/handler/dto/request"
	resdto "vialmedia/internal/handler/dto/response"
	"vialmedia/internal/handler/httperr"
	"vialmedia/internal/handler/middleware"
	"vialmedia/internal/usecase"
	"vialmedia/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RentalHandler struct {
	convertUseCase usecase.ConvertCommands
	rentalQueries  usecase.RentalQueries
}

func NewRentalHandler(convertUseCase usecase.ConvertCommands, rentalQueries usecase.RentalQueries) *RentalHandler {
	return &RentalHandler{
		convertUseCase: convertUseCase,
		rentalQueries:  rentalQueries,
	}
}

// @Summary Convert quotation to rentals
// @Description Generate rentals from a quotation's support lines. Re-running cancels the previous generation first.
// @Tags rentals
// @Accept json
// @Produce json
// @Param quotationId path string true "Quotation ID"
// @Param dry_run query bool false "Evaluate without writing"
// @Param request body reqdto.DryRunConvertRequest false "Lines to evaluate on a dry run"
// @Success 201 {object} resdto.ConvertResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /rentals/from-quotation/{quotationId} [post]
func (h *RentalHandler) ConvertQuotation(c *gin.Context) {
	quotationID, err := uuid.Parse(c.Param("quotationId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quotation ID format", nil)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	dryRun := c.Query("dry_run") == "true"

	var result *usecase.ConvertResult
	var ucErr error

	if dryRun {
		var req reqdto.DryRunConvertRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil && !errors.Is(bindErr, io.EOF) {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
			return
		}
		if len(req.Lines) > 0 {
			result, ucErr = h.convertUseCase.DryRunWithLines(c.Request.Context(), quotationID, req.Lines)
		} else {
			result, ucErr = h.convertUseCase.ConvertQuotation(c.Request.Context(), quotationID, identity.UserID, true)
		}
	} else {
		result, ucErr = h.convertUseCase.ConvertQuotation(c.Request.Context(), quotationID, identity.UserID, false)
	}

	if ucErr != nil {
		h.writeConvertError(c, ucErr)
		return
	}

	status := http.StatusCreated
	if result.DryRun {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromConvertResult(result))
}

// @Summary Preview conversion
// @Description The rentals a conversion would create, with any blocking conflicts, computed from stored lines.
// @Tags rentals
// @Produce json
// @Param quotationId path string true "Quotation ID"
// @Success 200 {object} resdto.PreviewResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /rentals/from-quotation/{quotationId}/preview [get]
func (h *RentalHandler) PreviewConversion(c *gin.Context) {
	quotationID, err := uuid.Parse(c.Param("quotationId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quotation ID format", nil)
		return
	}

	preview, err := h.convertUseCase.PreviewConversion(c.Request.Context(), quotationID)
	if err != nil {
		h.writeConvertError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPreview(preview))
}

// @Summary List rentals
// @Tags rentals
// @Produce json
// @Param status query string false "Filter by status (active or cancelled)"
// @Param support_code query string false "Filter by support code"
// @Success 200 {array} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Router /rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	rentals, err := h.rentalQueries.List(c.Request.Context(), c.Query("status"), c.Query("support_code"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatusFilter):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status filter", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromRentals(rentals))
}

// @Summary List rentals of a quotation
// @Tags rentals
// @Produce json
// @Param quotationId path string true "Quotation ID"
// @Success 200 {array} resdto.RentalResponse
// @Router /rentals/by-quotation/{quotationId} [get]
func (h *RentalHandler) ListByQuotation(c *gin.Context) {
	quotationID, err := uuid.Parse(c.Param("quotationId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quotation ID format", nil)
		return
	}

	rentals, err := h.rentalQueries.ListByQuotation(c.Request.Context(), quotationID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRentals(rentals))
}

// @Summary Rental history
// @Tags rentals
// @Produce json
// @Param id path string true "Rental ID"
// @Success 200 {array} resdto.HistoryEventResponse
// @Failure 404 {object} httperr.Response
// @Router /rentals/{id}/history [get]
func (h *RentalHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rental ID format", nil)
		return
	}

	events, err := h.rentalQueries.GetHistory(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRentalNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Rental not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromHistory(events))
}

// @Summary Cancel rental
// @Tags rentals
// @Accept json
// @Produce json
// @Param id path string true "Rental ID"
// @Param request body reqdto.CancelRentalRequest true "Cancellation reason"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/cancel [post]
func (h *RentalHandler) CancelRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rental ID format", nil)
		return
	}

	var req reqdto.CancelRentalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	identity, _ := middleware.GetIdentity(c)

	if err := h.convertUseCase.CancelRental(c.Request.Context(), id, identity.UserID, req.Reason); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRentalNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Rental not found", nil)
		case errors.Is(err, usecase.ErrRentalAlreadyCancelled):
			httperr.AbortWithError(c, http.StatusConflict, err, "Rental is already cancelled", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RentalHandler) writeConvertError(c *gin.Context, err error) {
	var overlap *usecase.OverlapConflictError
	var notFound *usecase.SupportNotFoundError

	switch {
	case errors.Is(err, usecase.ErrQuotationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Quotation not found", nil)
	case errors.As(err, &notFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Support not found", gin.H{
			"support_code": notFound.SupportCode,
		})
	case errors.As(err, &overlap):
		httperr.AbortWithError(c, http.StatusConflict, err, "Rental period overlaps an existing rental", gin.H{
			"support_code": overlap.SupportCode,
			"from":         overlap.Start.Format("2006-01-02"),
			"to":           overlap.End.Format("2006-01-02"),
		})
	case errors.Is(err, usecase.ErrNoRentalLines):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Quotation has no support rental lines", nil)
	case errors.Is(err, usecase.ErrAllLinesInvalid):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "No valid lines in request", nil)
	case errors.Is(err, shared.ErrTransactionBegin), errors.Is(err, shared.ErrMaxRetriesExceeded):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Storage temporarily unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
