package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/SscSPs/geocurrency/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to rates.
type rateHandler struct {
	rateService      portssvc.RateSvcFacade
	converterService portssvc.RateConverterSvc
}

func newRateHandler(rs portssvc.RateSvcFacade, cs portssvc.RateConverterSvc) *rateHandler {
	return &rateHandler{
		rateService:      rs,
		converterService: cs,
	}
}

// registerRateRoutes registers routes related to rates. convertMW guards
// the conversion endpoint only.
func registerRateRoutes(rg *gin.RouterGroup, rs portssvc.RateSvcFacade, cs portssvc.RateConverterSvc, convertMW ...gin.HandlerFunc) {
	h := newRateHandler(rs, cs)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.listRates)
		rates.POST("", h.createRate)
		rates.POST("/bulk", h.createBulkRates)
		rates.GET("/latest", h.latestRates)
		rates.GET("/stats", h.rateStats)
		rates.Group("", convertMW...).POST("/convert", h.convert)
		rates.GET("/:id", h.getRate)
		rates.DELETE("/:id", h.deleteRate)
	}
}

// listRates godoc
// @Summary List rates
// @Description Lists the rates visible to the caller: unscoped rates and the caller's own.
// @Tags rates
// @Produce json
// @Param user query bool false "Only the caller's rates"
// @Param key query string false "Caller rates under this key"
// @Param key_or_null query string false "Rates without key or under this key"
// @Param key_isnull query bool false "Only rates without key"
// @Param currency query string false "Currency code"
// @Param base_currency query string false "Base currency code"
// @Param value_date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param value query string false "Exact value"
// @Param lower_bound query string false "Minimum value"
// @Param higher_bound query string false "Maximum value"
// @Param ordering query string false "Sort field, '-' prefixed for descending" default(-value_date)
// @Param limit query int false "Page size" default(100)
// @Param page_token query string false "Token of the next page"
// @Success 200 {object} dto.ListRatesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list rates"
// @Router /rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	var q dto.ListRatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := q.ToRateFilter(middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Invalid rate filter")
		return
	}
	if q.PageToken != "" {
		filter.Offset, err = pagination.DecodeOffsetToken(q.PageToken, q.Ordering)
		if err != nil {
			respondError(c, apperrors.NewValidationError(err.Error()), "Invalid page token")
			return
		}
	}

	page, err := h.rateService.ListRates(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list rates")
		return
	}
	resp := dto.ListRatesResponse{Rates: dto.ToListRateResponse(page.Rates)}
	if page.HasMore {
		resp.NextPageToken = pagination.EncodeOffsetToken(page.NextOffset, q.Ordering)
	}
	c.JSON(http.StatusOK, resp)
}

// getRate godoc
// @Summary Get a rate
// @Tags rates
// @Produce json
// @Param id path string true "Rate ID"
// @Success 200 {object} dto.RateResponse
// @Failure 404 {object} map[string]string "Rate not found"
// @Router /rates/{id} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	rate, err := h.rateService.GetRate(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToRateResponse(*rate))
}

// createRate godoc
// @Summary Create a rate
// @Description Stores a rate owned by the caller, along with its reverse rate.
// @Tags rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateRateRequest true "Rate"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Rate already exists"
// @Security BearerAuth
// @Router /rates [post]
func (h *rateHandler) createRate(c *gin.Context) {
	var req dto.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rate, err := h.rateService.CreateRate(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to create rate")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Rate created", slog.String("rate_id", rate.ID))
	c.JSON(http.StatusCreated, dto.ToRateResponse(*rate))
}

// createBulkRates godoc
// @Summary Create rates over a date range
// @Description Stores one rate per day from from_date to to_date, both included. Dates default to today.
// @Tags rates
// @Accept json
// @Produce json
// @Param rates body dto.BulkRateRequest true "Bulk rate"
// @Success 201 {array} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A rate of the range already exists"
// @Security BearerAuth
// @Router /rates/bulk [post]
func (h *rateHandler) createBulkRates(c *gin.Context) {
	var req dto.BulkRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rates, err := h.rateService.CreateBulkRates(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to create rates")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Bulk rates created", slog.Int("count", len(rates)))
	c.JSON(http.StatusCreated, dto.ToListRateResponse(rates))
}

// deleteRate godoc
// @Summary Delete a rate
// @Description Deletes a rate owned by the caller. The reverse rate is kept.
// @Tags rates
// @Param id path string true "Rate ID"
// @Success 204
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Rate owned by another user"
// @Failure 404 {object} map[string]string "Rate not found"
// @Security BearerAuth
// @Router /rates/{id} [delete]
func (h *rateHandler) deleteRate(c *gin.Context) {
	if err := h.rateService.DeleteRate(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err, "Failed to delete rate")
		return
	}
	c.Status(http.StatusNoContent)
}

// latestRates godoc
// @Summary Latest rates
// @Description Returns, per counterpart, the most recent rate of a currency or a base currency.
// @Tags rates
// @Produce json
// @Param currency query string false "Currency code"
// @Param base_currency query string false "Base currency code"
// @Param key query string false "Also consider the caller's rates under this key"
// @Success 200 {array} dto.RateResponse
// @Failure 400 {object} map[string]string "currency or base_currency is required"
// @Router /rates/latest [get]
func (h *rateHandler) latestRates(c *gin.Context) {
	var q dto.LatestRatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	rates, err := h.rateService.LatestRates(c.Request.Context(), q.ToDomain(middleware.UserID(c)))
	if err != nil {
		respondError(c, err, "Failed to list latest rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateResponse(rates))
}

// rateStats godoc
// @Summary Rate statistics
// @Description Aggregates count, average, min, max and standard deviation per currency pair and period.
// @Tags rates
// @Produce json
// @Param currency query string false "Currency code"
// @Param base_currency query string false "Base currency code"
// @Param key query string false "Rate key"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param period query string false "week, month or year" default(month)
// @Success 200 {array} domain.RateStat
// @Failure 400 {object} map[string]string "Invalid query"
// @Router /rates/stats [get]
func (h *rateHandler) rateStats(c *gin.Context) {
	var q dto.RateStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	query, err := q.ToDomain(middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Invalid statistics query")
		return
	}
	stats, err := h.rateService.RateStats(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to compute rate statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// convert godoc
// @Summary Convert amounts
// @Description Converts amounts to the target currency at their dates. With batch_id and eob false, the amounts are appended to the batch and its status is returned.
// @Tags rates
// @Accept json
// @Produce json
// @Param request body dto.ConvertRatesRequest true "Amounts"
// @Success 200 {object} domain.RateConversionResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Batch not found"
// @Router /rates/convert [post]
func (h *rateHandler) convert(c *gin.Context) {
	var req dto.ConvertRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.converterService.Convert(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to convert amounts")
		return
	}
	if !batch.Status(res.Status).Finished() {
		c.JSON(http.StatusOK, dto.BatchStatusResponse{ID: res.ID, Status: res.Status})
		return
	}
	c.JSON(http.StatusOK, res)
}
