package handlers

import (
	"net/http"

	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/gin-gonic/gin"
)

// unitHandler handles HTTP requests related to unit systems and unit conversion.
type unitHandler struct {
	unitService      portssvc.UnitSvc
	converterService portssvc.UnitConverterSvc
	defaultLanguage  string
}

func newUnitHandler(us portssvc.UnitSvc, cs portssvc.UnitConverterSvc, defaultLanguage string) *unitHandler {
	return &unitHandler{
		unitService:      us,
		converterService: cs,
		defaultLanguage:  defaultLanguage,
	}
}

// registerUnitRoutes registers the unit registry routes. convertMW guards
// the conversion endpoint only.
func registerUnitRoutes(rg *gin.RouterGroup, us portssvc.UnitSvc, cs portssvc.UnitConverterSvc, defaultLanguage string, convertMW ...gin.HandlerFunc) {
	h := newUnitHandler(us, cs, defaultLanguage)

	unitsGroup := rg.Group("/units")
	{
		unitsGroup.GET("", h.listSystems)
		unitsGroup.Group("", convertMW...).POST("/convert", h.convert)
		unitsGroup.GET("/:system", h.getSystem)
		unitsGroup.GET("/:system/dimensions", h.listDimensions)
		unitsGroup.GET("/:system/units", h.listUnits)
		unitsGroup.GET("/:system/units/:unit", h.getUnit)
		unitsGroup.GET("/:system/units/:unit/compatible", h.compatibleUnits)
	}
}

// requestLanguage picks the language of localized strings: the language
// query parameter, then Accept-Language, then fallback.
func requestLanguage(c *gin.Context, fallback string) string {
	if lang := c.Query("language"); lang != "" {
		return lang
	}
	if lang := c.GetHeader("Accept-Language"); lang != "" {
		return lang
	}
	return fallback
}

// unitQuery binds the query parameters shared by the unit lookups.
func (h *unitHandler) unitQuery(c *gin.Context) (domain.UnitQuery, dto.UnitQueryParams, bool) {
	var params dto.UnitQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return domain.UnitQuery{}, params, false
	}
	return domain.UnitQuery{
		System: c.Param("system"),
		Viewer: middleware.UserID(c),
		Key:    params.Key,
		Lang:   requestLanguage(c, h.defaultLanguage),
	}, params, true
}

// listSystems godoc
// @Summary List unit systems
// @Tags units
// @Produce json
// @Success 200 {array} domain.UnitSystemInfo
// @Router /units [get]
func (h *unitHandler) listSystems(c *gin.Context) {
	c.JSON(http.StatusOK, h.unitService.ListSystems(c.Request.Context()))
}

// getSystem godoc
// @Summary Get a unit system
// @Description Returns a unit system with the base unit of each base dimension.
// @Tags units
// @Produce json
// @Param system path string true "Unit system (SI, US, imperial...)"
// @Success 200 {object} domain.UnitSystemInfo
// @Failure 404 {object} map[string]string "Unknown unit system"
// @Router /units/{system} [get]
func (h *unitHandler) getSystem(c *gin.Context) {
	sys, err := h.unitService.GetSystem(c.Request.Context(), c.Param("system"))
	if err != nil {
		respondError(c, err, "Failed to retrieve unit system")
		return
	}
	c.JSON(http.StatusOK, sys)
}

// listDimensions godoc
// @Summary List dimensions
// @Description Lists the dimension families of a unit system with their readable dimensionality and base unit.
// @Tags units
// @Produce json
// @Param system path string true "Unit system"
// @Param key query string false "Custom unit key"
// @Param language query string false "Language of dimension names"
// @Param ordering query string false "Sort field, '-' prefixed for descending"
// @Success 200 {array} domain.DimensionInfo
// @Failure 404 {object} map[string]string "Unknown unit system"
// @Router /units/{system}/dimensions [get]
func (h *unitHandler) listDimensions(c *gin.Context) {
	q, params, ok := h.unitQuery(c)
	if !ok {
		return
	}
	dims, err := h.unitService.ListDimensions(c.Request.Context(), q, params.Ordering)
	if err != nil {
		respondError(c, err, "Failed to list dimensions")
		return
	}
	c.JSON(http.StatusOK, dims)
}

// listUnits godoc
// @Summary List units
// @Description Lists the units of a system, built-in and custom, optionally restricted to a dimension.
// @Tags units
// @Produce json
// @Param system path string true "Unit system"
// @Param dimension query string false "Dimension code ([length] or length)"
// @Param key query string false "Custom unit key"
// @Param language query string false "Language of dimension names"
// @Success 200 {array} domain.UnitInfo
// @Failure 404 {object} map[string]string "Unknown unit system or dimension"
// @Router /units/{system}/units [get]
func (h *unitHandler) listUnits(c *gin.Context) {
	q, params, ok := h.unitQuery(c)
	if !ok {
		return
	}
	list, err := h.unitService.ListUnits(c.Request.Context(), q, params.Dimension)
	if err != nil {
		respondError(c, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, list)
}

// getUnit godoc
// @Summary Get a unit
// @Tags units
// @Produce json
// @Param system path string true "Unit system"
// @Param unit path string true "Unit code, symbol or alias"
// @Param key query string false "Custom unit key"
// @Param language query string false "Language of dimension names"
// @Success 200 {object} domain.UnitInfo
// @Failure 404 {object} map[string]string "Unknown unit"
// @Router /units/{system}/units/{unit} [get]
func (h *unitHandler) getUnit(c *gin.Context) {
	q, _, ok := h.unitQuery(c)
	if !ok {
		return
	}
	u, err := h.unitService.GetUnit(c.Request.Context(), q, c.Param("unit"))
	if err != nil {
		respondError(c, err, "Failed to retrieve unit")
		return
	}
	c.JSON(http.StatusOK, u)
}

// compatibleUnits godoc
// @Summary List compatible units
// @Description Lists the units sharing the dimensionality of a unit.
// @Tags units
// @Produce json
// @Param system path string true "Unit system"
// @Param unit path string true "Unit code, symbol or alias"
// @Param key query string false "Custom unit key"
// @Success 200 {array} domain.UnitInfo
// @Failure 404 {object} map[string]string "Unknown unit"
// @Router /units/{system}/units/{unit}/compatible [get]
func (h *unitHandler) compatibleUnits(c *gin.Context) {
	q, _, ok := h.unitQuery(c)
	if !ok {
		return
	}
	list, err := h.unitService.CompatibleUnits(c.Request.Context(), q, c.Param("unit"))
	if err != nil {
		respondError(c, err, "Failed to list compatible units")
		return
	}
	c.JSON(http.StatusOK, list)
}

// convert godoc
// @Summary Convert quantities
// @Description Converts quantities to a base unit. With batch_id and eob false, the quantities are appended to the batch and its status is returned.
// @Tags units
// @Accept json
// @Produce json
// @Param request body dto.ConvertUnitsRequest true "Quantities"
// @Success 200 {object} domain.UnitConversionResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Batch or base unit not found"
// @Router /units/convert [post]
func (h *unitHandler) convert(c *gin.Context) {
	var req dto.ConvertUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.converterService.Convert(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to convert quantities")
		return
	}
	if !batch.Status(res.Status).Finished() {
		c.JSON(http.StatusOK, dto.BatchStatusResponse{ID: res.ID, Status: res.Status})
		return
	}
	c.JSON(http.StatusOK, res)
}
