package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customUnitHandler handles CRUD requests on custom units.
type customUnitHandler struct {
	customUnitService portssvc.CustomUnitSvcFacade
}

func registerCustomUnitRoutes(rg *gin.RouterGroup, cus portssvc.CustomUnitSvcFacade) {
	h := &customUnitHandler{customUnitService: cus}

	custom := rg.Group("/units/:system/custom")
	{
		custom.GET("", h.listCustomUnits)
		custom.POST("", h.createCustomUnit)
		custom.GET("/:id", h.getCustomUnit)
		custom.PUT("/:id", h.updateCustomUnit)
		custom.DELETE("/:id", h.deleteCustomUnit)
	}
}

// listCustomUnits godoc
// @Summary List custom units
// @Description Lists the caller's custom units of a system plus the anonymous ones.
// @Tags custom units
// @Produce json
// @Param system path string true "Unit system"
// @Param key query string false "Only units under this key"
// @Success 200 {array} dto.CustomUnitResponse
// @Failure 404 {object} map[string]string "Unknown unit system"
// @Router /units/{system}/custom [get]
func (h *customUnitHandler) listCustomUnits(c *gin.Context) {
	filter := domain.CustomUnitFilter{
		Viewer:     middleware.UserID(c),
		UnitSystem: c.Param("system"),
	}
	if key, ok := c.GetQuery("key"); ok {
		filter.Key = &key
	}
	list, err := h.customUnitService.ListCustomUnits(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list custom units")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCustomUnitResponse(list))
}

// getCustomUnit godoc
// @Summary Get a custom unit
// @Tags custom units
// @Produce json
// @Param system path string true "Unit system"
// @Param id path string true "Custom unit ID"
// @Success 200 {object} dto.CustomUnitResponse
// @Failure 404 {object} map[string]string "Custom unit not found"
// @Router /units/{system}/custom/{id} [get]
func (h *customUnitHandler) getCustomUnit(c *gin.Context) {
	u, err := h.customUnitService.GetCustomUnit(c.Request.Context(), c.Param("system"), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve custom unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomUnitResponse(*u))
}

// createCustomUnit godoc
// @Summary Create a custom unit
// @Description Defines a unit by a relation such as "0.2 meter". The code is slugified.
// @Tags custom units
// @Accept json
// @Produce json
// @Param system path string true "Unit system"
// @Param unit body dto.CustomUnitRequest true "Custom unit"
// @Success 201 {object} dto.CustomUnitResponse
// @Failure 400 {object} map[string]string "Invalid relation or dimensionality"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Custom unit already exists"
// @Security BearerAuth
// @Router /units/{system}/custom [post]
func (h *customUnitHandler) createCustomUnit(c *gin.Context) {
	var req dto.CustomUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.customUnitService.CreateCustomUnit(c.Request.Context(), c.Param("system"), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to create custom unit")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Custom unit created", slog.String("custom_unit_id", u.ID), slog.String("code", u.Code))
	c.JSON(http.StatusCreated, dto.ToCustomUnitResponse(*u))
}

// updateCustomUnit godoc
// @Summary Update a custom unit
// @Tags custom units
// @Accept json
// @Produce json
// @Param system path string true "Unit system"
// @Param id path string true "Custom unit ID"
// @Param unit body dto.CustomUnitRequest true "Custom unit"
// @Success 200 {object} dto.CustomUnitResponse
// @Failure 400 {object} map[string]string "Invalid relation or dimensionality"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Custom unit owned by another user"
// @Failure 404 {object} map[string]string "Custom unit not found"
// @Security BearerAuth
// @Router /units/{system}/custom/{id} [put]
func (h *customUnitHandler) updateCustomUnit(c *gin.Context) {
	var req dto.CustomUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.customUnitService.UpdateCustomUnit(c.Request.Context(), c.Param("system"), c.Param("id"), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to update custom unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomUnitResponse(*u))
}

// deleteCustomUnit godoc
// @Summary Delete a custom unit
// @Tags custom units
// @Param system path string true "Unit system"
// @Param id path string true "Custom unit ID"
// @Success 204
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Custom unit owned by another user"
// @Failure 404 {object} map[string]string "Custom unit not found"
// @Security BearerAuth
// @Router /units/{system}/custom/{id} [delete]
func (h *customUnitHandler) deleteCustomUnit(c *gin.Context) {
	if err := h.customUnitService.DeleteCustomUnit(c.Request.Context(), c.Param("system"), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err, "Failed to delete custom unit")
		return
	}
	c.Status(http.StatusNoContent)
}
