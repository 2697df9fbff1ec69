package handlers

import (
	"net/http"

	"github.com/SscSPs/geocurrency/internal/core/batch"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/gin-gonic/gin"
)

// formulaHandler handles expression validation and calculation.
type formulaHandler struct {
	calculationService portssvc.CalculationSvc
}

func registerFormulaRoutes(rg *gin.RouterGroup, cs portssvc.CalculationSvc, mw ...gin.HandlerFunc) {
	h := &formulaHandler{calculationService: cs}

	formulas := rg.Group("/units/:system/formulas", mw...)
	{
		formulas.POST("/calculate", h.calculate)
		formulas.POST("/validate", h.validate)
	}
}

// calculate godoc
// @Summary Evaluate expressions
// @Description Evaluates expressions over quantities with uncertainty propagation. With batch_id and eob false, the expressions are appended to the batch and its status is returned.
// @Tags formulas
// @Accept json
// @Produce json
// @Param system path string true "Unit system"
// @Param request body dto.CalculationRequest true "Expressions"
// @Success 200 {object} domain.CalculationResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Unknown unit system or batch"
// @Router /units/{system}/formulas/calculate [post]
func (h *formulaHandler) calculate(c *gin.Context) {
	var req dto.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.calculationService.Calculate(c.Request.Context(), c.Param("system"), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to calculate expressions")
		return
	}
	if !batch.Status(res.Status).Finished() {
		c.JSON(http.StatusOK, dto.BatchStatusResponse{ID: res.ID, Status: res.Status})
		return
	}
	c.JSON(http.StatusOK, res)
}

// validate godoc
// @Summary Validate expressions
// @Description Checks syntax, operands and dimensions of expressions without evaluating them. Operand units may be dimensions such as [length].
// @Tags formulas
// @Accept json
// @Produce json
// @Param system path string true "Unit system"
// @Param request body dto.CalculationRequest true "Expressions"
// @Success 200 {object} dto.ValidationResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 406 {object} dto.ValidationResponse "Some expressions are invalid"
// @Router /units/{system}/formulas/validate [post]
func (h *formulaHandler) validate(c *gin.Context) {
	var req dto.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	errs, err := h.calculationService.Validate(c.Request.Context(), c.Param("system"), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to validate expressions")
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusNotAcceptable, dto.ValidationResponse{Valid: false, Errors: errs})
		return
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{Valid: true})
}
