package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/gin-gonic/gin"
)

// catalogHandler serves the country and currency reference catalog.
type catalogHandler struct {
	catalogService portssvc.CatalogSvc
}

func registerCatalogRoutes(rg *gin.RouterGroup, cs portssvc.CatalogSvc) {
	h := &catalogHandler{catalogService: cs}

	countries := rg.Group("/countries")
	{
		countries.GET("", h.listCountries)
		countries.GET("/colors", h.countriesByColor)
		countries.GET("/:alpha2", h.getCountry)
		countries.GET("/:alpha2/currencies", h.countryCurrencies)
		countries.GET("/:alpha2/timezones", h.countryTimezones)
	}

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrency)
		currencies.GET("/:code/countries", h.currencyCountries)
	}
}

// listCountries godoc
// @Summary List countries
// @Tags catalog
// @Produce json
// @Param search query string false "Substring of the name or codes"
// @Param ordering query string false "name, alpha_2, alpha_3 or numeric, '-' prefixed for descending"
// @Success 200 {array} catalog.Country
// @Router /countries [get]
func (h *catalogHandler) listCountries(c *gin.Context) {
	var q dto.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.catalogService.ListCountries(c.Request.Context(), q.Search, q.Ordering))
}

// getCountry godoc
// @Summary Get a country
// @Tags catalog
// @Produce json
// @Param alpha2 path string true "ISO-3166 alpha-2 code"
// @Success 200 {object} catalog.Country
// @Failure 404 {object} map[string]string "Unknown country"
// @Router /countries/{alpha2} [get]
func (h *catalogHandler) getCountry(c *gin.Context) {
	country, err := h.catalogService.GetCountry(c.Request.Context(), c.Param("alpha2"))
	if err != nil {
		respondError(c, err, "Failed to retrieve country")
		return
	}
	c.JSON(http.StatusOK, country)
}

// countryCurrencies godoc
// @Summary List the currencies of a country
// @Tags catalog
// @Produce json
// @Param alpha2 path string true "ISO-3166 alpha-2 code"
// @Success 200 {array} catalog.Currency
// @Failure 404 {object} map[string]string "Unknown country"
// @Router /countries/{alpha2}/currencies [get]
func (h *catalogHandler) countryCurrencies(c *gin.Context) {
	list, err := h.catalogService.CountryCurrencies(c.Request.Context(), c.Param("alpha2"))
	if err != nil {
		respondError(c, err, "Failed to list country currencies")
		return
	}
	c.JSON(http.StatusOK, list)
}

// countryTimezones godoc
// @Summary List the timezones of a country
// @Description Returns the timezones of a country with their current offset and local time.
// @Tags catalog
// @Produce json
// @Param alpha2 path string true "ISO-3166 alpha-2 code"
// @Success 200 {array} catalog.Timezone
// @Failure 404 {object} map[string]string "Unknown country"
// @Router /countries/{alpha2}/timezones [get]
func (h *catalogHandler) countryTimezones(c *gin.Context) {
	list, err := h.catalogService.CountryTimezones(c.Request.Context(), c.Param("alpha2"))
	if err != nil {
		respondError(c, err, "Failed to list country timezones")
		return
	}
	c.JSON(http.StatusOK, list)
}

// countriesByColor godoc
// @Summary Find countries by flag colour
// @Tags catalog
// @Produce json
// @Param color query string true "Hex colour (#RRGGBB)"
// @Param proximity query number false "Maximum CIE Lab distance (0-100)"
// @Success 200 {array} catalog.Country
// @Failure 400 {object} map[string]string "Invalid colour"
// @Router /countries/colors [get]
func (h *catalogHandler) countriesByColor(c *gin.Context) {
	var q dto.ColorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	list, err := h.catalogService.CountriesByColor(c.Request.Context(), q.Color, q.Proximity)
	if err != nil {
		respondError(c, err, "Failed to find countries by colour")
		return
	}
	c.JSON(http.StatusOK, list)
}

// listCurrencies godoc
// @Summary List currencies
// @Tags catalog
// @Produce json
// @Param search query string false "Substring of the name or code"
// @Param ordering query string false "name, code or numeric, '-' prefixed for descending"
// @Success 200 {array} catalog.Currency
// @Router /currencies [get]
func (h *catalogHandler) listCurrencies(c *gin.Context) {
	var q dto.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.catalogService.ListCurrencies(c.Request.Context(), q.Search, q.Ordering))
}

// getCurrency godoc
// @Summary Get a currency
// @Tags catalog
// @Produce json
// @Param code path string true "ISO-4217 code"
// @Success 200 {object} catalog.Currency
// @Failure 404 {object} map[string]string "Unknown currency"
// @Router /currencies/{code} [get]
func (h *catalogHandler) getCurrency(c *gin.Context) {
	cur, err := h.catalogService.GetCurrency(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, cur)
}

// currencyCountries godoc
// @Summary List the countries using a currency
// @Tags catalog
// @Produce json
// @Param code path string true "ISO-4217 code"
// @Success 200 {array} catalog.Country
// @Failure 404 {object} map[string]string "Unknown currency"
// @Router /currencies/{code}/countries [get]
func (h *catalogHandler) currencyCountries(c *gin.Context) {
	list, err := h.catalogService.CurrencyCountries(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to list currency countries")
		return
	}
	c.JSON(http.StatusOK, list)
}
