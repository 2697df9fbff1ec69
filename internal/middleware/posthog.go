package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/geocurrency/internal/utils"
	"github.com/gin-gonic/gin"
)

// anonymousDistinctID groups the events of callers without a token.
const anonymousDistinctID = "anonymous"

// PosthogMiddleware tracks successful conversion and calculation requests.
// Events are named after the route ("/api/v1/rates/convert" -> "rates_convert").
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		eventName := conversionEventName(c.FullPath())
		if eventName == "" {
			return
		}

		distinctID, ok := GetUserIDFromContext(c)
		if !ok {
			distinctID = anonymousDistinctID
		}
		ev := utils.AnalyticsEvent{
			DistinctID: distinctID,
			Name:       eventName,
			Properties: map[string]any{
				"method":      c.Request.Method,
				"status_code": c.Writer.Status(),
			},
		}
		if system := c.Param("system"); system != "" {
			ev.Properties["unit_system"] = system
		}
		posthogClient.Capture(ev)
	}
}

// conversionEventName maps a route template to its event name, or "" when
// the route is not tracked.
func conversionEventName(fullPath string) string {
	route := strings.TrimPrefix(fullPath, "/api/v1/")
	switch {
	case route == "rates/convert", route == "units/convert":
		return strings.ReplaceAll(route, "/", "_")
	case strings.HasSuffix(route, "/formulas/calculate"):
		return "formulas_calculate"
	case strings.HasSuffix(route, "/formulas/validate"):
		return "formulas_validate"
	}
	return ""
}
