package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/carscope/models"
	"github.com/use-agent/carscope/scraper"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports browser session utilisation and degrades status when > 80% of
// the session budget is in use.
func Health(sc *scraper.Scraper, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := sc.ActiveSessions()
		max := sc.MaxSessions()

		status := "healthy"
		if max > 0 && active > int(float64(max)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         status,
			Uptime:         time.Since(startTime).Round(time.Second).String(),
			ActiveSessions: active,
			Version:        "0.1.0",
		})
	}
}
