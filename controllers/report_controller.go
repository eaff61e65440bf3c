package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// GetDashboardSummary handles GET /api/v1/reports/dashboard
func GetDashboardSummary(c *gin.Context) {
	summary, err := services.GetDashboardSummary(config.GetDB())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// GetSalesReport handles GET /api/v1/reports/sales?start_date=&end_date=
func GetSalesReport(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "start_date must be in YYYY-MM-DD format",
			},
		})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "end_date must be in YYYY-MM-DD format",
			},
		})
		return
	}

	// Inclusive through the end of the last day.
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	report, err := services.GetSalesReport(config.GetDB(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
