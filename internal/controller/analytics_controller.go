package controller

import (
	"test_portal_backend/internal/service"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// TestAnalytics godoc
// @Summary Aggregated figures for a test
// @Description Participant count, average marks, total attempts and the full ranking table
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Param testId path int true "Test ID"
// @Success 200 {object} service.TestAnalytics
// @Failure 404 {object} util.ErrorBody
// @Router /api/analytics/test/{testId} [get]
func (c *AnalyticsController) TestAnalytics(ctx *gin.Context) {
	testID, ok := pathID(ctx, "testId")
	if !ok {
		return
	}

	analytics, err := c.AnalyticsService.TestAnalytics(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
