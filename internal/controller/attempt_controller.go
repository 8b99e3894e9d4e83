package controller

import (
	"test_portal_backend/internal/service"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
	RankingService *service.RankingService
}

func NewAttemptController(attemptService *service.AttemptService, rankingService *service.RankingService) *AttemptController {
	return &AttemptController{
		AttemptService: attemptService,
		RankingService: rankingService,
	}
}

// SubmitAttempt godoc
// @Summary Submit a test attempt
// @Description Grades the submitted answers and records the attempt. Only the first attempt per test counts for the rankings.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAttemptRequest true "Submitted answers"
// @Success 201 {object} service.AttemptResponse
// @Failure 400 {object} util.ErrorBody "Malformed submission or implausible timing"
// @Failure 403 {object} util.ErrorBody "Test window closed"
// @Failure 404 {object} util.ErrorBody
// @Failure 409 {object} util.ErrorBody "Concurrent write conflict"
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AttemptService.Submit(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// MyAttempts godoc
// @Summary List the caller's attempts
// @Description Newest first, each with the per-question breakdown
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} service.AttemptResponse
// @Router /api/attempts/my-attempts [get]
func (c *AttemptController) MyAttempts(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}

	attempts, err := c.AttemptService.ListMyAttempts(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// TestRankings godoc
// @Summary Rankings for a test
// @Description First attempts only, ordered by marks then time taken, with dense 1-based ranks
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param testId path int true "Test ID"
// @Success 200 {array} service.RankingEntry
// @Failure 404 {object} util.ErrorBody
// @Router /api/attempts/test/{testId} [get]
func (c *AttemptController) TestRankings(ctx *gin.Context) {
	testID, ok := pathID(ctx, "testId")
	if !ok {
		return
	}

	rankings, err := c.RankingService.Rankings(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rankings)
}
