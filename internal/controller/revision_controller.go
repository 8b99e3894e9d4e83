package controller

import (
	"strconv"
	"test_portal_backend/internal/service"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RevisionController struct {
	RevisionService *service.RevisionService
}

func NewRevisionController(revisionService *service.RevisionService) *RevisionController {
	return &RevisionController{RevisionService: revisionService}
}

// MarkRevision godoc
// @Summary Mark a question for revision
// @Description Idempotent, marking the same question twice is not an error
// @Tags revisions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RevisionRequest true "Question to mark"
// @Success 201 {object} model.RevisionMark
// @Failure 404 {object} util.ErrorBody
// @Router /api/revisions [post]
func (c *RevisionController) MarkRevision(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}

	var req service.RevisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mark, err := c.RevisionService.Mark(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, mark)
}

// ListRevisions godoc
// @Summary List the caller's revision marks
// @Description Each mark carries the question content, including the answer key and explanation
// @Tags revisions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} service.RevisionResponse
// @Router /api/revisions [get]
func (c *RevisionController) ListRevisions(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}

	revisions, err := c.RevisionService.List(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, revisions)
}

// UnmarkRevision godoc
// @Summary Remove a revision mark
// @Tags revisions
// @Produce json
// @Security ApiKeyAuth
// @Param test_id query int true "Test ID"
// @Param question_id query int true "Question ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorBody
// @Router /api/revisions [delete]
func (c *RevisionController) UnmarkRevision(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}

	testID, err := strconv.ParseUint(ctx.Query("test_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid test_id")
		return
	}
	questionID, err := strconv.ParseUint(ctx.Query("question_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question_id")
		return
	}

	if err := c.RevisionService.Unmark(claims.UserID, uint(testID), uint(questionID)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
