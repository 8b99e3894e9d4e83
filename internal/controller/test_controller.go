package controller

import (
	"strconv"
	"test_portal_backend/internal/service"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func caller(ctx *gin.Context) (*util.Claims, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return claims, true
}

// ListTests godoc
// @Summary List tests
// @Description Students get tests without answer keys, admins get everything
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} service.StudentTest
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	claims, ok := caller(ctx)
	if !ok {
		return
	}
	tests, err := c.TestService.List(claims.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTest godoc
// @Summary Get a test
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test ID"
// @Success 200 {object} service.StudentTest
// @Failure 404 {object} util.ErrorBody
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	claims, ok := caller(ctx)
	if !ok {
		return
	}
	test, err := c.TestService.Get(id, claims.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// CreateTest godoc
// @Summary Create a test
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestRequest true "Test definition"
// @Success 201 {object} model.Test
// @Failure 400 {object} util.ErrorBody
// @Router /api/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.Create(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary Update a test
// @Description Metadata may change any time; questions are frozen once the test has attempts
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test ID"
// @Param body body service.TestRequest true "Test definition"
// @Success 200 {object} model.Test
// @Failure 404 {object} util.ErrorBody
// @Failure 409 {object} util.ErrorBody "Test has attempts"
// @Router /api/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary Delete a test
// @Description Removes the test along with its questions, attempts and revision marks
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorBody
// @Router /api/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.TestService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
