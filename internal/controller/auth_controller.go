package controller

import (
	"strconv"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/service"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userPayload(user *model.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"mobile":    user.Mobile,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}

// Register godoc
// @Summary Register a student account
// @Description Creates a student account and returns a JWT for it
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "Registration details"
// @Success 201 {object} object "token and user"
// @Failure 400 {object} util.ErrorBody
// @Failure 409 {object} util.ErrorBody "Email already registered"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"token": token, "user": userPayload(user)})
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} object "token and user"
// @Failure 401 {object} util.ErrorBody
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"token": token, "user": userPayload(user)})
}

// ListStudents godoc
// @Summary List student accounts
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.User
// @Failure 403 {object} util.ErrorBody
// @Router /api/auth/students [get]
func (c *AuthController) ListStudents(ctx *gin.Context) {
	students, err := c.AuthService.ListStudents()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// DeleteStudent godoc
// @Summary Delete a student account
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorBody
// @Router /api/auth/students/{id} [delete]
func (c *AuthController) DeleteStudent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	if err := c.AuthService.DeleteStudent(uint(id)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
