// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/models/dto"
	"github.com/yigit/campuscare/internal/middleware"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

// StudentService is the part of services.StudentService the controller uses
type StudentService interface {
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// StudentController handles student onboarding endpoints
type StudentController struct {
	studentService StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// Register handles student registration
// @Summary Register a new student
// @Description Creates a student, assigns the least-loaded counselor, issues an access token and mirrors the student to Stream.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student registered"
// @Failure 400 {object} dto.APIResponse "Missing or invalid field"
// @Failure 404 {object} dto.APIResponse "No counselor available"
// @Failure 409 {object} dto.APIResponse "Email or phone number already exists"
// @Failure 502 {object} dto.APIResponse{data=dto.StudentResponse} "Registered, but Stream provisioning failed"
// @Router /students/register [post]
func (c *StudentController) Register(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid request body"))
		return
	}

	student, err := c.studentService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		if student != nil {
			c.logger.Error().Err(err).Str("studentID", student.ID).Msg("Student registered but onboarding did not finish")
			middleware.HandlePartialCompletion(ctx, dto.NewStudentResponse(student), err)
			return
		}
		c.logger.Warn().Err(err).Msg("Failed to register student")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// Login handles student login
// @Summary Log a student in
// @Description Authenticates by email, or by phone number when no email is given, and returns a fresh access token.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.APIResponse "Neither email nor phone number given"
// @Failure 401 {object} dto.APIResponse "Wrong password"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/login [post]
func (c *StudentController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid request body"))
		return
	}

	student, err := c.studentService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// Me returns the authenticated student
// @Summary Current student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/me [get]
func (c *StudentController) Me(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewAuthError("authentication required"))
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}
