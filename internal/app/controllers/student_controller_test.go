package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/models/dto"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

type stubStudentService struct {
	student *models.Student
	err     error
	lastReg *dto.RegisterStudentRequest
}

func (s *stubStudentService) RegisterStudent(_ context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	s.lastReg = req
	return s.student, s.err
}

func (s *stubStudentService) Login(_ context.Context, _ *dto.LoginRequest) (*models.Student, error) {
	return s.student, s.err
}

func (s *stubStudentService) GetStudent(_ context.Context, id string) (*models.Student, error) {
	if s.student == nil || s.student.ID != id {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.student, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *dto.ErrorDetail       `json:"error"`
}

func newTestRouter(svc StudentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewStudentController(svc, zerolog.Nop())

	r := gin.New()
	r.POST("/register", c.Register)
	r.POST("/login", c.Login)
	r.GET("/me", func(ctx *gin.Context) {
		if id := ctx.GetHeader("X-Student"); id != "" {
			ctx.Set("studentID", id)
		}
	}, c.Me)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func sampleStudent() *models.Student {
	return &models.Student{
		ID:          "s1",
		Email:       "ada@example.com",
		PhoneNumber: "+2348012345678",
		FirstName:   "Ada",
		LastName:    "Obi",
		Password:    "$2a$04$hash",
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CounselorID: "c1",
		Color:       models.ColorTeal,
		Token:       "tok",
	}
}

func TestStudentController_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubStudentService{student: sampleStudent()}
		status, env := do(t, newTestRouter(svc), http.MethodPost, "/register",
			`{"email":"ada@example.com","phoneNumber":"08012345678","firstName":"Ada","lastName":"Obi","password":"pw"}`, nil)

		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, env.Success)
		assert.Equal(t, "s1", env.Data["id"])
		assert.Equal(t, "c1", env.Data["counselor"])
		assert.Equal(t, "tok", env.Data["token"])
		assert.NotContains(t, env.Data, "password")
		assert.Equal(t, "08012345678", svc.lastReg.PhoneNumber)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &stubStudentService{err: apperrors.ErrEmailAlreadyExists}
		status, env := do(t, newTestRouter(svc), http.MethodPost, "/register", `{"email":"a@x.com"}`, nil)

		assert.Equal(t, http.StatusConflict, status)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ConflictError", env.Error.Kind)
		assert.Equal(t, "email already exists", env.Error.Message)
	})

	t.Run("partial completion", func(t *testing.T) {
		svc := &stubStudentService{
			student: sampleStudent(),
			err:     apperrors.NewExternalServiceError("failed to provision external identity", nil),
		}
		status, env := do(t, newTestRouter(svc), http.MethodPost, "/register", `{}`, nil)

		assert.Equal(t, http.StatusBadGateway, status)
		assert.False(t, env.Success)
		assert.Equal(t, "s1", env.Data["id"])
		require.NotNil(t, env.Error)
		assert.Equal(t, "ExternalServiceError", env.Error.Kind)
	})

	t.Run("malformed body", func(t *testing.T) {
		status, env := do(t, newTestRouter(&stubStudentService{}), http.MethodPost, "/register", `{"email":`, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	})
}

func TestStudentController_Login(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		status, env := do(t, newTestRouter(&stubStudentService{student: sampleStudent()}), http.MethodPost, "/login",
			`{"email":"ada@example.com","password":"pw"}`, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "tok", env.Data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, env := do(t, newTestRouter(&stubStudentService{err: apperrors.ErrWrongPassword}), http.MethodPost, "/login",
			`{"email":"ada@example.com","password":"nope"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Nil(t, env.Data)
		assert.Equal(t, "AuthError", env.Error.Kind)
	})
}

func TestStudentController_Me(t *testing.T) {
	svc := &stubStudentService{student: sampleStudent()}
	router := newTestRouter(svc)

	status, env := do(t, router, http.MethodGet, "/me", "", map[string]string{"X-Student": "s1"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", env.Data["email"])

	status, _ = do(t, router, http.MethodGet, "/me", "", map[string]string{"X-Student": "other"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
