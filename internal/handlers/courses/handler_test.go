package courses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/adapter/logging"
	"gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/static/errs"
)

type mockEnrollments struct {
	getFn func(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error)
	setFn func(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error)
}

func (m *mockEnrollments) GetUserCourses(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error) {
	return m.getFn(ctx, ocid)
}

func (m *mockEnrollments) SetCourseStatus(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error) {
	return m.setFn(ctx, ocid, courseID, completed)
}

func (m *mockEnrollments) IsCompleted(ctx context.Context, ocid, courseID string) (bool, error) {
	return false, nil
}

type mockAuth struct {
	auth.IAuthService
	ocid string
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*domain.AuthPayload, error) {
	if token != "good" {
		return nil, errs.InvalidCredentials
	}
	return &domain.AuthPayload{OCId: m.ocid}, nil
}

func newRouter(svc *mockEnrollments, guarded bool) *mux.Router {
	logger := logging.NewNopLogger()
	r := mux.NewRouter()
	mw := handlers.NewMiddlewareProvider(&mockAuth{ocid: "alice.edu"}, guarded, logger)
	NewHandler(svc, logger).RegisterRoutes(r, mw)
	return r
}

func do(r http.Handler, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestGetUserCourses(t *testing.T) {
	svc := &mockEnrollments{getFn: func(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error) {
		if ocid == "nobody.edu" {
			return []*domain.CourseWithStatus{}, nil
		}
		if ocid == "broken.edu" {
			return nil, errors.New("mongo down")
		}
		return []*domain.CourseWithStatus{{Course: domain.Course{ID: "solidity-101", Title: "Solidity"}, Completed: true}}, nil
	}}
	r := newRouter(svc, false)

	rec, body := do(r, http.MethodGet, "/api/users/courses", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "OCId parameter is required", body["error"])

	rec, _ = do(r, http.MethodGet, "/api/users/courses?OCId=nobody.edu", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"courses":[]}`, rec.Body.String())

	rec, body = do(r, http.MethodGet, "/api/users/courses?OCId=broken.edu", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body["error"])

	rec, body = do(r, http.MethodGet, "/api/users/courses?OCId=alice.edu", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	courses := body["courses"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, "solidity-101", courses[0].(map[string]interface{})["id"])
	assert.Equal(t, true, courses[0].(map[string]interface{})["completed"])
}

func TestSetCourseStatus(t *testing.T) {
	var gotCompleted *bool
	svc := &mockEnrollments{setFn: func(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error) {
		gotCompleted = completed
		if ocid == "" {
			return domain.UpsertResult{}, errs.OCIdRequired
		}
		if courseID == "" {
			return domain.UpsertResult{}, errs.CourseIDRequired
		}
		return domain.UpsertResult{Created: courseID == "new"}, nil
	}}
	r := newRouter(svc, false)

	rec, body := do(r, http.MethodPost, "/api/users/courses", `{"courseId":"new"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OCId is required", body["error"])

	rec, body = do(r, http.MethodPost, "/api/users/courses", `{"OCId":"alice.edu"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Course ID is required", body["error"])

	rec, body = do(r, http.MethodPost, "/api/users/courses", `{"OCId":"alice.edu","courseId":"new"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course enrolled and status updated successfully", body["message"])
	assert.Nil(t, gotCompleted)

	rec, body = do(r, http.MethodPost, "/api/users/courses", `{"OCId":"alice.edu","courseId":"old","completed":false}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course status updated successfully", body["message"])
	require.NotNil(t, gotCompleted)
	assert.False(t, *gotCompleted)

	rec, _ = do(r, http.MethodPost, "/api/users/courses", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetCourseStatusGuarded(t *testing.T) {
	svc := &mockEnrollments{setFn: func(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error) {
		return domain.UpsertResult{}, nil
	}}
	r := newRouter(svc, true)
	payload := `{"OCId":"alice.edu","courseId":"c1"}`

	rec, _ := do(r, http.MethodPost, "/api/users/courses", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(r, http.MethodPost, "/api/users/courses", payload, map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(r, http.MethodPost, "/api/users/courses", `{"OCId":"mallory.edu","courseId":"c1"}`,
		map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(r, http.MethodPost, "/api/users/courses", payload, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// reads stay open
	svc.getFn = func(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error) { return nil, nil }
	rec, _ = do(r, http.MethodGet, "/api/users/courses?OCId=alice.edu", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"courses":[]}`, rec.Body.String())
}
