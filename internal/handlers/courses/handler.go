package courses

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/services/enrollment"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/static/errs"
)

const (
	msgEnrolled = "Course enrolled and status updated successfully"
	msgUpdated  = "Course status updated successfully"
)

// Handler serves a user's course enrollments.
type Handler struct {
	enrollments enrollment.IEnrollmentService
	logger      primary.Logger
}

func NewHandler(enrollments enrollment.IEnrollmentService, logger primary.Logger) *Handler {
	return &Handler{
		enrollments: enrollments,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.HandleFunc("/api/users/courses", h.GetUserCourses).Methods(http.MethodGet)
	router.Handle("/api/users/courses", mw.Guard(h.SetCourseStatus)).Methods(http.MethodPost)
}

type GetCoursesResponse struct {
	Success bool                       `json:"success"`
	Courses []*domain.CourseWithStatus `json:"courses"`
}

func (h *Handler) GetUserCourses(w http.ResponseWriter, r *http.Request) {
	ocid := r.URL.Query().Get("OCId")
	if ocid == "" {
		response.Error(w, http.StatusBadRequest, "OCId parameter is required")
		return
	}

	courses, err := h.enrollments.GetUserCourses(r.Context(), ocid)
	if err != nil {
		h.logger.Error("Failed to load user courses", "OCId", ocid, "error", err)
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	if courses == nil {
		courses = []*domain.CourseWithStatus{}
	}

	response.WriteSuccess(w, GetCoursesResponse{Success: true, Courses: courses})
}

type SetCourseStatusRequest struct {
	OCId      string `json:"OCId"`
	CourseID  string `json:"courseId"`
	Completed *bool  `json:"completed"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) SetCourseStatus(w http.ResponseWriter, r *http.Request) {
	var req SetCourseStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode request", "error", err)
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if handlers.WriteOCIdMismatch(w, handlers.CheckOCId(r.Context(), req.OCId)) {
		return
	}

	result, err := h.enrollments.SetCourseStatus(r.Context(), req.OCId, req.CourseID, req.Completed)
	switch {
	case errors.Is(err, errs.OCIdRequired), errors.Is(err, errs.CourseIDRequired):
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("Failed to update course status", "OCId", req.OCId, "courseId", req.CourseID, "error", err)
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	msg := msgUpdated
	if result.Created {
		msg = msgEnrolled
	}
	response.WriteSuccess(w, MessageResponse{Success: true, Message: msg})
}
