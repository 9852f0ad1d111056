package enrollment

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type IEnrollmentService interface {
	// GetUserCourses returns the user's courses with their completion flag. No enrollments is an empty list.
	GetUserCourses(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error)

	// SetCourseStatus enrolls the user or updates the completion flag. A nil completed means true.
	SetCourseStatus(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error)

	// IsCompleted reports whether the user has a completed record for the course.
	IsCompleted(ctx context.Context, ocid, courseID string) (bool, error)
}
