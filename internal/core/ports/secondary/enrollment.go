package secondary

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type EnrollmentRepository interface {
	// FindByUser returns every record for the user; none is an empty slice.
	FindByUser(ctx context.Context, ocid string) ([]*domain.UserCourseRecord, error)

	// Find returns nil, nil when the pair has no record.
	Find(ctx context.Context, ocid, courseID string) (*domain.UserCourseRecord, error)

	// Upsert atomically inserts the record or overwrites its completed flag.
	// EnrolledAt is written only on insert.
	Upsert(ctx context.Context, record *domain.UserCourseRecord) (domain.UpsertResult, error)
}

type CourseRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error)
}
