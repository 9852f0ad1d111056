package enrollment

import (
	"context"
	"strings"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ IEnrollmentService = (*EnrollmentService)(nil)

type EnrollmentService struct {
	enrollments secondary.EnrollmentRepository
	courses     secondary.CourseRepository
	logger      primary.Logger
}

func NewEnrollmentService(
	enrollments secondary.EnrollmentRepository,
	courses secondary.CourseRepository,
	logger primary.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		logger:      logger,
	}
}

func (s *EnrollmentService) GetUserCourses(ctx context.Context, ocid string) ([]*domain.CourseWithStatus, error) {
	if strings.TrimSpace(ocid) == "" {
		return nil, errs.OCIdRequired
	}

	records, err := s.enrollments.FindByUser(ctx, ocid)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.CourseWithStatus, 0, len(records))
	if len(records) == 0 {
		return result, nil
	}

	completed := make(map[string]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, seen := completed[r.CourseID]; !seen {
			ids = append(ids, r.CourseID)
		}
		completed[r.CourseID] = r.Completed
	}

	courses, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		result = append(result, &domain.CourseWithStatus{
			Course:    *c,
			Completed: completed[c.ID],
		})
	}
	return result, nil
}

func (s *EnrollmentService) SetCourseStatus(ctx context.Context, ocid, courseID string, completed *bool) (domain.UpsertResult, error) {
	if strings.TrimSpace(ocid) == "" {
		return domain.UpsertResult{}, errs.OCIdRequired
	}
	if strings.TrimSpace(courseID) == "" {
		return domain.UpsertResult{}, errs.CourseIDRequired
	}

	done := true
	if completed != nil {
		done = *completed
	}

	res, err := s.enrollments.Upsert(ctx, &domain.UserCourseRecord{
		OCId:      ocid,
		CourseID:  courseID,
		Completed: done,
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	s.logger.Info("Course status saved", "OCId", ocid, "courseId", courseID, "completed", done, "created", res.Created)
	return res, nil
}

func (s *EnrollmentService) IsCompleted(ctx context.Context, ocid, courseID string) (bool, error) {
	record, err := s.enrollments.Find(ctx, ocid, courseID)
	if err != nil {
		return false, err
	}
	return record != nil && record.Completed, nil
}
