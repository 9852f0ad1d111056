package enrollmentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	querybuilder "gitlab.com/codebounty.net/internal/utils"
)

var (
	_ secondary.EnrollmentRepository = (*Repository)(nil)
	_ secondary.CourseRepository     = (*Repository)(nil)
)

// Repository stores enrollments and the course catalogue in PostgreSQL.
type Repository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
	now    func() time.Time
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
		schema: schema,
		now:    time.Now,
	}
}

func userCourseColumns() []string {
	tbl := domain.GetUserCourseTable()
	return []string{tbl.OCId, tbl.CourseID, tbl.Completed, tbl.EnrolledAt}
}

func (r *Repository) FindByUser(ctx context.Context, ocid string) ([]*domain.UserCourseRecord, error) {
	tbl := domain.GetUserCourseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(userCourseColumns()...).
		From(tbl.TableName()).
		Where(tbl.OCId+" = ?", ocid).
		OrderBy(tbl.EnrolledAt, true).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	records := make([]*domain.UserCourseRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.Error("Failed to list user courses", "OCId", ocid, "error", err)
		return nil, fmt.Errorf("failed to list user courses: %w", err)
	}
	return records, nil
}

func (r *Repository) Find(ctx context.Context, ocid, courseID string) (*domain.UserCourseRecord, error) {
	tbl := domain.GetUserCourseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(userCourseColumns()...).
		From(tbl.TableName()).
		Where(tbl.OCId+" = ?", ocid).
		And(tbl.CourseID+" = ?", courseID).
		Limit(1).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var record domain.UserCourseRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user course", "OCId", ocid, "courseId", courseID, "error", err)
		return nil, fmt.Errorf("failed to get user course: %w", err)
	}
	return &record, nil
}

// Upsert relies on ON CONFLICT so concurrent writers cannot create duplicates.
// xmax is zero only for a freshly inserted row version.
func (r *Repository) Upsert(ctx context.Context, record *domain.UserCourseRecord) (domain.UpsertResult, error) {
	tbl := domain.GetUserCourseTable()
	if record.EnrolledAt.IsZero() {
		record.EnrolledAt = r.now().UTC()
	}

	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(userCourseColumns()...).
		Into(tbl.TableName()).
		Values(record.OCId, record.CourseID, record.Completed, record.EnrolledAt).
		OnConflict(tbl.OCId, tbl.CourseID).
		SetExclude(tbl.Completed).
		Returning("(xmax = 0) AS inserted").
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var inserted bool
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&inserted); err != nil {
		r.logger.Error("Failed to upsert user course", "OCId", record.OCId, "courseId", record.CourseID, "error", err)
		return domain.UpsertResult{}, fmt.Errorf("failed to upsert user course: %w", err)
	}

	r.logger.Debug("Upserted user course", "OCId", record.OCId, "courseId", record.CourseID, "inserted", inserted)
	return domain.UpsertResult{Created: inserted}, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error) {
	courses := make([]*domain.Course, 0, len(ids))
	if len(ids) == 0 {
		return courses, nil
	}

	tbl := domain.GetCourseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.Title, tbl.Description, tbl.Level, tbl.Lessons, tbl.Image).
		From(tbl.TableName()).
		Where(tbl.ID+" = ANY(?)", pq.Array(ids)).
		OrderBy(tbl.ID, true).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		r.logger.Error("Failed to get courses", "ids", ids, "error", err)
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, nil
}

// EnsureTablesExist creates the tables and the (oc_id, course_id) unique key the upsert depends on.
func (r *Repository) EnsureTablesExist(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL DEFAULT '',
			lessons INTEGER NOT NULL DEFAULT 0,
			image TEXT NOT NULL DEFAULT ''
		)`, r.schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.user_courses (
			oc_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT true,
			enrolled_at TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (oc_id, course_id)
		)`, r.schema),
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			r.logger.Error("Failed to create enrollment tables", "error", err)
			return fmt.Errorf("failed to create enrollment tables: %w", err)
		}
	}
	return nil
}
