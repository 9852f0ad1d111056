package enrollmentrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/adapter/logging"
	"gitlab.com/codebounty.net/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := New(sqlx.NewDb(db, "postgres"), logging.NewNopLogger(), "public")
	return repo, mock
}

func TestFindByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	enrolled := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT oc_id, course_id, completed, enrolled_at FROM public.user_courses WHERE oc_id = $1 ORDER BY enrolled_at ASC")).
		WithArgs("alice.edu").
		WillReturnRows(sqlmock.NewRows([]string{"oc_id", "course_id", "completed", "enrolled_at"}).
			AddRow("alice.edu", "solidity-101", true, enrolled).
			AddRow("alice.edu", "defi-201", false, enrolled))

	records, err := repo.FindByUser(context.Background(), "alice.edu")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "solidity-101", records[0].CourseID)
	assert.True(t, records[0].Completed)
	assert.False(t, records[1].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUser_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM public.user_courses").
		WillReturnRows(sqlmock.NewRows([]string{"oc_id", "course_id", "completed", "enrolled_at"}))

	records, err := repo.FindByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFind_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT oc_id, course_id, completed, enrolled_at FROM public.user_courses WHERE oc_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("alice.edu", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"oc_id", "course_id", "completed", "enrolled_at"}))

	record, err := repo.Find(context.Background(), "alice.edu", "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	upsert := regexp.QuoteMeta(
		"INSERT INTO public.user_courses (oc_id, course_id, completed, enrolled_at) VALUES ($1, $2, $3, $4) " +
			"ON CONFLICT (oc_id, course_id) DO UPDATE SET completed = EXCLUDED.completed " +
			"RETURNING (xmax = 0) AS inserted")

	mock.ExpectQuery(upsert).
		WithArgs("alice.edu", "c1", true, now).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectQuery(upsert).
		WithArgs("alice.edu", "c1", false, now).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	res, err := repo.Upsert(context.Background(), &domain.UserCourseRecord{OCId: "alice.edu", CourseID: "c1", Completed: true})
	require.NoError(t, err)
	assert.True(t, res.Created)

	res, err = repo.Upsert(context.Background(), &domain.UserCourseRecord{OCId: "alice.edu", CourseID: "c1", Completed: false})
	require.NoError(t, err)
	assert.False(t, res.Created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_Error(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO public.user_courses").WillReturnError(errors.New("connection reset"))

	_, err := repo.Upsert(context.Background(), &domain.UserCourseRecord{OCId: "a", CourseID: "b"})
	assert.Error(t, err)
}

func TestFindByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, title, description, level, lessons, image FROM public.courses WHERE id = ANY($1) ORDER BY id ASC")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "level", "lessons", "image"}).
			AddRow("c1", "Solidity Basics", "Intro", "beginner", 8, "/img/c1.png"))

	courses, err := repo.FindByIDs(context.Background(), []string{"c1", "c2"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Solidity Basics", courses[0].Title)
	assert.Equal(t, 8, courses[0].Lessons)
}

func TestFindByIDs_NoIDsSkipsQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	courses, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}
