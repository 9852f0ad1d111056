package enrollmentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

const (
	UserCoursesCollection = "userCourses"
	CoursesCollection     = "courses"
)

var (
	_ secondary.EnrollmentRepository = (*Repository)(nil)
	_ secondary.CourseRepository     = (*Repository)(nil)
)

// Repository stores enrollments and the course catalogue in MongoDB.
type Repository struct {
	userCourses *mongo.Collection
	courses     *mongo.Collection
	logger      primary.Logger
	now         func() time.Time
}

func New(db *mongo.Database, logger primary.Logger) *Repository {
	return &Repository{
		userCourses: db.Collection(UserCoursesCollection),
		courses:     db.Collection(CoursesCollection),
		logger:      logger,
		now:         time.Now,
	}
}

// EnsureIndexes creates the unique (OCId, courseId) index that makes the upsert race-free.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.userCourses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "OCId", Value: 1}, {Key: "courseId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("OCId_courseId_unique"),
	})
	if err != nil {
		r.logger.Error("Failed to create userCourses index", "error", err)
		return fmt.Errorf("failed to create userCourses index: %w", err)
	}

	_, err = r.courses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	})
	if err != nil {
		r.logger.Error("Failed to create courses index", "error", err)
		return fmt.Errorf("failed to create courses index: %w", err)
	}
	return nil
}

func (r *Repository) FindByUser(ctx context.Context, ocid string) ([]*domain.UserCourseRecord, error) {
	cursor, err := r.userCourses.Find(ctx, bson.M{"OCId": ocid},
		options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: 1}}))
	if err != nil {
		r.logger.Error("Failed to list user courses", "OCId", ocid, "error", err)
		return nil, fmt.Errorf("failed to list user courses: %w", err)
	}

	records := make([]*domain.UserCourseRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode user courses", "OCId", ocid, "error", err)
		return nil, fmt.Errorf("failed to decode user courses: %w", err)
	}
	return records, nil
}

func (r *Repository) Find(ctx context.Context, ocid, courseID string) (*domain.UserCourseRecord, error) {
	var record domain.UserCourseRecord
	err := r.userCourses.FindOne(ctx, bson.M{"OCId": ocid, "courseId": courseID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get user course", "OCId", ocid, "courseId", courseID, "error", err)
		return nil, fmt.Errorf("failed to get user course: %w", err)
	}
	return &record, nil
}

// Upsert is a single UpdateOne with upsert. Two first-time writers can race to
// insert; the unique index rejects the loser, whose retry then matches and updates.
func (r *Repository) Upsert(ctx context.Context, record *domain.UserCourseRecord) (domain.UpsertResult, error) {
	if record.EnrolledAt.IsZero() {
		record.EnrolledAt = r.now().UTC()
	}

	filter := bson.M{"OCId": record.OCId, "courseId": record.CourseID}
	update := bson.M{
		"$set":         bson.M{"completed": record.Completed},
		"$setOnInsert": bson.M{"enrolledAt": record.EnrolledAt},
	}
	opts := options.Update().SetUpsert(true)

	res, err := r.userCourses.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		r.logger.Debug("Concurrent enrollment insert, retrying as update", "OCId", record.OCId, "courseId", record.CourseID)
		res, err = r.userCourses.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		r.logger.Error("Failed to upsert user course", "OCId", record.OCId, "courseId", record.CourseID, "error", err)
		return domain.UpsertResult{}, fmt.Errorf("failed to upsert user course: %w", err)
	}

	return domain.UpsertResult{Created: res.UpsertedCount > 0}, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error) {
	courses := make([]*domain.Course, 0, len(ids))
	if len(ids) == 0 {
		return courses, nil
	}

	cursor, err := r.courses.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to get courses", "ids", ids, "error", err)
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	if err := cursor.All(ctx, &courses); err != nil {
		r.logger.Error("Failed to decode courses", "error", err)
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}
