package domain

import "time"

// UserCourseRecord joins a user to a course. (OCId, CourseID) is unique.
type UserCourseRecord struct {
	OCId       string    `json:"OCId" bson:"OCId" db:"oc_id"`
	CourseID   string    `json:"courseId" bson:"courseId" db:"course_id"`
	Completed  bool      `json:"completed" bson:"completed" db:"completed"`
	EnrolledAt time.Time `json:"enrolledAt" bson:"enrolledAt" db:"enrolled_at"`
}

type UserCourseTable struct {
	OCId       string
	CourseID   string
	Completed  string
	EnrolledAt string
}

func GetUserCourseTable() UserCourseTable {
	return UserCourseTable{
		OCId:       "oc_id",
		CourseID:   "course_id",
		Completed:  "completed",
		EnrolledAt: "enrolled_at",
	}
}

func (UserCourseTable) TableName() string {
	return "user_courses"
}

// Course is a catalogue entry.
type Course struct {
	ID          string `json:"id" bson:"id" db:"id"`
	Title       string `json:"title" bson:"title" db:"title"`
	Description string `json:"description" bson:"description" db:"description"`
	Level       string `json:"level" bson:"level" db:"level"`
	Lessons     int    `json:"lessons" bson:"lessons" db:"lessons"`
	Image       string `json:"image" bson:"image" db:"image"`
}

type CourseTable struct {
	ID          string
	Title       string
	Description string
	Level       string
	Lessons     string
	Image       string
}

func GetCourseTable() CourseTable {
	return CourseTable{
		ID:          "id",
		Title:       "title",
		Description: "description",
		Level:       "level",
		Lessons:     "lessons",
		Image:       "image",
	}
}

func (CourseTable) TableName() string {
	return "courses"
}

// CourseWithStatus is a course annotated with the user's completion flag.
type CourseWithStatus struct {
	Course
	Completed bool `json:"completed"`
}

// UpsertResult reports whether an upsert inserted a new record.
type UpsertResult struct {
	Created bool
}
