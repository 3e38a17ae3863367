package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo-lms/core/course"
)

type courseRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r courseRow) toCourse() course.Course {
	return course.Course{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt.UTC()}
}

type assignmentRow struct {
	ID         int       `db:"id"`
	UserID     int       `db:"user_id"`
	CourseID   int       `db:"course_id"`
	AssignedAt time.Time `db:"assigned_at"`
}

func (r assignmentRow) toAssignment() course.Assignment {
	return course.Assignment{ID: r.ID, UserID: r.UserID, CourseID: r.CourseID, AssignedAt: r.AssignedAt.UTC()}
}

type courseRepository struct {
	exec Executor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec Executor) *courseRepository {
	return &courseRepository{exec: exec}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	if crs.CreatedAt.IsZero() {
		crs.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO courses (name, created_at) VALUES ($1, $2) RETURNING id`
	if err := sqlx.GetContext(ctx, repo.exec, &crs.ID, q, crs.Name, crs.CreatedAt.UTC()); err != nil {
		if pqCode(err) == uniqueViolation {
			return course.Course{}, course.ErrCourseExists
		}
		return course.Course{}, wrapErr(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, `SELECT id, name, created_at FROM courses ORDER BY id`); err != nil {
		return nil, wrapErr(err, "selecting courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toCourse())
	}
	return courses, nil
}

func (repo courseRepository) getCourseBy(ctx context.Context, column string, arg interface{}) (course.Course, error) {
	var row courseRow
	q := `SELECT id, name, created_at FROM courses WHERE ` + column + ` = $1`
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, arg); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrCourseNotFound, "selecting course")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	return repo.getCourseBy(ctx, "id", id)
}

func (repo courseRepository) GetCourseByName(ctx context.Context, name string) (course.Course, error) {
	return repo.getCourseBy(ctx, "name", name)
}

func (repo courseRepository) CreateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	if asg.AssignedAt.IsZero() {
		asg.AssignedAt = time.Now().UTC()
	}
	q := `INSERT INTO user_courses (user_id, course_id, assigned_at) VALUES ($1, $2, $3) RETURNING id`
	err := sqlx.GetContext(ctx, repo.exec, &asg.ID, q, asg.UserID, asg.CourseID, asg.AssignedAt.UTC())
	switch {
	case err == nil:
		return asg, nil
	case pqCode(err) == uniqueViolation:
		return course.Assignment{}, course.ErrAssignmentExists
	case pqCode(err) == foreignKeyViolation:
		return course.Assignment{}, wrapErr(err, "assignment references a missing user or course")
	default:
		return course.Assignment{}, wrapErr(err, "inserting assignment")
	}
}

func (repo courseRepository) GetAssignment(ctx context.Context, userID, courseID int) (course.Assignment, error) {
	var row assignmentRow
	q := `SELECT id, user_id, course_id, assigned_at FROM user_courses WHERE user_id = $1 AND course_id = $2`
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, userID, courseID); err != nil {
		return course.Assignment{}, trapNoRowsErr(err, course.ErrAssignmentNotFound, "selecting assignment")
	}
	return row.toAssignment(), nil
}

func (repo courseRepository) QueryAssignmentsByUser(ctx context.Context, userID int) ([]course.Assignment, error) {
	var rows []assignmentRow
	q := `SELECT id, user_id, course_id, assigned_at FROM user_courses WHERE user_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, q, userID); err != nil {
		return nil, wrapErr(err, "selecting assignments")
	}
	asgs := make([]course.Assignment, 0, len(rows))
	for _, r := range rows {
		asgs = append(asgs, r.toAssignment())
	}
	return asgs, nil
}
