package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/masomo-lms/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, c := range repo.db.table {
		if c.Name == crs.Name {
			return course.Course{}, course.ErrCourseExists
		}
	}
	repo.db.pk++
	crs.ID = repo.db.pk
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(context.Context) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id int) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *courseRepository) GetCourseByName(_ context.Context, name string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.table {
		if c.Name == name {
			return *c, nil
		}
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *courseRepository) CreateAssignment(_ context.Context, asg course.Assignment) (course.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range repo.db.assignments {
		if a.UserID == asg.UserID && a.CourseID == asg.CourseID {
			return course.Assignment{}, course.ErrAssignmentExists
		}
	}
	repo.db.asgPK++
	asg.ID = repo.db.asgPK
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *courseRepository) GetAssignment(_ context.Context, userID, courseID int) (course.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, a := range repo.db.assignments {
		if a.UserID == userID && a.CourseID == courseID {
			return *a, nil
		}
	}
	return course.Assignment{}, course.ErrAssignmentNotFound
}

func (repo *courseRepository) QueryAssignmentsByUser(_ context.Context, userID int) ([]course.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var asgs []course.Assignment
	for _, a := range repo.db.assignments {
		if a.UserID == userID {
			asgs = append(asgs, *a)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].ID < asgs[j].ID })
	return asgs, nil
}
