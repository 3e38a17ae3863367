package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

var (
	// errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("a course with this name already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAssignmentExists   = errors.New("course already assigned to this user")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		GetCourseByName(ctx context.Context, name string) (Course, error)
		// CreateAssignment fails with ErrAssignmentExists if the (user, course) pair is taken.
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, userID, courseID int) (Assignment, error)
		QueryAssignmentsByUser(ctx context.Context, userID int) ([]Assignment, error)
	}

	// UserGetter resolves LMS users.
	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	Service struct {
		repo  Repository
		users UserGetter
		log   core.Logger
	}
)

func NewService(repo Repository, users UserGetter, logger core.Logger) *Service {
	return &Service{repo: repo, users: users, log: logger}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

// Assign checks, in order: an existing assignment, the user, then the course.
func (svc *Service) Assign(ctx context.Context, na NewAssignment) (Assignment, error) {
	if _, err := svc.repo.GetAssignment(ctx, na.UserID, na.CourseID); err == nil {
		return Assignment{}, ErrAssignmentExists
	} else if !errors.Is(err, ErrAssignmentNotFound) {
		return Assignment{}, err
	}

	if _, err := svc.users.GetByID(ctx, na.UserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Assignment{}, ErrUserNotFound
		}
		return Assignment{}, err
	}
	if _, err := svc.repo.GetCourseByID(ctx, na.CourseID); err != nil {
		return Assignment{}, err
	}

	return svc.repo.CreateAssignment(ctx, Assignment{
		UserID:     na.UserID,
		CourseID:   na.CourseID,
		AssignedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryAssignments(ctx context.Context, userID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByUser(ctx, userID)
}

// SeedStandardCourses creates the StandardCourses that do not exist yet.
// It returns the names of the created courses.
func (svc *Service) SeedStandardCourses(ctx context.Context) ([]string, error) {
	var created []string
	for _, name := range StandardCourses {
		if _, err := svc.repo.GetCourseByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, ErrCourseNotFound) {
			return created, err
		}

		_, err := svc.repo.CreateCourse(ctx, Course{Name: name, CreatedAt: time.Now().UTC()})
		switch {
		case errors.Is(err, ErrCourseExists):
			continue // created concurrently
		case err != nil:
			return created, errors.Wrapf(err, "seeding course %q", name)
		}
		created = append(created, name)
	}
	if len(created) > 0 && svc.log != nil {
		svc.log.Info("seeded courses", "courses", created)
	}
	return created, nil
}
