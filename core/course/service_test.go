package course

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core/user"
)

type fakeRepo struct {
	courses     []Course
	assignments []Assignment
}

func (r *fakeRepo) CreateCourse(_ context.Context, crs Course) (Course, error) {
	for _, c := range r.courses {
		if c.Name == crs.Name {
			return Course{}, ErrCourseExists
		}
	}
	crs.ID = len(r.courses) + 1
	r.courses = append(r.courses, crs)
	return crs, nil
}

func (r *fakeRepo) QueryAllCourses(context.Context) ([]Course, error) { return r.courses, nil }

func (r *fakeRepo) GetCourseByID(_ context.Context, id int) (Course, error) {
	for _, c := range r.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, ErrCourseNotFound
}

func (r *fakeRepo) GetCourseByName(_ context.Context, name string) (Course, error) {
	for _, c := range r.courses {
		if c.Name == name {
			return c, nil
		}
	}
	return Course{}, ErrCourseNotFound
}

func (r *fakeRepo) CreateAssignment(_ context.Context, asg Assignment) (Assignment, error) {
	asg.ID = len(r.assignments) + 1
	r.assignments = append(r.assignments, asg)
	return asg, nil
}

func (r *fakeRepo) GetAssignment(_ context.Context, userID, courseID int) (Assignment, error) {
	for _, a := range r.assignments {
		if a.UserID == userID && a.CourseID == courseID {
			return a, nil
		}
	}
	return Assignment{}, ErrAssignmentNotFound
}

func (r *fakeRepo) QueryAssignmentsByUser(_ context.Context, userID int) ([]Assignment, error) {
	var res []Assignment
	for _, a := range r.assignments {
		if a.UserID == userID {
			res = append(res, a)
		}
	}
	return res, nil
}

type fakeUsers map[int]user.User

func (f fakeUsers) GetByID(_ context.Context, id int) (user.User, error) {
	if usr, ok := f[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func TestService_SeedStandardCourses(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{courses: []Course{{ID: 1, Name: "physics"}}}
	svc := NewService(repo, fakeUsers{}, nil)

	created, err := svc.SeedStandardCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"maths", "science", "chemistry"}, created)
	assert.Len(t, repo.courses, 4)

	created, err = svc.SeedStandardCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestService_Assign(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{
		courses:     []Course{{ID: 1, Name: "maths"}},
		assignments: []Assignment{{ID: 1, UserID: 1, CourseID: 1}},
	}
	users := fakeUsers{1: {ID: 1}, 2: {ID: 2}}
	svc := NewService(repo, users, nil)

	tests := []struct {
		name    string
		na      NewAssignment
		wantErr error
	}{
		{name: "already assigned", na: NewAssignment{UserID: 1, CourseID: 1}, wantErr: ErrAssignmentExists},
		{name: "unknown user", na: NewAssignment{UserID: 9, CourseID: 1}, wantErr: ErrUserNotFound},
		{name: "unknown course", na: NewAssignment{UserID: 2, CourseID: 9}, wantErr: ErrCourseNotFound},
		{name: "unknown user and course", na: NewAssignment{UserID: 9, CourseID: 9}, wantErr: ErrUserNotFound},
		{name: "ok", na: NewAssignment{UserID: 2, CourseID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asg, err := svc.Assign(ctx, tt.na)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.na.UserID, asg.UserID)
			assert.False(t, asg.AssignedAt.IsZero())
		})
	}

	asgs, err := svc.QueryAssignments(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, asgs, 1)
}
