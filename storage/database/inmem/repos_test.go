package inmemdb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

func TestUserRepository_SetRemoteAccountID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewDB())

	usr, err := repo.CreateUser(ctx, user.User{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, user.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	// concurrent writers: exactly one id wins and every caller sees it
	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := repo.SetRemoteAccountID(ctx, usr.ID, string(rune('a'+i)))
			assert.NoError(t, err)
			results[i] = got.RemoteAccountID
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, stored.RemoteAccountID, r)
	}

	_, err = repo.SetRemoteAccountID(ctx, 99, "x")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_UpdateKeepsRemoteAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewDB())

	usr, err := repo.CreateUser(ctx, user.User{Email: "a@example.com", Grade: 9})
	require.NoError(t, err)
	_, err = repo.SetRemoteAccountID(ctx, usr.ID, "remote-1")
	require.NoError(t, err)

	usr.Grade = 10
	got, err := repo.UpdateUser(ctx, usr) // stale copy without the remote id
	require.NoError(t, err)
	assert.Equal(t, 10, got.Grade)
	assert.Equal(t, "remote-1", got.RemoteAccountID)
}

func TestCourseRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(NewDB())

	maths, err := repo.CreateCourse(ctx, course.Course{Name: "maths"})
	require.NoError(t, err)
	_, err = repo.CreateCourse(ctx, course.Course{Name: "maths"})
	assert.ErrorIs(t, err, course.ErrCourseExists)

	_, err = repo.CreateAssignment(ctx, course.Assignment{UserID: 1, CourseID: maths.ID})
	require.NoError(t, err)
	_, err = repo.CreateAssignment(ctx, course.Assignment{UserID: 1, CourseID: maths.ID})
	assert.ErrorIs(t, err, course.ErrAssignmentExists)

	_, err = repo.GetAssignment(ctx, 2, maths.ID)
	assert.ErrorIs(t, err, course.ErrAssignmentNotFound)

	courses, err := repo.QueryAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}
