package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		pk    int
		table map[int]*user.User
	}

	courseTable struct {
		mutex       sync.RWMutex
		pk          int
		asgPK       int
		table       map[int]*course.Course
		assignments map[int]*course.Assignment
	}

	// DB is a process-local database, used in dev mode and tests.
	DB struct {
		user   *userTable
		course *courseTable
	}
)

func NewDB() *DB {
	return &DB{
		user:   &userTable{table: make(map[int]*user.User)},
		course: &courseTable{table: make(map[int]*course.Course), assignments: make(map[int]*course.Assignment)},
	}
}
