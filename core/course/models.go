package course

import "time"

// StandardCourses are seeded at startup.
var StandardCourses = []string{"maths", "science", "physics", "chemistry"}

type Course struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment links a user to a course.
type Assignment struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	CourseID   int       `json:"course_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type NewAssignment struct {
	UserID   int `json:"user_id" validate:"required,min=1"`
	CourseID int `json:"course_id" validate:"required,min=1"`
}
