package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	User       *UserRepository
	Student    *StudentRepository
	Group      *GroupRepository
	Course     *CourseRepository
	Enrollment *EnrollmentRepository
	File       *FileRepository
	Token      *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(pool),
		Student:    NewStudentRepository(pool),
		Group:      NewGroupRepository(pool),
		Course:     NewCourseRepository(pool),
		Enrollment: NewEnrollmentRepository(pool),
		File:       NewFileRepository(pool),
		Token:      NewTokenRepository(pool),
	}
}
