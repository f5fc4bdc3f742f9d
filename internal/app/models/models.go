package models

// RoleType defines the account role. The role is resolved once at
// authentication time and carried in the token claims, so handlers never
// have to probe for a student profile to find out what a user is.
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleStaff     RoleType = "STAFF"
	RoleSuperuser RoleType = "SUPERUSER"
)

// IsStaff reports whether the role carries staff-level management rights.
// Superusers are staff plus account management.
func (r RoleType) IsStaff() bool {
	return r == RoleStaff || r == RoleSuperuser
}

// Difficulty classifies a course.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}
