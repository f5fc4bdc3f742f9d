// Package policy holds the pure decision functions that gate mutations:
// whether a student may enroll in a course and who may upload, download
// or delete course files. The functions here never touch storage; callers
// load the state, the policy decides.
package policy

import "fmt"

// MaxCoursesPerStudent is the per-student cap on active enrollments.
const MaxCoursesPerStudent = 5

// ViolationReason identifies why an enrollment was refused.
type ViolationReason string

const (
	CourseInactive   ViolationReason = "COURSE_INACTIVE"
	CourseFull       ViolationReason = "COURSE_FULL"
	CourseCapReached ViolationReason = "COURSE_CAP_REACHED"
	AlreadyEnrolled  ViolationReason = "ALREADY_ENROLLED"
)

// Violation is returned when an enrollment request breaks policy. It is a
// user-facing condition, not a server fault; handlers surface it as a
// message and leave state untouched.
type Violation struct {
	Reason  ViolationReason
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Message != "" {
		return v.Message
	}
	return fmt.Sprintf("enrollment policy violation: %s", v.Reason)
}

// newViolation builds a Violation with a canned message per reason.
func newViolation(reason ViolationReason) *Violation {
	msg := map[ViolationReason]string{
		CourseInactive:   "this course is not active",
		CourseFull:       "this course is full",
		CourseCapReached: fmt.Sprintf("you have reached the maximum number of courses (%d)", MaxCoursesPerStudent),
		AlreadyEnrolled:  "you are already enrolled in this course",
	}[reason]
	return &Violation{Reason: reason, Message: msg}
}

// CourseState is the course-side input to the enrollment decision.
type CourseState struct {
	IsActive      bool
	EnrolledCount int
	MaxStudents   int
}

// StudentState is the student-side input to the enrollment decision.
type StudentState struct {
	ActiveEnrollments int
	EnrolledInCourse  bool
}

// CheckEnroll decides whether a student may enroll in a course. It returns
// nil when enrollment is allowed and a *Violation naming the first broken
// rule otherwise. Duplicate membership is checked first so a student who
// is already in a full course is told so rather than "course is full".
func CheckEnroll(course CourseState, student StudentState) error {
	if student.EnrolledInCourse {
		return newViolation(AlreadyEnrolled)
	}
	if !course.IsActive {
		return newViolation(CourseInactive)
	}
	if course.EnrolledCount >= course.MaxStudents {
		return newViolation(CourseFull)
	}
	if student.ActiveEnrollments >= MaxCoursesPerStudent {
		return newViolation(CourseCapReached)
	}
	return nil
}

// CanEnroll is the boolean form of CheckEnroll.
func CanEnroll(course CourseState, student StudentState) bool {
	return CheckEnroll(course, student) == nil
}
