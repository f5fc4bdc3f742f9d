package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCourse() CourseState {
	return CourseState{IsActive: true, EnrolledCount: 3, MaxStudents: 30}
}

func freshStudent() StudentState {
	return StudentState{ActiveEnrollments: 0, EnrolledInCourse: false}
}

func TestCheckEnroll_Allowed(t *testing.T) {
	err := CheckEnroll(openCourse(), freshStudent())
	assert.NoError(t, err)
	assert.True(t, CanEnroll(openCourse(), freshStudent()))
}

func TestCheckEnroll_Violations(t *testing.T) {
	tests := []struct {
		name    string
		course  CourseState
		student StudentState
		reason  ViolationReason
	}{
		{
			name:    "inactive course",
			course:  CourseState{IsActive: false, EnrolledCount: 0, MaxStudents: 30},
			student: freshStudent(),
			reason:  CourseInactive,
		},
		{
			name:    "course at capacity",
			course:  CourseState{IsActive: true, EnrolledCount: 30, MaxStudents: 30},
			student: freshStudent(),
			reason:  CourseFull,
		},
		{
			name:    "course over capacity",
			course:  CourseState{IsActive: true, EnrolledCount: 31, MaxStudents: 30},
			student: freshStudent(),
			reason:  CourseFull,
		},
		{
			name:    "single seat already taken",
			course:  CourseState{IsActive: true, EnrolledCount: 1, MaxStudents: 1},
			student: freshStudent(),
			reason:  CourseFull,
		},
		{
			name:    "student at course cap",
			course:  openCourse(),
			student: StudentState{ActiveEnrollments: MaxCoursesPerStudent},
			reason:  CourseCapReached,
		},
		{
			name:    "already enrolled",
			course:  openCourse(),
			student: StudentState{ActiveEnrollments: 1, EnrolledInCourse: true},
			reason:  AlreadyEnrolled,
		},
		{
			name:    "already enrolled wins over full course",
			course:  CourseState{IsActive: true, EnrolledCount: 30, MaxStudents: 30},
			student: StudentState{ActiveEnrollments: 1, EnrolledInCourse: true},
			reason:  AlreadyEnrolled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEnroll(tt.course, tt.student)
			require.Error(t, err)

			var violation *Violation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, tt.reason, violation.Reason)
			assert.NotEmpty(t, violation.Message)
			assert.False(t, CanEnroll(tt.course, tt.student))
		})
	}
}

// A student with the maximum number of active enrollments is refused
// regardless of the target course's state.
func TestCheckEnroll_CapAppliesToAnyCourse(t *testing.T) {
	capped := StudentState{ActiveEnrollments: MaxCoursesPerStudent}

	courses := []CourseState{
		{IsActive: true, EnrolledCount: 0, MaxStudents: 1},
		{IsActive: true, EnrolledCount: 5, MaxStudents: 100},
		{IsActive: true, EnrolledCount: 99, MaxStudents: 100},
	}
	for _, course := range courses {
		assert.False(t, CanEnroll(course, capped))
	}
}

func TestViolation_ErrorMessage(t *testing.T) {
	v := &Violation{Reason: CourseFull}
	assert.Contains(t, v.Error(), string(CourseFull))

	v = newViolation(CourseCapReached)
	assert.Contains(t, v.Error(), "maximum number of courses")
}
