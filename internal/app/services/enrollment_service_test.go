package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
)

func studentViewer() Viewer {
	return Viewer{UserID: 10, Role: models.RoleStudent}
}

func studentProfile() *models.Student {
	return &models.Student{ID: 3, UserID: 10, StudentID: "STU1001"}
}

// enrollRepoWithState hands canned state to the policy check, mimicking
// what the real repository loads inside its transaction.
func enrollRepoWithState(course policy.CourseState, student policy.StudentState) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollWithCheck: func(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error) {
			if err := check(course, student); err != nil {
				return nil, err
			}
			return &models.Enrollment{
				ID:         77,
				StudentID:  studentID,
				CourseID:   courseID,
				EnrolledAt: time.Now(),
				IsActive:   true,
			}, nil
		},
	}
}

func TestEnrollmentService_Enroll(t *testing.T) {
	studentRepo := &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return studentProfile(), nil
		},
	}

	tests := []struct {
		name       string
		course     policy.CourseState
		student    policy.StudentState
		wantReason policy.ViolationReason
	}{
		{
			name:    "seat available",
			course:  policy.CourseState{IsActive: true, EnrolledCount: 5, MaxStudents: 30},
			student: policy.StudentState{ActiveEnrollments: 2},
		},
		{
			name:       "course full",
			course:     policy.CourseState{IsActive: true, EnrolledCount: 30, MaxStudents: 30},
			student:    policy.StudentState{ActiveEnrollments: 2},
			wantReason: policy.CourseFull,
		},
		{
			name:       "course inactive",
			course:     policy.CourseState{IsActive: false, EnrolledCount: 0, MaxStudents: 30},
			student:    policy.StudentState{ActiveEnrollments: 0},
			wantReason: policy.CourseInactive,
		},
		{
			name:       "course cap reached",
			course:     policy.CourseState{IsActive: true, EnrolledCount: 5, MaxStudents: 30},
			student:    policy.StudentState{ActiveEnrollments: policy.MaxCoursesPerStudent},
			wantReason: policy.CourseCapReached,
		},
		{
			name:       "already enrolled in full course reports duplicate",
			course:     policy.CourseState{IsActive: true, EnrolledCount: 30, MaxStudents: 30},
			student:    policy.StudentState{ActiveEnrollments: 3, EnrolledInCourse: true},
			wantReason: policy.AlreadyEnrolled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEnrollmentService(enrollRepoWithState(tt.course, tt.student), &mockCourseRepo{}, studentRepo)

			resp, err := svc.Enroll(context.Background(), studentViewer(), 42)

			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(77), resp.ID)
				assert.Equal(t, int64(3), resp.StudentID)
				assert.Equal(t, int64(42), resp.CourseID)
				assert.True(t, resp.IsActive)
				return
			}

			require.Error(t, err)
			var violation *policy.Violation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, tt.wantReason, violation.Reason)
			assert.Nil(t, resp)
		})
	}
}

func TestEnrollmentService_Enroll_NotAStudent(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, &mockCourseRepo{}, &mockStudentRepo{})

	_, err := svc.Enroll(context.Background(), Viewer{UserID: 1, Role: models.RoleStaff}, 42)

	assert.ErrorIs(t, err, apperrors.ErrNotAStudent)
}

func TestEnrollmentService_Enroll_MissingProfile(t *testing.T) {
	studentRepo := &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return nil, apperrors.ErrStudentNotFound
		},
	}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, &mockCourseRepo{}, studentRepo)

	_, err := svc.Enroll(context.Background(), studentViewer(), 42)

	assert.ErrorIs(t, err, apperrors.ErrNotAStudent)
}

func TestEnrollmentService_Enroll_CourseNotFound(t *testing.T) {
	studentRepo := &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return studentProfile(), nil
		},
	}
	enrollmentRepo := &mockEnrollmentRepo{
		enrollWithCheck: func(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error) {
			return nil, apperrors.ErrCourseNotFound
		},
	}
	svc := NewEnrollmentService(enrollmentRepo, &mockCourseRepo{}, studentRepo)

	_, err := svc.Enroll(context.Background(), studentViewer(), 999)

	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

// A concurrent insert can slip past the state the policy check saw; the
// repository maps the resulting unique violation to an AlreadyEnrolled
// violation, and the service must surface it unchanged.
func TestEnrollmentService_Enroll_DuplicateInsertRace(t *testing.T) {
	studentRepo := &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return studentProfile(), nil
		},
	}
	enrollmentRepo := &mockEnrollmentRepo{
		enrollWithCheck: func(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error) {
			// The check passes against the state loaded before the race.
			course := policy.CourseState{IsActive: true, EnrolledCount: 5, MaxStudents: 30}
			require.NoError(t, check(course, policy.StudentState{ActiveEnrollments: 1}))
			return nil, &policy.Violation{Reason: policy.AlreadyEnrolled, Message: "you are already enrolled in this course"}
		},
	}
	svc := NewEnrollmentService(enrollmentRepo, &mockCourseRepo{}, studentRepo)

	resp, err := svc.Enroll(context.Background(), studentViewer(), 42)

	require.Error(t, err)
	var violation *policy.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, policy.AlreadyEnrolled, violation.Reason)
	assert.Nil(t, resp)
}

func TestEnrollmentService_MyCourses(t *testing.T) {
	studentRepo := &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return studentProfile(), nil
		},
	}
	enrollmentRepo := &mockEnrollmentRepo{
		listActive: func(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
			assert.Equal(t, int64(3), studentID)
			return []*models.Enrollment{
				{
					ID: 1, StudentID: 3, CourseID: 42, IsActive: true,
					Course: &models.Course{ID: 42, Title: "Distributed Systems", MaxStudents: 30, EnrolledCount: 12, IsActive: true},
				},
			}, nil
		},
	}
	svc := NewEnrollmentService(enrollmentRepo, &mockCourseRepo{}, studentRepo)

	resp, err := svc.MyCourses(context.Background(), studentViewer())

	require.NoError(t, err)
	require.Len(t, resp.Enrollments, 1)
	assert.Equal(t, "Distributed Systems", resp.Enrollments[0].Course.Title)
	assert.True(t, resp.Enrollments[0].Course.Enrolled)
}

func TestEnrollmentService_Drop(t *testing.T) {
	var dropped int64
	enrollmentRepo := &mockEnrollmentRepo{
		deactivate: func(ctx context.Context, id int64) error {
			dropped = id
			return nil
		},
	}
	svc := NewEnrollmentService(enrollmentRepo, &mockCourseRepo{}, &mockStudentRepo{})

	require.NoError(t, svc.Drop(context.Background(), 55))
	assert.Equal(t, int64(55), dropped)
}

func TestEnrollmentService_Drop_NotFound(t *testing.T) {
	enrollmentRepo := &mockEnrollmentRepo{
		deactivate: func(ctx context.Context, id int64) error {
			return apperrors.ErrEnrollmentNotFound
		},
	}
	svc := NewEnrollmentService(enrollmentRepo, &mockCourseRepo{}, &mockStudentRepo{})

	err := svc.Drop(context.Background(), 55)

	assert.True(t, errors.Is(err, apperrors.ErrEnrollmentNotFound))
}
