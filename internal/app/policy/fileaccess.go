package policy

import "github.com/dkaraca/coursehub/internal/app/models"

// CanUploadFile reports whether a user may upload a file to a course:
// staff always, students only with an active enrollment in the course.
func CanUploadFile(role models.RoleType, activelyEnrolled bool) bool {
	return role.IsStaff() || activelyEnrolled
}

// CanDownloadFile reports whether a user may download a course file:
// staff always, students only with an active enrollment in the file's
// course.
func CanDownloadFile(role models.RoleType, activelyEnrolled bool) bool {
	return role.IsStaff() || activelyEnrolled
}

// CanDeleteFile reports whether a user may delete a file: the original
// uploader or staff.
func CanDeleteFile(role models.RoleType, userID, uploadedBy int64) bool {
	return role.IsStaff() || userID == uploadedBy
}

// CanManageUser reports whether an acting account may view or modify a
// target account. Staff manage students; only a superuser touches another
// superuser's account.
func CanManageUser(actor models.RoleType, target models.RoleType) bool {
	if !actor.IsStaff() {
		return false
	}
	if target == models.RoleSuperuser {
		return actor == models.RoleSuperuser
	}
	return true
}

// CanDeleteStudent reports whether an acting account may delete a student
// record. Reserved for superusers.
func CanDeleteStudent(actor models.RoleType) bool {
	return actor == models.RoleSuperuser
}

// CanChangeRole reports whether an acting account may change a target
// account's role to the requested role. Only superusers change roles, and
// granting SUPERUSER is never allowed through the API.
func CanChangeRole(actor models.RoleType, requested models.RoleType) bool {
	if actor != models.RoleSuperuser {
		return false
	}
	return requested != models.RoleSuperuser
}
