package models

// Actor is the resolved identity of a caller. Exactly one profile id is set
// for non-principal roles; parents carry their linked child's id in StudentID.
type Actor struct {
	UserID    int64    `json:"user_id"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	TeacherID int64    `json:"teacher_id,omitempty"`
	StudentID int64    `json:"student_id,omitempty"`
	ParentID  int64    `json:"parent_id,omitempty"`
}

// PrincipalActor builds an actor with unrestricted scope.
func PrincipalActor(userID int64) Actor {
	return Actor{UserID: userID, Role: RolePrincipal}
}

// TeacherActor builds a teacher-scoped actor.
func TeacherActor(teacherID int64) Actor {
	return Actor{Role: RoleTeacher, TeacherID: teacherID}
}

// StudentActor builds a student-scoped actor.
func StudentActor(studentID int64) Actor {
	return Actor{Role: RoleStudent, StudentID: studentID}
}

// ParentActor builds a parent-scoped actor bound to the child student.
func ParentActor(parentID, childStudentID int64) Actor {
	return Actor{Role: RoleParent, ParentID: parentID, StudentID: childStudentID}
}

func (a Actor) IsPrincipal() bool { return a.Role == RolePrincipal }
func (a Actor) IsTeacher() bool   { return a.Role == RoleTeacher }
func (a Actor) IsStudent() bool   { return a.Role == RoleStudent }
func (a Actor) IsParent() bool    { return a.Role == RoleParent }

// OwnStudentID reports the student a student or parent actor is bound to.
func (a Actor) OwnStudentID() (int64, bool) {
	if (a.IsStudent() || a.IsParent()) && a.StudentID != 0 {
		return a.StudentID, true
	}
	return 0, false
}
