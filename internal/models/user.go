package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RolePrincipal UserRole = "Principal"
	RoleTeacher   UserRole = "Teacher"
	RoleStudent   UserRole = "Student"
	RoleParent    UserRole = "Parent"
)

// Valid returns true when the role is one of the supported roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePrincipal, RoleTeacher, RoleStudent, RoleParent:
		return true
	default:
		return false
	}
}

// User represents an application account. Role never changes after creation.
type User struct {
	ID    int64    `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Email string   `db:"email" json:"email"`
	Role  UserRole `db:"role" json:"role"`
}

func (u User) EntityID() int64 { return u.ID }

func (u User) WithEntityID(id int64) User {
	u.ID = id
	return u
}

// Parent is the guardian profile linked to a single student through Student.ParentID.
type Parent struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}

func (p Parent) EntityID() int64 { return p.ID }

func (p Parent) WithEntityID(id int64) Parent {
	p.ID = id
	return p
}
