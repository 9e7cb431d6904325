package models

// AnnouncementAudience is the visibility label attached to an announcement.
type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "All"
	AudienceTeachers AnnouncementAudience = "Teachers"
	AudienceStudents AnnouncementAudience = "Students"
	AudienceParents  AnnouncementAudience = "Parents"
)

// Valid returns true when the label is supported.
func (a AnnouncementAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceTeachers, AudienceStudents, AudienceParents:
		return true
	default:
		return false
	}
}

// roleAudiences maps each role onto the label that targets it. Principals have
// no label of their own and see every announcement.
var roleAudiences = map[UserRole]AnnouncementAudience{
	RoleTeacher: AudienceTeachers,
	RoleStudent: AudienceStudents,
	RoleParent:  AudienceParents,
}

// AudienceForRole returns the visibility label that targets the role.
func AudienceForRole(role UserRole) (AnnouncementAudience, bool) {
	label, ok := roleAudiences[role]
	return label, ok
}

// Announcement represents a school-wide notice.
type Announcement struct {
	ID             int64                `db:"id" json:"id"`
	Title          string               `db:"title" json:"title"`
	Message        string               `db:"message" json:"message"`
	Date           string               `db:"date" json:"date"`
	RoleVisibility AnnouncementAudience `db:"role_visibility" json:"role_visibility"`
}

func (a Announcement) EntityID() int64 { return a.ID }

func (a Announcement) WithEntityID(id int64) Announcement {
	a.ID = id
	return a
}

// VisibleTo reports whether a caller with the role may see the announcement.
func (a Announcement) VisibleTo(role UserRole) bool {
	if role == RolePrincipal || a.RoleVisibility == AudienceAll {
		return true
	}
	label, ok := AudienceForRole(role)
	return ok && label == a.RoleVisibility
}
