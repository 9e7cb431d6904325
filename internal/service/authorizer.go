package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

type studentGetter interface {
	Get(ctx context.Context, id int64) (models.Student, error)
}

type timetableLister interface {
	List(ctx context.Context) ([]models.TimetableEntry, error)
}

// Authorizer decides whether an actor may touch data belonging to a student,
// a class or a teacher. Every refusal is an ErrForbidden clone.
type Authorizer struct {
	students  studentGetter
	timetable timetableLister
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(students studentGetter, timetable timetableLister) *Authorizer {
	return &Authorizer{students: students, timetable: timetable}
}

func forbidden(message string) error {
	return appErrors.Clone(appErrors.ErrForbidden, message)
}

// RequireRole admits actors holding one of the roles.
func (a *Authorizer) RequireRole(actor models.Actor, roles ...models.UserRole) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return forbidden("role " + string(actor.Role) + " cannot perform this action")
}

// RequirePrincipal admits only the principal.
func (a *Authorizer) RequirePrincipal(actor models.Actor) error {
	return a.RequireRole(actor, models.RolePrincipal)
}

// ReadStudent admits the principal, a teacher of the student's class, the
// student and the student's parent.
func (a *Authorizer) ReadStudent(ctx context.Context, actor models.Actor, studentID int64) error {
	switch actor.Role {
	case models.RolePrincipal:
		return nil
	case models.RoleTeacher:
		return a.teachesStudent(ctx, actor.TeacherID, studentID)
	case models.RoleStudent, models.RoleParent:
		if own, ok := actor.OwnStudentID(); ok && own == studentID {
			return nil
		}
		return forbidden("records of another student are not accessible")
	}
	return forbidden("unknown role")
}

// WriteStudentRecord admits the principal and teachers of the student's
// class. It guards attendance, marks and leave decisions.
func (a *Authorizer) WriteStudentRecord(ctx context.Context, actor models.Actor, studentID int64) error {
	switch actor.Role {
	case models.RolePrincipal:
		return nil
	case models.RoleTeacher:
		return a.teachesStudent(ctx, actor.TeacherID, studentID)
	}
	return forbidden("role " + string(actor.Role) + " cannot modify student records")
}

// ActForStudent admits a student acting for self and a parent acting for the
// linked child. Principals are admitted as well.
func (a *Authorizer) ActForStudent(actor models.Actor, studentID int64) error {
	if actor.IsPrincipal() {
		return nil
	}
	if own, ok := actor.OwnStudentID(); ok && own == studentID {
		return nil
	}
	return forbidden("cannot act on behalf of this student")
}

// ReadClass admits the principal, teachers of the class and students (or
// parents of students) enrolled in it.
func (a *Authorizer) ReadClass(ctx context.Context, actor models.Actor, classID int64) error {
	switch actor.Role {
	case models.RolePrincipal:
		return nil
	case models.RoleTeacher:
		classes, err := a.teacherClasses(ctx, actor.TeacherID)
		if err != nil {
			return err
		}
		if _, ok := classes[classID]; ok {
			return nil
		}
		return forbidden("teacher does not teach this class")
	case models.RoleStudent, models.RoleParent:
		own, ok := actor.OwnStudentID()
		if !ok {
			return forbidden("no student linked to caller")
		}
		student, err := a.students.Get(ctx, own)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return forbidden("no student linked to caller")
			}
			return appErrors.Internal(err, "failed to load student")
		}
		if student.ClassID == classID {
			return nil
		}
		return forbidden("class is not the caller's class")
	}
	return forbidden("unknown role")
}

// ReadTeacher admits the principal and the teacher themself.
func (a *Authorizer) ReadTeacher(actor models.Actor, teacherID int64) error {
	if actor.IsPrincipal() || (actor.IsTeacher() && actor.TeacherID == teacherID) {
		return nil
	}
	return forbidden("teacher data belongs to another teacher")
}

func (a *Authorizer) teachesStudent(ctx context.Context, teacherID, studentID int64) error {
	student, err := a.students.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forbidden("student is not in any of the teacher's classes")
		}
		return appErrors.Internal(err, "failed to load student")
	}
	classes, err := a.teacherClasses(ctx, teacherID)
	if err != nil {
		return err
	}
	if _, ok := classes[student.ClassID]; !ok {
		return forbidden("student is not in any of the teacher's classes")
	}
	return nil
}

func (a *Authorizer) teacherClasses(ctx context.Context, teacherID int64) (map[int64]struct{}, error) {
	entries, err := a.timetable.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load timetable")
	}
	return idSet(TeacherClassIDs(entries, teacherID)), nil
}
