package service

import (
	"sort"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
)

// The functions below form the read projections over store snapshots. They
// never fail and return an empty, non-nil slice when nothing matches.

func MarksForStudent(marks []models.Mark, studentID int64) []models.Mark {
	return repository.Filter(marks, func(m models.Mark) bool { return m.StudentID == studentID })
}

func AttendanceForStudent(records []models.Attendance, studentID int64) []models.Attendance {
	return repository.Filter(records, func(a models.Attendance) bool { return a.StudentID == studentID })
}

func TimetableForClass(entries []models.TimetableEntry, classID int64) []models.TimetableEntry {
	return repository.Filter(entries, func(e models.TimetableEntry) bool { return e.ClassID == classID })
}

func TimetableForTeacher(entries []models.TimetableEntry, teacherID int64) []models.TimetableEntry {
	return repository.Filter(entries, func(e models.TimetableEntry) bool { return e.TeacherID == teacherID })
}

// TeacherClassIDs lists the distinct classes a teacher has timetable entries
// for, in first-seen order.
func TeacherClassIDs(entries []models.TimetableEntry, teacherID int64) []int64 {
	return distinct(TimetableForTeacher(entries, teacherID), func(e models.TimetableEntry) int64 { return e.ClassID })
}

// TeacherSubjects lists the distinct subjects in a teacher's timetable.
func TeacherSubjects(entries []models.TimetableEntry, teacherID int64) []int64 {
	return distinct(TimetableForTeacher(entries, teacherID), func(e models.TimetableEntry) int64 { return e.SubjectID })
}

// StudentsForTeacher returns the students enrolled in any class the teacher
// appears in on the timetable.
func StudentsForTeacher(entries []models.TimetableEntry, students []models.Student, teacherID int64) []models.Student {
	classes := idSet(TeacherClassIDs(entries, teacherID))
	return repository.Filter(students, func(s models.Student) bool {
		_, ok := classes[s.ClassID]
		return ok
	})
}

// AttendanceForTeacher returns the records the teacher took.
func AttendanceForTeacher(records []models.Attendance, teacherID int64) []models.Attendance {
	return repository.Filter(records, func(a models.Attendance) bool { return a.TeacherID == teacherID })
}

// MarksForTeacher returns the marks the teacher entered.
func MarksForTeacher(marks []models.Mark, teacherID int64) []models.Mark {
	return repository.Filter(marks, func(m models.Mark) bool { return m.TeacherID == teacherID })
}

func FeesForStudent(fees []models.Fee, studentID int64) []models.Fee {
	return repository.Filter(fees, func(f models.Fee) bool { return f.StudentID == studentID })
}

func LeaveRequestsForStudent(requests []models.LeaveRequest, studentID int64) []models.LeaveRequest {
	return repository.Filter(requests, func(r models.LeaveRequest) bool { return r.StudentID == studentID })
}

// LeaveRequestsForTeacher returns requests filed by any student the teacher teaches.
func LeaveRequestsForTeacher(requests []models.LeaveRequest, entries []models.TimetableEntry, students []models.Student, teacherID int64) []models.LeaveRequest {
	ids := make(map[int64]struct{})
	for _, s := range StudentsForTeacher(entries, students, teacherID) {
		ids[s.ID] = struct{}{}
	}
	return repository.Filter(requests, func(r models.LeaveRequest) bool {
		_, ok := ids[r.StudentID]
		return ok
	})
}

func PromotionsForStudent(promotions []models.Promotion, studentID int64) []models.Promotion {
	return repository.Filter(promotions, func(p models.Promotion) bool { return p.StudentID == studentID })
}

// CommunicationsForStudent returns the student's threads, newest first.
func CommunicationsForStudent(comms []models.Communication, studentID int64) []models.Communication {
	return newestFirst(repository.Filter(comms, func(c models.Communication) bool { return c.StudentID == studentID }))
}

// CommunicationsForTeacher returns the threads addressed to the teacher, newest first.
func CommunicationsForTeacher(comms []models.Communication, teacherID int64) []models.Communication {
	return newestFirst(repository.Filter(comms, func(c models.Communication) bool { return c.TeacherID == teacherID }))
}

// StudentForParent finds the child linked to a parent profile.
func StudentForParent(students []models.Student, parentID int64) (models.Student, bool) {
	for _, s := range students {
		if s.HasParent(parentID) {
			return s, true
		}
	}
	return models.Student{}, false
}

func ClassSubjectAssignments(assignments []models.ClassSubjectAssignment, classID int64) []models.ClassSubjectAssignment {
	return repository.Filter(assignments, func(a models.ClassSubjectAssignment) bool { return a.ClassID == classID })
}

// Dates are ISO-8601 so lexical order is chronological.
func newestFirst(comms []models.Communication) []models.Communication {
	sort.SliceStable(comms, func(i, j int) bool { return comms[i].Date > comms[j].Date })
	return comms
}

func distinct[T any](items []T, key func(T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func byID[T models.Record[T]](records []T) map[int64]T {
	index := make(map[int64]T, len(records))
	for _, r := range records {
		index[r.EntityID()] = r
	}
	return index
}
