package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

func ptr[T any](v T) *T { return &v }

// Seed loads the demonstration school: one principal, two teachers, three
// students (two with parents) and their academic history.
func Seed(ctx context.Context, store *Store) error {
	steps := []func(context.Context, *Store) error{
		seedPeople,
		seedCatalog,
		seedAcademics,
		seedOffice,
	}
	for _, step := range steps {
		if err := step(ctx, store); err != nil {
			return err
		}
	}
	return nil
}

func insertAll[T models.Record[T]](ctx context.Context, c Collection[T], name string, records ...T) error {
	for _, r := range records {
		if _, err := c.Insert(ctx, r); err != nil {
			return fmt.Errorf("seed %s %d: %w", name, r.EntityID(), err)
		}
	}
	return nil
}

func seedPeople(ctx context.Context, s *Store) error {
	if err := insertAll(ctx, s.Users, "user",
		models.User{ID: 1, Name: "Dr. Evelyn Reed", Email: "principal@school.edu", Role: models.RolePrincipal},
		models.User{ID: 2, Name: "Mr. David Chen", Email: "d.chen@school.edu", Role: models.RoleTeacher},
		models.User{ID: 3, Name: "Ms. Maria Garcia", Email: "m.garcia@school.edu", Role: models.RoleTeacher},
		models.User{ID: 4, Name: "Alice Johnson", Email: "a.johnson@student.edu", Role: models.RoleStudent},
		models.User{ID: 5, Name: "Bob Williams", Email: "b.williams@student.edu", Role: models.RoleStudent},
		models.User{ID: 6, Name: "Charlie Brown", Email: "c.brown@student.edu", Role: models.RoleStudent},
		models.User{ID: 7, Name: "John Johnson", Email: "j.johnson@parent.edu", Role: models.RoleParent},
		models.User{ID: 8, Name: "Sarah Williams", Email: "s.williams@parent.edu", Role: models.RoleParent},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Parents, "parent",
		models.Parent{ID: 301, UserID: 7, Name: "John Johnson"},
		models.Parent{ID: 302, UserID: 8, Name: "Sarah Williams"},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Teachers, "teacher",
		models.Teacher{ID: 201, UserID: 2, Name: "Mr. David Chen", Department: "Science", Phone: "123-456-7890", Qualification: "M.Sc. Mathematics", JoiningDate: "2018-07-15"},
		models.Teacher{ID: 202, UserID: 3, Name: "Ms. Maria Garcia", Department: "Humanities", Phone: "098-765-4321", Qualification: "M.A. History", JoiningDate: "2020-02-20"},
	); err != nil {
		return err
	}
	return insertAll(ctx, s.Students, "student",
		models.Student{ID: 101, UserID: 4, ParentID: ptr(int64(301)), Name: "Alice Johnson", ClassID: 1, Section: "A", RollNumber: "10A01", DOB: "2008-03-15", Gender: "Female", GuardianName: "John Johnson", GuardianContact: "111-222-3333", Address: "123 Maple St", AdmissionDate: "2022-09-01"},
		models.Student{ID: 102, UserID: 5, ParentID: ptr(int64(302)), Name: "Bob Williams", ClassID: 1, Section: "A", RollNumber: "10A02", DOB: "2008-05-20", Gender: "Male", GuardianName: "Sarah Williams", GuardianContact: "444-555-6666", Address: "456 Oak Ave", AdmissionDate: "2022-09-01"},
		models.Student{ID: 103, UserID: 6, Name: "Charlie Brown", ClassID: 2, Section: "B", RollNumber: "11B01", DOB: "2007-08-10", Gender: "Male", GuardianName: "James Brown", GuardianContact: "777-888-9999", Address: "789 Pine Ln", AdmissionDate: "2021-09-01"},
	)
}

func seedCatalog(ctx context.Context, s *Store) error {
	if err := insertAll(ctx, s.Classes, "class",
		models.Class{ID: 1, Name: "10", Section: "A"},
		models.Class{ID: 2, Name: "11", Section: "B"},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Subjects, "subject",
		models.Subject{ID: 1, Name: "Mathematics", Code: "MATH101"},
		models.Subject{ID: 2, Name: "History", Code: "HIST101"},
		models.Subject{ID: 3, Name: "Physics", Code: "PHY101"},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Assignments, "assignment",
		models.ClassSubjectAssignment{ID: 1, ClassID: 1, SubjectID: 1},
		models.ClassSubjectAssignment{ID: 2, ClassID: 1, SubjectID: 2},
		models.ClassSubjectAssignment{ID: 3, ClassID: 2, SubjectID: 2},
		models.ClassSubjectAssignment{ID: 4, ClassID: 2, SubjectID: 3},
	); err != nil {
		return err
	}
	return insertAll(ctx, s.Timetable, "timetable",
		models.TimetableEntry{ID: 501, TeacherID: 201, SubjectID: 1, ClassID: 1, Day: models.Monday, TimeSlot: "09:00 - 10:00", Room: "101"},
		models.TimetableEntry{ID: 502, TeacherID: 202, SubjectID: 2, ClassID: 2, Day: models.Monday, TimeSlot: "10:00 - 11:00", Room: "202"},
		models.TimetableEntry{ID: 503, TeacherID: 201, SubjectID: 1, ClassID: 1, Day: models.Wednesday, TimeSlot: "11:00 - 12:00", Room: "101"},
		models.TimetableEntry{ID: 504, TeacherID: 202, SubjectID: 2, ClassID: 2, Day: models.Friday, TimeSlot: "09:00 - 10:00", Room: "202"},
		models.TimetableEntry{ID: 505, TeacherID: 201, SubjectID: 3, ClassID: 2, Day: models.Tuesday, TimeSlot: "13:00 - 14:00", Room: "301"},
	)
}

func seedAcademics(ctx context.Context, s *Store) error {
	if err := insertAll(ctx, s.Attendance, "attendance",
		models.Attendance{ID: 301, StudentID: 101, Date: "2024-05-20", Status: models.AttendancePresent, TeacherID: 201},
		models.Attendance{ID: 302, StudentID: 102, Date: "2024-05-20", Status: models.AttendancePresent, TeacherID: 201},
		models.Attendance{ID: 303, StudentID: 101, Date: "2024-05-21", Status: models.AttendanceAbsent, TeacherID: 201},
		models.Attendance{ID: 304, StudentID: 102, Date: "2024-05-21", Status: models.AttendancePresent, TeacherID: 201},
		models.Attendance{ID: 305, StudentID: 103, Date: "2024-05-21", Status: models.AttendanceLate, TeacherID: 202},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Marks, "mark",
		models.Mark{ID: 401, StudentID: 101, SubjectID: 1, ExamName: "Midterm", Marks: 85, Total: 100, Grade: "A", TeacherID: 201},
		models.Mark{ID: 402, StudentID: 101, SubjectID: 2, ExamName: "Midterm", Marks: 92, Total: 100, Grade: "A+", TeacherID: 202},
		models.Mark{ID: 403, StudentID: 102, SubjectID: 1, ExamName: "Midterm", Marks: 78, Total: 100, Grade: "B+", TeacherID: 201},
		models.Mark{ID: 404, StudentID: 103, SubjectID: 2, ExamName: "Midterm", Marks: 88, Total: 100, Grade: "A", TeacherID: 202},
	); err != nil {
		return err
	}
	return insertAll(ctx, s.Promotions, "promotion",
		models.Promotion{ID: 801, StudentID: 101, FromClass: "9-A", ToClass: "10-A", AcademicYear: "2021-2022", Status: models.PromotionPassed, Marks: "480/500", Grade: "A+"},
		models.Promotion{ID: 802, StudentID: 102, FromClass: "9-A", ToClass: "10-A", AcademicYear: "2021-2022", Status: models.PromotionPassed, Marks: "455/500", Grade: "A"},
	)
}

func seedOffice(ctx context.Context, s *Store) error {
	if err := insertAll(ctx, s.Announcements, "announcement",
		models.Announcement{ID: 1, Title: "Parent-Teacher Meeting", Message: "The quarterly parent-teacher meeting will be held on June 5th, 2024.", Date: "2024-05-25", RoleVisibility: models.AudienceAll},
		models.Announcement{ID: 2, Title: "Science Fair Submissions", Message: "Please submit your science fair projects by June 1st.", Date: "2024-05-20", RoleVisibility: models.AudienceStudents},
		models.Announcement{ID: 3, Title: "Fee Payment Deadline", Message: "The deadline for fee payment for the next term is June 15th.", Date: "2024-05-28", RoleVisibility: models.AudienceParents},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.Fees, "fee",
		models.Fee{ID: 601, StudentID: 101, Amount: 5000, DueDate: "2024-06-15", Status: models.FeeUnpaid},
		models.Fee{ID: 602, StudentID: 101, Amount: 5000, DueDate: "2024-03-15", Status: models.FeePaid, PaymentDate: ptr("2024-03-10")},
		models.Fee{ID: 603, StudentID: 102, Amount: 5000, DueDate: "2024-06-15", Status: models.FeeUnpaid},
	); err != nil {
		return err
	}
	if err := insertAll(ctx, s.LeaveRequests, "leave request",
		models.LeaveRequest{ID: 701, StudentID: 101, TeacherID: 201, FromDate: "2024-05-28", ToDate: "2024-05-29", Reason: "Family function", Status: models.LeavePending},
		models.LeaveRequest{ID: 702, StudentID: 102, TeacherID: 201, FromDate: "2024-05-23", ToDate: "2024-05-23", Reason: "Medical appointment", Status: models.LeaveApproved},
	); err != nil {
		return err
	}
	return insertAll(ctx, s.Communications, "communication",
		models.Communication{ID: 1, StudentID: 101, TeacherID: 201, Subject: "Difficulty with Physics homework", Message: "Dear Mr. Chen, I am having trouble understanding the concepts from last week's physics class. Could you please provide some extra resources?", Date: "2024-05-27", IsReadByTeacher: true, Reply: ptr("Of course, Alice. I will share some links with you tomorrow in class. Don't worry."), ReplyDate: ptr("2024-05-27")},
		models.Communication{ID: 2, StudentID: 102, TeacherID: 202, Subject: "Question about the History essay", Message: "Hello Ms. Garcia, I am not sure about the topic for the upcoming history essay. Can we discuss it after class?", Date: "2024-05-28"},
	)
}
