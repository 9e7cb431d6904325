package models

// LeaveStatus tracks approval of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveRequest asks the approving teacher to excuse a student for a date range.
type LeaveRequest struct {
	ID        int64       `db:"id" json:"id"`
	StudentID int64       `db:"student_id" json:"student_id"`
	TeacherID int64       `db:"teacher_id" json:"teacher_id"`
	FromDate  string      `db:"from_date" json:"from_date"`
	ToDate    string      `db:"to_date" json:"to_date"`
	Reason    string      `db:"reason" json:"reason"`
	Status    LeaveStatus `db:"status" json:"status"`
}

func (l LeaveRequest) EntityID() int64 { return l.ID }

func (l LeaveRequest) WithEntityID(id int64) LeaveRequest {
	l.ID = id
	return l
}
