package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is rendered wherever a value cannot be derived.
const NotAvailable = "N/A"

// Percentage is a derived ratio that may be undefined (no records, zero total).
type Percentage struct {
	Value   float64
	Defined bool
}

// PercentOf returns part/whole*100, undefined when whole is zero.
func PercentOf(part, whole float64) Percentage {
	if whole == 0 {
		return Percentage{}
	}
	return Percentage{Value: part / whole * 100, Defined: true}
}

// Rounded returns the value rounded to two decimals, zero when undefined.
func (p Percentage) Rounded() float64 {
	if !p.Defined {
		return 0
	}
	return math.Round(p.Value*100) / 100
}

// String renders "85.00%" or "N/A".
func (p Percentage) String() string {
	if !p.Defined {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

// MarshalJSON encodes the percentage in its display form.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the display form produced by MarshalJSON.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == NotAvailable || raw == "" {
		*p = Percentage{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		return fmt.Errorf("parse percentage %q: %w", raw, err)
	}
	*p = Percentage{Value: v, Defined: true}
	return nil
}

// SubjectPerformance is a student's percentage restricted to one subject.
// Subjects without marks report exactly zero.
type SubjectPerformance struct {
	SubjectID  int64   `json:"subject_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// StudentPerformance is the per-student performance report.
type StudentPerformance struct {
	StudentID  int64                `json:"student_id"`
	Name       string               `json:"name"`
	Academic   Percentage           `json:"academic_percentage"`
	Attendance Percentage           `json:"attendance_percentage"`
	Subjects   []SubjectPerformance `json:"subjects"`
}

// TopPerformer is one entry of the school-wide ranking.
type TopPerformer struct {
	StudentID  int64  `json:"student_id"`
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
}

// SchoolPerformance summarises academic results across all students.
type SchoolPerformance struct {
	TotalStudents int            `json:"total_students"`
	SchoolAverage string         `json:"school_average"`
	TopPerformers []TopPerformer `json:"top_performers"`
}

// StudentRecord joins a student with all of its attendance and marks.
type StudentRecord struct {
	Student
	Marks      []Mark       `json:"marks"`
	Attendance []Attendance `json:"attendance"`
}
