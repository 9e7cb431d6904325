package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// TopPerformerLimit bounds the school-wide ranking.
const TopPerformerLimit = 3

// AcademicPercentage is summed marks over summed totals. It is undefined with
// no marks or when the totals sum to zero.
func AcademicPercentage(marks []models.Mark) models.Percentage {
	var obtained, possible float64
	for _, m := range marks {
		obtained += m.Marks
		possible += m.Total
	}
	return models.PercentOf(obtained, possible)
}

// AttendancePercentage counts Present and Late days over all recorded days.
func AttendancePercentage(records []models.Attendance) models.Percentage {
	var present int
	for _, r := range records {
		if r.Status.CountsAsPresent() {
			present++
		}
	}
	return models.PercentOf(float64(present), float64(len(records)))
}

// SubjectPercentage restricts AcademicPercentage to one subject. A subject
// without marks yields exactly 0.
func SubjectPercentage(marks []models.Mark, subjectID int64) float64 {
	var obtained, possible float64
	for _, m := range marks {
		if m.SubjectID != subjectID {
			continue
		}
		obtained += m.Marks
		possible += m.Total
	}
	return models.PercentOf(obtained, possible).Rounded()
}

// SubjectBreakdown reports one entry per subject, in the order given.
func SubjectBreakdown(marks []models.Mark, subjects []models.Subject) []models.SubjectPerformance {
	out := make([]models.SubjectPerformance, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, models.SubjectPerformance{
			SubjectID:  s.ID,
			Name:       s.Name,
			Percentage: SubjectPercentage(marks, s.ID),
		})
	}
	return out
}

// BuildStudentPerformance assembles the per-student report. Marks and
// attendance must already be restricted to the student.
func BuildStudentPerformance(student models.Student, marks []models.Mark, attendance []models.Attendance, subjects []models.Subject) models.StudentPerformance {
	return models.StudentPerformance{
		StudentID:  student.ID,
		Name:       student.Name,
		Academic:   AcademicPercentage(marks),
		Attendance: AttendancePercentage(attendance),
		Subjects:   SubjectBreakdown(marks, subjects),
	}
}

type rankedStudent struct {
	student models.Student
	score   float64
}

// RankSchool scores every student (0 without marks), averages over all of
// them and returns the top performers. Ties keep the students' store order.
func RankSchool(students []models.Student, marks []models.Mark) models.SchoolPerformance {
	byStudent := make(map[int64][]models.Mark, len(students))
	for _, m := range marks {
		byStudent[m.StudentID] = append(byStudent[m.StudentID], m)
	}

	ranked := make([]rankedStudent, 0, len(students))
	var sum float64
	for _, s := range students {
		score := 0.0
		if p := AcademicPercentage(byStudent[s.ID]); p.Defined {
			score = p.Value
		}
		sum += score
		ranked = append(ranked, rankedStudent{student: s, score: score})
	}

	average := 0.0
	if len(students) > 0 {
		average = sum / float64(len(students))
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	top := make([]models.TopPerformer, 0, TopPerformerLimit)
	for i := 0; i < len(ranked) && i < TopPerformerLimit; i++ {
		top = append(top, models.TopPerformer{
			StudentID:  ranked[i].student.ID,
			Name:       ranked[i].student.Name,
			Percentage: formatFixed2(ranked[i].score),
		})
	}

	return models.SchoolPerformance{
		TotalStudents: len(students),
		SchoolAverage: formatFixed2(average),
		TopPerformers: top,
	}
}

func formatFixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// formatMark renders "85/100 (A)" with integral values printed without decimals.
func formatMark(m models.Mark) string {
	return fmt.Sprintf("%s/%s (%s)",
		strconv.FormatFloat(m.Marks, 'f', -1, 64),
		strconv.FormatFloat(m.Total, 'f', -1, 64),
		m.Grade)
}
