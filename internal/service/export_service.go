package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/pkg/export"
)

var studentExportColumns = []string{
	"ID",
	"Name",
	"Roll Number",
	"Class",
	"Date of Birth",
	"Gender",
	"Guardian Name",
	"Guardian Contact",
	"Address",
	"Admission Date",
	"Attendance %",
	"Days Present",
	"Days Absent",
	"Days Late",
}

// FlattenStudents produces one row per student with attendance counts and a
// "Marks (<subject>)" column per subject. Missing joins render as N/A.
// "Attendance %" counts Late days as present, the same figure the dashboards
// show, while "Days Present" counts Present records only.
func FlattenStudents(records []models.StudentRecord, subjects []models.Subject, classes []models.Class) export.Dataset {
	headers := append([]string{}, studentExportColumns...)
	for _, subject := range subjects {
		headers = append(headers, markColumn(subject))
	}
	classIndex := byID(classes)

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		label := models.NotAvailable
		if class, ok := classIndex[rec.ClassID]; ok {
			label = class.Label()
		}
		var present, absent, late int
		for _, a := range rec.Attendance {
			switch a.Status {
			case models.AttendancePresent:
				present++
			case models.AttendanceAbsent:
				absent++
			case models.AttendanceLate:
				late++
			}
		}
		row := map[string]string{
			"ID":               strconv.FormatInt(rec.ID, 10),
			"Name":             rec.Name,
			"Roll Number":      rec.RollNumber,
			"Class":            label,
			"Date of Birth":    rec.DOB,
			"Gender":           rec.Gender,
			"Guardian Name":    rec.GuardianName,
			"Guardian Contact": rec.GuardianContact,
			"Address":          rec.Address,
			"Admission Date":   rec.AdmissionDate,
			"Attendance %":     AttendancePercentage(rec.Attendance).String(),
			"Days Present":     strconv.Itoa(present),
			"Days Absent":      strconv.Itoa(absent),
			"Days Late":        strconv.Itoa(late),
		}
		for _, subject := range subjects {
			row[markColumn(subject)] = firstMark(rec.Marks, subject.ID)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: "Students", Headers: headers, Rows: rows}
}

func markColumn(subject models.Subject) string {
	return fmt.Sprintf("Marks (%s)", subject.Name)
}

func firstMark(marks []models.Mark, subjectID int64) string {
	for _, m := range marks {
		if m.SubjectID == subjectID {
			return formatMark(m)
		}
	}
	return models.NotAvailable
}

// ExportFile is a rendered roster ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders the student roster for download.
type ExportService struct {
	deps     Deps
	students *StudentService
	metrics  *MetricsService
}

// NewExportService constructs an ExportService.
func NewExportService(deps Deps, students *StudentService, metrics *MetricsService) *ExportService {
	deps = deps.withDefaults()
	if students == nil {
		students = NewStudentService(deps, nil)
	}
	return &ExportService{deps: deps, students: students, metrics: metrics}
}

// Students renders every student in the requested format ("csv" or "pdf").
// Principal only.
func (s *ExportService) Students(ctx context.Context, actor models.Actor, format string) (*ExportFile, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, invalid(err.Error())
	}
	records, err := s.students.FullData(ctx, actor)
	if err != nil {
		return nil, err
	}
	subjects, err := listAll(ctx, s.deps.Store.Subjects, "subjects")
	if err != nil {
		return nil, err
	}
	classes, err := listAll(ctx, s.deps.Store.Classes, "classes")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := export.RendererFor(f).Render(FlattenStudents(records, subjects, classes))
	if err != nil {
		return nil, fmt.Errorf("render student export: %w", err)
	}
	s.metrics.RecordExport(string(f))
	s.deps.Logger.Info("students exported",
		zap.String("format", string(f)),
		zap.Int("rows", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("students-%s.%s", s.deps.today(), f),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}
