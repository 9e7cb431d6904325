package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func TestFlattenStudents(t *testing.T) {
	subjects := []models.Subject{{ID: 1, Name: "Mathematics"}, {ID: 3, Name: "Physics"}}
	classes := []models.Class{{ID: 1, Name: "10", Section: "A"}}
	records := []models.StudentRecord{
		{
			Student: models.Student{ID: 101, Name: "Alice Johnson", ClassID: 1, RollNumber: "10A01"},
			Marks: []models.Mark{
				{SubjectID: 1, Marks: 85, Total: 100, Grade: "A"},
				{SubjectID: 1, Marks: 40, Total: 50, Grade: "B"},
			},
			Attendance: []models.Attendance{
				{Status: models.AttendancePresent},
				{Status: models.AttendanceAbsent},
				{Status: models.AttendanceLate},
				{Status: models.AttendancePresent},
			},
		},
		{Student: models.Student{ID: 150, Name: "Orphan", ClassID: 9}},
	}

	data := FlattenStudents(records, subjects, classes)
	assert.Equal(t, "Marks (Mathematics)", data.Headers[len(data.Headers)-2])
	assert.Equal(t, "Marks (Physics)", data.Headers[len(data.Headers)-1])
	require.Len(t, data.Rows, 2)

	alice := data.Rows[0]
	assert.Equal(t, "10-A", alice["Class"])
	assert.Equal(t, "75.00%", alice["Attendance %"])
	assert.Equal(t, "2", alice["Days Present"])
	assert.Equal(t, "1", alice["Days Absent"])
	assert.Equal(t, "1", alice["Days Late"])
	assert.Equal(t, "85/100 (A)", alice["Marks (Mathematics)"])
	assert.Equal(t, "N/A", alice["Marks (Physics)"])

	orphan := data.Rows[1]
	assert.Equal(t, "N/A", orphan["Class"])
	assert.Equal(t, "N/A", orphan["Attendance %"])
	assert.Equal(t, "0", orphan["Days Present"])
}

func TestFlattenStudentsCountsLateAsPresent(t *testing.T) {
	records := []models.StudentRecord{{
		Student: models.Student{ID: 101, Name: "Alice Johnson", ClassID: 1},
		Attendance: []models.Attendance{
			{Status: models.AttendancePresent},
			{Status: models.AttendanceLate},
		},
	}}

	row := FlattenStudents(records, nil, nil).Rows[0]
	// Late is present for the percentage but kept apart in the day counts.
	assert.Equal(t, "100.00%", row["Attendance %"])
	assert.Equal(t, "1", row["Days Present"])
	assert.Equal(t, "1", row["Days Late"])
}

func TestExportServiceStudents(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetricsService()
	svc := NewExportService(newTestDeps(t), nil, metrics)

	file, err := svc.Students(ctx, models.PrincipalActor(1), "csv")
	require.NoError(t, err)
	assert.Equal(t, "students-2024-05-20.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,Roll Number,Class"))
	assert.Contains(t, lines[1], "85/100 (A)")
	assert.Equal(t, uint64(1), metrics.Snapshot().ExportsTotal)

	pdf, err := svc.Students(ctx, models.PrincipalActor(1), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Content), "%PDF"))

	_, err = svc.Students(ctx, models.PrincipalActor(1), "xlsx")
	assertCode(t, err, appErrors.ErrValidation)

	_, err = svc.Students(ctx, models.TeacherActor(201), "csv")
	assertForbidden(t, err)
}
