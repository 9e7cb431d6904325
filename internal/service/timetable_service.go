package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// TimetableEntryRequest creates an entry.
type TimetableEntryRequest struct {
	TeacherID int64          `json:"teacher_id" validate:"required"`
	SubjectID int64          `json:"subject_id" validate:"required"`
	ClassID   int64          `json:"class_id" validate:"required"`
	Day       models.Weekday `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	TimeSlot  string         `json:"time_slot" validate:"required"`
	Room      string         `json:"room"`
}

// UpdateTimetableEntryRequest is a partial update.
type UpdateTimetableEntryRequest struct {
	TeacherID *int64          `json:"teacher_id" validate:"omitempty,min=1"`
	SubjectID *int64          `json:"subject_id" validate:"omitempty,min=1"`
	ClassID   *int64          `json:"class_id" validate:"omitempty,min=1"`
	Day       *models.Weekday `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday"`
	TimeSlot  *string         `json:"time_slot" validate:"omitempty,min=1"`
	Room      *string         `json:"room"`
}

// TimetableService manages timetable entries. Overlapping slots are allowed.
type TimetableService struct {
	deps Deps
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(deps Deps) *TimetableService {
	return &TimetableService{deps: deps.withDefaults()}
}

// List returns the whole timetable. Principal only.
func (s *TimetableService) List(ctx context.Context, actor models.Actor) ([]models.TimetableEntry, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	return listAll(ctx, s.deps.Store.Timetable, "timetable")
}

// ForClass returns a class timetable to anyone belonging to the class.
func (s *TimetableService) ForClass(ctx context.Context, actor models.Actor, classID int64) ([]models.TimetableEntry, error) {
	if err := s.deps.Auth.ReadClass(ctx, actor, classID); err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	return TimetableForClass(entries, classID), nil
}

// ForTeacher returns a teacher's own timetable.
func (s *TimetableService) ForTeacher(ctx context.Context, actor models.Actor, teacherID int64) ([]models.TimetableEntry, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	return TimetableForTeacher(entries, teacherID), nil
}

// Create schedules a lesson. Principal only.
func (s *TimetableService) Create(ctx context.Context, actor models.Actor, req TimetableEntryRequest) (models.TimetableEntry, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.TimetableEntry{}, err
	}
	if err := s.deps.validate(req, "invalid timetable payload"); err != nil {
		return models.TimetableEntry{}, err
	}
	entry := models.TimetableEntry{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		Day:       req.Day,
		TimeSlot:  req.TimeSlot,
		Room:      req.Room,
	}
	if err := s.checkReferences(ctx, entry); err != nil {
		return models.TimetableEntry{}, err
	}
	created, err := insertOne(ctx, s.deps.Store.Timetable, entry, "timetable entry")
	if err != nil {
		return models.TimetableEntry{}, err
	}
	s.deps.Logger.Info("timetable entry created", zap.Int64("entry_id", created.ID), zap.Int64("teacher_id", created.TeacherID))
	return created, nil
}

// Update merges the supplied fields. Principal only.
func (s *TimetableService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateTimetableEntryRequest) (models.TimetableEntry, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.TimetableEntry{}, err
	}
	if err := s.deps.validate(req, "invalid timetable payload"); err != nil {
		return models.TimetableEntry{}, err
	}
	entry, err := getOne(ctx, s.deps.Store.Timetable, id, "timetable entry")
	if err != nil {
		return models.TimetableEntry{}, err
	}
	setIf(&entry.TeacherID, req.TeacherID)
	setIf(&entry.SubjectID, req.SubjectID)
	setIf(&entry.ClassID, req.ClassID)
	setIf(&entry.Day, req.Day)
	setIf(&entry.TimeSlot, req.TimeSlot)
	setIf(&entry.Room, req.Room)
	if err := s.checkReferences(ctx, entry); err != nil {
		return models.TimetableEntry{}, err
	}
	if err := updateOne(ctx, s.deps.Store.Timetable, entry, "timetable entry"); err != nil {
		return models.TimetableEntry{}, err
	}
	return entry, nil
}

// Delete removes an entry; unknown ids are ignored. Principal only.
func (s *TimetableService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	return deleteOne(ctx, s.deps.Store.Timetable, id, "timetable entry")
}

func (s *TimetableService) checkReferences(ctx context.Context, entry models.TimetableEntry) error {
	if ok, err := exists(ctx, s.deps.Store.Teachers, entry.TeacherID, "teacher"); err != nil {
		return err
	} else if !ok {
		return invalid("teacher does not exist")
	}
	if ok, err := exists(ctx, s.deps.Store.Subjects, entry.SubjectID, "subject"); err != nil {
		return err
	} else if !ok {
		return invalid("subject does not exist")
	}
	if ok, err := exists(ctx, s.deps.Store.Classes, entry.ClassID, "class"); err != nil {
		return err
	} else if !ok {
		return invalid("class does not exist")
	}
	return nil
}
