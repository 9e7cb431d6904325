package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dates are stored as ISO-8601 TEXT so they round-trip into the string
// fields of the models unchanged.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL
	)`},
	{"parents", `CREATE TABLE IF NOT EXISTS parents (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		name TEXT NOT NULL
	)`},
	{"classes", `CREATE TABLE IF NOT EXISTS classes (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		section TEXT NOT NULL,
		UNIQUE (name, section)
	)`},
	{"subjects", `CREATE TABLE IF NOT EXISTS subjects (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE
	)`},
	{"students", `CREATE TABLE IF NOT EXISTS students (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		parent_id BIGINT,
		name TEXT NOT NULL,
		class_id BIGINT NOT NULL,
		section TEXT NOT NULL,
		roll_number TEXT NOT NULL,
		dob TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		guardian_name TEXT NOT NULL DEFAULT '',
		guardian_contact TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		admission_date TEXT NOT NULL DEFAULT '',
		UNIQUE (class_id, roll_number)
	)`},
	{"teachers", `CREATE TABLE IF NOT EXISTS teachers (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		qualification TEXT NOT NULL DEFAULT '',
		joining_date TEXT NOT NULL DEFAULT ''
	)`},
	{"class_subject_assignments", `CREATE TABLE IF NOT EXISTS class_subject_assignments (
		id BIGINT PRIMARY KEY,
		class_id BIGINT NOT NULL,
		subject_id BIGINT NOT NULL,
		UNIQUE (class_id, subject_id)
	)`},
	{"attendance", `CREATE TABLE IF NOT EXISTS attendance (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL
	)`},
	{"marks", `CREATE TABLE IF NOT EXISTS marks (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		subject_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		exam_name TEXT NOT NULL,
		marks DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		grade TEXT NOT NULL DEFAULT ''
	)`},
	{"timetable_entries", `CREATE TABLE IF NOT EXISTS timetable_entries (
		id BIGINT PRIMARY KEY,
		teacher_id BIGINT NOT NULL,
		subject_id BIGINT NOT NULL,
		class_id BIGINT NOT NULL,
		day TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		room TEXT NOT NULL DEFAULT ''
	)`},
	{"announcements", `CREATE TABLE IF NOT EXISTS announcements (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		date TEXT NOT NULL,
		role_visibility TEXT NOT NULL
	)`},
	{"fees", `CREATE TABLE IF NOT EXISTS fees (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_date TEXT
	)`},
	{"leave_requests", `CREATE TABLE IF NOT EXISTS leave_requests (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL
	)`},
	{"promotions", `CREATE TABLE IF NOT EXISTS promotions (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		from_class TEXT NOT NULL,
		to_class TEXT NOT NULL,
		academic_year TEXT NOT NULL,
		status TEXT NOT NULL,
		marks TEXT NOT NULL DEFAULT '',
		grade TEXT NOT NULL DEFAULT ''
	)`},
	{"communications", `CREATE TABLE IF NOT EXISTS communications (
		id BIGINT PRIMARY KEY,
		student_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		date TEXT NOT NULL,
		is_read_by_teacher BOOLEAN NOT NULL DEFAULT FALSE,
		reply TEXT,
		reply_date TEXT
	)`},
}

// Migrate creates any missing tables. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, step := range schema {
		if _, err := db.ExecContext(ctx, step.ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", step.table, err)
		}
	}
	return nil
}

// IsEmpty reports whether the users table holds no rows, which is how the
// seeder decides whether to run against a persistent store.
func IsEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}
