// Command seed creates the database schema and optionally loads a small demo
// dataset: one admin, one academic coordinator, three teachers and two batches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edumgmt-api/pkg/config"
	"github.com/noah-isme/edumgmt-api/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name TEXT NOT NULL,
	role TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS teachers (
	teacher_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	subject TEXT,
	phone TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS centers (
	center_id TEXT PRIMARY KEY,
	center_name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS courses (
	course_id TEXT PRIMARY KEY,
	course_name TEXT NOT NULL,
	type TEXT
)`,
	`CREATE TABLE IF NOT EXISTS batches (
	batch_id TEXT PRIMARY KEY,
	batch_name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	start_date DATE,
	end_date DATE,
	time_from TEXT,
	time_to TEXT,
	teacher TEXT REFERENCES teachers(teacher_id),
	assistant_tutor TEXT REFERENCES teachers(teacher_id),
	center TEXT REFERENCES centers(center_id),
	course_id TEXT REFERENCES courses(course_id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS teacher_batch_requests (
	id TEXT PRIMARY KEY,
	batch_id TEXT NOT NULL REFERENCES batches(batch_id),
	main_teacher_id TEXT NOT NULL,
	request_type TEXT NOT NULL,
	reason TEXT,
	date_from DATE NOT NULL,
	date_to DATE NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	sub_teacher_id TEXT,
	approved_by TEXT,
	approved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_status_window
	ON teacher_batch_requests (status, date_from, date_to)`,
	`CREATE TABLE IF NOT EXISTS teacher_notifications (
	id TEXT PRIMARY KEY,
	recipient_id TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	related_id TEXT,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS academic_notifications (
	id TEXT PRIMARY KEY,
	recipient_id TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	related_id TEXT,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
}

func main() {
	var (
		withDemo bool
		password string
		timeout  time.Duration
	)
	flag.BoolVar(&withDemo, "demo", false, "insert demo users, teachers and batches")
	flag.StringVar(&password, "password", "changeme123", "password for demo accounts")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	log.Println("schema applied")

	if !withDemo {
		return
	}
	if err := seedDemo(ctx, db, password); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}
	log.Println("demo data loaded")
}

type demoUser struct {
	email    string
	fullName string
	role     string
	subject  string
}

func seedDemo(ctx context.Context, db *sqlx.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := []demoUser{
		{email: "admin@example.com", fullName: "Admin", role: "ADMIN"},
		{email: "academic@example.com", fullName: "Academic Coordinator", role: "ACADEMIC"},
		{email: "alice@example.com", fullName: "Alice Nguyen", role: "TEACHER", subject: "Mathematics"},
		{email: "bob@example.com", fullName: "Bob Tran", role: "TEACHER", subject: "Physics"},
		{email: "carol@example.com", fullName: "Carol Pham", role: "TEACHER", subject: "English"},
	}

	teacherIDs := make([]string, 0, len(users))
	for _, u := range users {
		userID := uuid.NewString()
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, full_name, role, active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (email) DO NOTHING`,
			userID, u.email, string(hash), u.fullName, u.role); err != nil {
			return fmt.Errorf("insert user %s: %w", u.email, err)
		}
		if u.role != "TEACHER" {
			continue
		}
		teacherID := uuid.NewString()
		if _, err := db.ExecContext(ctx,
			`INSERT INTO teachers (teacher_id, user_id, subject)
			SELECT $1, id, $3 FROM users WHERE email = $2
			ON CONFLICT (teacher_id) DO NOTHING`,
			teacherID, u.email, u.subject); err != nil {
			return fmt.Errorf("insert teacher for %s: %w", u.email, err)
		}
		teacherIDs = append(teacherIDs, teacherID)
	}
	if len(teacherIDs) < 2 {
		return nil
	}

	centerID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO centers (center_id, center_name) VALUES ($1, 'Main Center') ON CONFLICT DO NOTHING`,
		centerID); err != nil {
		return fmt.Errorf("insert center: %w", err)
	}
	courseID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO courses (course_id, course_name, type) VALUES ($1, 'Foundation Math', 'GROUP') ON CONFLICT DO NOTHING`,
		courseID); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	batches := []struct {
		name      string
		main      string
		assistant string
	}{
		{name: "Math Morning A", main: teacherIDs[0], assistant: teacherIDs[1]},
		{name: "Math Evening B", main: teacherIDs[1], assistant: teacherIDs[0]},
	}
	start := time.Now().UTC()
	for _, b := range batches {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO batches (batch_id, batch_name, status, start_date, end_date, time_from, time_to, teacher, assistant_tutor, center, course_id)
			VALUES ($1, $2, 'ACTIVE', $3, $4, '08:00', '10:00', $5, $6, $7, $8)
			ON CONFLICT DO NOTHING`,
			uuid.NewString(), b.name, start, start.AddDate(0, 6, 0), b.main, b.assistant, centerID, courseID); err != nil {
			return fmt.Errorf("insert batch %s: %w", b.name, err)
		}
	}

	return nil
}
