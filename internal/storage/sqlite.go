package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sportsfest/livescore/internal/domain"
	_ "modernc.org/sqlite"
)

// formatTimestamp converts time.Time to SQLite-compatible UTC ISO8601 string
// The Z suffix ensures the Go sqlite driver parses it back as UTC
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

//go:embed schema.sql
var schema string

// Store provides database access. Match documents are stored whole as JSON;
// a save replaces the previous document atomically at the row level.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable foreign keys, WAL mode for better performance, and busy timeout for concurrency
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	// Create tables
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Match methods ---

// SaveMatch inserts or replaces the full match document.
func (s *Store) SaveMatch(ctx context.Context, m *domain.Match) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding match %s: %w", m.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, sport, status, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sport = excluded.sport,
			status = excluded.status,
			doc = excluded.doc,
			updated_at = excluded.updated_at
	`, m.ID, string(m.Sport), m.Status, string(doc),
		formatTimestamp(m.CreatedAt), formatTimestamp(m.UpdatedAt))
	return err
}

// GetMatch returns the decoded document, or (nil, nil) if no match exists.
func (s *Store) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM matches WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeMatch(doc)
}

// DeleteMatch removes a match document.
func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("match not found: %s", id)
	}
	return nil
}

// MatchFilter narrows ListMatches results.
type MatchFilter struct {
	Status string
	Sport  string
	Limit  int
}

// ListMatches returns match documents, newest first.
func (s *Store) ListMatches(ctx context.Context, filter MatchFilter) ([]*domain.Match, error) {
	query := `SELECT doc FROM matches WHERE 1=1`
	var args []interface{}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Sport != "" {
		query += ` AND sport = ?`
		args = append(args, filter.Sport)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		m, err := decodeMatch(doc)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func decodeMatch(doc string) (*domain.Match, error) {
	var m domain.Match
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("decoding match document: %w", err)
	}
	return &m, nil
}

// --- Department methods ---

// CreateDepartment inserts a department.
func (s *Store) CreateDepartment(ctx context.Context, d *domain.Department) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO departments (id, name, color, created_at) VALUES (?, ?, ?, ?)
	`, d.ID, d.Name, d.Color, formatTimestamp(d.CreatedAt))
	return err
}

// GetDepartment returns a department by ID, or (nil, nil) if absent.
func (s *Store) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, color, created_at FROM departments WHERE id = ?
	`, id)
	d, err := scanDepartment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// ListDepartments returns all departments ordered by name.
func (s *Store) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, created_at FROM departments ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *d)
	}
	return departments, rows.Err()
}

// UpdateDepartment updates name and color.
func (s *Store) UpdateDepartment(ctx context.Context, d *domain.Department) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE departments SET name = ?, color = ? WHERE id = ?
	`, d.Name, d.Color, d.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("department not found: %s", d.ID)
	}
	return nil
}

// DeleteDepartment removes a department.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("department not found: %s", id)
	}
	return nil
}

// --- User methods ---

// User represents an authenticated user
type User struct {
	ID                     int64
	Username               string
	PasswordHash           string
	IsAdmin                bool
	PasswordChangeRequired bool
	CreatedAt              time.Time
	LastLogin              *time.Time
}

// CreateUser creates a new user account
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, is_admin, password_change_required)
		VALUES (?, ?, ?, TRUE)
	`, username, passwordHash, isAdmin)
	return err
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, password_change_required, created_at, last_login
		FROM users WHERE username = ?
	`, username)
	return scanUser(row)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, password_change_required, created_at, last_login
		FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

// DeleteUser removes a user by username
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user not found: %s", username)
	}
	return nil
}

// ListUsers returns all users with details
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, is_admin, password_change_required, created_at, last_login
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUserLastLogin updates the last login timestamp
func (s *Store) UpdateUserLastLogin(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?
	`, userID)
	return err
}

// UpdateUserPassword updates a user's password and clears the password_change_required flag
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, password_change_required = FALSE WHERE id = ?
	`, newPasswordHash, userID)
	return err
}

// ResetUserPassword sets a new temporary password (admin action)
func (s *Store) ResetUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, password_change_required = TRUE WHERE id = ?
	`, newPasswordHash, userID)
	return err
}

// UpdateUserAdmin updates the admin status of a user
func (s *Store) UpdateUserAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_admin = ? WHERE id = ?
	`, isAdmin, userID)
	return err
}
