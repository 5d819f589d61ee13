// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and maps PostgreSQL constraint
// failures onto the storage package's closed failure surface.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// CreateUser persists a new user. Email uniqueness is enforced by the
// users_email_address_key constraint and surfaces as a ValidationError.
func (s *Store) CreateUser(ctx context.Context, user *api.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email_address, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.FirstName, user.LastName, user.EmailAddress, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return mapPostgresError(err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*api.User, error) {
	return s.getUser(ctx, "id = $1", id)
}

// GetUserByEmail retrieves a user by exact email match.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.getUser(ctx, "email_address = $1", email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*api.User, error) {
	var u api.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email_address, password_hash, created_at
		FROM users
		WHERE `+where,
		arg,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.EmailAddress, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// CreateCourse persists a new course. A missing owner surfaces through the
// courses_user_id_fkey constraint as ErrNotFound.
func (s *Store) CreateCourse(ctx context.Context, course *api.Course) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO courses (id, user_id, title, description, estimated_time, materials_needed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, course.ID, course.UserID, course.Title, course.Description,
		course.EstimatedTime, course.MaterialsNeeded, course.CreatedAt)
	if err != nil {
		return mapPostgresError(err)
	}
	return nil
}

const courseColumns = `
	c.id, c.user_id, c.title, c.description, c.estimated_time, c.materials_needed, c.created_at,
	u.id, u.first_name, u.last_name, u.email_address`

// GetCourse retrieves a course by ID with its owner embedded.
func (s *Store) GetCourse(ctx context.Context, id string) (*api.Course, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id)

	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying course: %w", err)
	}
	return course, nil
}

// ListCourses returns all courses in creation order with owners embedded.
func (s *Store) ListCourses(ctx context.Context) ([]*api.Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*api.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse replaces the mutable fields of an existing course. The
// owner column is deliberately absent from the SET list.
func (s *Store) UpdateCourse(ctx context.Context, course *api.Course) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE courses
		SET title = $2, description = $3, estimated_time = $4, materials_needed = $5
		WHERE id = $1
	`, course.ID, course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded)
	if err != nil {
		return mapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanCourse reads one joined course+owner row.
func scanCourse(row pgx.Row) (*api.Course, error) {
	var c api.Course
	var u api.User
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.EstimatedTime, &c.MaterialsNeeded, &c.CreatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.EmailAddress,
	)
	if err != nil {
		return nil, err
	}
	c.User = &u
	return &c, nil
}
