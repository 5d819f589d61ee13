package postgres

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/storage"
)

func init() {
	// Configure testcontainers to use podman.
	// Detect the podman socket from `podman machine inspect`.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestDB starts a PostgreSQL container and returns a connected Store.
// Tests are skipped if a container runtime is not available.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	if _, err := exec.LookPath("podman"); err != nil {
		t.Skip("podman not found, skipping integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("coursewise_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container (is podman running?): %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := New(ctx, Config{
		DSN:            connStr,
		MaxConns:       5,
		MinConns:       1,
		MigrateOnStart: true,
	})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testUser(email string) *api.User {
	return &api.User{
		ID:           api.NewUserID(),
		FirstName:    "Alice",
		LastName:     "Jones",
		EmailAddress: email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestIntegration_UserRoundTrip(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	u := testUser("alice@example.com")
	if err := store.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.PasswordHash != u.PasswordHash {
		t.Errorf("GetUserByEmail() = %+v, want %+v", byEmail, u)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestIntegration_DuplicateEmailIsValidationError(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("alice@example.com")); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	err := store.CreateUser(ctx, testUser("alice@example.com"))
	var ve *storage.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("duplicate email error = %v, want ValidationError", err)
	}
	if ve.Errors[0].Kind != storage.KindUnique || ve.Errors[0].Message != api.MsgEmailTaken {
		t.Errorf("errors = %+v, want unique %q", ve.Errors, api.MsgEmailTaken)
	}
}

func TestIntegration_CourseLifecycle(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := testUser("alice@example.com")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	course := &api.Course{
		ID:          api.NewCourseID(),
		UserID:      owner.ID,
		Title:       "Algorithms",
		Description: "Sorting and searching.",
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateCourse(ctx, course); err != nil {
		t.Fatalf("CreateCourse() error: %v", err)
	}

	got, err := store.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourse() error: %v", err)
	}
	if got.User == nil || got.User.ID != owner.ID {
		t.Errorf("owner not embedded: %+v", got.User)
	}
	if got.User != nil && got.User.PasswordHash != "" {
		t.Error("embedded owner carries a password hash")
	}

	got.Title = "Advanced Algorithms"
	if err := store.UpdateCourse(ctx, got); err != nil {
		t.Fatalf("UpdateCourse() error: %v", err)
	}

	list, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Advanced Algorithms" {
		t.Errorf("ListCourses() = %+v, want one updated course", list)
	}

	if err := store.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("DeleteCourse() error: %v", err)
	}
	if _, err := store.GetCourse(ctx, course.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCourse(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestIntegration_MissingOwnerIsNotFound(t *testing.T) {
	store := setupTestDB(t)

	err := store.CreateCourse(context.Background(), &api.Course{
		ID:          api.NewCourseID(),
		UserID:      "user_doesnotexist",
		Title:       "Orphan",
		Description: "No owner.",
		CreatedAt:   time.Now().UTC(),
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("CreateCourse(missing owner) error = %v, want ErrNotFound", err)
	}
}
