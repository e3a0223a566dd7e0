package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sakif/studyquest/internal/catalog"
	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

// newTestDB opens a fresh in-memory database with migrations applied.
// Each call gets its own database; it is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newSeededDB is newTestDB plus the task type and checklist catalog.
func newSeededDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	if err := db.Seed(context.Background(), catalog.TaskTypes(), catalog.Checklists()); err != nil {
		t.Fatalf("failed to seed test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestTask(t *testing.T, db *DB, userID string, taskTypeID int64, date string, completed bool) *model.Task {
	t.Helper()
	task := &model.Task{
		UserID:     userID,
		TaskTypeID: taskTypeID,
		Date:       date,
		Completed:  completed,
	}
	if err := db.Tasks().Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// =========================================================================
// TRANSACTION TESTS
// =========================================================================

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "committer")

	err := db.InTx(ctx, func(tx repository.Store) error {
		user.TotalPoints = 50
		user.Level = 1
		return tx.Users().UpdatePoints(ctx, user)
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	found, err := db.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.TotalPoints != 50 {
		t.Errorf("TotalPoints = %d, want 50", found.TotalPoints)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "rollback")
	errBoom := errors.New("boom")

	err := db.InTx(ctx, func(tx repository.Store) error {
		user.TotalPoints = 500
		user.Level = 6
		if err := tx.Users().UpdatePoints(ctx, user); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("InTx() error = %v, want %v", err, errBoom)
	}

	found, err := db.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.TotalPoints != 0 || found.Level != 1 {
		t.Errorf("after rollback got total=%d level=%d, want 0 and 1", found.TotalPoints, found.Level)
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}
