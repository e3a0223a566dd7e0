package service

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/studyquest/internal/catalog"
	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository/sqlite"
)

// Catalog IDs as assigned by Seed.
const (
	typeEnglish  int64 = 1  // 英語, 50
	typeMockExam int64 = 6  // 模試受験, 100
	typeSleepIn  int64 = 14 // 寝坊, -20
)

// saturday is 2026-10-17 10:00 in Tokyo; its week starts Monday 2026-10-12.
var saturday = time.Date(2026, 10, 17, 10, 0, 0, 0, time.FixedZone("JST", 9*60*60))

// newTestStore returns a seeded in-memory database. The service tests run
// against the real sqlite store so transactions are exercised for real.
func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:", testLogger())
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Seed(context.Background(), catalog.TaskTypes(), catalog.Checklists()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *sqlite.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Email: username + "@x.com", Username: username, PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

func reloadUser(t *testing.T, db *sqlite.DB, id string) *model.User {
	t.Helper()
	u, err := db.Users().GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reloading user %s: %v", id, err)
	}
	return u
}
