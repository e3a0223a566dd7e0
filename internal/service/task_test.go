package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/repository/sqlite"
)

func newTestTaskService(t *testing.T) (*TaskService, *sqlite.DB) {
	t.Helper()
	db := newTestStore(t)
	return NewTaskService(db, testLogger()), db
}

func TestTaskService_ListTaskTypes(t *testing.T) {
	svc, _ := newTestTaskService(t)

	types, err := svc.ListTaskTypes(context.Background())
	if err != nil {
		t.Fatalf("ListTaskTypes() error = %v", err)
	}
	if len(types) != 16 {
		t.Errorf("len = %d, want 16", len(types))
	}
}

func TestTaskService_Create(t *testing.T) {
	svc, db := newTestTaskService(t)
	user := createUser(t, db, "alice")

	task, err := svc.Create(context.Background(), user.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == "" || task.Completed {
		t.Errorf("task = %+v, want new incomplete task with an ID", task)
	}
	if task.TaskType == nil || task.TaskType.Name != "英語" {
		t.Errorf("TaskType = %+v, want 英語", task.TaskType)
	}
	if got := reloadUser(t, db, user.ID); got.TotalPoints != 0 {
		t.Errorf("creating a task changed total_points to %d", got.TotalPoints)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc, db := newTestTaskService(t)
	user := createUser(t, db, "alice")

	tests := []struct {
		name      string
		in        CreateTaskInput
		wantField string
	}{
		{"missing task type", CreateTaskInput{Date: "2026-10-17"}, "task_type_id"},
		{"unknown task type", CreateTaskInput{TaskTypeID: 999, Date: "2026-10-17"}, "task_type_id"},
		{"missing date", CreateTaskInput{TaskTypeID: typeEnglish}, "date"},
		{"malformed date", CreateTaskInput{TaskTypeID: typeEnglish, Date: "17/10/2026"}, "date"},
		{"impossible date", CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-02-30"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), user.ID, tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}
}

func TestTaskService_List(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	for _, d := range []string{"2026-10-16", "2026-10-17", "2026-10-17"} {
		if _, err := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: d}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := svc.List(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) len = %d, want 3", len(all))
	}

	day, err := svc.List(ctx, user.ID, "2026-10-17")
	if err != nil {
		t.Fatalf("List(date) error = %v", err)
	}
	if len(day) != 2 {
		t.Errorf("List(2026-10-17) len = %d, want 2", len(day))
	}

	if _, err := svc.List(ctx, user.ID, "yesterday"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("List(bad date) error = %v, want ErrValidation", err)
	}
}

// The register → create → complete → uncomplete → delete walk-through.
func TestTaskService_ToggleRoundTrip(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	task, err := svc.Create(ctx, alice.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	res, err := svc.ToggleComplete(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("first ToggleComplete() error = %v", err)
	}
	if !res.Task.Completed || res.User.TotalPoints != 50 || res.User.Level != 1 {
		t.Errorf("after complete: completed=%v total=%d level=%d, want true 50 1",
			res.Task.Completed, res.User.TotalPoints, res.User.Level)
	}

	res, err = svc.ToggleComplete(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("second ToggleComplete() error = %v", err)
	}
	if res.Task.Completed || res.User.TotalPoints != 0 || res.User.Level != 1 {
		t.Errorf("after uncomplete: completed=%v total=%d level=%d, want false 0 1",
			res.Task.Completed, res.User.TotalPoints, res.User.Level)
	}

	stored := reloadUser(t, db, alice.ID)
	if stored.TotalPoints != 0 || stored.Level != 1 {
		t.Errorf("stored user total=%d level=%d, want 0 1", stored.TotalPoints, stored.Level)
	}
}

func TestTaskService_ToggleCrossesLevel(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "climber")

	var last *ToggleResult
	for i := 0; i < 3; i++ {
		task, err := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeMockExam, Date: "2026-10-17"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if last, err = svc.ToggleComplete(ctx, user.ID, task.ID); err != nil {
			t.Fatalf("ToggleComplete() error = %v", err)
		}
	}
	if last.User.TotalPoints != 300 || last.User.Level != 4 {
		t.Errorf("total=%d level=%d, want 300 4", last.User.TotalPoints, last.User.Level)
	}
}

func TestTaskService_PenaltyGoesNegative(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "sleepy")

	task, err := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeSleepIn, Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	res, err := svc.ToggleComplete(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if res.User.TotalPoints != -20 || res.User.Level != 1 {
		t.Errorf("total=%d level=%d, want -20 1", res.User.TotalPoints, res.User.Level)
	}
}

func TestTaskService_ToggleNotOwned(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	intruder := createUser(t, db, "intruder")

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.ToggleComplete(ctx, intruder.ID, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleComplete() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, intruder.ID, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ToggleComplete(ctx, owner.ID, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleComplete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTaskService_DeleteCompletedReversesPoints(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	keep, _ := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeMockExam, Date: "2026-10-17"})
	drop, _ := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-10-17"})
	for _, task := range []string{keep.ID, drop.ID} {
		if _, err := svc.ToggleComplete(ctx, user.ID, task); err != nil {
			t.Fatalf("ToggleComplete() error = %v", err)
		}
	}
	if got := reloadUser(t, db, user.ID); got.TotalPoints != 150 || got.Level != 2 {
		t.Fatalf("before delete total=%d level=%d, want 150 2", got.TotalPoints, got.Level)
	}

	if err := svc.Delete(ctx, user.ID, drop.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.TotalPoints != 100 || got.Level != 2 {
		t.Errorf("after delete total=%d level=%d, want 100 2", got.TotalPoints, got.Level)
	}
	if _, err := db.Tasks().GetForUser(ctx, user.ID, drop.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("deleted task still readable: %v", err)
	}
}

func TestTaskService_DeleteIncompleteKeepsPoints(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	done, _ := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeEnglish, Date: "2026-10-17"})
	if _, err := svc.ToggleComplete(ctx, user.ID, done.ID); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	pending, _ := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: typeMockExam, Date: "2026-10-17"})

	if err := svc.Delete(ctx, user.ID, pending.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := reloadUser(t, db, user.ID); got.TotalPoints != 50 {
		t.Errorf("total = %d, want 50", got.TotalPoints)
	}
}

// Points always equal the sum over completed tasks, whatever the sequence.
func TestTaskService_TotalMatchesCompletedSum(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()
	user := createUser(t, db, "mixer")

	types := []int64{typeEnglish, typeMockExam, typeSleepIn, typeEnglish}
	ids := make([]string, len(types))
	for i, tt := range types {
		task, err := svc.Create(ctx, user.ID, CreateTaskInput{TaskTypeID: tt, Date: "2026-10-17"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids[i] = task.ID
	}

	for _, i := range []int{0, 1, 2, 1, 3, 0, 1} {
		if _, err := svc.ToggleComplete(ctx, user.ID, ids[i]); err != nil {
			t.Fatalf("ToggleComplete() error = %v", err)
		}
	}
	if err := svc.Delete(ctx, user.ID, ids[2]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tasks, err := svc.List(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	sum := 0
	for _, task := range tasks {
		if task.Completed {
			sum += task.Points()
		}
	}

	got := reloadUser(t, db, user.ID)
	if got.TotalPoints != sum {
		t.Errorf("total_points = %d, completed sum = %d", got.TotalPoints, sum)
	}
}
