package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/studyquest/internal/model"
)

// Seed populates the task_types and checklists reference tables.
//
// Each table is filled only if it is empty, so calling Seed on every
// startup is safe. Both tables are written in one transaction.
func (db *DB) Seed(ctx context.Context, taskTypes []model.TaskType, checklists []model.Checklist) error {
	return db.withTx(ctx, func(q dbtx) error {
		seededTypes, err := seedTable(ctx, q, "task_types", len(taskTypes), func() error {
			for _, tt := range taskTypes {
				if _, err := q.ExecContext(ctx,
					`INSERT INTO task_types (category, name, points) VALUES (?, ?, ?)`,
					tt.Category, tt.Name, tt.Points,
				); err != nil {
					return fmt.Errorf("inserting task type %q: %w", tt.Name, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		seededChecklists, err := seedTable(ctx, q, "checklists", len(checklists), func() error {
			for _, c := range checklists {
				if _, err := q.ExecContext(ctx,
					`INSERT INTO checklists (title, description, deadline, sort_order) VALUES (?, ?, ?, ?)`,
					c.Title, c.Description, c.Deadline, c.Order,
				); err != nil {
					return fmt.Errorf("inserting checklist %q: %w", c.Title, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		db.logger.Info("reference data checked",
			slog.Bool("taskTypesSeeded", seededTypes),
			slog.Bool("checklistsSeeded", seededChecklists),
		)
		return nil
	})
}

// seedTable runs insert when table has no rows. It reports whether it did.
func seedTable(ctx context.Context, q dbtx, table string, n int, insert func() error) (bool, error) {
	var count int
	// table is one of two constants above, never user input.
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: counting %s: %w", table, err)
	}
	if count > 0 || n == 0 {
		return false, nil
	}
	if err := insert(); err != nil {
		return false, fmt.Errorf("sqlite: seeding %s: %w", table, err)
	}
	return true, nil
}
