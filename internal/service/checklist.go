package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

// ChecklistService tracks each user's progress through the shared
// exam-prep milestones. Checklist completion carries no points.
type ChecklistService struct {
	store  repository.TxRunner
	clock  Clock
	logger *slog.Logger
}

func NewChecklistService(store repository.TxRunner, clock Clock, logger *slog.Logger) *ChecklistService {
	return &ChecklistService{store: store, clock: clock, logger: logger}
}

// List returns all milestones in order with the caller's status.
func (s *ChecklistService) List(ctx context.Context, userID string) ([]model.ChecklistStatus, error) {
	list, err := s.store.Checklists().ListWithStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/checklist: listing: %w", err)
	}
	return list, nil
}

// Toggle flips the caller's completion of one milestone. The first toggle
// creates the row as completed. completed_at is set when it becomes
// completed and cleared when it is undone.
func (s *ChecklistService) Toggle(ctx context.Context, userID string, checklistID int64) (*model.ChecklistStatus, error) {
	var status model.ChecklistStatus

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		checklist, err := tx.Checklists().GetByID(ctx, checklistID)
		if err != nil {
			return err
		}

		uc, err := tx.Checklists().GetUserChecklist(ctx, userID, checklistID)
		if err != nil {
			return err
		}
		if uc == nil {
			uc = &model.UserChecklist{UserID: userID, ChecklistID: checklistID}
		}

		uc.Completed = !uc.Completed
		if uc.Completed {
			now := s.clock()
			uc.CompletedAt = &now
		} else {
			uc.CompletedAt = nil
		}

		if err := tx.Checklists().SaveUserChecklist(ctx, uc); err != nil {
			return err
		}

		status = model.ChecklistStatus{
			Checklist:   *checklist,
			Completed:   uc.Completed,
			CompletedAt: uc.CompletedAt,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service/checklist: toggling %d: %w", checklistID, err)
	}

	s.logger.Info("checklist toggled",
		slog.String("userID", userID),
		slog.Int64("checklistID", checklistID),
		slog.Bool("completed", status.Completed),
	)
	return &status, nil
}
