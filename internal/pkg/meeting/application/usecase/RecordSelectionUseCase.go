package usecase

import (
	"context"
	"fmt"
	"time"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// RecordSelectionInput carries one post-session choice.
type RecordSelectionInput struct {
	SessionID string
	Selector  string
	Selected  string
}

// RecordSelectionUseCase appends a "continue with" selection to the
// session's short-lived list.
type RecordSelectionUseCase struct {
	Selections repository.SelectionRepository
}

func NewRecordSelectionUseCase(selections repository.SelectionRepository) *RecordSelectionUseCase {
	return &RecordSelectionUseCase{Selections: selections}
}

func (uc *RecordSelectionUseCase) Execute(ctx context.Context, in RecordSelectionInput) error {
	if in.SessionID == "" || in.Selector == "" || in.Selected == "" {
		return fmt.Errorf("session id, selector and selected are required")
	}

	s := meeting.Selection{
		Selector:  in.Selector,
		Selected:  in.Selected,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Selections.Push(ctx, in.SessionID, s); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
