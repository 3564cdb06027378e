package usecase

import (
	"context"
	"fmt"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// ListSelectionsInput wraps the session identifier to read selections for.
type ListSelectionsInput struct {
	SessionID string
}

// ListSelectionsUseCase returns the session's selections in insertion
// order; an expired or unknown session yields an empty slice, not an error.
type ListSelectionsUseCase struct {
	Selections repository.SelectionRepository
}

func NewListSelectionsUseCase(selections repository.SelectionRepository) *ListSelectionsUseCase {
	return &ListSelectionsUseCase{Selections: selections}
}

func (uc *ListSelectionsUseCase) Execute(ctx context.Context, in ListSelectionsInput) ([]meeting.Selection, error) {
	if in.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	selections, err := uc.Selections.List(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return selections, nil
}
