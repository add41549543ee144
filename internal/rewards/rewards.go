// Package rewards maintains the XP ledger. Grants go through a database-side
// increment, so concurrent grants to the same user cannot lose updates.
package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/storage"
)

// SubmissionPoints is granted for every successful project submission.
const SubmissionPoints = 10

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

func (s *Service) Grant(ctx context.Context, userID string, points int) (int, error) {
	if points <= 0 {
		return 0, apperrors.NewValidationError("points", "must be positive")
	}

	newTotal, err := s.storage.AddUserXP(ctx, userID, points)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return 0, &apperrors.NotFoundError{Entity: "user", ID: userID}
		}

		return 0, fmt.Errorf("error granting %d points to user %s: %w", points, userID, err)
	}

	return newTotal, nil
}
