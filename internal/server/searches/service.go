// Package searches implements per-account, per-feature query/response
// history: save, list the most recent entries, delete by identifier.
package searches

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkovalev/nutrigenie/internal/common"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

// RecentLimit caps how many history entries one listing returns.
const RecentLimit = 10

// AccountSource is the narrow view of the accounts store this service needs
// to refuse orphaned history records.
type AccountSource interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

type Service struct {
	repo     Repository
	accounts AccountSource
}

func NewService(repo Repository, accounts AccountSource) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Save inserts one history record for an existing account. The owning
// account is verified first; sqlite ships with foreign keys off by default,
// so the service does not rely on the constraint alone.
func (s *Service) Save(ctx context.Context, userID int64, feature Feature, query, response string) (*SearchRecord, error) {

	if !feature.Valid() {
		return nil, common.ErrUnknownFeature
	}

	if _, err := s.accounts.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownAccount
		}
		return nil, fmt.Errorf("error checking account: %w", err)
	}

	rec := &SearchRecord{UserID: userID, Feature: feature, Query: query, Response: response}
	rec, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error saving search: %w", err)
	}

	return rec, nil
}

// ListRecent returns up to RecentLimit records for (userID, feature),
// newest first. No records is an empty slice, not an error.
func (s *Service) ListRecent(ctx context.Context, userID int64, feature Feature) ([]SearchRecord, error) {

	if !feature.Valid() {
		return nil, common.ErrUnknownFeature
	}

	records, err := s.repo.ListRecent(ctx, userID, feature, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing searches: %w", err)
	}

	return records, nil
}

// Delete removes one record by identifier. Deleting a record that does not
// exist (or was already deleted) succeeds silently.
func (s *Service) Delete(ctx context.Context, id int64) error {

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting search: %w", err)
	}

	return nil
}

// DeleteOwned removes one record by identifier, but only when it belongs to
// userID. Missing and foreign identifiers both succeed silently, so callers
// cannot probe other accounts' history.
func (s *Service) DeleteOwned(ctx context.Context, userID, id int64) error {

	if err := s.repo.DeleteOwned(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting search: %w", err)
	}

	return nil
}
