package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// Service wraps the repository with the status state machine and the
// window-based queries the admin pages use.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListUnviewed(ctx context.Context) ([]Order, error) {
	return s.repo.ListUnviewed(ctx)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.repo.ListByStatus(ctx, status)
}

// ListInWindow returns orders from the trailing days window, oldest first.
func (s *Service) ListInWindow(ctx context.Context, days int) ([]Order, error) {
	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return s.repo.ListSince(ctx, since)
}

func (s *Service) MarkViewed(ctx context.Context, id string) error {
	return s.repo.MarkViewed(ctx, id)
}

// SetStatus applies a status change after checking the transition is allowed.
// Setting the current status again is a no-op, not an error.
func (s *Service) SetStatus(ctx context.Context, id string, newStatus Status) error {
	if !newStatus.Valid() {
		return fmt.Errorf("unknown status %q: %w", newStatus, ErrInvalidTransition)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == newStatus {
		return nil
	}
	if !current.Status.CanTransition(newStatus) {
		return fmt.Errorf("cannot move order %s from %s to %s: %w", id, current.Status, newStatus, ErrInvalidTransition)
	}

	if err := s.repo.SetStatus(ctx, id, newStatus); err != nil {
		return err
	}

	s.logger.Info().
		Str("order_id", id).
		Str("old_status", current.Status.String()).
		Str("new_status", newStatus.String()).
		Msg("order status updated")
	return nil
}
