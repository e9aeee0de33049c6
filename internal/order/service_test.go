package order

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository
	getByIDFunc   func(ctx context.Context, id string) (*Order, error)
	setStatusFunc func(ctx context.Context, id string, status Status) error
	listSinceFunc func(ctx context.Context, since time.Time) ([]Order, error)
	statusCalls   []Status
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) SetStatus(ctx context.Context, id string, status Status) error {
	f.statusCalls = append(f.statusCalls, status)
	if f.setStatusFunc != nil {
		return f.setStatusFunc(ctx, id, status)
	}
	return nil
}

func (f *fakeRepo) ListSince(ctx context.Context, since time.Time) ([]Order, error) {
	if f.listSinceFunc != nil {
		return f.listSinceFunc(ctx, since)
	}
	return nil, nil
}

func orderWithStatus(status Status) func(ctx context.Context, id string) (*Order, error) {
	return func(_ context.Context, id string) (*Order, error) {
		return &Order{ID: id, Status: status}, nil
	}
}

func TestSetStatus_AllowedTransition(t *testing.T) {
	repo := &fakeRepo{getByIDFunc: orderWithStatus(StatusInProgress)}
	svc := NewService(repo, zerolog.Nop())

	err := svc.SetStatus(context.Background(), "o1", StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusDelivered}, repo.statusCalls)
}

func TestSetStatus_SameStatusIsNoOp(t *testing.T) {
	repo := &fakeRepo{getByIDFunc: orderWithStatus(StatusInProgress)}
	svc := NewService(repo, zerolog.Nop())

	err := svc.SetStatus(context.Background(), "o1", StatusInProgress)
	require.NoError(t, err)
	assert.Empty(t, repo.statusCalls, "no write for a no-op")
}

func TestSetStatus_TerminalStateRejected(t *testing.T) {
	repo := &fakeRepo{getByIDFunc: orderWithStatus(StatusDelivered)}
	svc := NewService(repo, zerolog.Nop())

	err := svc.SetStatus(context.Background(), "o1", StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, repo.statusCalls)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	repo := &fakeRepo{getByIDFunc: orderWithStatus(StatusInProgress)}
	svc := NewService(repo, zerolog.Nop())

	err := svc.SetStatus(context.Background(), "o1", Status("expediee"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatus_MissingOrder(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zerolog.Nop())

	err := svc.SetStatus(context.Background(), "missing", StatusDelivered)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListInWindow_ComputesSince(t *testing.T) {
	var gotSince time.Time
	repo := &fakeRepo{listSinceFunc: func(_ context.Context, since time.Time) ([]Order, error) {
		gotSince = since
		return []Order{}, nil
	}}
	svc := NewService(repo, zerolog.Nop())
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.ListInWindow(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(-7*24*time.Hour), gotSince)
}

func TestLineAmount(t *testing.T) {
	l := Line{UnitPrice: 2000, Quantity: 3}
	assert.Equal(t, int64(6000), l.Amount())
}
