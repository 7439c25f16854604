package mocks

import (
	"context"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, rec *activity.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.RepositoryListOptions) ([]activity.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// ActivityStore is a mock for activity.Store.
type ActivityStore struct {
	mock.Mock
}

func (m *ActivityStore) ListSelf(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityStore) ListAll(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityStore) Statistics(ctx context.Context, period int) (activity.Snapshot, error) {
	args := m.Called(ctx, period)
	if snap, ok := args.Get(0).(activity.Snapshot); ok {
		return snap, args.Error(1)
	}
	return activity.Snapshot{}, args.Error(1)
}

func (m *ActivityStore) StatisticsAll(ctx context.Context, period int) (activity.Snapshot, error) {
	args := m.Called(ctx, period)
	if snap, ok := args.Get(0).(activity.Snapshot); ok {
		return snap, args.Error(1)
	}
	return activity.Snapshot{}, args.Error(1)
}

func (m *ActivityStore) DeleteSelf(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
