package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

type activityStub struct {
	listFn   func(context.Context, activity.Principal, activity.Scope, activity.ListActivityOptions) (activity.Page, error)
	statsFn  func(context.Context, activity.Principal, activity.Scope, int) (activity.Snapshot, error)
	deleteFn func(context.Context, activity.Principal, string) error
}

func (a activityStub) List(ctx context.Context, caller activity.Principal, scope activity.Scope, opts activity.ListActivityOptions) (activity.Page, error) {
	return a.listFn(ctx, caller, scope, opts)
}
func (a activityStub) Statistics(ctx context.Context, caller activity.Principal, scope activity.Scope, period int) (activity.Snapshot, error) {
	return a.statsFn(ctx, caller, scope, period)
}
func (a activityStub) Delete(ctx context.Context, caller activity.Principal, id string) error {
	return a.deleteFn(ctx, caller, id)
}

var (
	handlerNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	user       = activity.Principal{UserID: "u1", Role: activity.RoleUser}
	admin      = activity.Principal{UserID: "root", Role: activity.RoleAdmin}
)

func newTestHandler(stub activityStub) *Handler {
	h := NewHandler(stub, time.UTC)
	h.now = func() time.Time { return handlerNow }
	return h
}

func TestHandler_ListMyActivity(t *testing.T) {
	ctx := context.Background()
	var gotScope activity.Scope
	var gotOpts activity.ListActivityOptions
	handler := newTestHandler(activityStub{
		listFn: func(_ context.Context, _ activity.Principal, scope activity.Scope, opts activity.ListActivityOptions) (activity.Page, error) {
			gotScope, gotOpts = scope, opts
			return activity.Page{
				Items: []activity.Record{
					{ID: "a1", OwnerID: "u1", Type: activity.TypeCommentCreate, Description: "Commented", Timestamp: handlerNow.Add(-3 * time.Hour)},
				},
				MatchedTotal: 1, Page: 1, PageSize: 20, TotalPages: 1,
			}, nil
		},
	})

	out, err := handler.Handle(ctx, user, "list_my_activity", mustJSON(t, ListActivityParams{Type: "comment_create", Days: 7}))
	require.NoError(t, err)
	require.Equal(t, activity.Self("u1"), gotScope)
	require.Equal(t, activity.TypeCommentCreate, gotOpts.Type)
	require.Equal(t, 7, gotOpts.Days)

	result, ok := out.(ListActivityResult)
	require.True(t, ok)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Comment Added", result.Items[0].Presentation.Label)
	require.Equal(t, "3h ago", result.Items[0].RelativeTime)
	require.True(t, result.Items[0].IsOwnRecord)
	require.Empty(t, result.Items[0].ActorDisplay)
	require.Equal(t, Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, result.Pagination)
}

func TestHandler_ListAllActivity(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(activityStub{
		listFn: func(_ context.Context, caller activity.Principal, scope activity.Scope, _ activity.ListActivityOptions) (activity.Page, error) {
			if err := scope.Authorize(caller); err != nil {
				return activity.Page{}, err
			}
			return activity.Page{Items: []activity.Record{
				{ID: "a1", OwnerID: "u2", Type: activity.TypeLogin, Description: "Login", Timestamp: handlerNow, Actor: &activity.Actor{FirstName: "Grace", LastName: "Hopper"}},
			}, MatchedTotal: 1, Page: 1, PageSize: 20, TotalPages: 1}, nil
		},
	})

	_, err := handler.Handle(ctx, user, "list_all_activity", nil)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "FORBIDDEN", apiErr.Code)

	out, err := handler.Handle(ctx, admin, "list_all_activity", nil)
	require.NoError(t, err)
	result := out.(ListActivityResult)
	require.Equal(t, "Grace Hopper", result.Items[0].ActorDisplay)
	require.False(t, result.Items[0].IsOwnRecord)
}

func TestHandler_StatisticsDefaultsPeriod(t *testing.T) {
	var gotPeriod int
	handler := newTestHandler(activityStub{
		statsFn: func(_ context.Context, _ activity.Principal, _ activity.Scope, period int) (activity.Snapshot, error) {
			gotPeriod = period
			if _, err := activity.ParsePeriod(period); err != nil {
				return activity.Snapshot{}, err
			}
			return activity.EmptySnapshot(period, handlerNow, time.UTC), nil
		},
	})

	out, err := handler.Handle(context.Background(), user, "get_activity_statistics", nil)
	require.NoError(t, err)
	require.Equal(t, activity.DefaultPeriod, gotPeriod)
	require.Len(t, out.(activity.Snapshot).Breakdown.Daily, activity.DefaultPeriod)

	_, err = handler.Handle(context.Background(), user, "get_activity_statistics", mustJSON(t, GetStatisticsParams{Period: 1000}))
	require.Error(t, err)
	require.Equal(t, "INVALID_ARGUMENT", err.(*APIError).Code)
}

func TestHandler_DeleteAndErrorMapping(t *testing.T) {
	handler := newTestHandler(activityStub{
		deleteFn: func(_ context.Context, _ activity.Principal, id string) error {
			if id == "gone" {
				return activity.ErrNotFound
			}
			return nil
		},
	})

	out, err := handler.Handle(context.Background(), user, "delete_my_activity", mustJSON(t, DeleteActivityParams{ID: "a1"}))
	require.NoError(t, err)
	require.Equal(t, DeleteActivityResult{ID: "a1", Deleted: true}, out)

	_, err = handler.Handle(context.Background(), user, "delete_my_activity", mustJSON(t, DeleteActivityParams{ID: "gone"}))
	require.Error(t, err)
	require.Equal(t, "ACTIVITY_NOT_FOUND", err.(*APIError).Code)

	_, err = handler.Handle(context.Background(), user, "delete_my_activity", json.RawMessage(`{"id":`))
	require.Error(t, err)
	require.Equal(t, "INVALID_ARGUMENT", err.(*APIError).Code)
}

func TestHandler_DescribeActivityType(t *testing.T) {
	handler := newTestHandler(activityStub{})

	out, err := handler.Handle(context.Background(), user, "describe_activity_type", mustJSON(t, DescribeActivityTypeParams{Type: "post_like"}))
	require.NoError(t, err)
	result := out.(DescribeActivityTypeResult)
	require.True(t, result.Known)
	require.Equal(t, "Post Liked", result.Label)

	out, err = handler.Handle(context.Background(), user, "describe_activity_type", mustJSON(t, DescribeActivityTypeParams{Type: "quantum_leap"}))
	require.NoError(t, err)
	result = out.(DescribeActivityTypeResult)
	require.False(t, result.Known)
	require.Equal(t, activity.DefaultPresentation, result.Presentation)
}

func TestHandler_RejectsAnonymousAndUnknownTools(t *testing.T) {
	handler := newTestHandler(activityStub{})

	_, err := handler.Handle(context.Background(), activity.Principal{}, "list_my_activity", nil)
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", err.(*APIError).Code)

	_, err = handler.Handle(context.Background(), user, "drop_tables", nil)
	require.ErrorContains(t, err, "unknown tool")
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
