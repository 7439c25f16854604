package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context, caller activity.Principal, scope activity.Scope, opts activity.ListActivityOptions) (activity.Page, error)
	Statistics(ctx context.Context, caller activity.Principal, scope activity.Scope, period int) (activity.Snapshot, error)
	Delete(ctx context.Context, caller activity.Principal, id string) error
}

// Handler dispatches MCP tool calls.
type Handler struct {
	activity ActivityService
	loc      *time.Location
	now      func() time.Time
}

// NewHandler creates a new MCP handler. loc is the zone relative times and
// day buckets are rendered in.
func NewHandler(activitySvc ActivityService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		activity: activitySvc,
		loc:      loc,
		now:      time.Now,
	}
}

// Handle dispatches a tool call on behalf of caller.
func (h *Handler) Handle(ctx context.Context, caller activity.Principal, method string, params json.RawMessage) (any, error) {
	if caller.UserID == "" {
		return nil, mapError(activity.ErrUnauthorized)
	}

	switch method {
	case "list_my_activity":
		return h.list(ctx, caller, activity.Self(caller.UserID), params)
	case "list_all_activity":
		return h.list(ctx, caller, activity.All(), params)
	case "get_activity_statistics":
		var req GetStatisticsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		period := req.Period
		if period == 0 {
			period = activity.DefaultPeriod
		}
		snap, err := h.activity.Statistics(ctx, caller, activity.Self(caller.UserID), period)
		if err != nil {
			return nil, mapError(err)
		}
		return snap, nil
	case "delete_my_activity":
		var req DeleteActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.activity.Delete(ctx, caller, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeleteActivityResult{ID: req.ID, Deleted: true}, nil
	case "describe_activity_type":
		var req DescribeActivityTypeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t := activity.ActivityType(strings.TrimSpace(req.Type))
		if t == "" {
			return nil, mapError(activity.ErrValidation)
		}
		return DescribeActivityTypeResult{
			TypeInfo: activity.TypeInfo{Type: t, Presentation: activity.Classify(t)},
			Known:    activity.IsKnown(t),
		}, nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", method)
	}
}

func (h *Handler) list(ctx context.Context, caller activity.Principal, scope activity.Scope, params json.RawMessage) (any, error) {
	var req ListActivityParams
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	page, err := h.activity.List(ctx, caller, scope, activity.ListActivityOptions{
		Filter: activity.Filter{
			Type:   activity.ActivityType(req.Type),
			Search: req.Search,
			Days:   req.Days,
		},
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		return nil, mapError(err)
	}

	viewer := activity.Viewer{Caller: caller, Scope: scope, Now: h.now(), Location: h.loc}
	return ListActivityResult{
		Items: activity.ProjectAll(page.Items, viewer),
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.PageSize,
			Total:      page.MatchedTotal,
			TotalPages: page.TotalPages,
		},
	}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_ARGUMENT", Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
