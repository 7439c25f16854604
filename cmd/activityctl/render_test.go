package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestRenderTimeline(t *testing.T) {
	v := activity.View{
		Mode: activity.ViewTimeline,
		Items: []activity.DecoratedActivity{{
			Record:       activity.Record{ID: "a1", Type: activity.TypePostLike, Description: "Liked a story"},
			Presentation: activity.Classify(activity.TypePostLike),
			RelativeTime: "5m ago",
			ActorDisplay: "Alice Smith",
		}},
		Page:         1,
		TotalPages:   1,
		MatchedTotal: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, v, true))
	out := buf.String()
	require.Contains(t, out, "USER")
	require.Contains(t, out, "Alice Smith")
	require.Contains(t, out, "5m ago")
	require.Contains(t, out, "page 1/1, 1 matched")

	buf.Reset()
	require.NoError(t, render(&buf, v, false))
	require.NotContains(t, buf.String(), "USER")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, activity.View{Mode: activity.ViewDetailed}, false))
	require.Equal(t, "No activity found.\n", buf.String())
}

func TestRenderDetailed(t *testing.T) {
	rec := activity.Record{
		ID:          "a1",
		Type:        "custom_event",
		Description: "Did something",
		Timestamp:   time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC),
		Metadata:    map[string]any{"beta": 2, "alpha": "x"},
	}.WithDefaults()
	v := activity.View{
		Mode: activity.ViewDetailed,
		Items: []activity.DecoratedActivity{{
			Record:       rec,
			Presentation: activity.Classify(rec.Type),
			RelativeTime: "1h ago",
		}},
		Page: 1, TotalPages: 1, MatchedTotal: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, v, false))
	out := buf.String()
	require.Contains(t, out, "custom_event")
	require.Contains(t, out, "Unknown / Unknown / Unknown")
	require.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"))
}

func TestRenderAnalytics(t *testing.T) {
	snap := activity.Snapshot{
		Period:  2,
		Summary: activity.Summary{Total: 3, Likes: 1},
		Breakdown: activity.Breakdown{
			Daily:  []activity.DailyCount{{Date: "2026-03-14", Count: 1}, {Date: "2026-03-15", Count: 2}},
			ByType: []activity.DimensionCount{{Value: "post_like", Count: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, activity.View{Mode: activity.ViewAnalytics, Stats: snap}, false))
	out := buf.String()
	require.Contains(t, out, "Last 2 days: 3 total, 1 likes")
	require.Contains(t, out, strings.Repeat("#", barWidth))
	require.Contains(t, out, strings.Repeat("#", barWidth/2))
	require.Contains(t, out, "By type")
	require.NotContains(t, out, "By browser")
}

func TestBar(t *testing.T) {
	require.Equal(t, "", bar(0, 10))
	require.Equal(t, "", bar(3, 0))
	require.Equal(t, "#", bar(1, 1000))
}
