package activity_test

import (
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestRelativeTime_Boundaries(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{60 * time.Second, "1m ago"},
		{119 * time.Second, "1m ago"},
		{3599 * time.Second, "59m ago"},
		{3600 * time.Second, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{6*24*time.Hour + 23*time.Hour, "6d ago"},
		{7 * 24 * time.Hour, "Mar 8, 2026"},
		{40 * 24 * time.Hour, "Feb 3, 2026"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, activity.RelativeTime(now.Add(-tc.ago), now), "ago=%s", tc.ago)
	}
}

func TestRelativeTime_FutureIsJustNow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "Just now", activity.RelativeTime(now.Add(time.Hour), now))
}

func TestRelativeTimeIn_AbsoluteDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	require.Equal(t, "Mar 1, 2026", activity.RelativeTimeIn(ts, now, time.UTC))
	require.Equal(t, "Mar 2, 2026", activity.RelativeTimeIn(ts, now, loc))
}

func TestDayBucketKey(t *testing.T) {
	ts := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "2026-03-15", activity.DayBucketKey(ts, time.UTC))
	require.Equal(t, "2026-03-16", activity.DayBucketKey(ts, time.FixedZone("UTC+1", 3600)))
	require.Equal(t, "2026-03-15", activity.DayBucketKey(ts, nil))
}
