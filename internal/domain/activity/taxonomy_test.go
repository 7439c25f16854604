package activity_test

import (
	"testing"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestClassify_KnownTypesHaveCompleteMetadata(t *testing.T) {
	types := activity.KnownTypes()
	require.Len(t, types, 27)

	seen := map[activity.ActivityType]bool{}
	for _, typ := range types {
		require.False(t, seen[typ], "duplicate type %s", typ)
		seen[typ] = true

		p := activity.Classify(typ)
		require.NotEmpty(t, p.Icon, typ)
		require.NotEmpty(t, p.AccentColor, typ)
		require.NotEmpty(t, p.Background, typ)
		require.NotEmpty(t, p.Label, typ)
		require.NotEqual(t, activity.DefaultPresentation, p, typ)
		require.True(t, activity.IsKnown(typ))
	}
}

func TestClassify_UnknownTypeFallsBackToDefault(t *testing.T) {
	for _, typ := range []activity.ActivityType{"legacy_event_x", "", "LOGIN", "all"} {
		require.Equal(t, activity.DefaultPresentation, activity.Classify(typ))
		require.False(t, activity.IsKnown(typ))
	}
}

func TestClassify_Labels(t *testing.T) {
	require.Equal(t, "Post Liked", activity.Classify(activity.TypePostLike).Label)
	require.Equal(t, "Login", activity.Classify(activity.TypeLogin).Label)
	require.Equal(t, "Comment Added", activity.Classify(activity.TypeCommentCreate).Label)
}

func TestCatalog_MatchesKnownTypes(t *testing.T) {
	catalog := activity.Catalog()
	types := activity.KnownTypes()
	require.Len(t, catalog, len(types))
	for i, info := range catalog {
		require.Equal(t, types[i], info.Type)
		require.Equal(t, activity.Classify(info.Type), info.Presentation)
	}
}
