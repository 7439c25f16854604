package activity

// Presentation is the display metadata for an activity type.
type Presentation struct {
	Icon        string `json:"icon"`
	AccentColor string `json:"accentColor"`
	Background  string `json:"background"`
	Label       string `json:"label"`
}

// DefaultPresentation is returned for types outside the registered set.
var DefaultPresentation = Presentation{
	Icon:        "fas fa-circle",
	AccentColor: "text-gray-600",
	Background:  "bg-gray-100",
	Label:       "Activity",
}

type taxonomyEntry struct {
	typ  ActivityType
	pres Presentation
}

// Declaration order is the order KnownTypes reports.
var taxonomyEntries = []taxonomyEntry{
	{TypeLogin, Presentation{"fas fa-sign-in-alt", "text-green-600", "bg-green-100", "Login"}},
	{TypeLogout, Presentation{"fas fa-sign-out-alt", "text-gray-600", "bg-gray-100", "Logout"}},
	{TypeRegister, Presentation{"fas fa-user-plus", "text-blue-600", "bg-blue-100", "Registration"}},
	{TypeProfileUpdate, Presentation{"fas fa-user-edit", "text-blue-600", "bg-blue-100", "Profile Updated"}},
	{TypePasswordChange, Presentation{"fas fa-key", "text-yellow-600", "bg-yellow-100", "Password Changed"}},

	{TypePostCreate, Presentation{"fas fa-plus-circle", "text-green-600", "bg-green-100", "Post Created"}},
	{TypePostUpdate, Presentation{"fas fa-edit", "text-blue-600", "bg-blue-100", "Post Updated"}},
	{TypePostDelete, Presentation{"fas fa-trash", "text-red-600", "bg-red-100", "Post Deleted"}},
	{TypePostView, Presentation{"fas fa-eye", "text-purple-600", "bg-purple-100", "Post Viewed"}},
	{TypePostLike, Presentation{"fas fa-heart", "text-red-500", "bg-red-100", "Post Liked"}},
	{TypePostUnlike, Presentation{"far fa-heart", "text-gray-500", "bg-gray-100", "Post Unliked"}},
	{TypePostShare, Presentation{"fas fa-share-alt", "text-indigo-600", "bg-indigo-100", "Post Shared"}},
	{TypePostBookmark, Presentation{"fas fa-bookmark", "text-yellow-600", "bg-yellow-100", "Post Bookmarked"}},
	{TypePostUnbookmark, Presentation{"far fa-bookmark", "text-gray-500", "bg-gray-100", "Bookmark Removed"}},

	{TypeCommentCreate, Presentation{"fas fa-comment", "text-blue-600", "bg-blue-100", "Comment Added"}},
	{TypeCommentUpdate, Presentation{"fas fa-comment-dots", "text-blue-500", "bg-blue-100", "Comment Updated"}},
	{TypeCommentDelete, Presentation{"fas fa-comment-slash", "text-red-600", "bg-red-100", "Comment Deleted"}},
	{TypeCommentLike, Presentation{"fas fa-thumbs-up", "text-pink-600", "bg-pink-100", "Comment Liked"}},
	{TypeCommentUnlike, Presentation{"far fa-thumbs-up", "text-gray-500", "bg-gray-100", "Comment Unliked"}},

	{TypeUserFollow, Presentation{"fas fa-user-check", "text-teal-600", "bg-teal-100", "User Followed"}},
	{TypeUserUnfollow, Presentation{"fas fa-user-minus", "text-gray-600", "bg-gray-100", "User Unfollowed"}},
	{TypeUserDelete, Presentation{"fas fa-user-times", "text-red-700", "bg-red-100", "User Deleted"}},
	{TypeAccountDelete, Presentation{"fas fa-user-slash", "text-red-700", "bg-red-100", "Account Deleted"}},

	{TypeSearch, Presentation{"fas fa-search", "text-gray-700", "bg-gray-100", "Search"}},
	{TypePageVisit, Presentation{"fas fa-globe", "text-cyan-600", "bg-cyan-100", "Page Visit"}},
	{TypeFileUpload, Presentation{"fas fa-upload", "text-orange-600", "bg-orange-100", "File Uploaded"}},
	{TypeErrorOccurred, Presentation{"fas fa-exclamation-triangle", "text-red-600", "bg-red-50", "Error"}},
}

var taxonomy = buildTaxonomy(taxonomyEntries)

func buildTaxonomy(entries []taxonomyEntry) map[ActivityType]Presentation {
	m := make(map[ActivityType]Presentation, len(entries))
	for _, e := range entries {
		m[e.typ] = e.pres
	}
	return m
}

// Classify returns the presentation metadata for t, or DefaultPresentation
// when t is not a registered type.
func Classify(t ActivityType) Presentation {
	if p, ok := taxonomy[t]; ok {
		return p
	}
	return DefaultPresentation
}

// IsKnown reports whether t is in the registered set.
func IsKnown(t ActivityType) bool {
	_, ok := taxonomy[t]
	return ok
}

// KnownTypes returns the registered types in declaration order.
func KnownTypes() []ActivityType {
	out := make([]ActivityType, 0, len(taxonomyEntries))
	for _, e := range taxonomyEntries {
		out = append(out, e.typ)
	}
	return out
}

// TypeInfo pairs a type with its presentation, for listings.
type TypeInfo struct {
	Type ActivityType `json:"type"`
	Presentation
}

// Catalog returns every registered type with its presentation.
func Catalog() []TypeInfo {
	out := make([]TypeInfo, 0, len(taxonomyEntries))
	for _, e := range taxonomyEntries {
		out = append(out, TypeInfo{Type: e.typ, Presentation: e.pres})
	}
	return out
}
