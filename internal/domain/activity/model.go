package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeLogin          ActivityType = "login"
	TypeLogout         ActivityType = "logout"
	TypeRegister       ActivityType = "register"
	TypeProfileUpdate  ActivityType = "profile_update"
	TypePasswordChange ActivityType = "password_change"

	TypePostCreate     ActivityType = "post_create"
	TypePostUpdate     ActivityType = "post_update"
	TypePostDelete     ActivityType = "post_delete"
	TypePostView       ActivityType = "post_view"
	TypePostLike       ActivityType = "post_like"
	TypePostUnlike     ActivityType = "post_unlike"
	TypePostShare      ActivityType = "post_share"
	TypePostBookmark   ActivityType = "post_bookmark"
	TypePostUnbookmark ActivityType = "post_unbookmark"

	TypeCommentCreate ActivityType = "comment_create"
	TypeCommentUpdate ActivityType = "comment_update"
	TypeCommentDelete ActivityType = "comment_delete"
	TypeCommentLike   ActivityType = "comment_like"
	TypeCommentUnlike ActivityType = "comment_unlike"

	TypeUserFollow    ActivityType = "user_follow"
	TypeUserUnfollow  ActivityType = "user_unfollow"
	TypeUserDelete    ActivityType = "user_delete"
	TypeAccountDelete ActivityType = "account_delete"

	TypeSearch        ActivityType = "search"
	TypePageVisit     ActivityType = "page_visit"
	TypeFileUpload    ActivityType = "file_upload"
	TypeErrorOccurred ActivityType = "error_occurred"
)

// TypeAll is the filter value meaning "no type filter".
const TypeAll ActivityType = "all"

// Unknown is the placeholder for missing client and network attributes.
const Unknown = "Unknown"

// Actor identifies the user a record belongs to. Only populated in admin views.
type Actor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Network describes where an event originated.
type Network struct {
	IPAddress string `json:"ipAddress"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// Record is one immutable activity fact.
type Record struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId,omitempty"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Details     string         `json:"details,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Actor       *Actor         `json:"actor,omitempty"`
	Browser     string         `json:"browser"`
	OS          string         `json:"os"`
	Platform    string         `json:"platform"`
	Network     Network        `json:"network"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// WithDefaults returns a copy with empty client and network attributes set to
// Unknown and the timestamp in UTC.
func (r Record) WithDefaults() Record {
	r.Browser = orUnknown(r.Browser)
	r.OS = orUnknown(r.OS)
	r.Platform = orUnknown(r.Platform)
	r.Network.IPAddress = orUnknown(r.Network.IPAddress)
	r.Network.City = orUnknown(r.Network.City)
	r.Network.Country = orUnknown(r.Network.Country)
	r.Timestamp = r.Timestamp.UTC()
	return r
}

func orUnknown(v string) string {
	if v == "" {
		return Unknown
	}
	return v
}

// Role is the privilege level of a caller.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the caller holds administrator privilege.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ViewMode selects how an activity screen is rendered.
type ViewMode string

const (
	ViewTimeline  ViewMode = "timeline"
	ViewAnalytics ViewMode = "analytics"
	ViewDetailed  ViewMode = "detailed"
)

// ParseViewMode validates a view mode string. Empty means timeline.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "":
		return ViewTimeline, nil
	case ViewTimeline, ViewAnalytics, ViewDetailed:
		return ViewMode(s), nil
	default:
		return "", ErrValidation
	}
}
