package activity

import (
	"strings"
	"time"
)

// UnknownUser is the last resort of the actor display chain.
const UnknownUser = "Unknown User"

// Viewer is the context a record is projected for.
type Viewer struct {
	Caller   Principal
	Scope    Scope
	Now      time.Time
	Location *time.Location
}

// DecoratedActivity is a record ready for rendering.
type DecoratedActivity struct {
	Record       Record       `json:"record"`
	Presentation Presentation `json:"presentation"`
	RelativeTime string       `json:"relativeTime"`
	IsOwnRecord  bool         `json:"isOwnRecord"`
	ActorDisplay string       `json:"actorDisplay,omitempty"`
}

// Project decorates rec for viewer.
func Project(rec Record, viewer Viewer) DecoratedActivity {
	rec = rec.WithDefaults()
	out := DecoratedActivity{
		Record:       rec,
		Presentation: Classify(rec.Type),
		RelativeTime: RelativeTimeIn(rec.Timestamp, viewer.Now, viewer.Location),
		IsOwnRecord:  isOwnRecord(rec, viewer.Caller),
	}
	if viewer.Scope.IsAll() {
		out.ActorDisplay = ActorDisplayName(rec.Actor)
	}
	return out
}

// ProjectAll decorates records in order.
func ProjectAll(records []Record, viewer Viewer) []DecoratedActivity {
	out := make([]DecoratedActivity, 0, len(records))
	for _, rec := range records {
		out = append(out, Project(rec, viewer))
	}
	return out
}

func isOwnRecord(rec Record, caller Principal) bool {
	if caller.UserID == "" {
		return false
	}
	if rec.OwnerID != "" {
		return rec.OwnerID == caller.UserID
	}
	return rec.Actor != nil && rec.Actor.ID == caller.UserID
}

// ActorDisplayName picks "first last", then username, then email, then
// UnknownUser.
func ActorDisplayName(a *Actor) string {
	if a == nil {
		return UnknownUser
	}
	if name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName)); name != "" {
		return name
	}
	if u := strings.TrimSpace(a.Username); u != "" {
		return u
	}
	if e := strings.TrimSpace(a.Email); e != "" {
		return e
	}
	return UnknownUser
}
