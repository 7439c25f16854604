package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `newsdesk records what users do on the news platform (logins, posts, comments, likes, follows, searches) and summarizes it.

Tools:
- list_my_activity: the caller's own activity, newest first. Filters combine with AND: type, search (description/details), days.
- list_all_activity: the same across all users, with the acting user's display name. Administrators only.
- get_activity_statistics: totals, one count per calendar day of the period, and breakdowns by type, browser and OS.
- delete_my_activity: permanent. Ask the user to confirm first. Deleting an already-deleted record succeeds.
- describe_activity_type: label, icon and colors for a type. Unknown types get a neutral default.

Docs:
- newsdesk://docs/activity-types (every registered type with its label)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

var docResources = []docResource{
	{
		URI:         "newsdesk://docs/activity-types",
		Name:        "activity_types",
		Title:       "Activity types",
		Description: "Every registered activity type with its display label and icon.",
		Content:     activityTypesDoc,
	},
}

func activityTypesDoc() string {
	var b strings.Builder
	b.WriteString("# Activity types\n\n| Type | Label | Icon |\n|---|---|---|\n")
	for _, info := range activity.Catalog() {
		fmt.Fprintf(&b, "| `%s` | %s | `%s` |\n", info.Type, info.Label, info.Icon)
	}
	b.WriteString("\nTypes not listed here are shown as \"Activity\" with a neutral icon.\n")
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		content := doc.Content()

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     content,
				}},
			}, nil
		})
	}
}
