package mcp

var listFilterProperties = map[string]any{
	"type": map[string]any{
		"type":        "string",
		"description": "Activity type to match exactly, e.g. post_like or login. Omit or pass \"all\" for every type",
	},
	"search": map[string]any{
		"type":        "string",
		"description": "Case-insensitive text matched against description and details",
	},
	"days": map[string]any{
		"type":        "integer",
		"description": "Only include activity from the last N days",
		"minimum":     0,
	},
	"page": map[string]any{
		"type":        "integer",
		"description": "1-based page number",
		"minimum":     1,
	},
	"limit": map[string]any{
		"type":        "integer",
		"description": "Page size (default 20, max 100)",
		"minimum":     1,
		"maximum":     100,
	},
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "list_my_activity",
			Description: "List the caller's own activity, newest first, with display metadata and relative times",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": listFilterProperties,
			},
			ReadOnly: true,
		},
		{
			Name:        "list_all_activity",
			Description: "List activity across all users with the acting user's display name. Administrators only",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": listFilterProperties,
			},
			ReadOnly: true,
		},
		{
			Name:        "get_activity_statistics",
			Description: "Summarize the caller's activity over a period: totals, daily counts and breakdowns by type, browser and OS",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"period": map[string]any{
						"type":        "integer",
						"description": "Period in days: 7, 30, 90 or 365 (default 30)",
						"minimum":     1,
					},
				},
			},
			ReadOnly: true,
		},
		{
			Name:        "delete_my_activity",
			Description: "Permanently delete one of the caller's activity records. Confirm with the user before calling",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Activity record ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "describe_activity_type",
			Description: "Get the label, icon and colors used to present an activity type",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"description": "Activity type, e.g. comment_create",
					},
				},
				"required": []string{"type"},
			},
			ReadOnly: true,
		},
	}
}
