package mcp

import (
	"github.com/rpggio/newsdesk/internal/domain/activity"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	ReadOnly    bool           `json:"-"`
}

type ListActivityParams struct {
	Type   string `json:"type,omitempty"`
	Search string `json:"search,omitempty"`
	Days   int    `json:"days,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type GetStatisticsParams struct {
	Period int `json:"period,omitempty"`
}

type DeleteActivityParams struct {
	ID string `json:"id"`
}

type DescribeActivityTypeParams struct {
	Type string `json:"type"`
}

// Pagination mirrors the REST list pagination block.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListActivityResult struct {
	Items      []activity.DecoratedActivity `json:"items"`
	Pagination Pagination                   `json:"pagination"`
}

type DeleteActivityResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type DescribeActivityTypeResult struct {
	activity.TypeInfo
	Known bool `json:"known"`
}
