package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rpggio/newsdesk/internal/domain/activity"
)

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// decodeList accepts the data member of a list response in either shape:
// a bare array of records, or an object holding the array under "data"
// next to optional pagination.
func decodeList(data json.RawMessage) ([]activity.Record, *pagination, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil, fmt.Errorf("%w: missing data", activity.ErrMalformedResponse)
	}

	var pg *pagination
	if data[0] == '{' {
		var nested struct {
			Data       json.RawMessage `json:"data"`
			Pagination *pagination     `json:"pagination"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", activity.ErrMalformedResponse, err)
		}
		data = bytes.TrimSpace(nested.Data)
		pg = nested.Pagination
	}
	if len(data) == 0 || data[0] != '[' {
		return nil, nil, fmt.Errorf("%w: expected a list of activity records", activity.ErrMalformedResponse)
	}

	var records []activity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", activity.ErrMalformedResponse, err)
	}
	for i, rec := range records {
		if rec.ID == "" || rec.Timestamp.IsZero() {
			return nil, nil, fmt.Errorf("%w: record %d lacks id or timestamp", activity.ErrMalformedResponse, i)
		}
		records[i] = rec.WithDefaults()
	}
	return records, pg, nil
}

type wireSnapshot struct {
	Period    int                 `json:"period"`
	Summary   *activity.Summary   `json:"summary"`
	Breakdown *activity.Breakdown `json:"breakdown"`
}

// decodeSnapshot accepts the data member of a stats response either as the
// snapshot itself or wrapped once more under "data".
func decodeSnapshot(data json.RawMessage) (activity.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return activity.Snapshot{}, fmt.Errorf("%w: expected a statistics object", activity.ErrMalformedResponse)
	}

	var ws wireSnapshot
	if err := json.Unmarshal(data, &ws); err != nil {
		return activity.Snapshot{}, fmt.Errorf("%w: %v", activity.ErrMalformedResponse, err)
	}
	if ws.Summary == nil {
		var nested struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &nested); err != nil || len(nested.Data) == 0 {
			return activity.Snapshot{}, fmt.Errorf("%w: statistics lack a summary", activity.ErrMalformedResponse)
		}
		ws = wireSnapshot{}
		if err := json.Unmarshal(nested.Data, &ws); err != nil {
			return activity.Snapshot{}, fmt.Errorf("%w: %v", activity.ErrMalformedResponse, err)
		}
		if ws.Summary == nil {
			return activity.Snapshot{}, fmt.Errorf("%w: statistics lack a summary", activity.ErrMalformedResponse)
		}
	}

	snap := activity.Snapshot{Period: ws.Period, Summary: *ws.Summary}
	if ws.Breakdown != nil {
		snap.Breakdown = *ws.Breakdown
	}
	return snap.Normalize(), nil
}
