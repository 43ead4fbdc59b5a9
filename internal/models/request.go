package models

import (
	"strings"
)

// ChatMessageRequest is a free-text candidate reply during info collection.
type ChatMessageRequest struct {
	Text string `json:"text"`
}

// implements the Validator interface
func (r *ChatMessageRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{
			Code:    "missing_text",
			Message: "Message text is required",
		}
	}
	return nil
}

// AnswerRequest submits an answer for the active question. Exactly one of
// SelectedOptionIndex or TimedOut must be set; a timeout records a nil
// selection.
type AnswerRequest struct {
	SelectedOptionIndex *int `json:"selected_option_index"`
	TimedOut            bool `json:"timed_out"`
}

func (r *AnswerRequest) Validate() error {
	if r.SelectedOptionIndex == nil && !r.TimedOut {
		return &ErrorResponse{
			Code:    "missing_answer",
			Message: "Either selected_option_index or timed_out is required",
		}
	}
	if r.SelectedOptionIndex != nil && r.TimedOut {
		return &ErrorResponse{
			Code:    "ambiguous_answer",
			Message: "selected_option_index and timed_out are mutually exclusive",
		}
	}
	if r.SelectedOptionIndex != nil && *r.SelectedOptionIndex < 0 {
		return &ErrorResponse{
			Code:    "invalid_option_index",
			Message: "selected_option_index must be non-negative",
		}
	}
	return nil
}

// DashboardQuery carries the archive listing parameters. It is built from
// URL query values rather than a JSON body.
type DashboardQuery struct {
	Search string
	SortBy string
	Order  string
}

func (q *DashboardQuery) Validate() error {
	if q.SortBy == "" {
		q.SortBy = "finalScore"
	}
	if q.SortBy != "name" && q.SortBy != "finalScore" {
		return &ErrorResponse{
			Code:    "invalid_sort_key",
			Message: "sort_by must be one of: name, finalScore",
		}
	}
	if q.Order == "" {
		q.Order = "desc"
	}
	if q.Order != "asc" && q.Order != "desc" {
		return &ErrorResponse{
			Code:    "invalid_sort_order",
			Message: "order must be one of: asc, desc",
		}
	}
	return nil
}
