package models

// SubmissionState is the display state of a widget's add-to-cart control
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
	SubmissionRejected   SubmissionState = "rejected"
)

// SubmissionStatus represents the add-to-cart control as the storefront should render it
type SubmissionStatus struct {
	State    SubmissionState `json:"state"`
	Label    string          `json:"label"`
	Disabled bool            `json:"disabled"`
}

// WidgetState is the response body for every widget endpoint
type WidgetState struct {
	ID                 string           `json:"id"`
	ActiveModel        string           `json:"activeModel,omitempty"`
	VisibleGroups      []string         `json:"visibleGroups"`
	ActiveGroups       []string         `json:"activeGroups"`
	Summary            SummaryView      `json:"summary"`
	Submission         SubmissionStatus `json:"submission"`
	Changed            *bool            `json:"changed,omitempty"` // False when the operation targeted nothing valid
	CatalogUnavailable bool             `json:"catalogUnavailable,omitempty"`
}

// SelectModelRequest represents the request body for POST /widgets/:id/model
type SelectModelRequest struct {
	ModelID string `json:"modelId"`
}

// ToggleGroupRequest represents the request body for POST /widgets/:id/groups
type ToggleGroupRequest struct {
	GroupID string `json:"groupId"`
}

// ToggleEntryRequest represents the request body for POST /widgets/:id/entries
type ToggleEntryRequest struct {
	EntryID string `json:"entryId"`
}

// ChangeQuantityRequest represents the request body for POST /widgets/:id/quantity
// Example: {"entryId": "V1", "delta": -1}
type ChangeQuantityRequest struct {
	EntryID string `json:"entryId"`
	Delta   int    `json:"delta"`
}

// SubmitRequest represents the request body for POST /widgets/:id/submit
type SubmitRequest struct {
	Sections []string `json:"sections,omitempty"`
}

// SubmitResponse represents the outcome of a submission attempt
type SubmitResponse struct {
	Outcome string      `json:"outcome"` // succeeded, failed, rejected, ignored
	Error   string      `json:"error,omitempty"`
	Cart    *Cart       `json:"cart,omitempty"`
	State   WidgetState `json:"state"`
}
