package models

// SummaryLine represents one selected entry in the order summary
type SummaryLine struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ImageRef       string `json:"image,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unitPrice"`
	LineTotal      int64  `json:"lineTotal"`
	UnitPriceLabel string `json:"unitPriceLabel,omitempty"`
	LineTotalLabel string `json:"lineTotalLabel,omitempty"`
}

// SummaryGroup holds the lines of a single role, in insertion order
type SummaryGroup struct {
	Role  Role          `json:"role"`
	Lines []SummaryLine `json:"lines"`
}

// SummaryView represents the derived order summary of a selection
type SummaryView struct {
	Groups     []SummaryGroup `json:"groups"`
	GrandTotal int64          `json:"grandTotal"`
	TotalLabel string         `json:"totalLabel,omitempty"`
	ItemCount  int            `json:"itemCount"`
	HasItems   bool           `json:"hasItems"`
}
