package models

// SelectionEntry represents a chosen line item held by a widget's selection store.
// Display fields are copied from the catalog entry at selection time.
type SelectionEntry struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"title"`
	UnitPrice    int64  `json:"unitPrice"`
	ImageRef     string `json:"image,omitempty"`
	Role         Role   `json:"role"`
	GroupID      string `json:"groupId,omitempty"`
	Quantity     int    `json:"quantity"`
}

// NewSelectionEntry copies the display fields of a catalog entry with quantity 1
func NewSelectionEntry(e CatalogEntry) SelectionEntry {
	return SelectionEntry{
		ID:           e.ID,
		DisplayTitle: e.DisplayTitle,
		UnitPrice:    e.UnitPrice,
		ImageRef:     e.ImageRef,
		Role:         e.Role,
		GroupID:      e.GroupID,
		Quantity:     1,
	}
}
