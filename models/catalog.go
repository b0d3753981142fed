package models

// Role identifies which part of a configured bundle a catalog entry plays
type Role string

const (
	RoleModelVariant         Role = "model-variant"
	RoleDependentAccessory   Role = "dependent-accessory"
	RoleIndependentAccessory Role = "independent-accessory"
)

// DisplayOrder is the fixed order in which roles are grouped in a summary
var DisplayOrder = []Role{RoleModelVariant, RoleDependentAccessory, RoleIndependentAccessory}

// CatalogEntry represents a selectable variant in the catalog snapshot
type CatalogEntry struct {
	ID            string   `json:"id"`
	DisplayTitle  string   `json:"title"`
	UnitPrice     int64    `json:"price"` // Minor units (cents)
	ImageRef      string   `json:"image,omitempty"`
	IsAvailable   bool     `json:"available"`
	Role          Role     `json:"role"`
	ModelID       string   `json:"modelId,omitempty"`       // Model variants only
	GroupID       string   `json:"groupId,omitempty"`       // Dependent accessories only
	OwnerModelIDs []string `json:"ownerModelIds,omitempty"` // Empty means valid under every model
}

// Model represents a base product the shopper configures around
type Model struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	ImageRef string   `json:"image,omitempty"`
	Variants []string `json:"variants"` // Variant ids in catalog order
}

// AccessoryGroup represents a dependent accessory and its variants
type AccessoryGroup struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	OwnerModelIDs []string `json:"ownerModelIds"`
	Variants      []string `json:"variants"`
}

// CatalogOverview is the response body for GET /catalog
type CatalogOverview struct {
	Models                 []Model          `json:"models"`
	ModelVariants          []CatalogEntry   `json:"modelVariants"`
	AccessoryGroups        []AccessoryGroup `json:"accessoryGroups"`
	DependentAccessories   []CatalogEntry   `json:"dependentAccessories"`
	IndependentAccessories []CatalogEntry   `json:"independentAccessories"`
	Errors                 []string         `json:"errors,omitempty"`
}
