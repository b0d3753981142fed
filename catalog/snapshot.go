// Package catalog holds the immutable, load-once catalog snapshot a widget
// configures against.
package catalog

import (
	"slices"

	"bundle-configurator/models"
)

// Kind names one serialized document of a snapshot
type Kind string

const (
	KindModels                 Kind = "models"
	KindModelVariants          Kind = "model-variants"
	KindDependentAccessories   Kind = "dependent-accessories"
	KindIndependentAccessories Kind = "independent-accessories"
)

// Kinds lists every snapshot kind in load order
var Kinds = []Kind{KindModels, KindModelVariants, KindDependentAccessories, KindIndependentAccessories}

// Raw holds the serialized documents of a snapshot, keyed by kind.
// A missing kind is an empty kind.
type Raw map[Kind][]byte

// Snapshot is a read-only view of the selectable catalog.
// It is never mutated after Load returns.
type Snapshot struct {
	models        []models.Model
	modelIndex    map[string]int
	modelVariants []models.CatalogEntry
	groups        []models.AccessoryGroup
	groupIndex    map[string]int
	dependent     []models.CatalogEntry
	independent   []models.CatalogEntry

	// index resolves any entry id with precedence
	// model variants, dependent accessories, independent accessories.
	index map[string]models.CatalogEntry
}

// Empty returns a snapshot with nothing in it
func Empty() *Snapshot {
	return &Snapshot{
		modelIndex: map[string]int{},
		groupIndex: map[string]int{},
		index:      map[string]models.CatalogEntry{},
	}
}

// Lookup resolves an entry id against the snapshot
func (s *Snapshot) Lookup(id string) (models.CatalogEntry, bool) {
	e, ok := s.index[id]
	return e, ok
}

// Model returns the model with the given id
func (s *Snapshot) Model(id string) (models.Model, bool) {
	i, ok := s.modelIndex[id]
	if !ok {
		return models.Model{}, false
	}
	return s.models[i], true
}

// Group returns the dependent accessory group with the given id
func (s *Snapshot) Group(id string) (models.AccessoryGroup, bool) {
	i, ok := s.groupIndex[id]
	if !ok {
		return models.AccessoryGroup{}, false
	}
	return s.groups[i], true
}

// Groups returns every dependent accessory group in catalog order
func (s *Snapshot) Groups() []models.AccessoryGroup {
	return slices.Clone(s.groups)
}

// Models returns every model in catalog order
func (s *Snapshot) Models() []models.Model {
	return slices.Clone(s.models)
}

// Len returns the number of distinct selectable entries
func (s *Snapshot) Len() int {
	return len(s.index)
}

// IsEmpty reports whether there is nothing to configure
func (s *Snapshot) IsEmpty() bool {
	return len(s.models) == 0 && len(s.index) == 0
}

// Overview flattens the snapshot for inspection endpoints
func (s *Snapshot) Overview() models.CatalogOverview {
	return models.CatalogOverview{
		Models:                 s.Models(),
		ModelVariants:          slices.Clone(s.modelVariants),
		AccessoryGroups:        s.Groups(),
		DependentAccessories:   slices.Clone(s.dependent),
		IndependentAccessories: slices.Clone(s.independent),
	}
}
