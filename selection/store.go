// Package selection implements the per-widget selection store: the active
// model, the active dependent accessory groups and the chosen line items.
//
// Store operations never fail. An operation whose target is missing,
// unknown or unavailable leaves the store untouched and reports false.
// A Store is owned by a single widget and is not safe for concurrent use.
package selection

import (
	"slices"
	"sort"

	"bundle-configurator/catalog"
	"bundle-configurator/models"
)

// MaxQuantity is the largest quantity a selected entry can reach
const MaxQuantity = 9999

// Store holds one widget's selection state
type Store struct {
	snapshot    *catalog.Snapshot
	activeModel string
	groups      map[string]bool
	entries     map[string]*models.SelectionEntry
	order       []string // entry ids in insertion order
}

// NewStore creates an empty store bound to snap. A nil snapshot is treated
// as an empty catalog.
func NewStore(snap *catalog.Snapshot) *Store {
	if snap == nil {
		snap = catalog.Empty()
	}
	return &Store{
		snapshot: snap,
		groups:   map[string]bool{},
		entries:  map[string]*models.SelectionEntry{},
	}
}

// Snapshot returns the catalog the store resolves entries against
func (s *Store) Snapshot() *catalog.Snapshot {
	return s.snapshot
}

// ActiveModel returns the active model id, or "" when none is selected
func (s *Store) ActiveModel() string {
	return s.activeModel
}

// ActiveGroups returns the active dependent accessory groups, sorted
func (s *Store) ActiveGroups() []string {
	groups := make([]string, 0, len(s.groups))
	for g := range s.groups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// GroupActive reports whether groupID is an active dependent accessory group
func (s *Store) GroupActive(groupID string) bool {
	return s.groups[groupID]
}

// VisibleGroups returns the groups selectable under the active model, in catalog order
func (s *Store) VisibleGroups() []string {
	visible := VisibleGroups(s.snapshot, s.activeModel)
	ids := make([]string, 0, len(visible))
	for _, g := range s.snapshot.Groups() {
		if visible[g.ID] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Entries returns copies of the selected entries in insertion order
func (s *Store) Entries() []models.SelectionEntry {
	out := make([]models.SelectionEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.entries[id])
	}
	return out
}

// Entry returns the selected entry with the given id
func (s *Store) Entry(id string) (models.SelectionEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return models.SelectionEntry{}, false
	}
	return *e, true
}

// Len returns the number of selected entries
func (s *Store) Len() int {
	return len(s.order)
}

// IsEmpty reports whether nothing is selected
func (s *Store) IsEmpty() bool {
	return len(s.order) == 0
}

// SelectModel makes modelID the active model, or deselects it when it is
// already active. Either way active groups are cleared and every model
// variant and dependent accessory entry is removed; independent accessories
// survive.
func (s *Store) SelectModel(modelID string) bool {
	if _, ok := s.snapshot.Model(modelID); !ok {
		return false
	}
	if s.activeModel == modelID {
		s.activeModel = ""
	} else {
		s.activeModel = modelID
	}
	clear(s.groups)
	s.removeWhere(func(e models.SelectionEntry) bool {
		return e.Role == models.RoleModelVariant || e.Role == models.RoleDependentAccessory
	})
	s.reconcile()
	return true
}

// ToggleAccessoryGroup flips groupID in the active groups. Removing a group
// removes every entry of that group. A group that is unknown or not visible
// under the active model cannot be added.
func (s *Store) ToggleAccessoryGroup(groupID string) bool {
	if s.groups[groupID] {
		delete(s.groups, groupID)
		s.removeWhere(func(e models.SelectionEntry) bool {
			return e.Role == models.RoleDependentAccessory && e.GroupID == groupID
		})
		s.reconcile()
		return true
	}
	if _, ok := s.snapshot.Group(groupID); !ok {
		return false
	}
	if !VisibleGroups(s.snapshot, s.activeModel)[groupID] {
		return false
	}
	s.groups[groupID] = true
	s.reconcile()
	return true
}

// ToggleEntry removes entryID if it is selected, otherwise selects it with
// quantity 1 when the catalog knows it and it is available. A dependent
// accessory is only selectable while its group is active.
func (s *Store) ToggleEntry(entryID string) bool {
	if _, ok := s.entries[entryID]; ok {
		s.remove(entryID)
		return true
	}
	ce, ok := s.snapshot.Lookup(entryID)
	if !ok || !ce.IsAvailable {
		return false
	}
	// reconcile drops hidden groups, so an active group is always visible
	if ce.Role == models.RoleDependentAccessory && !s.groups[ce.GroupID] {
		return false
	}
	e := models.NewSelectionEntry(ce)
	s.entries[entryID] = &e
	s.order = append(s.order, entryID)
	return true
}

// ChangeQuantity adds delta to the quantity of a selected entry. A resulting
// quantity of zero or less removes the entry; increases stop at MaxQuantity.
func (s *Store) ChangeQuantity(entryID string, delta int) bool {
	e, ok := s.entries[entryID]
	if !ok {
		return false
	}
	if delta == 0 {
		return false
	}
	if delta > 0 {
		if e.Quantity >= MaxQuantity {
			return false
		}
		e.Quantity = min(MaxQuantity, e.Quantity+min(delta, MaxQuantity))
		return true
	}
	qty := e.Quantity + delta
	if qty <= 0 {
		s.remove(entryID)
		return true
	}
	e.Quantity = qty
	return true
}

// Clear empties the store
func (s *Store) Clear() bool {
	changed := s.activeModel != "" || len(s.groups) > 0 || len(s.order) > 0
	s.activeModel = ""
	clear(s.groups)
	clear(s.entries)
	s.order = s.order[:0]
	return changed
}

// RemoveSubmitted takes the quantities of lines back out of the selection
// once they reached the cart. Entries added or raised since the lines were
// read keep the difference. A store left without entries is cleared.
func (s *Store) RemoveSubmitted(lines []models.CartLineRequest) bool {
	changed := false
	for _, line := range lines {
		e, ok := s.entries[line.ID]
		if !ok {
			continue
		}
		changed = true
		if e.Quantity <= line.Quantity {
			s.remove(line.ID)
			continue
		}
		e.Quantity -= line.Quantity
	}
	if len(s.order) == 0 {
		return s.Clear() || changed
	}
	return changed
}

func (s *Store) remove(id string) {
	delete(s.entries, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *Store) removeWhere(match func(models.SelectionEntry) bool) {
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		if match(*s.entries[id]) {
			delete(s.entries, id)
			return true
		}
		return false
	})
}
