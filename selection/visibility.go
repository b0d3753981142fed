package selection

import (
	"slices"

	"bundle-configurator/catalog"
	"bundle-configurator/models"
)

// VisibleGroups returns the dependent accessory groups selectable under
// activeModel: those with no owner models or owned by activeModel.
// An empty activeModel means no model is selected.
func VisibleGroups(snap *catalog.Snapshot, activeModel string) map[string]bool {
	visible := map[string]bool{}
	for _, g := range snap.Groups() {
		if groupVisible(g, activeModel) {
			visible[g.ID] = true
		}
	}
	return visible
}

func groupVisible(g models.AccessoryGroup, activeModel string) bool {
	if len(g.OwnerModelIDs) == 0 {
		return true
	}
	return activeModel != "" && slices.Contains(g.OwnerModelIDs, activeModel)
}

// reconcile brings active groups and dependent accessory entries back in line
// with what is visible under the active model. Every mutator that can change
// visibility or group membership ends with it.
func (s *Store) reconcile() {
	visible := VisibleGroups(s.snapshot, s.activeModel)
	for g := range s.groups {
		if !visible[g] {
			delete(s.groups, g)
		}
	}
	s.removeWhere(func(e models.SelectionEntry) bool {
		return e.Role == models.RoleDependentAccessory && !visible[e.GroupID]
	})
}
