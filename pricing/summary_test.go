package pricing

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"bundle-configurator/models"
	"bundle-configurator/utils"
)

func entry(id string, role models.Role, price int64, qty int) models.SelectionEntry {
	return models.SelectionEntry{ID: id, DisplayTitle: id, UnitPrice: price, Role: role, Quantity: qty}
}

func TestProjectOrdersGroupsByRole(t *testing.T) {
	entries := []models.SelectionEntry{
		entry("I1", models.RoleIndependentAccessory, 250, 2),
		entry("A1", models.RoleDependentAccessory, 1500, 1),
		entry("V1", models.RoleModelVariant, 5000, 1),
		entry("I2", models.RoleIndependentAccessory, 1200, 1),
	}

	view := Project(entries)

	var gotRoles []models.Role
	for _, g := range view.Groups {
		gotRoles = append(gotRoles, g.Role)
	}
	wantRoles := []models.Role{models.RoleModelVariant, models.RoleDependentAccessory, models.RoleIndependentAccessory}
	if !reflect.DeepEqual(gotRoles, wantRoles) {
		t.Fatalf("roles = %v, want %v", gotRoles, wantRoles)
	}
	independent := view.Groups[2].Lines
	if independent[0].ID != "I1" || independent[1].ID != "I2" {
		t.Errorf("insertion order lost: %v", independent)
	}
	if independent[0].LineTotal != 500 {
		t.Errorf("I1 line total = %d, want 500", independent[0].LineTotal)
	}
	if view.GrandTotal != 5000+1500+500+1200 {
		t.Errorf("grand total = %d, want 8200", view.GrandTotal)
	}
	if view.ItemCount != 5 {
		t.Errorf("item count = %d, want 5", view.ItemCount)
	}
	if !view.HasItems {
		t.Error("HasItems = false, want true")
	}

	lines := Lines(view)
	wantIDs := []string{"V1", "A1", "I1", "I2"}
	for i, l := range lines {
		if l.ID != wantIDs[i] {
			t.Errorf("Lines()[%d] = %s, want %s", i, l.ID, wantIDs[i])
		}
	}
	if lines[2].Quantity != 2 {
		t.Errorf("I1 quantity = %d, want 2", lines[2].Quantity)
	}
}

func TestProjectEmpty(t *testing.T) {
	view := Project(nil)
	if view.HasItems || view.ItemCount != 0 || view.GrandTotal != 0 || len(view.Groups) != 0 {
		t.Errorf("Project(nil) = %+v, want an empty view", view)
	}
}

func TestProjectTotalsRandomized(t *testing.T) {
	roles := models.DisplayOrder
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 200; round++ {
		var entries []models.SelectionEntry
		var wantTotal int64
		var wantCount int
		n := rng.IntN(12)
		for i := 0; i < n; i++ {
			price := rng.Int64N(100000)
			qty := 1 + rng.IntN(9)
			entries = append(entries, entry(string(rune('a'+i)), roles[rng.IntN(len(roles))], price, qty))
			wantTotal += price * int64(qty)
			wantCount += qty
		}

		view := Project(entries)
		if view.GrandTotal != wantTotal {
			t.Fatalf("round %d: grand total = %d, want %d", round, view.GrandTotal, wantTotal)
		}
		if view.ItemCount != wantCount {
			t.Fatalf("round %d: item count = %d, want %d", round, view.ItemCount, wantCount)
		}
		if view.HasItems != (wantCount > 0) {
			t.Fatalf("round %d: HasItems = %v with %d items", round, view.HasItems, wantCount)
		}
		if again := Project(entries); !reflect.DeepEqual(again, view) {
			t.Fatalf("round %d: Project is not deterministic", round)
		}
	}
}

func TestFormatLabels(t *testing.T) {
	view := Project([]models.SelectionEntry{entry("V1", models.RoleModelVariant, 5000, 1), entry("I1", models.RoleIndependentAccessory, 250, 3)})

	formatted := Format(view, nil)
	if formatted.TotalLabel != "$57.50" {
		t.Errorf("TotalLabel = %q, want $57.50", formatted.TotalLabel)
	}
	if got := formatted.Groups[1].Lines[0].LineTotalLabel; got != "$7.50" {
		t.Errorf("I1 LineTotalLabel = %q, want $7.50", got)
	}
	if view.Groups[0].Lines[0].UnitPriceLabel != "" {
		t.Error("Format must not modify its input")
	}

	cop := Format(view, utils.COPFormatter{})
	if cop.TotalLabel != "$58" {
		t.Errorf("COP TotalLabel = %q, want $58", cop.TotalLabel)
	}
}
