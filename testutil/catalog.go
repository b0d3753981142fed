// Package testutil provides catalog fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"bundle-configurator/catalog"
)

// Raw documents of the fixture catalog:
//
//	M1 (V1 5000, V2 5500 unavailable)   G1 for M1 (A1 1500, A2 900)
//	M2 (V3 4000)                        G2 for M2 (B1 700)
//	                                    G3 for every model (U1 300)
//	independent: I1 250, I2 1200, I3 100 unavailable
const (
	ModelsJSON = `[
		{"id": "M1", "title": "Trail Frame"},
		{"id": "M2", "title": "City Frame"}
	]`
	ModelVariantsJSON = `[
		{"id": "V1", "model": "M1", "title": "Trail Frame / Medium", "price": 5000},
		{"id": "V2", "model": "M1", "title": "Trail Frame / Large", "price": 5500, "available": false},
		{"id": "V3", "model": "M2", "title": "City Frame / Medium", "price": 4000}
	]`
	DependentAccessoriesJSON = `[
		{"id": "G1", "title": "Trail Wheels", "models": ["M1"], "variants": [
			{"id": "A1", "title": "Trail Wheels / 29", "price": 1500},
			{"id": "A2", "title": "Trail Wheels / 27.5", "price": 900}
		]},
		{"id": "G2", "title": "City Fenders", "models": ["M2"], "variants": [
			{"id": "B1", "title": "City Fenders / Black", "price": 700}
		]},
		{"id": "G3", "title": "Bell", "models": [], "variants": [
			{"id": "U1", "title": "Bell / Brass", "price": 300}
		]}
	]`
	IndependentAccessoriesJSON = `[
		{"id": "I1", "title": "Water Bottle", "price": 250, "image": "bottle.png"},
		{"id": "I2", "title": "Saddle Bag", "price": 1200},
		{"id": "I3", "title": "Reflector Kit", "price": 100, "available": false}
	]`
)

// Raw returns the fixture catalog documents
func Raw() catalog.Raw {
	return catalog.Raw{
		catalog.KindModels:                 []byte(ModelsJSON),
		catalog.KindModelVariants:          []byte(ModelVariantsJSON),
		catalog.KindDependentAccessories:   []byte(DependentAccessoriesJSON),
		catalog.KindIndependentAccessories: []byte(IndependentAccessoriesJSON),
	}
}

// Snapshot loads the fixture catalog, failing the test on any parse error
func Snapshot(t testing.TB) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.Load(Raw())
	if err != nil {
		t.Fatalf("load fixture catalog: %v", err)
	}
	return snap
}

// WriteDir writes the fixture catalog as one <kind>.json file per kind into a
// temporary directory and returns it
func WriteDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for kind, data := range Raw() {
		if err := os.WriteFile(filepath.Join(dir, string(kind)+".json"), data, 0o644); err != nil {
			t.Fatalf("write fixture catalog: %v", err)
		}
	}
	return dir
}
