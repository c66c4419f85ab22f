package pedigree

import (
	"context"
	"math"
	"testing"
)

func buildTree(t *testing.T, loader mapLoader, maxGenerations int) Tree {
	t.Helper()
	tree, _, err := Build(context.Background(), loader, loader[1], maxGenerations)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestCalculateCOISharedGrandsire(t *testing.T) {
	tree := buildTree(t, sharedGrandsireFamily(), 5)
	result := CalculateCOI(tree)

	// One common ancestor, one generation up each side: 0.5^(1+1+1).
	if math.Abs(result.COI-0.125) > 1e-12 {
		t.Fatalf("coi: want=0.125 got=%v", result.COI)
	}
	if result.GenerationsAnalyzed != 2 {
		t.Fatalf("generations analyzed: want=2 got=%d", result.GenerationsAnalyzed)
	}
	if len(result.CommonAncestors) != 1 || result.CommonAncestors[0].ID != 4 {
		t.Fatalf("common ancestors: %v", result.CommonAncestors)
	}
	if len(result.Details) != 1 {
		t.Fatalf("details: want=1 got=%d", len(result.Details))
	}
	d := result.Details[0]
	if d.GenerationsToSire != 1 || d.GenerationsToDam != 1 {
		t.Fatalf("path lengths: sire=%d dam=%d", d.GenerationsToSire, d.GenerationsToDam)
	}
}

func TestCalculateCOIFatherDaughter(t *testing.T) {
	loader := mapLoader{
		1: {ID: 1, RegisteredName: "Pup", SireID: ptr(2), DamID: ptr(3)},
		2: {ID: 2, RegisteredName: "Sire"},
		3: {ID: 3, RegisteredName: "Dam", SireID: ptr(2)},
	}
	result := CalculateCOI(buildTree(t, loader, 5))

	if math.Abs(result.COI-0.25) > 1e-12 {
		t.Fatalf("father-daughter coi: want=0.25 got=%v", result.COI)
	}
}

func TestCalculateCOIInbredAncestorRaisesContribution(t *testing.T) {
	fa := 0.25
	loader := sharedGrandsireFamily()
	loader[4].COI = &fa
	result := CalculateCOI(buildTree(t, loader, 5))

	want := 0.125 * (1 + fa)
	if math.Abs(result.COI-want) > 1e-12 {
		t.Fatalf("coi with inbred ancestor: want=%v got=%v", want, result.COI)
	}
	if result.Details[0].AncestorCOI != fa {
		t.Fatalf("ancestor coi on detail: want=%v got=%v", fa, result.Details[0].AncestorCOI)
	}
}

func TestCalculateCOIUnrelatedParents(t *testing.T) {
	loader := mapLoader{
		1: {ID: 1, RegisteredName: "Pup", SireID: ptr(2), DamID: ptr(3)},
		2: {ID: 2, RegisteredName: "Sire", SireID: ptr(4)},
		3: {ID: 3, RegisteredName: "Dam", SireID: ptr(5)},
		4: {ID: 4, RegisteredName: "Sire Grandsire"},
		5: {ID: 5, RegisteredName: "Dam Grandsire"},
	}
	result := CalculateCOI(buildTree(t, loader, 5))

	if result.COI != 0 {
		t.Fatalf("unrelated parents coi: want=0 got=%v", result.COI)
	}
	if len(result.CommonAncestors) != 0 {
		t.Fatalf("common ancestors: want none got=%v", result.CommonAncestors)
	}
}

func TestCalculateCOIMissingParentSide(t *testing.T) {
	loader := mapLoader{
		1: {ID: 1, RegisteredName: "Pup", SireID: ptr(2)},
		2: {ID: 2, RegisteredName: "Sire"},
	}
	result := CalculateCOI(buildTree(t, loader, 5))

	if result.COI != 0 || len(result.Details) != 0 {
		t.Fatalf("single-parent pedigree: want empty result got=%v", result)
	}
}

func TestCalculateCOIEmptyTree(t *testing.T) {
	result := CalculateCOI(Tree{})
	if result.COI != 0 || result.CommonAncestors == nil || result.Details == nil {
		t.Fatalf("empty tree: want zeroed non-nil result got=%v", result)
	}
}

func TestCalculateCOIDeterministicOrdering(t *testing.T) {
	// Two shared grandparents. Details must come back sorted by ancestor id.
	loader := mapLoader{
		1: {ID: 1, RegisteredName: "Pup", SireID: ptr(2), DamID: ptr(3)},
		2: {ID: 2, RegisteredName: "Sire", SireID: ptr(4), DamID: ptr(5)},
		3: {ID: 3, RegisteredName: "Dam", SireID: ptr(4), DamID: ptr(5)},
		4: {ID: 4, RegisteredName: "Grandsire"},
		5: {ID: 5, RegisteredName: "Granddam"},
	}
	result := CalculateCOI(buildTree(t, loader, 5))

	// Full siblings mated: 2 * 0.5^3.
	if math.Abs(result.COI-0.25) > 1e-12 {
		t.Fatalf("full-sibling coi: want=0.25 got=%v", result.COI)
	}
	if len(result.Details) != 2 {
		t.Fatalf("details: want=2 got=%d", len(result.Details))
	}
	if result.Details[0].AncestorID != 4 || result.Details[1].AncestorID != 5 {
		t.Fatalf("detail order: got=[%d %d]", result.Details[0].AncestorID, result.Details[1].AncestorID)
	}
}
