package pedigree

import (
	"context"

	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// Node is one entry of the flattened ancestor tree used by the COI
// calculator. COI carries the animal's own previously stored coefficient
// (0 when never computed).
type Node struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Generation int     `json:"generation"`
	SireID     *uint   `json:"sire_id"`
	DamID      *uint   `json:"dam_id"`
	COI        float64 `json:"coi"`
}

// Tree maps dog id to its node. Ancestors shared between branches are
// revisited and overwrite their entry; the last write wins.
type Tree map[uint]*Node

// Loader resolves a dog id to its stored row. Implementations return
// (nil, nil) when the row does not exist: a dangling parent reference
// truncates that branch instead of failing the build.
type Loader interface {
	DogByID(ctx context.Context, id uint) (*types.Dog, error)
}

// Build expands the ancestry of root into a Tree, following sire/dam pointers
// depth-first. The generation bound is the recursion guard: maxGenerations of
// 0 or less yields an empty tree. The second return value reports whether a
// cyclic parent reference was encountered (the cycle is skipped, not
// followed).
func Build(ctx context.Context, loader Loader, root *types.Dog, maxGenerations int) (Tree, bool, error) {
	tree := Tree{}
	b := &builder{loader: loader, tree: tree, maxGenerations: maxGenerations, onPath: map[uint]bool{}}
	if err := b.addAncestors(ctx, root, 0); err != nil {
		return nil, false, err
	}
	return tree, b.cycleSeen, nil
}

type builder struct {
	loader         Loader
	tree           Tree
	maxGenerations int
	onPath         map[uint]bool
	cycleSeen      bool
}

func (b *builder) addAncestors(ctx context.Context, dog *types.Dog, generation int) error {
	if dog == nil || generation >= b.maxGenerations {
		return nil
	}
	if b.onPath[dog.ID] {
		b.cycleSeen = true
		return nil
	}

	coi := 0.0
	if dog.COI != nil {
		coi = *dog.COI
	}
	b.tree[dog.ID] = &Node{
		ID:         dog.ID,
		Name:       dog.RegisteredName,
		Generation: generation,
		SireID:     dog.SireID,
		DamID:      dog.DamID,
		COI:        coi,
	}

	b.onPath[dog.ID] = true
	defer delete(b.onPath, dog.ID)

	if dog.SireID != nil {
		sire, err := b.loader.DogByID(ctx, *dog.SireID)
		if err != nil {
			return err
		}
		if err := b.addAncestors(ctx, sire, generation+1); err != nil {
			return err
		}
	}
	if dog.DamID != nil {
		dam, err := b.loader.DogByID(ctx, *dog.DamID)
		if err != nil {
			return err
		}
		if err := b.addAncestors(ctx, dam, generation+1); err != nil {
			return err
		}
	}
	return nil
}
