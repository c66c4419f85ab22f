package pedigree

import (
	"math"
	"sort"
)

// CommonAncestor identifies one animal present in both the sire-side and
// dam-side ancestor sets.
type CommonAncestor struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Generation int    `json:"generation"`
}

// PathDetail explains one ancestor's contribution to the total coefficient.
type PathDetail struct {
	AncestorID        uint    `json:"ancestor_id"`
	AncestorName      string  `json:"ancestor_name"`
	GenerationsToSire int     `json:"generations_to_sire"`
	GenerationsToDam  int     `json:"generations_to_dam"`
	AncestorCOI       float64 `json:"ancestor_coi"`
	Contribution      float64 `json:"contribution"`
	SirePath          []uint  `json:"sire_path"`
	DamPath           []uint  `json:"dam_path"`
}

type COIResult struct {
	COI                 float64          `json:"coi"`
	GenerationsAnalyzed int              `json:"generations_analyzed"`
	CommonAncestors     []CommonAncestor `json:"common_ancestors"`
	Details             []PathDetail     `json:"details"`
}

// CalculateCOI computes Wright's coefficient of inbreeding over a built
// ancestor tree. For each ancestor common to both parental lines, one path
// per side is discovered (depth-first, sire pointer preferred) and its
// contribution is 0.5^(n1+n2+1) * (1 + Fa), where Fa is the ancestor's own
// stored coefficient. Ancestors reachable over several paths per side are
// counted once per side.
func CalculateCOI(tree Tree) COIResult {
	empty := COIResult{CommonAncestors: []CommonAncestor{}, Details: []PathDetail{}}
	if len(tree) == 0 {
		return empty
	}

	var root *Node
	for _, node := range tree {
		if node.Generation == 0 {
			root = node
			break
		}
	}
	if root == nil || root.SireID == nil || root.DamID == nil {
		return empty
	}

	sireAncestors := reachable(tree, *root.SireID)
	damAncestors := reachable(tree, *root.DamID)

	var commonIDs []uint
	for id := range sireAncestors {
		if damAncestors[id] {
			commonIDs = append(commonIDs, id)
		}
	}
	sort.Slice(commonIDs, func(i, j int) bool { return commonIDs[i] < commonIDs[j] })

	generationsAnalyzed := 0
	for _, node := range tree {
		if node.Generation > generationsAnalyzed {
			generationsAnalyzed = node.Generation
		}
	}

	result := COIResult{
		GenerationsAnalyzed: generationsAnalyzed,
		CommonAncestors:     []CommonAncestor{},
		Details:             []PathDetail{},
	}

	for _, ancestorID := range commonIDs {
		ancestor := tree[ancestorID]
		result.CommonAncestors = append(result.CommonAncestors, CommonAncestor{
			ID:         ancestor.ID,
			Name:       ancestor.Name,
			Generation: ancestor.Generation,
		})

		sirePath := findPath(tree, *root.SireID, ancestorID)
		damPath := findPath(tree, *root.DamID, ancestorID)
		if sirePath == nil || damPath == nil {
			continue
		}

		n1 := len(sirePath) - 1
		n2 := len(damPath) - 1
		fa := ancestor.COI
		contribution := math.Pow(0.5, float64(n1+n2+1)) * (1 + fa)
		result.COI += contribution

		result.Details = append(result.Details, PathDetail{
			AncestorID:        ancestorID,
			AncestorName:      ancestor.Name,
			GenerationsToSire: n1,
			GenerationsToDam:  n2,
			AncestorCOI:       fa,
			Contribution:      contribution,
			SirePath:          sirePath,
			DamPath:           damPath,
		})
	}

	return result
}

// reachable collects every id reachable from start (inclusive) by following
// sire/dam pointers within the tree.
func reachable(tree Tree, start uint) map[uint]bool {
	ancestors := map[uint]bool{}
	stack := []uint{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := tree[id]
		if !ok || ancestors[id] {
			continue
		}
		ancestors[id] = true
		if node.SireID != nil {
			stack = append(stack, *node.SireID)
		}
		if node.DamID != nil {
			stack = append(stack, *node.DamID)
		}
	}
	return ancestors
}

// findPath returns the first depth-first path from start to target, both
// inclusive, trying the sire pointer before the dam pointer. Not necessarily
// the shortest path.
func findPath(tree Tree, start, target uint) []uint {
	if _, ok := tree[start]; !ok {
		return nil
	}
	if _, ok := tree[target]; !ok {
		return nil
	}
	return dfsPath(tree, start, target, nil, map[uint]bool{})
}

func dfsPath(tree Tree, current, target uint, path []uint, onPath map[uint]bool) []uint {
	if current == target {
		return append(append([]uint{}, path...), current)
	}
	node, ok := tree[current]
	if !ok || onPath[current] {
		return nil
	}
	onPath[current] = true
	defer delete(onPath, current)

	next := append(path, current)
	if node.SireID != nil {
		if found := dfsPath(tree, *node.SireID, target, next, onPath); found != nil {
			return found
		}
	}
	if node.DamID != nil {
		if found := dfsPath(tree, *node.DamID, target, next, onPath); found != nil {
			return found
		}
	}
	return nil
}
