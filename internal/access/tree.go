package access

import (
	"fmt"
	"sort"
)

// BuildTree assembles the flat resource rows of one type into an ordered
// forest. It validates that every parent reference resolves to a resource of
// the same type and that no node is its own ancestor. Structural errors abort
// the refresh; they are configuration faults, not per-request conditions.
func BuildTree(resources []Resource, t ResourceType) (Forest, error) {
	byID := make(map[int64]*Node, len(resources))
	for _, res := range resources {
		if res.Type != t {
			continue
		}
		byID[res.ID] = &Node{Resource: res}
	}

	for _, node := range byID {
		parent := node.Resource.ParentID
		if parent == nil {
			continue
		}
		if _, ok := byID[*parent]; !ok {
			return nil, fmt.Errorf("%w: resource %d references parent %d", ErrDanglingParent, node.Resource.ID, *parent)
		}
	}

	// Walk from each node toward the root; the walk is bounded by the node
	// count, so a revisit within one walk proves a cycle.
	for id, node := range byID {
		seen := map[int64]struct{}{id: {}}
		current := node.Resource.ParentID
		for current != nil {
			if _, ok := seen[*current]; ok {
				return nil, fmt.Errorf("%w: resource %d", ErrCycle, id)
			}
			seen[*current] = struct{}{}
			current = byID[*current].Resource.ParentID
		}
	}

	var roots Forest
	for _, node := range byID {
		if node.Resource.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent := byID[*node.Resource.ParentID]
		parent.Children = append(parent.Children, node)
	}

	sortSiblings(roots)
	for _, node := range byID {
		sortSiblings(node.Children)
	}
	return roots, nil
}

// sortSiblings orders nodes by sortOrder ascending, ties broken by id so the
// result is deterministic.
func sortSiblings(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].Resource, nodes[j].Resource
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
}
