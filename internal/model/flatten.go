package model

// Node is an intermediate tree built during a capture pass before it is
// flattened to leaves.
type Node struct {
	Element  SnapshotElement
	Children []Node
}

// LeafElements flattens a forest of nodes to its leaves in depth-first order.
// A node is a leaf when none of its children survived the walk.
func LeafElements(nodes []Node) []SnapshotElement {
	var result []SnapshotElement
	for _, n := range nodes {
		collectLeaves(n, &result)
	}
	return result
}

func collectLeaves(n Node, result *[]SnapshotElement) {
	if len(n.Children) == 0 {
		*result = append(*result, n.Element)
		return
	}
	for _, child := range n.Children {
		collectLeaves(child, result)
	}
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + CountNodes(n.Children)
	}
	return total
}
