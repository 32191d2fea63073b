// Package folder holds the hierarchical folder tree derived from document
// storage paths.
package folder

// Node is one folder in the tree. DocumentCount counts only documents whose
// folder path equals Path exactly; subtree totals are the caller's sum over
// children.
type Node struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	Children      []*Node `json:"children,omitempty"`
	DocumentCount int     `json:"document_count"`
}

// SubtreeCount sums the node's own count with all descendant counts.
func (n *Node) SubtreeCount() int {
	total := n.DocumentCount
	for _, c := range n.Children {
		total += c.SubtreeCount()
	}
	return total
}
