package index

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/domain/folder"
)

// BuildTree constructs the folder tree from the full document collection.
// Every prefix of every document's folder path gets a node, including
// synthetic count-0 intermediates. A node's DocumentCount covers only
// documents whose folder path equals the node's path exactly.
func BuildTree(docs []document.Document) []*folder.Node {
	counts := make(map[string]int)
	for i := range docs {
		if f := docs[i].Folder(); f != "" {
			counts[f]++
		}
	}

	nodes := make(map[string]*folder.Node)
	var roots []*folder.Node

	for i := range docs {
		f := docs[i].Folder()
		if f == "" {
			continue
		}
		segments := strings.Split(f, "/")
		for depth := 1; depth <= len(segments); depth++ {
			path := strings.Join(segments[:depth], "/")
			if _, ok := nodes[path]; ok {
				continue
			}
			node := &folder.Node{
				Name:          segments[depth-1],
				Path:          path,
				DocumentCount: counts[path],
			}
			nodes[path] = node
			if depth == 1 {
				roots = append(roots, node)
			} else {
				parent := nodes[strings.Join(segments[:depth-1], "/")]
				parent.Children = append(parent.Children, node)
			}
		}
	}

	// Collators are not safe for concurrent use, so build one per call.
	c := collate.New(language.English, collate.Numeric)
	sortNodes(c, roots)
	return roots
}

// sortNodes orders siblings by name with locale-aware, numeric-aware
// comparison, recursing into children.
func sortNodes(c *collate.Collator, nodes []*folder.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return c.CompareString(nodes[i].Name, nodes[j].Name) < 0
	})
	for _, n := range nodes {
		sortNodes(c, n.Children)
	}
}
