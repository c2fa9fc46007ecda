// File: pkg/archive/tree.go
package archive

import (
	"fmt"
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	return c
}

func (n *treeNode) isDir() bool {
	return len(n.children) > 0
}

// RenderTree draws slash-separated entry names as a directory tree.
// Directories come first, then files, each group sorted case-insensitively.
func RenderTree(names []string) string {
	root := &treeNode{}
	for _, name := range names {
		node := root
		for _, part := range strings.Split(name, "/") {
			if part == "" {
				continue
			}
			node = node.child(part)
		}
	}
	return strings.Join(renderChildren(root, ""), "\n")
}

func renderChildren(node *treeNode, prefix string) []string {
	entries := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		entries = append(entries, c)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir() != entries[j].isDir() {
			return entries[i].isDir()
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})

	var output []string
	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.isDir() {
			output = append(output, fmt.Sprintf("%s%s%s/", prefix, connector, entry.name))
			output = append(output, renderChildren(entry, prefix+extension)...)
		} else {
			output = append(output, fmt.Sprintf("%s%s%s", prefix, connector, entry.name))
		}
	}
	return output
}
