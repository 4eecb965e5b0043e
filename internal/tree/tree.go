// Package tree renders a flat list of repository paths as a directory
// tree.
package tree

import (
	"sort"
	"strings"
)

// Node is one entry in the tree. Children are sorted by name, so the
// same path set always renders the same way.
type Node struct {
	Name     string
	Dir      bool
	Children []*Node
}

type buildNode struct {
	dir      bool
	children map[string]*buildNode
}

// Build folds slash-separated paths into a tree rooted at an unnamed
// node. Input order does not matter.
func Build(paths []string) *Node {
	root := &buildNode{dir: true, children: map[string]*buildNode{}}
	for _, p := range paths {
		segments := strings.Split(strings.Trim(p, "/"), "/")
		current := root
		for i, segment := range segments {
			if segment == "" {
				continue
			}
			child, ok := current.children[segment]
			if !ok {
				child = &buildNode{children: map[string]*buildNode{}}
				current.children[segment] = child
			}
			if i < len(segments)-1 {
				child.dir = true
			}
			current = child
		}
	}
	return freeze("", root)
}

func freeze(name string, b *buildNode) *Node {
	node := &Node{Name: name, Dir: b.dir}
	names := make([]string, 0, len(b.children))
	for child := range b.children {
		names = append(names, child)
	}
	sort.Strings(names)
	for _, child := range names {
		node.Children = append(node.Children, freeze(child, b.children[child]))
	}
	return node
}

// Leaves counts the file entries in the subtree.
func (n *Node) Leaves() int {
	if len(n.Children) == 0 {
		if n.Dir {
			return 0
		}
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += child.Leaves()
	}
	return total
}

// Render draws the subtree below n with box-drawing connectors, one
// entry per line.
func (n *Node) Render() string {
	var b strings.Builder
	renderChildren(&b, n.Children, "")
	return b.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string) {
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Name)
		b.WriteString("\n")
		renderChildren(b, child.Children, childPrefix)
	}
}
