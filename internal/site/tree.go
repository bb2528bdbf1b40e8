package site

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// FileTree represents a node in a project's file tree.
type FileTree struct {
	Name     string
	Path     string // For files: full relative path. For dirs: directory path.
	Kind     project.FileKind
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from project files.
func BuildTree(files []project.File) *FileTree {
	root := &FileTree{Name: ".", IsDir: true}

	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *FileTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir == !isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &FileTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = f.Path
					next.Kind = f.Kind
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return root
}

// sortTree recursively sorts children: directories first, then files, alphabetically.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// Write prints the tree with box-drawing branches, one entry per line.
// Files are annotated with their kind.
func (t *FileTree) Write(w io.Writer) {
	fmt.Fprintln(w, t.Name)
	t.writeChildren(w, "")
}

func (t *FileTree) writeChildren(w io.Writer, prefix string) {
	for i, child := range t.Children {
		branch, indent := "├── ", "│   "
		if i == len(t.Children)-1 {
			branch, indent = "└── ", "    "
		}
		if child.IsDir {
			fmt.Fprintf(w, "%s%s%s/\n", prefix, branch, child.Name)
			child.writeChildren(w, prefix+indent)
			continue
		}
		fmt.Fprintf(w, "%s%s%s (%s)\n", prefix, branch, child.Name, child.Kind)
	}
}
