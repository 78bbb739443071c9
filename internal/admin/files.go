package admin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// cacheExclusionPrefix hides internal cache artifacts from the file view.
const cacheExclusionPrefix = ".cache"

// maxSnapshotNodes caps the total walk size; depth alone does not bound
// breadth on adversarial or merely large trees.
const maxSnapshotNodes = 10000

// FileNode is one entry of the /api/files tree.
type FileNode struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Size     *int64     `json:"size,omitempty"`
	Children []FileNode `json:"children,omitempty"`
}

// walkItem is a pending directory in the snapshot worklist. out points at
// the children slice the directory's entries are written into.
type walkItem struct {
	path  string
	depth int
	out   *[]FileNode
}

// Snapshot walks rootPath up to maxDepth levels and returns a serializable
// tree: directories first, then files, lexicographic within each group.
// Unreadable branches become empty subtrees; the walk itself never fails.
// The walk is iterative so stack depth stays bounded regardless of maxDepth,
// and the depth budget is checked before any directory is listed.
func Snapshot(rootPath string, maxDepth int) []FileNode {
	result := []FileNode{}
	if maxDepth <= 0 {
		return result
	}
	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		return result
	}

	nodeCount := 0
	stack := []walkItem{{path: rootPath, depth: maxDepth, out: &result}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth <= 0 || nodeCount >= maxSnapshotNodes {
			continue
		}

		nodes := listDir(item.path)
		nodeCount += len(nodes)
		*item.out = nodes

		for i := range nodes {
			if nodes[i].Type != "dir" {
				continue
			}
			stack = append(stack, walkItem{
				path:  filepath.Join(item.path, nodes[i].Name),
				depth: item.depth - 1,
				out:   &nodes[i].Children,
			})
		}
	}
	if result == nil {
		result = []FileNode{}
	}
	return result
}

// listDir reads one directory level into sorted FileNodes. Permission
// errors yield an empty slice so one inaccessible branch cannot fail the
// whole snapshot.
func listDir(dir string) []FileNode {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	nodes := make([]FileNode, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, cacheExclusionPrefix) {
			continue
		}

		// Stat follows symlinks, matching how the tree is presented to
		// the operator; loops are bounded by the depth budget.
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			var size int64
			if err == nil {
				size = info.Size()
			}
			nodes = append(nodes, FileNode{Name: name, Type: "file", Size: &size})
			continue
		}
		nodes = append(nodes, FileNode{Name: name, Type: "dir"})
	}

	// ReadDir returns names in lexical order; keep that within each group
	// and float directories to the front.
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Type == "dir" && nodes[j].Type != "dir"
	})
	return nodes
}
