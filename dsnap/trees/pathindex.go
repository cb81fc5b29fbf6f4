package trees

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/armon/go-radix"
)

// PathIndex provides O(k) directory lookups over a finished tree, where k is
// the length of the queried path. Paths are the tree-relative form Walk
// produces (root base name first, segments joined with "/"). The index is
// built once from an immutable tree and is safe for concurrent readers.
type PathIndex struct {
	tree  *radix.Tree
	nodes map[string]*DirectoryNode
}

// BuildPathIndex indexes every directory node of the tree.
func BuildPathIndex(dt *DirectoryTree) *PathIndex {
	idx := &PathIndex{
		tree:  radix.New(),
		nodes: make(map[string]*DirectoryNode),
	}
	dt.Walk(func(dirPath string, node *DirectoryNode) error {
		normalized := normalizePath(dirPath)
		idx.tree.Insert(normalized, node)
		idx.nodes[normalized] = node
		return nil
	})
	return idx
}

// Lookup finds a directory node by its exact tree-relative path.
func (idx *PathIndex) Lookup(path string) (*DirectoryNode, bool) {
	value, found := idx.tree.Get(normalizePath(path))
	if !found {
		return nil, false
	}
	return value.(*DirectoryNode), true
}

// PrefixLookup returns the paths of all directories under the given prefix,
// in lexicographic order, the prefix itself included when indexed.
func (idx *PathIndex) PrefixLookup(prefix string) []string {
	var paths []string
	idx.tree.WalkPrefix(normalizePath(prefix), func(key string, _ interface{}) bool {
		paths = append(paths, key)
		return false
	})
	sort.Strings(paths)
	return paths
}

// WalkPaths executes fn for each indexed path. Returning true stops the walk.
func (idx *PathIndex) WalkPaths(fn func(path string, node *DirectoryNode) bool) {
	idx.tree.Walk(func(key string, value interface{}) bool {
		return fn(key, value.(*DirectoryNode))
	})
}

// Len returns the number of indexed directories.
func (idx *PathIndex) Len() int {
	return idx.tree.Len()
}

// normalizePath keeps index keys consistent: forward slashes, cleaned
// components, no trailing slash.
func normalizePath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = filepath.ToSlash(filepath.Clean(normalized))
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}
