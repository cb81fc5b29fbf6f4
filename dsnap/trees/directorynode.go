package trees

import (
	"fmt"
	"sort"
)

// DirectoryNode represents one directory's contents and subtree aggregates.
// Nodes are mutable while the hierarchy builder constructs them and are
// treated as read-only once the build returns.
type DirectoryNode struct {
	// TotalSizeBytes is the sum of this directory's own filtered file sizes
	// plus the TotalSizeBytes of every subdirectory.
	TotalSizeBytes int64 `json:"total_size_bytes"`

	// FileCount counts the files kept after filtering in this directory
	// only, not recursively.
	FileCount int `json:"file_count"`

	// FilesByExtension maps a lowercase dot-prefixed extension ("" for
	// extensionless files) to the file name -> metadata group.
	FilesByExtension map[string]map[string]*FileMetadata `json:"files_by_extension"`

	// Subdirectories maps directory name -> child node.
	Subdirectories map[string]*DirectoryNode `json:"subdirectories"`

	// Duplicates maps a content hash to the lexicographically ordered names
	// of this directory's own files sharing it. Hashes with fewer than two
	// members are never recorded, and the map stays absent when no hash
	// qualifies.
	Duplicates map[string][]string `json:"duplicates,omitempty"`
}

// NewDirectoryNode returns an empty node with initialized group maps so the
// JSON form always carries files_by_extension and subdirectories objects.
func NewDirectoryNode() *DirectoryNode {
	return &DirectoryNode{
		FilesByExtension: make(map[string]map[string]*FileMetadata),
		Subdirectories:   make(map[string]*DirectoryNode),
	}
}

// AddFile places a file under its extension group.
func (n *DirectoryNode) AddFile(ext, name string, meta *FileMetadata) {
	group, ok := n.FilesByExtension[ext]
	if !ok {
		group = make(map[string]*FileMetadata)
		n.FilesByExtension[ext] = group
	}
	group[name] = meta
}

// AddSubdirectory attaches a child node under the given name.
func (n *DirectoryNode) AddSubdirectory(name string, child *DirectoryNode) {
	n.Subdirectories[name] = child
}

// Extensions returns the node's extension group keys in lexicographic order.
func (n *DirectoryNode) Extensions() []string {
	exts := make([]string, 0, len(n.FilesByExtension))
	for ext := range n.FilesByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FileNames returns the names within one extension group in lexicographic order.
func (n *DirectoryNode) FileNames(ext string) []string {
	group := n.FilesByExtension[ext]
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubdirectoryNames returns the child directory names in lexicographic order.
func (n *DirectoryNode) SubdirectoryNames() []string {
	names := make([]string, 0, len(n.Subdirectories))
	for name := range n.Subdirectories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OwnFilesSize sums the sizes of this directory's immediate files.
func (n *DirectoryNode) OwnFilesSize() int64 {
	var total int64
	for _, group := range n.FilesByExtension {
		for _, meta := range group {
			total += meta.SizeBytes
		}
	}
	return total
}

// IsEmpty reports whether the node holds no files and no subdirectories.
func (n *DirectoryNode) IsEmpty() bool {
	return len(n.FilesByExtension) == 0 && len(n.Subdirectories) == 0
}

// Validate checks the subtree invariants: size aggregation, file counts and
// duplicate group membership.
func (n *DirectoryNode) Validate() error {
	fileCount := 0
	for ext, group := range n.FilesByExtension {
		if len(group) == 0 {
			return fmt.Errorf("extension group %q is empty", ext)
		}
		fileCount += len(group)
		for name, meta := range group {
			if err := meta.Validate(); err != nil {
				return fmt.Errorf("file %q: %w", name, err)
			}
		}
	}
	if fileCount != n.FileCount {
		return fmt.Errorf("file_count %d does not match %d grouped files", n.FileCount, fileCount)
	}

	want := n.OwnFilesSize()
	for name, child := range n.Subdirectories {
		if child == nil {
			return fmt.Errorf("subdirectory %q is nil", name)
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("subdirectory %q: %w", name, err)
		}
		want += child.TotalSizeBytes
	}
	if want != n.TotalSizeBytes {
		return fmt.Errorf("total_size_bytes %d does not match aggregate %d", n.TotalSizeBytes, want)
	}

	for hash, names := range n.Duplicates {
		if len(names) < 2 {
			return fmt.Errorf("duplicate hash %q has %d names", hash, len(names))
		}
	}
	return nil
}
