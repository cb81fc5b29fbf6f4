package trees

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"
)

// DirectoryTree is the value a hierarchy build returns: the root node plus
// the context downstream consumers need (the original root path for report
// titles, the base name the JSON envelope is keyed by, and build metrics).
// A tree belongs exclusively to its caller and is never mutated after the
// build returns.
type DirectoryTree struct {
	RootPath string         // absolute path of the scanned root
	RootName string         // base name of the root, the top-level JSON key
	TakenAt  time.Time      // wall-clock time the snapshot started
	Root     *DirectoryNode // aggregate tree, see DirectoryNode
	Metrics  TreeMetrics

	pathIndex *PathIndex
	logger    *slog.Logger
}

// TreeOption customizes a DirectoryTree at construction time.
type TreeOption func(*DirectoryTree)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) TreeOption {
	return func(dt *DirectoryTree) {
		dt.logger = logger
	}
}

// WithTakenAt pins the snapshot time, mainly for tests.
func WithTakenAt(t time.Time) TreeOption {
	return func(dt *DirectoryTree) {
		dt.TakenAt = t
	}
}

// NewDirectoryTree creates an empty tree for the given root path.
func NewDirectoryTree(rootPath string, opts ...TreeOption) *DirectoryTree {
	dt := &DirectoryTree{
		RootPath: rootPath,
		RootName: filepath.Base(rootPath),
		TakenAt:  time.Now(),
		Root:     NewDirectoryNode(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(dt)
	}

	return dt
}

// Walk visits every directory node depth-first in lexicographic order,
// starting at the root. The path handed to fn joins ancestor names with "/"
// and begins with the root's base name. Returning an error stops the walk.
func (dt *DirectoryTree) Walk(fn func(dirPath string, node *DirectoryNode) error) error {
	return walkNode(dt.RootName, dt.Root, fn)
}

func walkNode(dirPath string, node *DirectoryNode, fn func(string, *DirectoryNode) error) error {
	if err := fn(dirPath, node); err != nil {
		return err
	}
	for _, name := range node.SubdirectoryNames() {
		if err := walkNode(path.Join(dirPath, name), node.Subdirectories[name], fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkFiles visits every included file depth-first, directories in
// lexicographic order and files in lexicographic extension/name order
// within each directory.
func (dt *DirectoryTree) WalkFiles(fn func(dirPath, name, ext string, meta *FileMetadata) error) error {
	return dt.Walk(func(dirPath string, node *DirectoryNode) error {
		for _, ext := range node.Extensions() {
			group := node.FilesByExtension[ext]
			for _, name := range node.FileNames(ext) {
				if err := fn(dirPath, name, ext, group[name]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// FileCount returns the number of files recorded anywhere in the tree.
func (dt *DirectoryTree) FileCount() int {
	count := 0
	dt.Walk(func(_ string, node *DirectoryNode) error {
		count += node.FileCount
		return nil
	})
	return count
}

// DirCount returns the number of directory nodes below the root. The root
// itself is not counted, matching the summary analyzer's convention.
func (dt *DirectoryTree) DirCount() int {
	count := -1
	dt.Walk(func(_ string, _ *DirectoryNode) error {
		count++
		return nil
	})
	return count
}

// PathIndex returns the radix index over this tree's directory paths,
// building it on first use. The index shares the tree's read-only lifecycle.
func (dt *DirectoryTree) PathIndex() *PathIndex {
	if dt.pathIndex == nil {
		dt.pathIndex = BuildPathIndex(dt)
		dt.logger.Debug("path index built",
			"root", dt.RootPath,
			"paths", dt.pathIndex.Len())
	}
	return dt.pathIndex
}

// MarshalJSON renders the envelope downstream exporters consume: the tree
// keyed by the root directory's base name.
func (dt *DirectoryTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*DirectoryNode{dt.RootName: dt.Root})
}

// UnmarshalJSON restores a tree from its envelope form. Only RootName and
// Root are carried by the envelope; callers that persisted the tree keep
// RootPath and TakenAt beside the state and set them after decoding.
func (dt *DirectoryTree) UnmarshalJSON(data []byte) error {
	var envelope map[string]*DirectoryNode
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope) != 1 {
		return fmt.Errorf("tree state must have exactly one root key, got %d", len(envelope))
	}
	for name, root := range envelope {
		dt.RootName = name
		dt.Root = root
	}
	if dt.logger == nil {
		dt.logger = slog.Default()
	}
	return nil
}

// Validate checks the aggregation invariants over the whole tree.
func (dt *DirectoryTree) Validate() error {
	return dt.Root.Validate()
}
