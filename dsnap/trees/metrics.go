package trees

import "time"

// TreeMetrics aggregates counters gathered while a tree is built. The
// builder owns the struct during the walk; afterwards it is read-only like
// the rest of the tree.
type TreeMetrics struct {
	TotalDirs      int64         `json:"total_dirs"`     // directory nodes recorded, root included
	TotalFiles     int64         `json:"total_files"`    // files kept after filtering
	FilesExcluded  int64         `json:"files_excluded"` // files dropped by extension or ignore rules
	FilesSkipped   int64         `json:"files_skipped"`  // files dropped on access errors
	DirsSkipped    int64         `json:"dirs_skipped"`   // directories dropped on listing errors
	BytesHashed    int64         `json:"bytes_hashed"`
	MaxDepth       int           `json:"max_depth"` // deepest level recorded below the root
	ProcessingTime time.Duration `json:"processing_time"`
}
