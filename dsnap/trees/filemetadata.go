package trees

import "fmt"

// FileMetadata holds the per-file record produced by the metadata extractor.
// It is created once per file visit and never mutated afterwards.
type FileMetadata struct {
	SizeBytes   int64       `json:"size_bytes"`
	ModifiedAt  int64       `json:"modified_at"` // unix seconds
	CreatedAt   int64       `json:"created_at"`  // unix seconds; ctime or mtime fallback, see extractor
	Permissions Permissions `json:"permissions"`
	ContentType string      `json:"content_type"`
	ContentHash string      `json:"content_hash"` // lowercase hex sha256
}

// Permissions captures the permission bits and effective access of a file.
type Permissions struct {
	Mode       string `json:"mode"` // octal permission bits, e.g. "0644"
	Readable   bool   `json:"readable"`
	Writable   bool   `json:"writable"`
	Executable bool   `json:"executable"`
}

// Validate checks the record for states the extractor can never legally produce.
func (m *FileMetadata) Validate() error {
	if m.SizeBytes < 0 {
		return fmt.Errorf("size cannot be negative")
	}
	if m.ContentHash == "" {
		return fmt.Errorf("content hash cannot be empty")
	}
	if m.ContentType == "" {
		return fmt.Errorf("content type cannot be empty")
	}
	return nil
}
