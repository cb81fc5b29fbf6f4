package hierarchy

import (
	"path/filepath"
	"strings"
)

// UnlimitedDepth disables the depth budget.
const UnlimitedDepth = -1

// DefaultChunkSize is the read size used when streaming file content
// through the hash.
const DefaultChunkSize = 4096

// Options configures a hierarchy build. All build state is carried here
// explicitly; there is no ambient configuration.
type Options struct {
	Extensions  []string // allow-list, case-insensitive, leading dot optional; empty keeps every file
	MaxDepth    int      // 0 = root files only, N > 0 = N levels below root, -1 = unlimited
	HashWorkers int      // concurrent content hashes per directory; <= 1 hashes inline
	IgnoreFile  string   // name of an optional gitignore-syntax file at the root; "" disables
	ChunkSize   int      // hash read size in bytes; <= 0 uses DefaultChunkSize
}

// DefaultOptions returns the options for a full scan: no extension filter,
// unlimited depth, synchronous hashing.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    UnlimitedDepth,
		HashWorkers: 1,
		ChunkSize:   DefaultChunkSize,
	}
}

// NormalizeExtensions lower-cases each entry and guarantees a leading dot,
// so bare "TXT" becomes ".txt". An empty input returns nil, which keeps
// every file.
func NormalizeExtensions(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// ExtensionKey returns the grouping key for a file name: the lowercase final
// extension including its dot, or "" when the name has none. A leading-dot
// name like ".bashrc" counts as extensionless.
func ExtensionKey(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(ext)
}
